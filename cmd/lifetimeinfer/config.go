package main

import "github.com/BurntSushi/toml"

// config holds driver knobs that are meaningful ambient configuration but
// not part of the core analysis API: whether every declaration counts as
// an analysis root even if nothing in the demo translation unit calls it,
// and whether diagnostics print in color.
type config struct {
	AnalyzeAllDefinitions bool `toml:"analyze_all_definitions"`
	Color                 bool `toml:"color"`
}

func defaultConfig() config {
	return config{AnalyzeAllDefinitions: true, Color: true}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
