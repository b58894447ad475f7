// Command lifetimeinfer drives the lifetime analysis over a small set of
// built-in demo functions (there being no C-family parser in this
// module) and prints each one's inferred signature, optionally warming
// or reusing a msgpack cache of previous results.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gocxxlifetime/lifetime"
	"github.com/gocxxlifetime/lifetime/internal/demo"
	"github.com/gocxxlifetime/lifetime/persist"
)

type options struct {
	cachePath  string
	warmCache  bool
	configPath string
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "lifetimeinfer",
		Short: "Infer C-family reference/pointer lifetimes for a small demo translation unit",
	}
	root.PersistentFlags().StringVar(&opts.cachePath, "cache", "", "path to a msgpack cache of previously analyzed function signatures")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file of driver knobs")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the demo translation unit and print each function's inferred signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts)
		},
	}
	analyzeCmd.Flags().BoolVar(&opts.warmCache, "warm-cache", false, "write freshly analyzed signatures back to --cache")

	dumpCacheCmd := &cobra.Command{
		Use:   "dump-cache",
		Short: "Print every entry in the --cache file without running analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDumpCache(opts)
		},
	}

	root.AddCommand(analyzeCmd, dumpCacheCmd)
	root.RunE = analyzeCmd.RunE

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAnalyze(opts *options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	color.NoColor = !cfg.Color

	var annotations lifetime.ExternalAnnotations
	var cache *persist.Cache

	if opts.cachePath != "" {
		if loaded, loadErr := persist.LoadCache(opts.cachePath); loadErr == nil {
			cache = loaded
		} else {
			cache = persist.NewCache()
		}
		annotations = cache.AsAnnotations()
	}

	sink := &lifetime.CollectingSink{}
	driver := lifetime.NewDriver(annotations, sink, nil)

	fns := demo.TranslationUnit()
	if !cfg.AnalyzeAllDefinitions && len(fns) > 0 {
		// Only the first declaration counts as a root; everything else is
		// analyzed only if something reachable from it calls it.
		fns = fns[:1]
	}
	driver.AnalyzeTranslationUnit(fns)

	for _, fn := range fns {
		fl, ok := driver.Lifetimes(fn)
		if !ok {
			continue
		}
		fmt.Printf("%s: %s\n", color.CyanString(fn.Name()), fl.String())
		if cache != nil && opts.warmCache {
			cache.Put(fn.Name(), fl)
		}
	}

	for _, d := range sink.Diagnostics {
		var render func(format string, a ...interface{}) string
		switch d.Severity {
		case lifetime.SeverityError:
			render = color.RedString
		case lifetime.SeverityWarning:
			render = color.YellowString
		default:
			render = color.WhiteString
		}
		fmt.Fprintln(os.Stderr, render("%s: %s: %s", d.Severity, d.Function, d.Message))
	}

	if cache != nil && opts.warmCache {
		if err := cache.Save(opts.cachePath); err != nil {
			return fmt.Errorf("saving cache: %w", err)
		}
	}

	return nil
}

func runDumpCache(opts *options) error {
	if opts.cachePath == "" {
		return fmt.Errorf("dump-cache: --cache is required")
	}
	cache, err := persist.LoadCache(opts.cachePath)
	if err != nil {
		return fmt.Errorf("loading cache: %w", err)
	}
	for _, name := range cache.Names() {
		fl, _ := cache.Lookup(name)
		fmt.Printf("%s: %s\n", color.CyanString(name), fl.String())
	}
	return nil
}
