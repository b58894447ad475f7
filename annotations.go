package lifetime

// ExternalAnnotations is the collaborator consulted for a function that
// has no body to analyze: a declaration-only function, a function from a
// header with no available definition, or an override whose base class
// lives outside the translation unit (spec §6). The driver (driver.go)
// consults this only when FunctionDecl.HasBody is false, before it tries
// defaulted-member synthesis.
type ExternalAnnotations interface {
	Lookup(fn FunctionDecl) (FunctionLifetimes, bool)
}

// NoExternalAnnotations is an ExternalAnnotations that never has an
// answer, for frontends and tests with no annotation database.
type NoExternalAnnotations struct{}

func (NoExternalAnnotations) Lookup(FunctionDecl) (FunctionLifetimes, bool) {
	return FunctionLifetimes{}, false
}

// MapAnnotations is a simple ExternalAnnotations backed by function name.
type MapAnnotations map[string]FunctionLifetimes

func (m MapAnnotations) Lookup(fn FunctionDecl) (FunctionLifetimes, bool) {
	fl, ok := m[fn.Name()]
	return fl, ok
}
