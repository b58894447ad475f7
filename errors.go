package lifetime

import "errors"

// The eight error kinds spec §7 requires the analysis to distinguish.
// Each is a sentinel wrapped with fmt.Errorf("...: %w", ErrX) at the call
// site that detects it, following the teacher's errors.New-plus-%w-wrap
// idiom rather than a bespoke error type hierarchy.
var (
	// ErrReturnsLocal is returned when a function's inferred or
	// annotated signature lets a Local lifetime reach the return value
	// or an output parameter (DiagnoseReturnLocal in signature.go).
	ErrReturnsLocal = errors.New("lifetime: function returns a reference to a local")

	// ErrStaticReachesLocal is returned when the static-reachability
	// closure finds that an object with `static` lifetime may point to
	// an object with `Local` lifetime: a Local would have to outlive
	// forever, which is a contradiction rather than a normal constraint
	// failure.
	ErrStaticReachesLocal = errors.New("lifetime: object with static lifetime may point to a local")

	// ErrUnsatisfiableConstraints is returned when the constraint set's
	// closure proves two lifetimes must simultaneously outlive each
	// other in a way no assignment of concrete lifetimes can satisfy.
	ErrUnsatisfiableConstraints = errors.New("lifetime: unsatisfiable outlives constraints")

	// ErrRecursionDidNotConverge is returned when driver.go's
	// analyzeCycleToFixedPoint runs out of iterations before the isomorphism check finds a fixed
	// point for a mutually-recursive call-graph cycle (spec §4.8).
	ErrRecursionDidNotConverge = errors.New("lifetime: recursive function group did not converge")

	// ErrMissingExternalAnnotation is returned when a declaration-only
	// function has no body and no entry in ExternalAnnotations.
	ErrMissingExternalAnnotation = errors.New("lifetime: no definition or external annotation for function")

	// ErrUnsupportedConstruct is returned by a transfer rule that
	// encounters an Element or Expr outside the closed vocabulary this
	// package defines; it signals a frontend bug, not a lifetime error
	// in the analyzed program.
	ErrUnsupportedConstruct = errors.New("lifetime: unsupported CFG construct")

	// ErrPureVirtualCalled flags an attempt to analyze the body of a
	// pure virtual method, which has none; callers should treat such a
	// method as contributing only its overrides, per spec §4.8.
	ErrPureVirtualCalled = errors.New("lifetime: cannot analyze body of a pure virtual function")

	// ErrOverrideArityMismatch is returned when a virtual override's
	// parameter count does not match its base method's, so override
	// widening (driver.go) cannot establish a positional correspondence
	// between their lifetime variables.
	ErrOverrideArityMismatch = errors.New("lifetime: override's parameter count does not match its base method")
)
