package lifetime

import (
	"fmt"

	"github.com/gocxxlifetime/lifetime/internal/maps"
)

// Driver orchestrates AnalyzeFunction across an entire translation unit:
// it walks the call graph depth-first, caches every function's resolved
// FunctionLifetimes, detects and resolves mutually-recursive cycles by
// iterating them to a fixed point, and widens a virtual method's
// signature with whatever its overrides additionally require (spec
// §4.8). It implements CalleeLifetimes itself, so transfer.go's Call rule
// can ask it directly for whatever it has resolved so far.
type Driver struct {
	annotations ExternalAnnotations
	sink        DiagnosticSink

	lookupDefaultCtor func(Type) (FunctionDecl, bool)

	analyzed            map[FunctionDecl]FunctionLifetimes
	analyzedConstraints map[FunctionDecl]*LifetimeConstraintSet
	stack               []FunctionDecl
	stackIdx            map[FunctionDecl]int
	inCycle             map[FunctionDecl]bool
}

// NewDriver builds a Driver. lookupDefaultCtor resolves a record type to
// its default constructor's FunctionDecl, used when a defaulted default
// constructor needs to enumerate its base/field callees; pass nil if the
// translation unit has no such types.
func NewDriver(annotations ExternalAnnotations, sink DiagnosticSink, lookupDefaultCtor func(Type) (FunctionDecl, bool)) *Driver {
	if annotations == nil {
		annotations = NoExternalAnnotations{}
	}
	if sink == nil {
		sink = &CollectingSink{}
	}
	return &Driver{
		annotations:         annotations,
		sink:                sink,
		lookupDefaultCtor:   lookupDefaultCtor,
		analyzed:            make(map[FunctionDecl]FunctionLifetimes),
		analyzedConstraints: make(map[FunctionDecl]*LifetimeConstraintSet),
		stackIdx:            make(map[FunctionDecl]int),
		inCycle:             make(map[FunctionDecl]bool),
	}
}

// Lifetimes implements CalleeLifetimes against whatever this Driver has
// resolved so far.
func (d *Driver) Lifetimes(fn FunctionDecl) (FunctionLifetimes, bool) {
	fl, ok := d.analyzed[fn]
	return fl, ok
}

// Constraints implements CalleeLifetimes, handing a Call transfer rule the
// outlives facts accumulated while fn was analyzed, so they can be
// rewritten in terms of the caller's objects via ForCallableSubstitution.
func (d *Driver) Constraints(fn FunctionDecl) (*LifetimeConstraintSet, bool) {
	cs, ok := d.analyzedConstraints[fn]
	return cs, ok
}

// AnalyzeTranslationUnit analyzes every function fns names (and,
// transitively, every function they call or override), reporting errors
// to the Driver's DiagnosticSink rather than aborting: one function's
// failure does not block analyzing the rest of the translation unit.
func (d *Driver) AnalyzeTranslationUnit(fns []FunctionDecl) {
	for _, fn := range fns {
		// AnalyzeFunction already reports its own failure to the sink;
		// its returned error exists for direct single-function callers.
		d.AnalyzeFunction(fn)
	}
}

// AnalyzeFunction returns fn's resolved FunctionLifetimes, analyzing it
// (and recursively, its callees and the base methods it overrides) if it
// has not been analyzed yet. It mirrors the original analysis's
// canonicalize/cycle-detect/recurse/widen structure (spec §4.8): a
// function already on the current call stack yields a provisional
// estimate instead of recursing forever, and the shallowest member of
// the resulting cycle re-analyzes the whole group to a fixed point once
// every member has an initial estimate. On failure it both reports a
// Diagnostic to the sink and returns the error, falling back to a fresh
// skeleton signature so callers depending on fn still get something
// shaped correctly; a cached function (this call or a prior one) never
// re-reports, so only the first caller to hit a given failure observes
// the returned error.
func (d *Driver) AnalyzeFunction(fn FunctionDecl) (FunctionLifetimes, error) {
	if fl, ok := d.analyzed[fn]; ok {
		return fl, nil
	}
	if idx, onStack := d.stackIdx[fn]; onStack {
		for _, member := range d.stack[idx:] {
			d.inCycle[member] = true
		}
		return ConstructFunctionLifetimes(fn), nil
	}

	d.stackIdx[fn] = len(d.stack)
	d.stack = append(d.stack, fn)
	defer func() {
		delete(d.stackIdx, fn)
		d.stack = d.stack[:len(d.stack)-1]
	}()

	fl, cs, err := d.analyzeOnce(fn)
	if err != nil {
		d.sink.Report(Diagnostic{Function: fn.Name(), Severity: SeverityError, Message: err.Error()})
		fl = ConstructFunctionLifetimes(fn)
		cs = NewLifetimeConstraintSet()
	}
	d.analyzed[fn] = fl
	d.analyzedConstraints[fn] = cs

	if d.inCycle[fn] {
		members := d.collectCycleMembers(fn)
		if cycleErr := d.analyzeCycleToFixedPoint(members); cycleErr != nil {
			d.sink.Report(Diagnostic{Function: fn.Name(), Severity: SeverityError, Message: cycleErr.Error()})
		}
		fl = d.analyzed[fn]
	}

	d.widenBaseOverrides(fn)
	return fl, err
}

// analyzeOnce resolves fn's signature without regard to recursion: a
// function the frontend already annotated keeps that signature, a
// pure virtual method gets an empty signature, a declaration-only
// function falls back to ExternalAnnotations or defaulted-member
// synthesis, and anything else recurses into its callees first so they
// have an answer cached before the Call transfer rule needs one. The
// returned constraint set is whatever outlives facts were actually proved
// while resolving fl; a signature resolved without walking a body (an
// annotation, a pure virtual's empty skeleton, a defaulted synthesis) has
// none beyond what fl's own shape already encodes.
func (d *Driver) analyzeOnce(fn FunctionDecl) (FunctionLifetimes, *LifetimeConstraintSet, error) {
	if fl, ok := fn.Annotated(); ok {
		return fl, NewLifetimeConstraintSet(), nil
	}
	if fn.IsPureVirtual() {
		return ConstructFunctionLifetimes(fn), NewLifetimeConstraintSet(), nil
	}

	if !fn.HasBody() {
		if fl, ok := d.annotations.Lookup(fn); ok {
			return fl, NewLifetimeConstraintSet(), nil
		}
		if fl, ok := AnalyzeDefaultedFunction(fn); ok {
			if d.lookupDefaultCtor != nil {
				for _, callee := range GetDefaultedFunctionCallees(fn, d.lookupDefaultCtor) {
					d.AnalyzeFunction(callee)
				}
			}
			return fl, NewLifetimeConstraintSet(), nil
		}
		return FunctionLifetimes{}, nil, fmt.Errorf("lifetime: %q: %w", fn.Name(), ErrMissingExternalAnnotation)
	}

	for _, callee := range GetCallees(fn) {
		d.AnalyzeFunction(callee)
	}
	for _, base := range fn.Overrides() {
		d.AnalyzeFunction(base)
	}

	return AnalyzeFunctionBody(fn, d)
}

// collectCycleMembers returns every function still marked inCycle whose
// stack frame would have included entry - in practice, since cycles are
// only ever discovered while entry's own frame is innermost-active, this
// is every function seen so far with inCycle set that AnalyzeFunction has
// already finished once.
func (d *Driver) collectCycleMembers(entry FunctionDecl) []FunctionDecl {
	var members []FunctionDecl
	for _, fn := range maps.Keys(d.inCycle) {
		if _, analyzed := d.analyzed[fn]; analyzed {
			members = append(members, fn)
		}
	}
	if len(members) == 0 {
		members = []FunctionDecl{entry}
	}
	return members
}

// analyzeCycleToFixedPoint re-analyzes members repeatedly, each round
// using every member's latest cached signature as the answer Call
// transfer rules see, until two consecutive rounds produce isomorphic
// signatures for every member. The bound on rounds is one more than the
// largest number of parameters among the group's members, matching the
// convergence bound the original analysis uses (spec §4.8): a
// monotonically-growing set of outlives facts over a bounded number of
// lifetime variables per function can only strictly change that many
// times before it must repeat.
func (d *Driver) analyzeCycleToFixedPoint(members []FunctionDecl) error {
	bound := 1
	for _, m := range members {
		if n := len(m.ParamTypes()) + 1; n > bound {
			bound = n
		}
	}

	for round := 0; round < bound; round++ {
		stable := true
		for _, m := range members {
			if !m.HasBody() {
				continue
			}
			prev := d.analyzed[m]
			next, nextCS, err := AnalyzeFunctionBody(m, d)
			if err != nil {
				return err
			}
			d.analyzed[m] = next
			d.analyzedConstraints[m] = nextCS
			if !IsIsomorphic(prev, next) {
				stable = false
			}
		}
		if stable {
			return nil
		}
	}
	return ErrRecursionDidNotConverge
}

// widenBaseOverrides folds fn's resolved outlives facts into the cached
// signature of every base method fn directly overrides: a virtual call
// through a base's vtable slot must be safe no matter which override
// actually runs, so a base's effective signature has to be widened by
// whatever each of its overrides additionally requires, not the other way
// around (spec §4.8, glossary entry for "Override widening"). fn itself is
// left untouched; only entries already present in d.analyzed for fn's
// bases are updated.
func (d *Driver) widenBaseOverrides(fn FunctionDecl) {
	bases := fn.Overrides()
	if len(bases) == 0 {
		return
	}
	overrideFL, ok := d.analyzed[fn]
	if !ok {
		return
	}
	overrideCS := d.analyzedConstraints[fn]
	if overrideCS == nil {
		overrideCS = NewLifetimeConstraintSet()
	}

	for _, base := range bases {
		baseFL, ok := d.analyzed[base]
		if !ok {
			continue
		}
		widened, widenedCS, err := widenSignature(baseFL, d.analyzedConstraints[base], overrideFL, overrideCS)
		if err != nil {
			d.sink.Report(Diagnostic{Function: base.Name(), Severity: SeverityError, Message: err.Error()})
			continue
		}
		d.analyzed[base] = widened
		d.analyzedConstraints[base] = widenedCS
	}
}

// widenSignature promotes any of base's lifetimes that must be `static`
// for the base signature to remain a valid contract through any of its
// overrides - the one direction of widening that is always sound
// regardless of how the two signatures' lifetime variables were
// independently numbered, since a caller going through the base vtable
// entry has to satisfy every possible override (spec §4.3, §4.8). Two
// sources feed that promotion: a position where the override's own
// signature already requires `static` outright (the literal, always-sound
// case - e.g. an override that always returns the address of a global),
// and a position the *merged* constraint closure proves must equal
// `static` once the override's constraints are rewritten into the base's
// lifetime-variable space via ForCallableSubstitution, matched up
// positionally (this, then parameters, then the return value, the order
// FunctionLifetimes.ForEachLifetime walks).
func widenSignature(baseFL FunctionLifetimes, baseCS *LifetimeConstraintSet, overrideFL FunctionLifetimes, overrideCS *LifetimeConstraintSet) (FunctionLifetimes, *LifetimeConstraintSet, error) {
	if len(baseFL.Params) != len(overrideFL.Params) {
		return FunctionLifetimes{}, nil, fmt.Errorf("lifetime: override has %d parameter(s), base has %d: %w", len(overrideFL.Params), len(baseFL.Params), ErrOverrideArityMismatch)
	}
	if baseCS == nil {
		baseCS = NewLifetimeConstraintSet()
	}

	subst := map[Lifetime]Lifetime{}
	mustBeStatic := map[Lifetime]bool{}
	overrideLs, baseLs := overrideFL.collectAll(), baseFL.collectAll()
	for i := 0; i < len(overrideLs) && i < len(baseLs); i++ {
		switch {
		case overrideLs[i].IsStatic():
			mustBeStatic[baseLs[i]] = true
		case overrideLs[i].IsVariable():
			subst[overrideLs[i]] = baseLs[i]
		}
	}

	merged := NewLifetimeConstraintSet()
	merged.Merge(baseCS)
	merged.Merge(overrideCS.ForCallableSubstitution(subst))

	for _, l := range merged.ApplyTo(baseFL) {
		mustBeStatic[l] = true
	}
	if len(mustBeStatic) == 0 {
		return baseFL, merged, nil
	}
	widened := baseFL.Substitute(func(l Lifetime) Lifetime {
		if mustBeStatic[l] {
			return Static()
		}
		return l
	})
	return widened, merged, nil
}
