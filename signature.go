package lifetime

import (
	"fmt"

	islices "github.com/gocxxlifetime/lifetime/internal/slices"
)

// ConstructFunctionLifetimes builds the initial, fully-fresh
// FunctionLifetimes skeleton for fn: a distinct Lifetime variable for
// every pointer/reference layer and every record lifetime parameter
// reachable from `this`, the parameters, and the return type (spec §4.1,
// §9). The driver uses it wherever a signature is needed without walking
// a body: a provisional estimate for a function already on the call
// stack, the fallback after a failed analysis, a pure virtual method, and
// a defaulted default constructor. AnalyzeFunctionBody does not start
// from it; it reads its signature back from the repository's objects
// (analyzer.go).
func ConstructFunctionLifetimes(fn FunctionDecl) FunctionLifetimes {
	fl := FunctionLifetimes{}
	if fn.IsMethod() {
		this := freshObjectLifetimes(fn.ThisType())
		fl.This = &this
	}
	fl.Params = islices.Map(fn.ParamTypes(), freshObjectLifetimes)
	if fn.HasReturnType() {
		fl.HasReturn = true
		fl.Return = freshObjectLifetimes(fn.ReturnType())
	}
	return fl
}

// freshObjectLifetimes builds the ObjectLifetimes tree matching t's
// shape, minting a new Lifetime variable at every layer.
func freshObjectLifetimes(t Type) ObjectLifetimes {
	switch t.Kind() {
	case KindPointer, KindReference:
		pointee := freshObjectLifetimes(t.Pointee())
		return NewReferenceLifetimes(t, NewVariable(), pointee)
	case KindRecord:
		rec := t.Record()
		if rec == nil || len(rec.LifetimeParams) == 0 {
			return NewValueLifetimes(t)
		}
		params := make([]RecordParamLifetime, len(rec.LifetimeParams))
		for i, name := range rec.LifetimeParams {
			params[i] = RecordParamLifetime{Param: name, Lifetime: NewVariable()}
		}
		return NewRecordLifetimes(t, params)
	default:
		return NewValueLifetimes(t)
	}
}

// DiagnoseReturnLocal reports an error if a Local lifetime escapes fn
// through any of its three possible exits: the return value itself, an
// output parameter, or `this` - checked independently of one another, since
// a void function (or one whose return slot itself is unaffected) can
// still leak a local purely through an out-parameter or through `this`
// (spec §4.7). A local's storage does not outlive the call, so any of
// these is always a bug rather than a normal constraint failure; message
// text mirrors the three distinct phrasings the original analysis
// produces for a parameter, `this`, and a plain local.
func DiagnoseReturnLocal(fn FunctionDecl, fl FunctionLifetimes) error {
	isLocal := func(l Lifetime) bool { return l.IsLocal() }

	if fl.HasReturn && fl.Return.HasAny(isLocal) {
		return fmt.Errorf("function returns reference to a local: %w", ErrReturnsLocal)
	}
	if param, ok := returnedThroughParam(fn, fl); ok {
		return fmt.Errorf("function returns reference to a local through parameter '%s': %w", param, ErrReturnsLocal)
	}
	if fl.This != nil && fl.This.HasAny(isLocal) {
		return fmt.Errorf("function returns reference to a local through 'this': %w", ErrReturnsLocal)
	}
	return nil
}

// returnedThroughParam reports the name of the first parameter whose
// lifetime tree contains a Local lifetime, if any. Parameter names are
// not tracked on FunctionLifetimes itself, so the name is synthesized
// from the position (arg0, arg1, ...) and fn is not consulted; frontends that
// want real names should format their own diagnostic instead of relying
// on this helper's placeholder.
func returnedThroughParam(fn FunctionDecl, fl FunctionLifetimes) (string, bool) {
	for i := range fl.Params {
		if fl.Params[i].HasAny(func(l Lifetime) bool { return l.IsLocal() }) {
			return fmt.Sprintf("arg%d", i), true
		}
	}
	return "", false
}
