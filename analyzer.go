package lifetime

import (
	"fmt"

	"github.com/gocxxlifetime/lifetime/internal/queue"
)

// AnalyzeFunctionBody runs the monotone dataflow analysis over fn's CFG
// to a fixed point, folds in its member initializer list (if any) once
// the body has converged, closes the result under static-reachability,
// and extracts the resulting FunctionLifetimes (spec §4.6), alongside the
// constraint set that was actually proved while doing so (consumed by
// driver.go's Call-site substitution and override widening). callees
// resolves any other function a Call element invokes; pass nil when none
// are known yet, and the Call transfer rule then applies only its
// conservative argument-aliasing step.
func AnalyzeFunctionBody(fn FunctionDecl, callees CalleeLifetimes) (FunctionLifetimes, *LifetimeConstraintSet, error) {
	if fn.IsPureVirtual() {
		return FunctionLifetimes{}, nil, fmt.Errorf("lifetime: %q: %w", fn.Name(), ErrPureVirtualCalled)
	}
	if !fn.HasBody() {
		return FunctionLifetimes{}, nil, fmt.Errorf("lifetime: AnalyzeFunctionBody called on %q with no body: %w", fn.Name(), ErrUnsupportedConstruct)
	}

	repo := NewObjectRepository(fn)
	ts := newTransferState(repo, callees)

	final, err := runWorklist(fn.CFG(), ts, repo.InitialPointsToMap())
	if err != nil {
		return FunctionLifetimes{}, nil, err
	}
	if final.IsError() {
		return FunctionLifetimes{}, nil, fmt.Errorf("lifetime: %s", final.Message())
	}

	points := final.Points()
	constraints := final.Constraints()

	if ctor, ok := fn.(ConstructorDecl); ok {
		for _, init := range ctor.Initializers() {
			el := FieldInit{FieldName: init.FieldName, BaseType: init.BaseType, Init: init.Init}
			if err := ts.transferElement(el, points, constraints); err != nil {
				return FunctionLifetimes{}, nil, err
			}
		}
	}

	if err := closeStaticReachability(points, constraints); err != nil {
		return FunctionLifetimes{}, nil, err
	}

	// A Local lifetime forced to outlive Static is never satisfiable: a
	// stack object's storage cannot last the entire program, so no
	// concrete assignment of lifetimes can make this closure consistent.
	if constraints.Outlives(LocalLifetime(), Static()) {
		return FunctionLifetimes{}, nil, fmt.Errorf("lifetime: %q: %w", fn.Name(), ErrUnsatisfiableConstraints)
	}

	fl := extractFunctionLifetimes(fn, repo, points)

	if err := DiagnoseReturnLocal(fn, fl); err != nil {
		return FunctionLifetimes{}, nil, err
	}

	return fl, constraints, nil
}

// runWorklist iterates cfg's blocks to a fixed point using a simple
// work-queue: a block is re-processed whenever the join of its
// predecessors' out-states changes its in-state. The function's overall
// result is the join of every exit block's (a block with no successors)
// out-state.
func runWorklist(cfg CFG, ts *transferState, initial PointsToMap) (LifetimeLattice, error) {
	entry := cfg.Entry()
	in := map[*Block]LifetimeLattice{entry: OkLattice(initial, NewLifetimeConstraintSet())}
	out := map[*Block]LifetimeLattice{}

	var work queue.Queue[*Block]
	work.Push(entry)
	queued := map[*Block]bool{entry: true}

	for !work.Empty() {
		b := work.Pop()
		queued[b] = false

		state := in[b]
		var nextOut LifetimeLattice
		if state.IsError() {
			nextOut = state
		} else {
			points := state.Points().Clone()
			constraints := state.Constraints().Clone()
			var transferErr error
			for _, el := range b.Elements {
				if err := ts.transferElement(el, points, constraints); err != nil {
					transferErr = err
					break
				}
			}
			if transferErr != nil {
				nextOut = ErrorLattice(transferErr.Error())
			} else {
				nextOut = OkLattice(points, constraints)
			}
		}

		if prev, ok := out[b]; ok && prev.Equal(nextOut) {
			continue
		}
		out[b] = nextOut

		for _, succ := range b.Successors {
			merged := nextOut
			if prevIn, ok := in[succ]; ok {
				merged = JoinLattice(prevIn, nextOut)
			}
			if prevIn, ok := in[succ]; !ok || !prevIn.Equal(merged) {
				in[succ] = merged
				if !queued[succ] {
					work.Push(succ)
					queued[succ] = true
				}
			}
		}
	}

	var result LifetimeLattice
	haveResult := false
	for _, b := range cfg.Blocks() {
		if len(b.Successors) != 0 {
			continue
		}
		o, ok := out[b]
		if !ok {
			// An exit block never reached by the worklist (dead code,
			// or a CFG with no path from entry) contributes nothing.
			continue
		}
		if !haveResult {
			result = o
			haveResult = true
		} else {
			result = JoinLattice(result, o)
		}
	}
	if !haveResult {
		result = OkLattice(NewPointsToMap(), NewLifetimeConstraintSet())
	}
	return result, nil
}

// extractFunctionLifetimes reconstructs the printable FunctionLifetimes
// signature from the analyzed heap shape: each top-level object (this,
// each parameter, the return slot) is walked by extractObjectLifetimes,
// so a pointer/reference layer carries the Lifetime of its single current
// pointee and nested layers are recovered by following the points-to set
// one pointee at a time. A pointer left untouched by the body still
// points at the pointee minted for it at entry, so an unconstrained
// parameter's lifetime prints as its own distinct letter rather than
// collapsing to `static`/`local`.
func extractFunctionLifetimes(fn FunctionDecl, repo *ObjectRepository, points PointsToMap) FunctionLifetimes {
	fl := FunctionLifetimes{}
	if this := repo.GetThis(); this != nil {
		ol := extractObjectLifetimes(this, fn.ThisType(), points, map[*Object]bool{})
		fl.This = &ol
	}
	paramTypes := fn.ParamTypes()
	for i, p := range repo.Params() {
		var t Type
		if i < len(paramTypes) {
			t = paramTypes[i]
		} else {
			t = p.Type()
		}
		fl.Params = append(fl.Params, extractObjectLifetimes(p, t, points, map[*Object]bool{}))
	}
	if fn.HasReturnType() {
		fl.HasReturn = true
		fl.Return = extractObjectLifetimes(repo.GetReturn(), fn.ReturnType(), points, map[*Object]bool{})
	}
	return fl
}

// extractObjectLifetimes walks obj's points-to chain to rebuild the
// printable ObjectLifetimes tree matching t's shape. A reference layer's
// "own" lifetime is the lifetime of whatever it currently, definitely
// points to - the guarantee a caller can rely on - not the storage
// duration of the pointer variable itself, which is never printed. An
// object reached through more than one possible pointee (the may-alias
// set has more than one element) has no single such guarantee to report,
// so it degenerates to the unconstrained case below.
func extractObjectLifetimes(obj *Object, t Type, points PointsToMap, visiting map[*Object]bool) ObjectLifetimes {
	switch t.Kind() {
	case KindPointer, KindReference:
		if visiting[obj] {
			return NewValueLifetimes(t.Pointee())
		}
		visiting[obj] = true
		pointee, ok := points.PointsTo(obj).Singleton()
		if !ok {
			return NewReferenceLifetimes(t, NewVariable(), NewValueLifetimes(t.Pointee()))
		}
		pointeeOL := extractObjectLifetimes(pointee, t.Pointee(), points, visiting)
		return NewReferenceLifetimes(t, pointee.Lifetime(), pointeeOL)
	case KindRecord:
		rec := t.Record()
		if rec == nil || len(rec.LifetimeParams) == 0 {
			return NewValueLifetimes(t)
		}
		// Each lifetime parameter of a record is, in this analysis,
		// bound to the lifetime of the record object itself: the
		// minimal Type collaborator does not carry a field-to-parameter
		// correspondence, so a record's lifetime parameters cannot be
		// distinguished from one another by inspecting its fields (see
		// DESIGN.md).
		params := make([]RecordParamLifetime, len(rec.LifetimeParams))
		for i, name := range rec.LifetimeParams {
			params[i] = RecordParamLifetime{Param: name, Lifetime: obj.Lifetime()}
		}
		return NewRecordLifetimes(t, params)
	default:
		return NewValueLifetimes(t)
	}
}
