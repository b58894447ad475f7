package lifetime

import "fmt"

// CalleeLifetimes resolves the already-analyzed (or annotated) signature
// of a callee during the Call transfer rule. The driver supplies this,
// backed by whatever it has analyzed so far plus ExternalAnnotations;
// transfer.go never decides on its own what a callee's lifetimes are.
type CalleeLifetimes interface {
	Lifetimes(fn FunctionDecl) (FunctionLifetimes, bool)
	// Constraints resolves the outlives facts accumulated while analyzing
	// fn's own body, for rewriting into the caller's objects via
	// ForCallableSubstitution at a call site (spec §4.3).
	Constraints(fn FunctionDecl) (*LifetimeConstraintSet, bool)
}

type fieldKey struct {
	container *Object
	name      string
}

type baseKey struct {
	container *Object
	baseType  Type
}

// transferState is the mutable context a single function's dataflow pass
// threads through every block: the object repository, the current
// points-to map and constraint set for one CFG block, and the memoized
// structural objects (fields, bases, per-type statics) that field and
// base projections and string/global literals resolve to. Structural
// objects are shared across the whole function rather than per-block, so
// that two blocks projecting the same field off the same container agree
// on its identity.
type transferState struct {
	repo    *ObjectRepository
	callees CalleeLifetimes
	fields  map[fieldKey]*Object
	bases   map[baseKey]*Object
	statics map[Type]*Object
	nextID  *ObjectID

	// points is the current block's points-to map, set by transferElement
	// before each element so evalLValue/evalValue can read current
	// pointer targets without threading it through every call.
	points PointsToMap
}

func newTransferState(repo *ObjectRepository, callees CalleeLifetimes) *transferState {
	var id ObjectID
	return &transferState{
		repo:    repo,
		callees: callees,
		fields:  make(map[fieldKey]*Object),
		bases:   make(map[baseKey]*Object),
		statics: make(map[Type]*Object),
		nextID:  &id,
	}
}

func (ts *transferState) fieldObject(container *Object, name string) *Object {
	k := fieldKey{container, name}
	if o, ok := ts.fields[k]; ok {
		return o
	}
	var ft Type
	if rec := container.Type().Record(); rec != nil {
		if i := rec.FieldIndex(name); i >= 0 {
			ft = rec.Fields[i].Type
		}
	}
	*ts.nextID--
	o := &Object{id: *ts.nextID, typ: ft, lifetime: container.Lifetime()}
	ts.fields[k] = o
	return o
}

func (ts *transferState) baseObject(container *Object, baseType Type) *Object {
	k := baseKey{container, baseType}
	if o, ok := ts.bases[k]; ok {
		return o
	}
	*ts.nextID--
	o := &Object{id: *ts.nextID, typ: baseType, lifetime: container.Lifetime()}
	ts.bases[k] = o
	return o
}

func (ts *transferState) staticObject(t Type) *Object {
	if o, ok := ts.statics[t]; ok {
		return o
	}
	*ts.nextID--
	o := &Object{id: *ts.nextID, typ: t, lifetime: Static()}
	ts.statics[t] = o
	return o
}

// evalLValue resolves expr to the set of storage objects it designates.
func (ts *transferState) evalLValue(expr Expr) (ObjectSet, error) {
	switch e := expr.(type) {
	case VarUse:
		return ts.resolveVar(e.Name)
	case ThisExpr:
		this := ts.repo.GetThis()
		if this == nil {
			return nil, fmt.Errorf("lifetime: 'this' used outside a method: %w", ErrUnsupportedConstruct)
		}
		return NewObjectSet(this), nil
	case FieldAccess:
		containers, err := ts.evalLValue(e.Operand)
		if err != nil {
			return nil, err
		}
		out := NewObjectSet()
		for c := range containers {
			out.Add(ts.fieldObject(c, e.Field))
		}
		return out, nil
	case BaseAccess:
		containers, err := ts.evalLValue(e.Operand)
		if err != nil {
			return nil, err
		}
		out := NewObjectSet()
		for c := range containers {
			out.Add(ts.baseObject(c, e.BaseType))
		}
		return out, nil
	case Deref:
		pointers, err := ts.evalLValue(e.Operand)
		if err != nil {
			return nil, err
		}
		out := NewObjectSet()
		for p := range pointers {
			out = out.Union(ts.points.PointsTo(p))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("lifetime: %T is not an lvalue expression: %w", expr, ErrUnsupportedConstruct)
	}
}

func (ts *transferState) resolveVar(name string) (ObjectSet, error) {
	if this := ts.repo.GetThis(); this != nil && name == "this" {
		return NewObjectSet(this), nil
	}
	for i, p := range ts.repo.Params() {
		if paramName(i) == name {
			return NewObjectSet(p), nil
		}
	}
	if ts.repo.HasReturn() && name == returnSlotName {
		return NewObjectSet(ts.repo.GetReturn()), nil
	}
	return NewObjectSet(ts.repo.Local(name)), nil
}

// paramName is the synthetic name a VarUse uses to refer to the i'th
// parameter when a frontend's CFG builder does not carry through the
// original source name. astbuilder assigns these same names to the
// VarUse nodes it constructs.
func paramName(i int) string { return fmt.Sprintf("arg%d", i) }

const returnSlotName = "__return"

// evalValue resolves expr, used as a pointer-typed value (the right-hand
// side of an Assign, a Call argument, or a Return value), to the set of
// objects it currently points to.
func (ts *transferState) evalValue(expr Expr) (ObjectSet, error) {
	switch e := expr.(type) {
	case AddrOf:
		return ts.evalLValue(e.Operand)
	case StaticExpr:
		return NewObjectSet(ts.staticObject(e.Type)), nil
	default:
		objs, err := ts.evalLValue(expr)
		if err != nil {
			return nil, err
		}
		out := NewObjectSet()
		for o := range objs {
			out = out.Union(ts.points.PointsTo(o))
		}
		return out, nil
	}
}

// transferElement applies el's effect to points and constraints, which
// belong to whichever block the caller (analyzer.go) is currently
// processing; ts itself is reused across every block in the function for
// its memoized structural objects.
func (ts *transferState) transferElement(el Element, points PointsToMap, constraints *LifetimeConstraintSet) error {
	ts.points = points
	switch e := el.(type) {
	case LocalDecl:
		obj := ts.repo.EnsureLocal(e.Name, e.Type)
		if e.Init != nil {
			targets, err := ts.evalValue(e.Init)
			if err != nil {
				return err
			}
			points.SetPointsTo(obj, targets, Strong)
		}
		return nil

	case Assign:
		lhs, err := ts.evalLValue(e.LHS)
		if err != nil {
			return err
		}
		targets, err := ts.evalValue(e.Value)
		if err != nil {
			return err
		}
		kind := Weak
		if o, single := lhs.Singleton(); single && ts.repo.IsSingleValued(o) {
			kind = Strong
		}
		for o := range lhs {
			points.SetPointsTo(o, targets, kind)
		}
		return nil

	case FieldInit:
		this := ts.repo.GetThis()
		if this == nil {
			return fmt.Errorf("lifetime: member initializer outside a constructor: %w", ErrUnsupportedConstruct)
		}
		var target *Object
		if e.FieldName != "" {
			target = ts.fieldObject(this, e.FieldName)
		} else {
			target = ts.baseObject(this, e.BaseType)
		}
		targets, err := ts.evalValue(e.Init)
		if err != nil {
			return err
		}
		points.SetPointsTo(target, targets, Strong)
		return nil

	case CallElement:
		return ts.transferCall(e, points, constraints)

	case ReturnElement:
		ret := ts.repo.GetReturn()
		if e.Value == nil || ret == nil {
			return nil
		}
		targets, err := ts.evalValue(e.Value)
		if err != nil {
			return err
		}
		points.SetPointsTo(ret, targets, Strong)
		return nil

	default:
		return fmt.Errorf("lifetime: %T: %w", el, ErrUnsupportedConstruct)
	}
}

// transferCall models the effect of invoking e.Callee. When the callee's
// lifetimes have already been resolved, its outlives constraints are
// rewritten in terms of the caller's actual objects and merged in
// (spec §4.5's substitution rule). Independent of whether a signature is
// available, every pointer-typed actual argument is conservatively
// extended to also point to the union of every other pointer argument's
// current targets, modeling that the callee may store any argument
// through any other: a sound over-approximation when the callee's body
// cannot be consulted directly. The call's result, if bound, is updated
// like an Assign target: a single-valued result object is strongly
// updated to the union of all argument targets, any other is weakly
// extended with that union.
func (ts *transferState) transferCall(e CallElement, points PointsToMap, constraints *LifetimeConstraintSet) error {
	var actualObjs []*Object
	var actualTargets []ObjectSet

	addActual := func(expr Expr) error {
		objs, err := ts.evalLValue(expr)
		if err != nil {
			return err
		}
		for o := range objs {
			actualObjs = append(actualObjs, o)
			actualTargets = append(actualTargets, points.PointsTo(o))
		}
		return nil
	}

	if e.This != nil {
		if err := addActual(e.This); err != nil {
			return err
		}
	}
	for _, a := range e.Args {
		if err := addActual(a); err != nil {
			return err
		}
	}

	union := NewObjectSet()
	for _, s := range actualTargets {
		union = union.Union(s)
	}
	for _, o := range actualObjs {
		if t := o.Type(); t != nil && !IsPointerLike(t) {
			continue
		}
		points.Extend(NewObjectSet(o), union, o.Type())
	}

	if e.Result != nil {
		resultObjs, err := ts.resolveVar(e.Result.Name)
		if err != nil {
			return err
		}
		single := len(resultObjs) == 1
		for o := range resultObjs {
			if single && ts.repo.IsSingleValued(o) {
				points.SetPointsTo(o, union, Strong)
			}
			points.Extend(NewObjectSet(o), union, o.Type())
		}
	}

	if ts.callees != nil {
		ts.bindCalleeSignature(e, actualObjs, constraints)
	}

	return nil
}

// bindCalleeSignature folds the callee's resolved outlives constraints
// into the caller's: each formal lifetime (this, then each parameter's
// layers in order) is mapped to the lifetime of the actual object bound
// at that position, and the callee's own constraint set is rewritten in
// terms of the caller's objects via ForCallableSubstitution and merged in,
// so that a fact the callee's body already proved (e.g. "param0 must
// outlive the return value") carries over to the caller's objects once
// ApplyTo/Outlives queries run against the merged set (spec §4.5's call
// substitution rule).
func (ts *transferState) bindCalleeSignature(e CallElement, actualObjs []*Object, constraints *LifetimeConstraintSet) {
	calleeFL, ok := ts.callees.Lifetimes(e.Callee)
	if !ok {
		return
	}

	subst := map[Lifetime]Lifetime{}
	visiting := map[*Object]bool{}
	i := 0
	if e.This != nil && calleeFL.This != nil && i < len(actualObjs) {
		ts.bindFormal(*calleeFL.This, actualObjs[i], subst, visiting)
		i++
	}
	for _, p := range calleeFL.Params {
		if i >= len(actualObjs) {
			break
		}
		ts.bindFormal(p, actualObjs[i], subst, visiting)
		i++
	}

	calleeCS, ok := ts.callees.Constraints(e.Callee)
	if !ok || calleeCS == nil {
		return
	}
	constraints.Merge(calleeCS.ForCallableSubstitution(subst))
}

// bindFormal walks ol (a formal's lifetime tree) and the actual object's
// current points-to chain in lockstep, mapping each formal lifetime to the
// lifetime of the actual object occupying that layer. A layer the
// points-to map cannot resolve to a single current pointee (an aliased or
// as-yet-unconstrained pointer) maps every lifetime below it to the
// lifetime of the actual object at that layer instead; extractObjectLifetimes,
// by contrast, mints a fresh variable for such a layer.
func (ts *transferState) bindFormal(ol ObjectLifetimes, actual *Object, subst map[Lifetime]Lifetime, visiting map[*Object]bool) {
	switch ol.LifetimesKind() {
	case KindReferenceLifetimes:
		subst[ol.Own()] = actual.Lifetime()
		if visiting[actual] {
			return
		}
		visiting[actual] = true
		if pointee, ok := ts.points.PointsTo(actual).Singleton(); ok {
			ts.bindFormal(ol.Pointee(), pointee, subst, visiting)
			return
		}
		ol.Pointee().ForEachLifetime(func(l Lifetime) {
			subst[l] = actual.Lifetime()
		})
	case KindRecordLifetimes:
		for _, p := range ol.RecordParams() {
			subst[p.Lifetime] = actual.Lifetime()
		}
	}
}

// closeStaticReachability propagates `static` through the points-to map
// to a fixed point: whenever an object with lifetime Static may point to
// an object o, o's own lifetime is constrained to be outlived-by nothing
// shorter than Static, i.e. o effectively becomes Static for the purposes
// of further propagation. This single pass implements both occurrences
// the original analysis ran separately, one for the pass over the
// function body and one over constructor initializers (spec's Design
// Note and Open Question on duplicated closure passes): running it once,
// after initializers have already been folded into the points-to map,
// covers both.
func closeStaticReachability(points PointsToMap, constraints *LifetimeConstraintSet) error {
	worklist := []Lifetime{Static()}
	seen := map[Lifetime]bool{Static(): true}

	for len(worklist) > 0 {
		l := worklist[0]
		worklist = worklist[1:]

		for _, p := range points.AllPointersWithLifetime(l) {
			for pointee := range points.PointsTo(p) {
				if pointee.Lifetime().IsLocal() {
					return fmt.Errorf("lifetime: static object points to local %s: %w", pointee, ErrStaticReachesLocal)
				}
				constraints.Add(Static(), pointee.Lifetime())
				if !seen[pointee.Lifetime()] {
					seen[pointee.Lifetime()] = true
					worklist = append(worklist, pointee.Lifetime())
				}
			}
		}
	}
	return nil
}
