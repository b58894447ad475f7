package lifetime

// ObjectRepository mints and owns every Object that exists while
// analyzing a single function: the this-pointee, one per parameter, the
// return slot, and locals as the dataflow pass discovers their
// LocalDecls. It also remembers which objects are single-valued - the
// objects a strong update is ever allowed to target, because their
// identity is nominal rather than structural (spec §4.3). Every
// field/base/dereference-derived object is created fresh by the transfer
// function itself (transfer.go) and is never registered here, so an
// Assign always updates it weakly regardless of how many values currently
// reach it (a constructor's FieldInit is the one strong update of such an
// object).
type ObjectRepository struct {
	fn FunctionDecl

	nextID ObjectID

	this      *Object
	params    []*Object
	ret       *Object
	hasReturn bool
	locals    map[string]*Object

	singleValued map[*Object]bool

	// initial is the points-to map entry-state: the edges established by
	// buildChain below for every parameter/this/return whose type is a
	// pointer or reference. A parameter's pointee is unknown, not
	// nonexistent, so entry state must already record that it points to
	// some (fresh, as-yet-unconstrained) object rather than leaving its
	// PointsTo set empty - an empty set would wrongly let the analysis
	// conclude the parameter points to nothing at all.
	initial PointsToMap
}

// NewObjectRepository creates the this/parameter/return objects for fn
// according to its declared type, matching the shape ConstructFunctionLifetimes
// would assign (signature.go): every pointer-like object gets a fresh
// Lifetime variable for each layer, the this-pointee (if any) and every
// parameter and the return slot are marked single-valued, and a pointer
// or reference gets an initial points-to edge to a freshly minted pointee
// chain matching its declared type's shape.
func NewObjectRepository(fn FunctionDecl) *ObjectRepository {
	r := &ObjectRepository{
		fn:           fn,
		locals:       make(map[string]*Object),
		singleValued: make(map[*Object]bool),
		initial:      NewPointsToMap(),
	}

	if fn.IsMethod() {
		r.this = r.buildChain(fn.ThisType())
		r.singleValued[r.this] = true
	}
	for _, t := range fn.ParamTypes() {
		p := r.buildChain(t)
		r.params = append(r.params, p)
		r.singleValued[p] = true
	}
	if fn.HasReturnType() {
		r.ret = r.buildChain(fn.ReturnType())
		r.hasReturn = true
		r.singleValued[r.ret] = true
	}
	return r
}

func (r *ObjectRepository) newObject(t Type, l Lifetime) *Object {
	r.nextID++
	return &Object{id: r.nextID, typ: t, lifetime: l}
}

// buildChain mints the outermost object for t and, if t is a pointer or
// reference, recursively mints its pointee and records the initial
// points-to edge between them.
func (r *ObjectRepository) buildChain(t Type) *Object {
	obj := r.newObject(t, NewVariable())
	if t != nil && (t.Kind() == KindPointer || t.Kind() == KindReference) {
		pointee := r.buildChain(t.Pointee())
		r.initial.SetPointsTo(obj, NewObjectSet(pointee), Strong)
	}
	return obj
}

// InitialPointsToMap returns the points-to map an analysis of fn's body
// should start with: every parameter/this/return pointer layer already
// pointing at its freshly-minted, as-yet-unconstrained pointee chain.
func (r *ObjectRepository) InitialPointsToMap() PointsToMap {
	return r.initial.Clone()
}

// GetThis returns the this-pointee object, or nil for a non-method.
func (r *ObjectRepository) GetThis() *Object { return r.this }

// GetReturn returns the return-slot object, or nil for a void function.
func (r *ObjectRepository) GetReturn() *Object { return r.ret }

// HasReturn reports whether this function has a return slot at all.
func (r *ObjectRepository) HasReturn() bool { return r.hasReturn }

// Params returns the parameter objects in declaration order.
func (r *ObjectRepository) Params() []*Object { return r.params }

// EnsureLocal returns the Object for the named local, creating and
// registering it as single-valued on first reference. A LocalDecl always
// introduces a fresh binding, so re-declaring a name (not legal in a
// single scope, but harmless if it happened) simply returns the existing
// object.
func (r *ObjectRepository) EnsureLocal(name string, t Type) *Object {
	if o, ok := r.locals[name]; ok {
		return o
	}
	o := r.newObject(t, LocalLifetime())
	r.locals[name] = o
	r.singleValued[o] = true
	return o
}

// Local looks up an already-declared local by name; it panics if name was
// never passed to EnsureLocal, since that indicates a frontend CFG that
// uses a local before its LocalDecl.
func (r *ObjectRepository) Local(name string) *Object {
	o, ok := r.locals[name]
	if !ok {
		panic("lifetime: local \"" + name + "\" used before its LocalDecl")
	}
	return o
}

// IsSingleValued reports whether o is ever eligible for a strong update:
// only `this`, parameters, the return slot, and locals satisfy this,
// matching the rule that a strong update is safe only when an object has
// exactly one nominal binding site, never when it was reached through a
// field, base, or dereference projection that might alias.
func (r *ObjectRepository) IsSingleValued(o *Object) bool {
	return r.singleValued[o]
}

// InitialSingleValuedObjects returns every object eligible for a strong
// update at function entry, before any locals have been declared: this,
// params, and the return slot.
func (r *ObjectRepository) InitialSingleValuedObjects() []*Object {
	objs := make([]*Object, 0, len(r.params)+2)
	if r.this != nil {
		objs = append(objs, r.this)
	}
	objs = append(objs, r.params...)
	if r.ret != nil {
		objs = append(objs, r.ret)
	}
	return objs
}
