package lifetime

// ObjectLifetimes is a tree of lifetimes matching the shape of a compound
// type: one lifetime for each pointer/reference layer plus, for a record
// with lifetime parameters, one lifetime per parameter (spec §3, §9's
// tagged-variant design note: ValueLifetimes | ReferenceLifetimes(sub, own)
// | RecordLifetimes(map<param, Lifetime>)).
type ObjectLifetimes struct {
	typ  Type
	kind olKind

	// own is the lifetime guarantee this pointer/reference layer carries -
	// how long its pointee is promised to remain valid, the conventional
	// meaning of a lifetime parameter on a pointer type; pointee is the
	// ObjectLifetimes of what it points to. Both are only valid when
	// kind == olReference.
	own     Lifetime
	pointee *ObjectLifetimes

	// params holds one lifetime per record lifetime parameter, in the
	// order RecordType.LifetimeParams declares them. Only valid when
	// kind == olRecord.
	params []RecordParamLifetime
}

type olKind uint8

const (
	olValue olKind = iota
	olReference
	olRecord
)

// RecordParamLifetime binds one of a record's lifetime parameters to a
// concrete Lifetime.
type RecordParamLifetime struct {
	Param    string
	Lifetime Lifetime
}

// NewValueLifetimes builds the (empty) ObjectLifetimes for a type with no
// lifetime of its own.
func NewValueLifetimes(t Type) ObjectLifetimes {
	return ObjectLifetimes{typ: t, kind: olValue}
}

// NewReferenceLifetimes builds the ObjectLifetimes for a pointer or
// reference type: own is this layer's lifetime, pointee is the
// ObjectLifetimes of the referent.
func NewReferenceLifetimes(t Type, own Lifetime, pointee ObjectLifetimes) ObjectLifetimes {
	return ObjectLifetimes{typ: t, kind: olReference, own: own, pointee: &pointee}
}

// NewRecordLifetimes builds the ObjectLifetimes for a record type, binding
// each of its lifetime parameters.
func NewRecordLifetimes(t Type, params []RecordParamLifetime) ObjectLifetimes {
	return ObjectLifetimes{typ: t, kind: olRecord, params: params}
}

func (ol ObjectLifetimes) Type() Type { return ol.typ }

// ObjectLifetimesKind classifies an ObjectLifetimes node for callers,
// such as persist/cache.go, that need to walk the tree generically
// instead of already knowing its shape from a Type.
type ObjectLifetimesKind uint8

const (
	KindValueLifetimes ObjectLifetimesKind = iota
	KindReferenceLifetimes
	KindRecordLifetimes
)

func (ol ObjectLifetimes) LifetimesKind() ObjectLifetimesKind {
	switch ol.kind {
	case olReference:
		return KindReferenceLifetimes
	case olRecord:
		return KindRecordLifetimes
	default:
		return KindValueLifetimes
	}
}

// Own returns this layer's own lifetime. Panics if ol is not a reference
// layer.
func (ol ObjectLifetimes) Own() Lifetime {
	if ol.kind != olReference {
		panic("lifetime: Own called on a non-reference ObjectLifetimes")
	}
	return ol.own
}

// Pointee returns the ObjectLifetimes of what this layer points to. Panics
// if ol is not a reference layer.
func (ol ObjectLifetimes) Pointee() ObjectLifetimes {
	if ol.kind != olReference {
		panic("lifetime: Pointee called on a non-reference ObjectLifetimes")
	}
	return *ol.pointee
}

// RecordParams returns the lifetime bindings for a record's lifetime
// parameters, in declaration order. Panics if ol is not a record.
func (ol ObjectLifetimes) RecordParams() []RecordParamLifetime {
	if ol.kind != olRecord {
		panic("lifetime: RecordParams called on a non-record ObjectLifetimes")
	}
	return ol.params
}

// ForEachLifetime visits every lifetime appearing in ol, in a stable
// pre-order: own lifetime before the pointee's, and record parameters in
// declaration order.
func (ol ObjectLifetimes) ForEachLifetime(f func(Lifetime)) {
	switch ol.kind {
	case olReference:
		f(ol.own)
		ol.pointee.ForEachLifetime(f)
	case olRecord:
		for _, p := range ol.params {
			f(p.Lifetime)
		}
	}
}

// HasAny reports whether any lifetime in the tree satisfies pred. Used by
// the return-local diagnostic (signature.go) to test for LocalLifetime.
func (ol ObjectLifetimes) HasAny(pred func(Lifetime) bool) bool {
	found := false
	ol.ForEachLifetime(func(l Lifetime) {
		found = found || pred(l)
	})
	return found
}

// Substitute returns a copy of ol with every lifetime replaced by f(l).
// Used to apply a LifetimeConstraintSet's solved substitutions to an
// original, fully-independent skeleton.
func (ol ObjectLifetimes) Substitute(f func(Lifetime) Lifetime) ObjectLifetimes {
	switch ol.kind {
	case olReference:
		pointee := ol.pointee.Substitute(f)
		return NewReferenceLifetimes(ol.typ, f(ol.own), pointee)
	case olRecord:
		params := make([]RecordParamLifetime, len(ol.params))
		for i, p := range ol.params {
			params[i] = RecordParamLifetime{Param: p.Param, Lifetime: f(p.Lifetime)}
		}
		return NewRecordLifetimes(ol.typ, params)
	default:
		return ol
	}
}

// collectLifetimes flattens the tree into the pre-order sequence used by
// FunctionLifetimes' printable form.
func (ol ObjectLifetimes) collectLifetimes() []Lifetime {
	var ls []Lifetime
	ol.ForEachLifetime(func(l Lifetime) { ls = append(ls, l) })
	return ls
}
