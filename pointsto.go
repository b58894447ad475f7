package lifetime

// UpdateKind selects whether SetPointsTo replaces a pointer's target set
// (Strong) or unions the new targets into the existing set (Weak). Spec
// §4.3/§4.5: an Assign or a bound call result strongly updates only a
// single-valued object (repository.go's InitialSingleValuedObjects plus
// locals as EnsureLocal discovers them); every field, base, and
// dereference-derived object is weakly updated there because its
// identity is structural rather than nominal and may already be aliased.
// A constructor's FieldInit is the exception: it always strongly updates
// the field or base subobject it initializes.
type UpdateKind uint8

const (
	Strong UpdateKind = iota
	Weak
)

// PointsToMap is the may-alias relation between pointer/reference objects
// and the objects they may point to (spec §3). It is a plain map rather
// than a persistent/immutable structure: snapshots for dataflow joins are
// produced by an explicit Clone, which keeps the representation legible
// and avoids depending on an unfamiliar external map implementation for
// the one structure the whole analysis pivots on (see DESIGN.md).
type PointsToMap struct {
	m map[*Object]ObjectSet
}

// NewPointsToMap returns an empty points-to map.
func NewPointsToMap() PointsToMap {
	return PointsToMap{m: make(map[*Object]ObjectSet)}
}

// PointsTo returns the set of objects p may point to. A pointer with no
// recorded entry points to nothing yet, not to everything: callers that
// need the "fully unconstrained" behaviour get it from
// AllPointersWithLifetime / static-reachability closure instead.
func (m PointsToMap) PointsTo(p *Object) ObjectSet {
	if s, ok := m.m[p]; ok {
		return s
	}
	return NewObjectSet()
}

// SetPointsTo records that p points to targets, either replacing (Strong)
// or extending (Weak) its current target set.
func (m PointsToMap) SetPointsTo(p *Object, targets ObjectSet, kind UpdateKind) {
	if kind == Strong {
		m.m[p] = targets.Clone()
		return
	}
	existing, ok := m.m[p]
	if !ok {
		m.m[p] = targets.Clone()
		return
	}
	m.m[p] = existing.Union(targets)
}

// Extend adds targets to the current points-to set of every pointer in
// pointers as a weak update, then recurses into t's nested pointer layers:
// for a multi-level pointer (e.g. int**), the inner layer that pointers
// currently reaches may also have been aliased by whatever produced
// targets, so its own points-to set is folded together with one more
// level of indirection the same way (spec §4.2's transfer rule for Call).
func (m PointsToMap) Extend(pointers ObjectSet, targets ObjectSet, t Type) {
	for p := range pointers {
		m.SetPointsTo(p, targets, Weak)
	}
	if t == nil || !IsPointerLike(t) {
		return
	}
	inner := NewObjectSet()
	for p := range pointers {
		inner = inner.Union(m.PointsTo(p))
	}
	if len(inner) == 0 {
		return
	}
	innerTargets := NewObjectSet()
	for o := range targets {
		innerTargets = innerTargets.Union(m.PointsTo(o))
	}
	m.Extend(inner, innerTargets, t.Pointee())
}

// AllPointersWithLifetime returns every pointer-or-reference object
// currently tracked in m whose own lifetime is l. Used by the
// static-reachability closure (transfer.go) to find the pointers that
// must be re-examined after propagating `static` to a newly-reached
// pointee.
func (m PointsToMap) AllPointersWithLifetime(l Lifetime) []*Object {
	var r []*Object
	for p := range m.m {
		if p.Lifetime() == l {
			r = append(r, p)
		}
	}
	return r
}

// Pointers returns every pointer object with a recorded entry in m, for
// iteration during Join and closure passes.
func (m PointsToMap) Pointers() []*Object {
	r := make([]*Object, 0, len(m.m))
	for p := range m.m {
		r = append(r, p)
	}
	return r
}

// Clone returns a deep-enough copy of m: a new outer map and a cloned
// ObjectSet per entry, so that mutating the copy never affects m. Objects
// themselves are never copied; only set membership is.
func (m PointsToMap) Clone() PointsToMap {
	c := make(map[*Object]ObjectSet, len(m.m))
	for p, s := range m.m {
		c[p] = s.Clone()
	}
	return PointsToMap{m: c}
}

// Equal reports whether m and other record exactly the same points-to
// relation, used by the dataflow fixed-point check (analyzer.go).
func (m PointsToMap) Equal(other PointsToMap) bool {
	if len(m.m) != len(other.m) {
		return false
	}
	for p, s := range m.m {
		os, ok := other.m[p]
		if !ok || !s.Equal(os) {
			return false
		}
	}
	return true
}

// Join computes the least upper bound of m and other: for every pointer
// appearing in either map, the union of its known target sets (spec §4.2,
// the monotone join operator for a dataflow analysis over a may-alias
// lattice). The result is a new map; neither argument is modified.
func Join(m, other PointsToMap) PointsToMap {
	out := m.Clone()
	for p, s := range other.m {
		if existing, ok := out.m[p]; ok {
			out.m[p] = existing.Union(s)
		} else {
			out.m[p] = s.Clone()
		}
	}
	return out
}
