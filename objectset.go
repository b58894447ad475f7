package lifetime

// ObjectSet is an unordered may-alias set of objects: it represents
// may-point-to targets, not must-point-to.
type ObjectSet map[*Object]struct{}

// NewObjectSet builds an ObjectSet from the given objects.
func NewObjectSet(objs ...*Object) ObjectSet {
	s := make(ObjectSet, len(objs))
	for _, o := range objs {
		s[o] = struct{}{}
	}
	return s
}

func (s ObjectSet) Add(o *Object) { s[o] = struct{}{} }

func (s ObjectSet) Has(o *Object) bool {
	_, ok := s[o]
	return ok
}

func (s ObjectSet) Clone() ObjectSet {
	c := make(ObjectSet, len(s))
	for o := range s {
		c[o] = struct{}{}
	}
	return c
}

// Union returns a new set containing every object in s or other, without
// modifying either argument.
func (s ObjectSet) Union(other ObjectSet) ObjectSet {
	c := s.Clone()
	for o := range other {
		c[o] = struct{}{}
	}
	return c
}

// Equal reports whether s and other contain exactly the same objects.
func (s ObjectSet) Equal(other ObjectSet) bool {
	if len(s) != len(other) {
		return false
	}
	for o := range s {
		if !other.Has(o) {
			return false
		}
	}
	return true
}

func (s ObjectSet) Slice() []*Object {
	r := make([]*Object, 0, len(s))
	for o := range s {
		r = append(r, o)
	}
	return r
}

// Singleton returns the set's sole element and true, or (nil, false) if the
// set does not contain exactly one object.
func (s ObjectSet) Singleton() (*Object, bool) {
	if len(s) != 1 {
		return nil, false
	}
	for o := range s {
		return o, true
	}
	return nil, false
}
