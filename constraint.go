package lifetime

// outlivesEdge is one `longer outlives shorter` fact.
type outlivesEdge struct {
	longer, shorter Lifetime
}

// LifetimeConstraintSet accumulates outlives facts generated while
// analyzing a function body (spec §4.2/§4.6): a call's actual-to-formal
// substitution and the static-reachability closure add edges here rather
// than mutating lifetimes in place; an assignment adds none. The set is lazily closed under transitivity the
// first time a query needs it.
type LifetimeConstraintSet struct {
	edges  []outlivesEdge
	closed map[Lifetime]map[Lifetime]bool // closure cache, invalidated by Add
}

func NewLifetimeConstraintSet() *LifetimeConstraintSet {
	return &LifetimeConstraintSet{}
}

// Add records that longer must outlive shorter.
func (cs *LifetimeConstraintSet) Add(longer, shorter Lifetime) {
	if longer == shorter {
		return
	}
	cs.edges = append(cs.edges, outlivesEdge{longer, shorter})
	cs.closed = nil
}

// Clone returns an independent copy of cs.
func (cs *LifetimeConstraintSet) Clone() *LifetimeConstraintSet {
	c := NewLifetimeConstraintSet()
	c.edges = append(c.edges, cs.edges...)
	return c
}

// Merge folds other's edges into cs.
func (cs *LifetimeConstraintSet) Merge(other *LifetimeConstraintSet) {
	if other == nil {
		return
	}
	for _, e := range other.edges {
		cs.Add(e.longer, e.shorter)
	}
}

// Outlives reports whether the closure of cs implies that longer outlives
// shorter, either directly, transitively, or because longer is Static
// (which outlives everything) or shorter equals longer.
func (cs *LifetimeConstraintSet) Outlives(longer, shorter Lifetime) bool {
	if longer == shorter || longer.IsStatic() {
		return true
	}
	cs.ensureClosed()
	return cs.closed[longer][shorter]
}

func (cs *LifetimeConstraintSet) ensureClosed() {
	if cs.closed != nil {
		return
	}
	reach := make(map[Lifetime]map[Lifetime]bool)
	addEdge := func(a, b Lifetime) {
		if reach[a] == nil {
			reach[a] = make(map[Lifetime]bool)
		}
		reach[a][b] = true
	}
	for _, e := range cs.edges {
		addEdge(e.longer, e.shorter)
	}
	// Floyd-Warshall-style closure over the (typically tiny) set of
	// lifetimes mentioned by this function's constraints.
	var nodes []Lifetime
	seen := map[Lifetime]bool{}
	for _, e := range cs.edges {
		if !seen[e.longer] {
			seen[e.longer] = true
			nodes = append(nodes, e.longer)
		}
		if !seen[e.shorter] {
			seen[e.shorter] = true
			nodes = append(nodes, e.shorter)
		}
	}
	changed := true
	for changed {
		changed = false
		for _, k := range nodes {
			for _, i := range nodes {
				if !reach[i][k] {
					continue
				}
				for _, j := range nodes {
					if reach[k][j] && !reach[i][j] {
						addEdge(i, j)
						changed = true
					}
				}
			}
		}
	}
	cs.closed = reach
}

// ForCallableSubstitution rewrites constraining (the constraints declared
// on a callee's signature) in terms of the actual lifetimes bound at a
// call site, given the substitution from the callee's formal lifetimes to
// the caller's actuals (spec §4.5's Call transfer rule: a callee's
// contract becomes a fact about the caller's objects only after
// substitution).
func (cs *LifetimeConstraintSet) ForCallableSubstitution(subst map[Lifetime]Lifetime) *LifetimeConstraintSet {
	out := NewLifetimeConstraintSet()
	rewrite := func(l Lifetime) Lifetime {
		if r, ok := subst[l]; ok {
			return r
		}
		return l
	}
	for _, e := range cs.edges {
		out.Add(rewrite(e.longer), rewrite(e.shorter))
	}
	return out
}

// ApplyTo reports the set of lifetimes appearing in fl that the closure of
// cs proves must equal Static, for use by callers that need to widen a
// signature after the static-reachability closure adds new edges anchored
// at Static.
func (cs *LifetimeConstraintSet) ApplyTo(fl FunctionLifetimes) []Lifetime {
	var out []Lifetime
	fl.ForEachLifetime(func(l Lifetime) {
		if cs.Outlives(Static(), l) && cs.Outlives(l, Static()) {
			out = append(out, l)
		}
	})
	return out
}
