package lifetime

// LifetimeLattice is the abstract state the dataflow analysis carries
// between CFG blocks (spec §4.2): either a points-to map paired with the
// constraints accumulated so far, or a permanent Error state recording
// why the function cannot be analyzed. Error is absorbing: once a block's
// state is an error, every successor's join stays an error.
type LifetimeLattice struct {
	isError bool
	message string

	points      PointsToMap
	constraints *LifetimeConstraintSet
}

// OkLattice builds a non-error lattice value.
func OkLattice(points PointsToMap, constraints *LifetimeConstraintSet) LifetimeLattice {
	return LifetimeLattice{points: points, constraints: constraints}
}

// ErrorLattice builds an error lattice value carrying message.
func ErrorLattice(message string) LifetimeLattice {
	return LifetimeLattice{isError: true, message: message}
}

func (l LifetimeLattice) IsError() bool                      { return l.isError }
func (l LifetimeLattice) Message() string                    { return l.message }
func (l LifetimeLattice) Points() PointsToMap                 { return l.points }
func (l LifetimeLattice) Constraints() *LifetimeConstraintSet { return l.constraints }

// Join computes the lattice join of a and b: if either is an error, the
// join is that error (the first one encountered, if both are errors); an
// error always dominates a ok value, matching a monotone analysis that
// never recovers from a transfer failure.
func JoinLattice(a, b LifetimeLattice) LifetimeLattice {
	if a.isError {
		return a
	}
	if b.isError {
		return b
	}
	merged := NewLifetimeConstraintSet()
	merged.Merge(a.constraints)
	merged.Merge(b.constraints)
	return OkLattice(Join(a.points, b.points), merged)
}

// Equal reports whether a and b are the same lattice value, for the
// dataflow fixed-point check.
func (l LifetimeLattice) Equal(other LifetimeLattice) bool {
	if l.isError != other.isError {
		return false
	}
	if l.isError {
		return l.message == other.message
	}
	if !l.points.Equal(other.points) {
		return false
	}
	// Two constraint sets are the same value when each implies every edge
	// of the other.
	implies := func(a, b *LifetimeConstraintSet) bool {
		if b == nil {
			return true
		}
		for _, e := range b.edges {
			if a == nil || !a.Outlives(e.longer, e.shorter) {
				return false
			}
		}
		return true
	}
	return implies(l.constraints, other.constraints) && implies(other.constraints, l.constraints)
}
