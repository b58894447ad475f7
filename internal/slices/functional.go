// Package slices holds tiny generic transforms over slices, kept separate
// from the top-level slices package so a frontend importing this module
// doesn't have to pull in set predicates it may not want.
package slices

// Map applies f to every element of l, returning the results in order.
func Map[L ~[]X, X, Y any](l L, f func(X) Y) []Y {
	r := make([]Y, len(l))
	for i, x := range l {
		r[i] = f(x)
	}
	return r
}
