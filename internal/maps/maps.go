// Package maps holds tiny generic helpers over Go maps; the driver's
// cycle bookkeeping uses Keys.
package maps

// FromKeys builds a set from l, discarding duplicates.
func FromKeys[L ~[]K, K comparable](l L) map[K]struct{} {
	res := make(map[K]struct{}, len(l))
	for _, key := range l {
		res[key] = struct{}{}
	}
	return res
}

// Keys returns m's keys in unspecified order.
func Keys[M ~map[K]V, K comparable, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
