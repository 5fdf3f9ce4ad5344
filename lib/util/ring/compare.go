package ring

import "cmp"

// Equal reports whether both rings have the same capacity and the same length. The stored
// elements are not compared.
func (r *Ring[T]) Equal(other *Ring[T]) bool {
	return r.Compare(other) == 0
}

// Compare orders rings by capacity, then by length. Contents play no part.
func (r *Ring[T]) Compare(other *Ring[T]) int {
	if c := cmp.Compare(r.Capacity(), other.Capacity()); c != 0 {
		return c
	}
	return cmp.Compare(r.length, other.length)
}

func (r *Ring[T]) Less(other *Ring[T]) bool {
	return r.Compare(other) < 0
}
