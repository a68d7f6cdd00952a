// Package generics implements generic data structure functions missing from the stdlib.
package generics

import (
	"cmp"
	"golang.org/x/exp/constraints"
	"iter"
	"maps"
	"slices"
)

// SliceMap executes the given function sequentially for every element on in, and returns a mapped slice.
func SliceMap[In, Out any](in []In, fn func(e In) Out) (out []Out) {
	out = make([]Out, len(in))
	for ii, e := range in {
		out[ii] = fn(e)
	}
	return
}

// KeysSlice returns a newly allocated slice with the keys of the map, in no particular order.
func KeysSlice[M interface{ ~map[K]V }, K comparable, V any](m M) []K {
	return slices.Collect(maps.Keys(m))
}

// SortedKeys returns an iterator over the sorted keys of the given map.
//
// It extracts the keys, sort them and then iterate over, so it's convenient but not fast.
func SortedKeys[M interface{ ~map[K]V }, K cmp.Ordered, V any](m M) iter.Seq[K] {
	sortedKeys := slices.Collect(maps.Keys(m))
	slices.Sort(sortedKeys)
	return slices.Values(sortedKeys)
}

// SliceOrdering returns the indices of s ordered by the values of s, ascending or, if reverse
// is set, descending. The slice s itself is not changed.
func SliceOrdering[T constraints.Integer | constraints.Float](s []T, reverse bool) []int {
	ordering := make([]int, len(s))
	for ii := range ordering {
		ordering[ii] = ii
	}
	slices.SortStableFunc(ordering, func(a, b int) int {
		if reverse {
			return cmp.Compare(s[b], s[a])
		}
		return cmp.Compare(s[a], s[b])
	})
	return ordering
}

// Combinations iterates over every k-subset of elements, preserving the relative order of the
// elements within each subset.
//
// The yielded slice is reused between iterations: clone it if it needs to be kept.
func Combinations[T any](elements []T, k int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		n := len(elements)
		if k <= 0 || k > n {
			return
		}
		indices := make([]int, k)
		for ii := range indices {
			indices[ii] = ii
		}
		subset := make([]T, k)
		for {
			for ii, idx := range indices {
				subset[ii] = elements[idx]
			}
			if !yield(subset) {
				return
			}
			// Advance the right-most index that still has room to move.
			pos := k - 1
			for pos >= 0 && indices[pos] == n-k+pos {
				pos--
			}
			if pos < 0 {
				return
			}
			indices[pos]++
			for ii := pos + 1; ii < k; ii++ {
				indices[ii] = indices[ii-1] + 1
			}
		}
	}
}

// Set implements a Set for the key type T.
type Set[T comparable] map[T]struct{}

// MakeSet returns an empty Set of the given type. Size is optional, and if given
// will reserve the expected size.
func MakeSet[T comparable](size ...int) Set[T] {
	if len(size) == 0 {
		return make(Set[T])
	}
	return make(Set[T], size[0])
}

// SetWith creates a Set[T] with the given elements inserted.
func SetWith[T comparable](elements ...T) Set[T] {
	s := MakeSet[T](len(elements))
	for _, element := range elements {
		s.Insert(element)
	}
	return s
}

// Has returns true if Set s has the given key.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert keys into set.
func (s Set[T]) Insert(keys ...T) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}

// Clone returns a shallow copy of the set. A nil set clones to an empty (non-nil) set.
func (s Set[T]) Clone() Set[T] {
	if s == nil {
		return MakeSet[T]()
	}
	return maps.Clone(s)
}

// Sub returns `s - s2`, that is, all elements in `s` that are not in `s2`.
func (s Set[T]) Sub(s2 Set[T]) Set[T] {
	sub := MakeSet[T]()
	for k := range s {
		if !s2.Has(k) {
			sub.Insert(k)
		}
	}
	return sub
}

// Equal returns whether s and s2 have exactly the same elements.
func (s Set[T]) Equal(s2 Set[T]) bool {
	if len(s) != len(s2) {
		return false
	}
	for k := range s {
		if !s2.Has(k) {
			return false
		}
	}
	return true
}

// Iter iterates over the elements of the set, in no particular order.
func (s Set[T]) Iter() iter.Seq[T] {
	return maps.Keys(s)
}
