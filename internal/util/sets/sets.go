// Package sets provides a small generic hash set.
package sets

import (
	"cmp"
	"slices"
)

// Set is a hash set of comparable keys.
type Set[T comparable] map[T]struct{}

// New creates a set holding vals.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Map creates a set holding f applied to each of vals.
func Map[S any, T comparable](vals []S, f func(S) T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[f(v)] = struct{}{}
	}
	return s
}

// Add inserts v.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has reports whether v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// CountIn returns how many entries of vals are present. Repeated entries
// count each time.
func (s Set[T]) CountIn(vals []T) int {
	n := 0
	for _, v := range vals {
		if s.Has(v) {
			n++
		}
	}
	return n
}

// Sorted returns the members of s in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
