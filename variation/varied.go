// Package variation implements the systematic variation overlay (C5):
// a handle carrying one nominal value plus a map of named alternates,
// and the broadcasting rule that propagates an n-ary operation across
// the union of every input's variation names.
//
// Varied never appears in the per-slot execution loop (see the source's
// Design Notes): each variation, once materialised by a broadcast, is
// its own concrete node family sharing the ordinary slot/merge
// machinery. This package is purely a planner-time multiplexer.
package variation

import "sort"

// Varied wraps a nominal T plus a set of named alternates.
type Varied[T any] struct {
	Nominal T
	named   map[string]T
}

// New wraps a bare nominal value with no variations yet.
func New[T any](nominal T) Varied[T] {
	return Varied[T]{Nominal: nominal}
}

// Vary returns a copy of v with one more (or replaced) named alternate.
func (v Varied[T]) Vary(name string, alt T) Varied[T] {
	out := Varied[T]{Nominal: v.Nominal, named: make(map[string]T, len(v.named)+1)}
	for k, val := range v.named {
		out.named[k] = val
	}
	out.named[name] = alt
	return out
}

// Names returns every variation name this handle carries, sorted.
func (v Varied[T]) Names() []string {
	out := make([]string, 0, len(v.named))
	for k := range v.named {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get returns the alternate for name, falling back to the nominal if v
// doesn't carry that name (the "union, fallback to nominal" rule of
// §4.5).
func (v Varied[T]) Get(name string) T {
	if alt, ok := v.named[name]; ok {
		return alt
	}
	return v.Nominal
}

// unionNames merges variation-name sets across inputs, sorted and
// deduplicated.
func unionNames(sets ...[]string) []string {
	seen := make(map[string]struct{})
	for _, s := range sets {
		for _, n := range s {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Broadcast1 applies a unary op across a's nominal and every one of its
// named variations.
func Broadcast1[A, R any](a Varied[A], op func(A) R) Varied[R] {
	out := Varied[R]{Nominal: op(a.Nominal), named: make(map[string]R)}
	for _, n := range a.Names() {
		out.named[n] = op(a.Get(n))
	}
	return out
}

// Broadcast2 applies a binary op across the union of a's and b's
// variation names, falling back to each input's nominal where it lacks a
// given name (§4.5, testable property 8).
func Broadcast2[A, B, R any](a Varied[A], b Varied[B], op func(A, B) R) Varied[R] {
	out := Varied[R]{Nominal: op(a.Nominal, b.Nominal), named: make(map[string]R)}
	for _, n := range unionNames(a.Names(), b.Names()) {
		out.named[n] = op(a.Get(n), b.Get(n))
	}
	return out
}

// Broadcast3 is Broadcast2 for a ternary op.
func Broadcast3[A, B, C, R any](a Varied[A], b Varied[B], c Varied[C], op func(A, B, C) R) Varied[R] {
	out := Varied[R]{Nominal: op(a.Nominal, b.Nominal, c.Nominal), named: make(map[string]R)}
	for _, n := range unionNames(a.Names(), b.Names(), c.Names()) {
		out.named[n] = op(a.Get(n), b.Get(n), c.Get(n))
	}
	return out
}
