// Package merge implements the engine's three total item-list merge
// strategies. Unlike the file-content structural merge this package
// replaces, none of these strategies can produce a conflict: each is a
// pure function from (current, incoming) ordered id sequences to a single
// resulting sequence.
package merge

import "github.com/spgit/spgit/pkg/item"

// Strategy names one of the three combination rules a merge commit applies
// to current and incoming item sequences.
type Strategy string

const (
	// Union preserves current's ordering and appends any incoming item not
	// already present in current, in incoming's order. This is the default.
	Union Strategy = "union"

	// Append behaves like Union but performs no deduplication: every
	// incoming item is appended after current's items regardless of
	// whether it already appears there.
	Append Strategy = "append"

	// Intersection keeps only items present in both sequences, in
	// current's order.
	Intersection Strategy = "intersection"
)

// Valid reports whether s names one of the three recognized strategies.
func (s Strategy) Valid() bool {
	switch s {
	case Union, Append, Intersection:
		return true
	default:
		return false
	}
}

// Apply combines current and incoming according to strategy and returns the
// resulting ordered item list. current and incoming are assumed already
// deduplicated internally (as any tree-derived item list is); the result
// belongs to the caller, which is free to mutate it.
func Apply(strategy Strategy, current, incoming []item.Item) ([]item.Item, error) {
	switch strategy {
	case Union, "":
		return union(current, incoming), nil
	case Append:
		return appendAll(current, incoming), nil
	case Intersection:
		return intersection(current, incoming), nil
	default:
		return nil, &ErrUnknownStrategy{Strategy: strategy}
	}
}

// ErrUnknownStrategy is returned by Apply when strategy names none of
// Union, Append, or Intersection.
type ErrUnknownStrategy struct {
	Strategy Strategy
}

func (e *ErrUnknownStrategy) Error() string {
	return "merge: unknown strategy " + string(e.Strategy)
}

func union(current, incoming []item.Item) []item.Item {
	present := make(map[string]bool, len(current))
	for _, it := range current {
		present[it.ID] = true
	}
	out := make([]item.Item, len(current), len(current)+len(incoming))
	copy(out, current)
	for _, it := range incoming {
		if present[it.ID] {
			continue
		}
		present[it.ID] = true
		out = append(out, it)
	}
	return out
}

func appendAll(current, incoming []item.Item) []item.Item {
	out := make([]item.Item, 0, len(current)+len(incoming))
	out = append(out, current...)
	out = append(out, incoming...)
	return out
}

func intersection(current, incoming []item.Item) []item.Item {
	inIncoming := make(map[string]bool, len(incoming))
	for _, it := range incoming {
		inIncoming[it.ID] = true
	}
	var out []item.Item
	for _, it := range current {
		if inIncoming[it.ID] {
			out = append(out, it)
		}
	}
	return out
}
