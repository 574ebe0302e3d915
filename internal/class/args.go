package class

import (
	"maps"
	"slices"
)

// Args is a constructor argument mapping.
type Args map[string]any

// Clone returns a shallow copy. A nil mapping clones to an empty one.
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}

	return maps.Clone(a)
}

func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Without returns a copy of a with keys removed.
func (a Args) Without(keys ...string) Args {
	out := a.Clone()
	for _, key := range keys {
		delete(out, key)
	}

	return out
}

// Keys returns the argument keys in sorted order.
func (a Args) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}
