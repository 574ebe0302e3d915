package common

// IsEmpty reports whether s has no elements.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// IsSingle reports whether s has exactly one element.
func IsSingle[S ~[]E, E any](s S) bool {
	return len(s) == 1
}

// Uncons splits s into its first element and the rest. The rest shares the
// backing array of s. It reports false for an empty slice.
func Uncons[S ~[]E, E any](s S) (head E, tail S, ok bool) {
	if len(s) == 0 {
		return head, nil, false
	}

	return s[0], s[1:], true
}
