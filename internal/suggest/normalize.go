package suggest

import (
	"strings"
	"unicode"
)

// NormalizeIdent lowercases an identifier and drops separators, so
// "failover_to", "FailoverTo" and "failover-to" compare equal.
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(Tokenize(s), ""))
}

// Tokenize splits a CamelCase, snake_case or kebab-case identifier.
//   - "ConstraintViolation" -> ["Constraint", "Violation"]
//   - "r_str" -> ["r", "str"]
//   - "HTTPResource" -> ["HTTP", "Resource"]
func Tokenize(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && startsToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// lower to upper: "failoverTo"
	if !unicode.IsUpper(prev) {
		return true
	}

	// end of an acronym: "HTTPResource"
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
