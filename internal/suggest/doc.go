// Package suggest ranks known names by similarity to a misspelled one.
//
// Names are normalized before comparison (case folded, separators removed,
// CamelCase aware) and scored with a normalized Levenshtein similarity.
package suggest
