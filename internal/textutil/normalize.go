// Package textutil provides text normalization helpers shared by the pipeline.
package textutil

import "strings"

// Normalize lowercases text, collapses whitespace runs to a single space, and
// trims leading and trailing whitespace. Empty input yields the empty string.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
