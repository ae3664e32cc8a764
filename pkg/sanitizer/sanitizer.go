// Package sanitizer normalizes free-form caller input before validation and
// lookup. Every function is idempotent.
package sanitizer

import "strings"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// NormalizeKey folds a name into a comparison key: collapsed whitespace, lower case.
func NormalizeKey(s string) string {
	return Pipeline{TrimAndNormalize, strings.ToLower}.Apply(s)
}

// SanitizeSlice normalizes every value and drops empties and values whose
// comparison key was already seen. The first spelling wins.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		key := NormalizeKey(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	return out
}
