package util

import (
	"regexp"
	"strings"
)

// DefaultSlugLen caps slugs built by Slugify.
const DefaultSlugLen = 120

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// OptText returns nil for text that cleans down to nothing.
func OptText(s string) *string {
	s = CleanText(s)
	if s == "" {
		return nil
	}
	return &s
}

func Slugify(text string, maxLen int) string {
	s := strings.ToLower(CleanText(text))
	s = nonSlugRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if maxLen > 0 && len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	return s
}

// DedupeBy keeps the first item seen for each key, preserving order.
// Items with an empty key are dropped.
func DedupeBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}
