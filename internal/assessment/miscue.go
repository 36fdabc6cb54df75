package assessment

import (
	"strings"
	"unicode"
)

// Miscues are treated as a set: a word counts once no matter how many times
// the student flagged it. Comparison ignores case and surrounding whitespace,
// and blank entries are dropped.

// NormalizeMiscue returns the comparison key for a flagged word.
func NormalizeMiscue(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// UniqueMiscues deduplicates miscues, keeping the first spelling seen.
func UniqueMiscues(words []string) []string {
	if len(words) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		key := NormalizeMiscue(w)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(w))
	}
	return out
}

// MiscueCount returns the number of distinct miscues.
func MiscueCount(words []string) int {
	return len(UniqueMiscues(words))
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}
