package previewsync

import (
	"strings"
	"unicode/utf8"
)

// Score computes the similarity of two normalized strings in [0, 1].
//
// Three tiers are tried in order: exact equality (1.0), substring
// containment (length ratio), and fuzzy word overlap. The fuzzy tier
// iterates over the side with fewer words but divides by the larger word
// count, so it is not perfectly symmetric; that asymmetry decides which of
// two near-equal lines wins a tie and is deliberately preserved.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		la := utf8.RuneCountInString(a)
		lb := utf8.RuneCountInString(b)
		return float64(min(la, lb)) / float64(max(la, lb))
	}

	wordsA := significantWords(a)
	wordsB := significantWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	shorter, longer := wordsA, wordsB
	if len(wordsB) < len(wordsA) {
		shorter, longer = wordsB, wordsA
	}

	matches := 0
	for _, w := range shorter {
		for _, o := range longer {
			if strings.Contains(o, w) || strings.Contains(w, o) {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(max(len(wordsA), len(wordsB)))
}

// significantWords splits normalized text into words longer than two runes.
func significantWords(s string) []string {
	fields := strings.Fields(s)
	words := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 2 {
			words = append(words, f)
		}
	}
	return words
}
