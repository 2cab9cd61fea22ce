package previewsync

import (
	"math"
	"testing"
)

func TestScore_ExactMatch(t *testing.T) {
	for _, s := range []string{"hello", "hello world", "a"} {
		if got := Score(s, s); got != 1.0 {
			t.Errorf("Score(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestScore_EmptyInput(t *testing.T) {
	if got := Score("", "anything"); got != 0 {
		t.Errorf("Score(\"\", ...) = %v, want 0", got)
	}
	if got := Score("anything", ""); got != 0 {
		t.Errorf("Score(..., \"\") = %v, want 0", got)
	}
	if got := Score("", ""); got != 0 {
		t.Errorf("Score(\"\", \"\") = %v, want 0", got)
	}
}

func TestScore_Containment(t *testing.T) {
	// 5 runes inside 11 runes
	got := Score("hello", "hello world")
	want := 5.0 / 11.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}

	// symmetric in the containment tier
	if rev := Score("hello world", "hello"); rev != got {
		t.Errorf("containment should be symmetric: %v != %v", rev, got)
	}
}

func TestScore_FuzzyWordOverlap(t *testing.T) {
	// words > 2 runes: {quick, brown, fox} vs {quick, red, fox}
	// matches: quick, fox -> 2 / max(3, 3)
	got := Score("quick brown fox", "quick red fox")
	want := 2.0 / 3.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScore_FuzzyShortWordsIgnored(t *testing.T) {
	// all words <= 2 runes on one side -> empty word set -> 0
	if got := Score("a is to of", "completely different words"); got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}

func TestScore_FuzzyAsymmetryPreserved(t *testing.T) {
	// The fuzzy tier iterates the shorter word set but divides by the max
	// word count. The denominator keeps both directions equal here, and the
	// behavior is pinned so a tie between near-equal lines stays stable.
	a := "alpha beta gamma delta"
	b := "beta alpha"
	forward := Score(a, b)
	backward := Score(b, a)
	want := 2.0 / 4.0
	if math.Abs(forward-want) > 1e-9 {
		t.Errorf("Score(a, b) = %v, want %v", forward, want)
	}
	if forward != backward {
		t.Errorf("expected equal results for this pair: %v != %v", forward, backward)
	}
}

func TestScore_FuzzySubwordContainment(t *testing.T) {
	// "install" contains "stall": counts as a word match
	got := Score("install the package", "stall the package deal")
	// words: {install, the->dropped? no: "the" is 3 runes} -> {install, the, package}
	// vs {stall, the, package, deal}
	// shorter = 3 words; matches: install~stall, the, package -> 3/max(3,4)
	want := 3.0 / 4.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}
