package previewsync

import (
	"regexp"
	"strings"
	"unicode"
)

// Package-level compiled patterns (avoids recompilation per call).
var (
	// Bracket-tag markup, both [tag], [tag=value] and [/tag] forms,
	// case-insensitive. Restricted to known tag names so markdown link
	// labels are not swallowed.
	bracketTagPattern = regexp.MustCompile(`(?i)\[/?(?:b|i|u|s|strike|del|code|quote|details|summary|spoiler|poll|video|audio|wrap|grid|date|chat|center|left|right|size|color|email|abbr|kbd)(?:=[^\]\n]*)?\]`)

	boldPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldAltPattern    = regexp.MustCompile(`__(.+?)__`)
	strikePattern     = regexp.MustCompile(`~~(.+?)~~`)
	italicPattern     = regexp.MustCompile(`\*(.+?)\*`)
	italicAltPattern  = regexp.MustCompile(`_(.+?)_`)
	inlineCodePattern = regexp.MustCompile("`(.+?)`")

	headingMarkerPattern = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	listMarkerPattern    = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+[.)])\s+`)
	quoteMarkerPattern   = regexp.MustCompile(`(?m)^>\s?`)

	imageMarkupPattern = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkMarkupPattern  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)

	footnotePattern = regexp.MustCompile(`\^\[([^\]]*)\]`)

	rawTagPattern = regexp.MustCompile(`</?[a-zA-Z][^>\n]*>`)

	uploadRefPattern = regexp.MustCompile(`upload://[^\s)\]]+`)
)

// Strip removes markup syntax from raw text, keeping only the text a reader
// would see in the preview. Rules apply in a fixed order; inline constructs
// are replaced by their inner text, structural markers are dropped.
func Strip(raw string) string {
	s := raw
	s = bracketTagPattern.ReplaceAllString(s, "")

	s = boldPattern.ReplaceAllString(s, "$1")
	s = boldAltPattern.ReplaceAllString(s, "$1")
	s = strikePattern.ReplaceAllString(s, "$1")
	s = italicPattern.ReplaceAllString(s, "$1")
	s = italicAltPattern.ReplaceAllString(s, "$1")
	s = inlineCodePattern.ReplaceAllString(s, "$1")

	s = headingMarkerPattern.ReplaceAllString(s, "")
	s = listMarkerPattern.ReplaceAllString(s, "")
	s = quoteMarkerPattern.ReplaceAllString(s, "")

	// Images before links: an image is a link with a leading bang.
	s = imageMarkupPattern.ReplaceAllString(s, "$1")
	s = linkMarkupPattern.ReplaceAllString(s, "$1")

	s = footnotePattern.ReplaceAllString(s, "$1")
	s = rawTagPattern.ReplaceAllString(s, "")
	s = uploadRefPattern.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, "|", " ")
	return s
}

// Normalize produces the canonical comparison form of text: lowercase,
// letters/digits/whitespace only, single-spaced, trimmed. Normalize is
// idempotent.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
