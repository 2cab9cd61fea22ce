package util

import (
	"fmt"
	"regexp"
	"strings"
)

// Package-level compiled regex for tview style tags (avoids recompilation per call).
var tviewTagPattern = regexp.MustCompile(`\[(?:"[^"]*"|[a-zA-Z#][a-zA-Z0-9#]*(?::[a-zA-Z0-9#-]*){0,2}|-(?::[a-zA-Z0-9#-]*){0,2})\]`)

// FormatTag builds a tview color tag. Empty components reset to the default
// via "-".
func FormatTag(fg, bg string, bold bool) string {
	if fg == "" {
		fg = "-"
	}
	if bg == "" {
		bg = "-"
	}
	attr := "-"
	if bold {
		attr = "b"
	}
	return fmt.Sprintf("[%s:%s:%s]", fg, bg, attr)
}

// ResetTag restores default foreground, background and attributes.
func ResetTag() string {
	return "[-:-:-]"
}

// RegionStart opens a tview region with the given id.
func RegionStart(id string) string {
	return `["` + id + `"]`
}

// RegionEnd closes the current tview region.
func RegionEnd() string {
	return `[""]`
}

// StripTags removes tview color and region tags from a line, yielding the
// visible text. Escaped tags (trailing "[]") keep their literal form minus
// the escape.
func StripTags(s string) string {
	s = tviewTagPattern.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "[]", "")
}

// VisibleWidth returns the rune count of a line once tags are stripped.
func VisibleWidth(s string) int {
	return len([]rune(StripTags(s)))
}
