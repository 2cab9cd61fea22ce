package previewsync

import (
	"regexp"
	"strings"
)

var (
	headingLinePattern = regexp.MustCompile(`^(#{1,6})\s`)
	listLinePattern    = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s`)
	quoteLinePattern   = regexp.MustCompile(`(?i)^\s*>|\[quote`)
	codeLinePattern    = regexp.MustCompile("(?i)`|^```|\\[code\\]")
	linkLinePattern    = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)
	emphasisPattern    = regexp.MustCompile(`\*\*|__|~~|\*|_`)
	detailsLinePattern = regexp.MustCompile(`(?i)\[details`)
	videoTagPattern    = regexp.MustCompile(`(?i)\[video`)
	mediaExtPattern    = regexp.MustCompile(`(?i)\.(?:mp4|webm|mov|avi|m4v|mp3|ogg)\b`)
)

var mediaHosts = []string{"youtube.com", "youtu.be", "vimeo.com"}

// CandidateKinds inspects a raw source line and returns the ordered set of
// element kinds it is likely to render as. Generic text containers are
// always included as a baseline; pattern checks are independent and
// non-exclusive. The result only prunes the resolver's search space, it is
// not a correctness guarantee.
func CandidateKinds(raw string) []Kind {
	kinds := []Kind{KindParagraph, KindListItem, KindSpan, KindContainer}
	seen := map[Kind]bool{
		KindParagraph: true, KindListItem: true, KindSpan: true, KindContainer: true,
	}
	add := func(ks ...Kind) {
		for _, k := range ks {
			if !seen[k] {
				seen[k] = true
				kinds = append(kinds, k)
			}
		}
	}

	if m := headingLinePattern.FindStringSubmatch(raw); m != nil {
		add(HeadingKind(len(m[1])))
	}
	if listLinePattern.MatchString(raw) {
		add(KindList, KindOrdered)
	}
	if strings.Contains(raw, "|") {
		add(KindTable, KindTableRow, KindTableCell, KindTableHead)
	}
	if quoteLinePattern.MatchString(raw) {
		add(KindBlockquote, KindAside)
	}
	if codeLinePattern.MatchString(raw) {
		add(KindCode, KindPre)
	}
	if linkLinePattern.MatchString(raw) {
		add(KindAnchor)
		if strings.Contains(raw, "![") {
			add(KindImage)
		}
	}
	if IsMediaLine(raw) {
		add(KindVideo)
	}
	if emphasisPattern.MatchString(raw) {
		add(KindStrong, KindEmphasis)
	}
	if detailsLinePattern.MatchString(raw) {
		add(KindDetails, KindSummary)
	}

	return kinds
}

// IsMediaLine reports whether a line carries video markup, a known media
// file extension, or a known media host.
func IsMediaLine(raw string) bool {
	if videoTagPattern.MatchString(raw) || mediaExtPattern.MatchString(raw) {
		return true
	}
	lower := strings.ToLower(raw)
	for _, host := range mediaHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}
