package previewsync

import "time"

// Kind identifies the element kind a preview node renders as. Values mirror
// the tag names the external renderer produces so the classifier can narrow
// candidate sets by kind.
type Kind string

const (
	KindParagraph  Kind = "p"
	KindSpan       Kind = "span"
	KindContainer  Kind = "div"
	KindListItem   Kind = "li"
	KindList       Kind = "ul"
	KindOrdered    Kind = "ol"
	KindBlockquote Kind = "blockquote"
	KindAside      Kind = "aside"
	KindCode       Kind = "code"
	KindPre        Kind = "pre"
	KindAnchor     Kind = "a"
	KindImage      Kind = "img"
	KindVideo      Kind = "video"
	KindStrong     Kind = "strong"
	KindEmphasis   Kind = "em"
	KindStrike     Kind = "s"
	KindDetails    Kind = "details"
	KindSummary    Kind = "summary"
	KindTable      Kind = "table"
	KindTableRow   Kind = "tr"
	KindTableCell  Kind = "td"
	KindTableHead  Kind = "th"
	KindRule       Kind = "hr"
)

// HeadingKind returns the kind for a heading of the given level (1-6).
func HeadingKind(level int) Kind {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return Kind([]string{"h1", "h2", "h3", "h4", "h5", "h6"}[level-1])
}

// Config holds the controller tunables. Zero values are replaced with
// defaults by NewController.
type Config struct {
	// ScrollDebounce coalesces rapid editor movement before the preview is
	// re-resolved and scrolled.
	ScrollDebounce time.Duration

	// HighlightDebounce delays highlight application behind scrolling so the
	// highlight does not flicker during fast navigation.
	HighlightDebounce time.Duration

	// AcceptThreshold is the minimum match score for content-based
	// resolution to accept a candidate.
	AcceptThreshold float64
}

const (
	defaultScrollDebounce    = 50 * time.Millisecond
	defaultHighlightDebounce = 200 * time.Millisecond
	defaultAcceptThreshold   = 0.4
)

func (c Config) withDefaults() Config {
	if c.ScrollDebounce <= 0 {
		c.ScrollDebounce = defaultScrollDebounce
	}
	if c.HighlightDebounce <= 0 {
		c.HighlightDebounce = defaultHighlightDebounce
	}
	if c.AcceptThreshold <= 0 {
		c.AcceptThreshold = defaultAcceptThreshold
	}
	return c
}

// EditorSurface is the host editing widget as seen by the controller.
// The engine reads the buffer and caret and writes selection ranges; it
// never mutates text.
type EditorSurface interface {
	// Text returns the current buffer contents.
	Text() string

	// CaretOffset returns the caret position as a byte offset into Text.
	CaretOffset() int

	// SetSelection selects the byte range [start, end) and moves the caret
	// there.
	SetSelection(start, end int)
}

// PreviewSurface is the rendered-preview widget as seen by the controller.
// The engine reads the tree and requests scrolling and highlighting; it
// never mutates tree structure.
type PreviewSurface interface {
	// Tree returns the current preview tree, or nil while unloaded.
	Tree() *Node

	// ScrollTo vertically centers the node in the scrollable container.
	ScrollTo(n *Node)

	// ApplyHighlight marks the node as the active sync target.
	ApplyHighlight(n *Node)

	// ClearHighlight removes a previously applied highlight.
	ClearHighlight(n *Node)
}
