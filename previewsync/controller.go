package previewsync

import "sync"

// Controller is the stateful orchestrator wiring an editor surface to a
// preview surface. It owns the single active highlight target, the two
// independent debounce timers, and the teardown lifecycle. Multiple
// controllers (one per open document) share no state.
type Controller struct {
	mu        sync.Mutex
	editor    EditorSurface
	preview   PreviewSurface
	resolver  *Resolver
	active    *Node
	pending   *Node
	destroyed bool

	// buffer snapshot taken on the caller's goroutine at trigger time; the
	// debounced callback must not touch the editor from a timer goroutine.
	snapText  string
	snapCaret int

	scrollDeb    *Debouncer
	highlightDeb *Debouncer
}

// NewController wires the two surfaces together. Event callbacks are no-ops
// until both surfaces are non-nil at call time, and again after Teardown.
func NewController(editor EditorSurface, preview PreviewSurface, cfg Config) *Controller {
	cfg = cfg.withDefaults()
	c := &Controller{
		editor:   editor,
		preview:  preview,
		resolver: NewResolver(cfg.AcceptThreshold),
	}
	c.scrollDeb = NewDebouncer(cfg.ScrollDebounce, c.syncScroll)
	c.highlightDeb = NewDebouncer(cfg.HighlightDebounce, c.applyPendingHighlight)
	return c
}

// ActiveTarget returns the currently highlighted node, or nil.
func (c *Controller) ActiveTarget() *Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// OnEditorPositionChanged is called by the host on typing, caret movement or
// editor clicks. Buffer and caret are read here, on the caller's goroutine;
// resolution itself is debounced to coalesce rapid keystrokes.
func (c *Controller) OnEditorPositionChanged() {
	c.mu.Lock()
	editor := c.editor
	dead := c.destroyed
	c.mu.Unlock()
	if dead || editor == nil {
		return
	}

	text := editor.Text()
	caret := editor.CaretOffset()

	c.mu.Lock()
	c.snapText = text
	c.snapCaret = caret
	c.mu.Unlock()
	c.scrollDeb.Trigger()
}

// OnPreviewNodeActivated is called by the host when a preview node is
// clicked. On a successful resolution the buffer selection is set to the
// line's bounds and the node becomes the active highlight target. Unmatched
// input is a silent no-op, never an error.
func (c *Controller) OnPreviewNodeActivated(node *Node) {
	c.mu.Lock()
	editor := c.editor
	dead := c.destroyed
	c.mu.Unlock()
	if dead || editor == nil || node == nil {
		return
	}

	buffer := editor.Text()
	line, ok := c.resolver.LineForNode(buffer, node)
	if !ok {
		return
	}

	start, end := NewPositionIndex(buffer).LineBounds(line)
	editor.SetSelection(start, end)
	c.setActiveTarget(node)
}

// Teardown cancels pending timers and defuses all further callbacks. Safe to
// call more than once.
func (c *Controller) Teardown() {
	c.mu.Lock()
	c.destroyed = true
	c.pending = nil
	c.mu.Unlock()
	c.scrollDeb.Cancel()
	c.highlightDeb.Cancel()
}

// syncScroll is the debounced editor-direction resolution: caret line to
// preview node, scroll, then schedule the (independently debounced)
// highlight update.
func (c *Controller) syncScroll() {
	c.mu.Lock()
	preview := c.preview
	buffer := c.snapText
	caret := c.snapCaret
	dead := c.destroyed
	c.mu.Unlock()
	if dead || preview == nil {
		return
	}

	tree := preview.Tree()
	if tree == nil {
		return
	}

	line := NewPositionIndex(buffer).LineNumberAt(caret)
	node, ok := c.resolver.NodeForLine(buffer, tree, line)
	if !ok {
		return
	}

	preview.ScrollTo(node)

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.pending = node
	c.mu.Unlock()
	c.highlightDeb.Trigger()
}

func (c *Controller) applyPendingHighlight() {
	c.mu.Lock()
	node := c.pending
	dead := c.destroyed
	c.mu.Unlock()
	if dead || node == nil {
		return
	}
	c.setActiveTarget(node)
}

// setActiveTarget replaces the highlight target. Replacing a target with
// itself is a no-op so repeated resolutions to the same node cause no
// redundant highlight work.
func (c *Controller) setActiveTarget(node *Node) {
	c.mu.Lock()
	if c.destroyed || node == c.active {
		c.mu.Unlock()
		return
	}
	prev := c.active
	c.active = node
	preview := c.preview
	c.mu.Unlock()

	if preview == nil {
		return
	}
	if prev != nil {
		preview.ClearHighlight(prev)
	}
	if node != nil {
		preview.ApplyHighlight(node)
	}
}
