package previewsync

import (
	"testing"
	"time"
)

// fastConfig keeps debounce waits short enough for tests while remaining
// long enough to observe coalescing.
func fastConfig() Config {
	return Config{
		ScrollDebounce:    10 * time.Millisecond,
		HighlightDebounce: 20 * time.Millisecond,
	}
}

func TestController_PreviewClickSetsSelection(t *testing.T) {
	editor := &fakeEditor{text: "intro\n[b]this is bold text[/b]\nend"}
	node := textNode(KindParagraph, "this is bold text")
	preview := &fakePreview{tree: buildTree(node)}
	c := NewController(editor, preview, fastConfig())
	defer c.Teardown()

	c.OnPreviewNodeActivated(node)

	if len(editor.selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(editor.selections))
	}
	start, end := editor.selections[0][0], editor.selections[0][1]
	if editor.text[start:end] != "[b]this is bold text[/b]" {
		t.Errorf("selected %q, want the matched line", editor.text[start:end])
	}
	if c.ActiveTarget() != node {
		t.Error("clicked node should become the active target")
	}
}

func TestController_PreviewClickNoMatchIsNoOp(t *testing.T) {
	editor := &fakeEditor{text: "completely different buffer"}
	node := textNode(KindParagraph, "unrelated node words")
	preview := &fakePreview{tree: buildTree(node)}
	c := NewController(editor, preview, fastConfig())
	defer c.Teardown()

	c.OnPreviewNodeActivated(node)

	if len(editor.selections) != 0 {
		t.Errorf("no-match click should not touch the selection, got %v", editor.selections)
	}
	if c.ActiveTarget() != nil {
		t.Error("no-match click should not set an active target")
	}
}

func TestController_EditorMoveScrollsAndHighlights(t *testing.T) {
	target := annotatedNode(KindParagraph, "second line", 1)
	editor := &fakeEditor{text: "first line\nsecond line", caret: 13}
	preview := &fakePreview{tree: buildTree(target)}
	c := NewController(editor, preview, fastConfig())
	defer c.Teardown()

	c.OnEditorPositionChanged()
	time.Sleep(80 * time.Millisecond)

	if preview.scrolledCount() != 1 {
		t.Fatalf("scrolls = %d, want 1", preview.scrolledCount())
	}
	if preview.scrolledTo[0] != target {
		t.Error("scrolled to the wrong node")
	}
	if c.ActiveTarget() != target {
		t.Error("debounced highlight should have landed on the target")
	}
}

func TestController_EditorStateReadAtTriggerTime(t *testing.T) {
	first := annotatedNode(KindParagraph, "first line", 0)
	second := annotatedNode(KindParagraph, "second line", 1)
	editor := &fakeEditor{text: "first line\nsecond line", caret: 2}
	preview := &fakePreview{tree: buildTree(first, second)}
	c := NewController(editor, preview, fastConfig())
	defer c.Teardown()

	c.OnEditorPositionChanged()
	// mutations between the trigger and the debounced callback must not
	// affect resolution; the callback works from the trigger-time snapshot
	editor.text = "something else entirely"
	editor.caret = 15
	time.Sleep(80 * time.Millisecond)

	if preview.scrolledCount() != 1 {
		t.Fatalf("scrolls = %d, want 1", preview.scrolledCount())
	}
	if preview.scrolledTo[0] != first {
		t.Errorf("scrolled to %v, want the node for the trigger-time caret", preview.scrolledTo[0])
	}
}

func TestController_RapidMovesCoalesce(t *testing.T) {
	target := annotatedNode(KindParagraph, "line", 0)
	editor := &fakeEditor{text: "line"}
	preview := &fakePreview{tree: buildTree(target)}
	c := NewController(editor, preview, fastConfig())
	defer c.Teardown()

	for i := 0; i < 10; i++ {
		c.OnEditorPositionChanged()
	}
	time.Sleep(80 * time.Millisecond)

	if preview.scrolledCount() != 1 {
		t.Errorf("rapid moves should coalesce into one resolution, got %d", preview.scrolledCount())
	}
}

func TestController_HighlightIdempotent(t *testing.T) {
	node := annotatedNode(KindParagraph, "line", 0)
	editor := &fakeEditor{text: "line"}
	preview := &fakePreview{tree: buildTree(node)}
	c := NewController(editor, preview, fastConfig())
	defer c.Teardown()

	c.setActiveTarget(node)
	c.setActiveTarget(node)

	if got := preview.appliedCount(); got != 1 {
		t.Errorf("applied highlights = %d, want 1 (idempotent replacement)", got)
	}
}

func TestController_HighlightReplacementClearsPrevious(t *testing.T) {
	first := textNode(KindParagraph, "one")
	second := textNode(KindParagraph, "two")
	editor := &fakeEditor{text: "one\ntwo"}
	preview := &fakePreview{tree: buildTree(first, second)}
	c := NewController(editor, preview, fastConfig())
	defer c.Teardown()

	c.setActiveTarget(first)
	c.setActiveTarget(second)

	if len(preview.cleared) != 1 || preview.cleared[0] != first {
		t.Errorf("cleared = %v, want the first node cleared once", preview.cleared)
	}
	if c.ActiveTarget() != second {
		t.Error("active target should be the second node")
	}
}

func TestController_TeardownDefusesCallbacks(t *testing.T) {
	target := annotatedNode(KindParagraph, "line", 0)
	editor := &fakeEditor{text: "line"}
	preview := &fakePreview{tree: buildTree(target)}
	c := NewController(editor, preview, fastConfig())

	c.OnEditorPositionChanged()
	c.Teardown()
	time.Sleep(80 * time.Millisecond)

	if preview.scrolledCount() != 0 {
		t.Errorf("scheduled callback fired after teardown: %d scrolls", preview.scrolledCount())
	}

	// events after teardown are no-ops, not panics
	c.OnEditorPositionChanged()
	c.OnPreviewNodeActivated(target)
	time.Sleep(40 * time.Millisecond)

	if preview.scrolledCount() != 0 || len(editor.selections) != 0 || preview.appliedCount() != 0 {
		t.Error("torn-down controller produced side effects")
	}
}

func TestController_TeardownTwiceIsSafe(t *testing.T) {
	c := NewController(&fakeEditor{}, &fakePreview{}, fastConfig())
	c.Teardown()
	c.Teardown()
}

func TestController_MissingCollaboratorsAreNoMatch(t *testing.T) {
	// nil tree: resolution silently declines
	editor := &fakeEditor{text: "line"}
	preview := &fakePreview{tree: nil}
	c := NewController(editor, preview, fastConfig())
	defer c.Teardown()

	c.OnEditorPositionChanged()
	time.Sleep(50 * time.Millisecond)
	if preview.scrolledCount() != 0 {
		t.Error("nil tree should behave as no-match")
	}

	// nil surfaces: events are guarded no-ops
	c2 := NewController(nil, nil, fastConfig())
	defer c2.Teardown()
	c2.OnEditorPositionChanged()
	c2.OnPreviewNodeActivated(textNode(KindParagraph, "x"))
	time.Sleep(50 * time.Millisecond)
}
