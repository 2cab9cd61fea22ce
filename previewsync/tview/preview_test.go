package tview

import (
	"strings"
	"testing"

	psync "github.com/TheBaby5/updated-discourse-click-to-edit/previewsync"
)

const sampleMarkup = "# Title\n\nfirst paragraph\n\n- apple\n- banana\n"

func TestPreviewView_SetDocumentBuildsTree(t *testing.T) {
	view := NewPreviewView()
	view.SetDocument(sampleMarkup)

	tree := view.Tree()
	if tree == nil {
		t.Fatal("expected a tree after SetDocument")
	}
	if len(view.displayLines) == 0 {
		t.Fatal("expected display lines after SetDocument")
	}
	if len(view.owners) != len(view.displayLines) {
		t.Fatalf("owners (%d) and display lines (%d) out of step", len(view.owners), len(view.displayLines))
	}
}

func TestPreviewView_OwnerMapping(t *testing.T) {
	view := NewPreviewView()
	view.SetDocument(sampleMarkup)

	heading := view.nodeAt(0)
	if heading == nil {
		t.Fatal("expected first display line to have an owner")
	}
	if heading.Kind != psync.HeadingKind(1) {
		t.Errorf("expected h1 owner, got %q", heading.Kind)
	}

	r, ok := view.rangeFor(heading)
	if !ok {
		t.Fatal("expected a display range for the heading")
	}
	if r[0] != 0 {
		t.Errorf("expected heading range to start at line 0, got %d", r[0])
	}
}

func TestPreviewView_RangeForWalksToParent(t *testing.T) {
	view := NewPreviewView()
	view.SetDocument(sampleMarkup)

	items := view.Tree().NodesOfKind(psync.KindListItem)
	if len(items) != 2 {
		t.Fatalf("expected 2 list items, got %d", len(items))
	}

	// a child text node with no line of its own resolves through its item
	child := psync.NewNode(psync.KindSpan)
	child.Text = "apple"
	items[0].Append(child)
	r, ok := view.rangeFor(child)
	if !ok {
		t.Fatal("expected a range via the parent list item")
	}
	itemRange, _ := view.rangeFor(items[0])
	if r != itemRange {
		t.Errorf("expected child range %v to match item range %v", r, itemRange)
	}
}

func TestPreviewView_HighlightRoundTrip(t *testing.T) {
	view := NewPreviewView()
	view.SetDocument(sampleMarkup)

	heading := view.nodeAt(0)
	view.ApplyHighlight(heading)
	if got := view.GetHighlights(); len(got) != 1 || got[0] != highlightRegionID {
		t.Errorf("expected highlight region after ApplyHighlight, got %v", got)
	}

	view.ClearHighlight(heading)
	if got := view.GetHighlights(); len(got) != 0 {
		t.Errorf("expected no highlight after ClearHighlight, got %v", got)
	}
}

func TestPreviewView_ClearHighlightIgnoresStaleNode(t *testing.T) {
	view := NewPreviewView()
	view.SetDocument(sampleMarkup)

	heading := view.nodeAt(0)
	other := view.nodeAt(2)
	if other == nil || other == heading {
		t.Fatalf("expected a distinct owner on line 2, got %v", other)
	}

	view.ApplyHighlight(heading)
	view.ClearHighlight(other)
	if got := view.GetHighlights(); len(got) != 1 {
		t.Errorf("expected highlight to survive a stale clear, got %v", got)
	}
}

func TestPreviewView_SetDocumentResetsHighlight(t *testing.T) {
	view := NewPreviewView()
	view.SetDocument(sampleMarkup)
	view.ApplyHighlight(view.nodeAt(0))

	view.SetDocument("plain paragraph\n")
	if got := view.GetHighlights(); len(got) != 0 {
		t.Errorf("expected highlight cleared after new document, got %v", got)
	}
}

func TestPreviewView_TableColumnsAligned(t *testing.T) {
	view := NewPreviewView()
	view.SetDocument("| a | bbbb |\n| --- | --- |\n| cc | d |\n")

	var rows []string
	for _, line := range view.displayLines {
		if strings.Contains(line, "│") {
			rows = append(rows, line)
		}
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 table rows, got %d: %q", len(rows), rows)
	}
	if strings.Index(rows[0], "│") != strings.Index(rows[1], "│") {
		t.Errorf("column separator misaligned: %q vs %q", rows[0], rows[1])
	}
}

func TestPreviewView_ConcurrentTreeReads(t *testing.T) {
	view := NewPreviewView()

	// Tree is read from debounce goroutines while the UI goroutine swaps
	// documents; both sides go through the guarded accessor.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			if tree := view.Tree(); tree != nil {
				_ = tree.Children
			}
		}
	}()
	for i := 0; i < 50; i++ {
		view.SetDocument(sampleMarkup)
	}
	<-done

	if view.Tree() == nil {
		t.Fatal("expected a tree after SetDocument")
	}
}

func TestEditorView_SelectionRoundTrip(t *testing.T) {
	editor := NewEditorView("hello world")
	editor.SetSelection(6, 11)
	if got, want := editor.Text(), "hello world"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if off := editor.CaretOffset(); off != 6 {
		t.Errorf("expected caret offset 6, got %d", off)
	}
}
