package tview

import (
	"github.com/rivo/tview"
)

// EditorView wraps a TextArea as an editor surface. Offsets are byte
// offsets into the buffer, matching what TextArea reports.
type EditorView struct {
	*tview.TextArea
}

// NewEditorView creates an editor pre-loaded with text.
func NewEditorView(text string) *EditorView {
	area := tview.NewTextArea()
	area.SetText(text, false)
	area.SetWrap(false)
	return &EditorView{TextArea: area}
}

// Text returns the current buffer contents.
func (v *EditorView) Text() string {
	return v.GetText()
}

// CaretOffset returns the caret position as a byte offset.
func (v *EditorView) CaretOffset() int {
	_, start, _ := v.GetSelection()
	return start
}

// SetSelection selects the byte range [start, end) and moves the caret
// there.
func (v *EditorView) SetSelection(start, end int) {
	v.Select(start, end)
}

// SetMovedHandler fires whenever the caret or selection changes.
func (v *EditorView) SetMovedHandler(fn func()) {
	v.SetMovedFunc(fn)
}

// SetChangedHandler fires whenever the buffer contents change.
func (v *EditorView) SetChangedHandler(fn func()) {
	v.SetChangedFunc(fn)
}
