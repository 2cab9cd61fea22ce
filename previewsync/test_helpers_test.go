package previewsync

import "sync"

// buildTree constructs a small preview tree for resolver tests: a container
// root with the given children appended in order.
func buildTree(children ...*Node) *Node {
	root := NewNode(KindContainer)
	for _, c := range children {
		root.Append(c)
	}
	return root
}

func textNode(kind Kind, text string) *Node {
	n := NewNode(kind)
	n.Text = text
	return n
}

func annotatedNode(kind Kind, text string, line int) *Node {
	n := textNode(kind, text)
	n.SourceLine = line
	return n
}

// fakeEditor implements EditorSurface with recorded selections.
type fakeEditor struct {
	text       string
	caret      int
	selections [][2]int
}

func (e *fakeEditor) Text() string      { return e.text }
func (e *fakeEditor) CaretOffset() int  { return e.caret }
func (e *fakeEditor) SetSelection(start, end int) {
	e.selections = append(e.selections, [2]int{start, end})
}

// fakePreview implements PreviewSurface with recorded side effects.
type fakePreview struct {
	mu         sync.Mutex
	tree       *Node
	scrolledTo []*Node
	applied    []*Node
	cleared    []*Node
}

func (p *fakePreview) Tree() *Node { return p.tree }

func (p *fakePreview) ScrollTo(n *Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolledTo = append(p.scrolledTo, n)
}

func (p *fakePreview) ApplyHighlight(n *Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applied = append(p.applied, n)
}

func (p *fakePreview) ClearHighlight(n *Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleared = append(p.cleared, n)
}

func (p *fakePreview) appliedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.applied)
}

func (p *fakePreview) scrolledCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.scrolledTo)
}
