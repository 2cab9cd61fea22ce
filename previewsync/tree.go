package previewsync

import "strings"

// NoLine marks a node that carries no source line annotation.
const NoLine = -1

// Node is one element of the preview tree. The engine only reads nodes; the
// external renderer owns tree construction.
//
// SourceLine is the zero-based buffer line that produced the node, or NoLine
// when the renderer attached no annotation.
type Node struct {
	Kind       Kind
	Text       string // direct text content, excluding descendants
	SourceLine int
	Parent     *Node
	Children   []*Node

	attrs map[string]string
}

// NewNode creates an unannotated node of the given kind.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind, SourceLine: NoLine}
}

// Append adds a child and returns it.
func (n *Node) Append(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// Attr returns a named attribute, or the empty string.
func (n *Node) Attr(key string) string {
	return n.attrs[key]
}

// SetAttr sets a named attribute.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// Walk visits n and its descendants in document order. Returning false from
// fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(node) {
			return
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
}

// NodesOfKind returns all nodes in document order whose kind is in kinds.
func (n *Node) NodesOfKind(kinds ...Kind) []*Node {
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []*Node
	n.Walk(func(node *Node) bool {
		if want[node.Kind] {
			out = append(out, node)
		}
		return true
	})
	return out
}

// AnnotatedAncestor returns the nearest node, starting at n itself and
// walking parents, that carries a source line annotation. Implemented as a
// bounded loop; returns nil when the root is reached without one.
func (n *Node) AnnotatedAncestor() *Node {
	for node := n; node != nil; node = node.Parent {
		if node.SourceLine != NoLine {
			return node
		}
	}
	return nil
}

// HasAncestor reports whether anc appears on n's parent chain.
func (n *Node) HasAncestor(anc *Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == anc {
			return true
		}
	}
	return false
}

// TextContent returns the node's own text plus that of all descendants in
// document order, joined by single spaces.
func (n *Node) TextContent() string {
	var parts []string
	n.Walk(func(node *Node) bool {
		if t := strings.TrimSpace(node.Text); t != "" {
			parts = append(parts, t)
		}
		return true
	})
	return strings.Join(parts, " ")
}

// lastAnnotated returns the last node in document order whose annotation
// equals line. The deepest/last node is the most specific anchor when the
// renderer tags several nested nodes with the same line.
func lastAnnotated(root *Node, line int) *Node {
	var found *Node
	root.Walk(func(node *Node) bool {
		if node.SourceLine == line {
			found = node
		}
		return true
	})
	return found
}
