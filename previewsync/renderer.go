package previewsync

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	detailsOnlyPattern = regexp.MustCompile(`(?i)^\[details(?:=(?:"([^"\]]*)"|([^\]]*)))?\]$`)
	detailsClosePat    = regexp.MustCompile(`(?i)^\[/details\]$`)
	quoteOnlyPattern   = regexp.MustCompile(`(?i)^\[quote(?:=(?:"([^"\]]*)"|([^\]]*)))?\]$`)
	quoteClosePat      = regexp.MustCompile(`(?i)^\[/quote\]$`)
	embeddedURLPattern = regexp.MustCompile(`(?:https?|upload)://[^\s"\]]+`)
)

// DocumentRenderer is the reference line-annotating renderer. It parses
// markup into a preview tree whose block nodes carry the source line that
// produced them, which is the fast path the resolver prefers over content
// matching.
//
// The engine itself never requires this renderer; any tree satisfying the
// Node contract works, including trees with no annotations at all.
type DocumentRenderer struct {
	md goldmark.Markdown
}

// NewDocumentRenderer creates a renderer with table and strikethrough
// support.
func NewDocumentRenderer() *DocumentRenderer {
	return &DocumentRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify)),
	}
}

// Render parses the buffer into a preview tree rooted at a container node.
func (r *DocumentRenderer) Render(buffer string) *Node {
	src := []byte(buffer)
	doc := r.md.Parser().Parse(text.NewReader(src))

	b := &treeBuilder{src: src, idx: NewPositionIndex(buffer)}
	root := NewNode(KindContainer)
	b.convertChildren(doc, root)

	regroupBracketBlocks(root)
	promoteMediaParagraphs(root)
	return root
}

type treeBuilder struct {
	src      []byte
	idx      *PositionIndex
	inHeader bool
}

func (b *treeBuilder) convertChildren(astNode ast.Node, parent *Node) {
	for child := astNode.FirstChild(); child != nil; child = child.NextSibling() {
		b.convert(child, parent)
	}
}

func (b *treeBuilder) convert(astNode ast.Node, parent *Node) {
	switch n := astNode.(type) {
	case *ast.Heading:
		node := parent.Append(NewNode(HeadingKind(n.Level)))
		b.annotate(n, node)
		b.convertChildren(n, node)

	case *ast.Paragraph:
		node := parent.Append(NewNode(KindParagraph))
		b.annotate(n, node)
		b.convertChildren(n, node)

	case *ast.TextBlock:
		node := parent.Append(NewNode(KindSpan))
		b.annotate(n, node)
		b.convertChildren(n, node)

	case *ast.List:
		kind := KindList
		if n.IsOrdered() {
			kind = KindOrdered
		}
		node := parent.Append(NewNode(kind))
		b.convertChildren(n, node)

	case *ast.ListItem:
		node := parent.Append(NewNode(KindListItem))
		b.convertChildren(n, node)

	case *ast.Blockquote:
		node := parent.Append(NewNode(KindBlockquote))
		b.convertChildren(n, node)

	case *ast.FencedCodeBlock:
		pre := parent.Append(NewNode(KindPre))
		b.annotate(n, pre)
		code := pre.Append(NewNode(KindCode))
		if lang := n.Language(b.src); lang != nil {
			code.SetAttr("lang", string(lang))
		}
		code.Text = b.segmentsText(n)

	case *ast.CodeBlock:
		pre := parent.Append(NewNode(KindPre))
		b.annotate(n, pre)
		code := pre.Append(NewNode(KindCode))
		code.Text = b.segmentsText(n)

	case *ast.HTMLBlock:
		node := parent.Append(NewNode(KindContainer))
		b.annotate(n, node)

	case *ast.ThematicBreak:
		parent.Append(NewNode(KindRule))

	case *east.Table:
		node := parent.Append(NewNode(KindTable))
		b.convertChildren(n, node)

	case *east.TableHeader:
		node := parent.Append(NewNode(KindTableRow))
		b.inHeader = true
		b.convertChildren(n, node)
		b.inHeader = false

	case *east.TableRow:
		node := parent.Append(NewNode(KindTableRow))
		b.convertChildren(n, node)

	case *east.TableCell:
		kind := KindTableCell
		if b.inHeader {
			kind = KindTableHead
		}
		node := parent.Append(NewNode(kind))
		b.convertChildren(n, node)

	case *ast.Link:
		node := parent.Append(NewNode(KindAnchor))
		node.SetAttr("href", string(n.Destination))
		b.convertChildren(n, node)

	case *ast.AutoLink:
		node := parent.Append(NewNode(KindAnchor))
		url := string(n.URL(b.src))
		node.SetAttr("href", url)
		node.Text = url

	case *ast.Image:
		node := parent.Append(NewNode(KindImage))
		node.SetAttr("src", string(n.Destination))
		node.SetAttr("alt", b.inlineText(n))

	case *ast.Emphasis:
		kind := KindEmphasis
		if n.Level >= 2 {
			kind = KindStrong
		}
		node := parent.Append(NewNode(kind))
		b.convertChildren(n, node)

	case *east.Strikethrough:
		node := parent.Append(NewNode(KindStrike))
		b.convertChildren(n, node)

	case *ast.CodeSpan:
		node := parent.Append(NewNode(KindCode))
		node.Text = b.inlineText(n)

	case *ast.Text:
		appendText(parent, string(n.Segment.Value(b.src)))
		if n.SoftLineBreak() || n.HardLineBreak() {
			parent.Text += " "
		}

	case *ast.String:
		appendText(parent, string(n.Value))

	case *ast.RawHTML:
		// dropped from the preview text

	default:
		b.convertChildren(n, parent)
	}
}

// annotate attaches the source line of a block node's first segment.
func (b *treeBuilder) annotate(astNode ast.Node, node *Node) {
	if astNode.Type() != ast.TypeBlock {
		return
	}
	lines := astNode.Lines()
	if lines == nil || lines.Len() == 0 {
		return
	}
	node.SourceLine = b.idx.LineNumberAt(lines.At(0).Start)
}

func (b *treeBuilder) segmentsText(astNode ast.Node) string {
	lines := astNode.Lines()
	if lines == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.src))
	}
	return sb.String()
}

func (b *treeBuilder) inlineText(astNode ast.Node) string {
	var sb strings.Builder
	for child := astNode.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(b.src))
		case *ast.String:
			sb.Write(n.Value)
		default:
			sb.WriteString(b.inlineText(n))
		}
	}
	return sb.String()
}

func appendText(node *Node, s string) {
	node.Text += s
}

// regroupBracketBlocks converts [details]/[quote] opener and closer
// paragraphs into details/aside nodes containing the paragraphs between
// them. Nesting is handled with an explicit stack; an unclosed opener keeps
// collecting to the end of its container.
func regroupBracketBlocks(root *Node) {
	for _, child := range root.Children {
		regroupBracketBlocks(child)
	}

	type openBlock struct {
		node   *Node
		closer *regexp.Regexp
	}
	var out []*Node
	var stack []openBlock

	appendTo := func(n *Node) {
		if len(stack) > 0 {
			top := stack[len(stack)-1].node
			n.Parent = top
			top.Children = append(top.Children, n)
			return
		}
		n.Parent = root
		out = append(out, n)
	}

	for _, child := range root.Children {
		raw := strings.TrimSpace(child.TextContent())

		if len(stack) > 0 && stack[len(stack)-1].closer.MatchString(raw) {
			stack = stack[:len(stack)-1]
			continue
		}

		if m := detailsOnlyPattern.FindStringSubmatch(raw); m != nil {
			details := NewNode(KindDetails)
			details.SourceLine = child.SourceLine
			summary := details.Append(NewNode(KindSummary))
			summary.SourceLine = child.SourceLine
			summary.Text = firstGroup(m)
			appendTo(details)
			stack = append(stack, openBlock{node: details, closer: detailsClosePat})
			continue
		}

		if m := quoteOnlyPattern.FindStringSubmatch(raw); m != nil {
			quote := NewNode(KindAside)
			quote.SourceLine = child.SourceLine
			if cite := firstGroup(m); cite != "" {
				quote.SetAttr("cite", cite)
			}
			appendTo(quote)
			stack = append(stack, openBlock{node: quote, closer: quoteClosePat})
			continue
		}

		appendTo(child)
	}

	root.Children = out
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// promoteMediaParagraphs turns paragraphs that consist only of a media link,
// a media image, or [video] markup into video nodes, since media renders as
// a player rather than text.
func promoteMediaParagraphs(root *Node) {
	root.Walk(func(n *Node) bool {
		if n.Kind != KindParagraph {
			return true
		}

		if videoTagPattern.MatchString(n.Text) {
			n.Kind = KindVideo
			if url := embeddedURLPattern.FindString(n.Text); url != "" {
				n.SetAttr("src", url)
			}
			return true
		}

		if strings.TrimSpace(n.Text) != "" || len(n.Children) != 1 {
			return true
		}
		child := n.Children[0]
		var src string
		switch child.Kind {
		case KindAnchor:
			src = child.Attr("href")
		case KindImage:
			src = child.Attr("src")
		default:
			return true
		}
		if src != "" && IsMediaLine(src) {
			n.Kind = KindVideo
			n.SetAttr("src", src)
		}
		return true
	})
}
