package tview

import (
	"fmt"
	"strings"
	"sync"

	psync "github.com/TheBaby5/updated-discourse-click-to-edit/previewsync"
	"github.com/TheBaby5/updated-discourse-click-to-edit/util"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const highlightRegionID = "sync_target"

// PreviewView is a TextView-based preview surface. It renders the preview
// tree into tagged display lines, remembering which node owns each line so
// mouse clicks map back to nodes and scroll/highlight requests map nodes to
// rows.
type PreviewView struct {
	*tview.TextView

	renderer *psync.DocumentRenderer

	// treeMu guards tree: written on the UI goroutine by SetDocument, read
	// by controller callbacks on timer goroutines.
	treeMu sync.RWMutex
	tree   *psync.Node

	displayLines []string
	owners       []*psync.Node
	nodeRange    map[*psync.Node][2]int

	highlighted *psync.Node
	onActivate  func(*psync.Node)

	// queueUpdate marshals UI mutations onto the application goroutine when
	// set. Controller callbacks arrive from timer goroutines.
	queueUpdate func(func())
}

// NewPreviewView creates an empty preview surface.
func NewPreviewView() *PreviewView {
	textView := tview.NewTextView()
	textView.SetDynamicColors(true)
	textView.SetRegions(true)
	textView.SetWrap(false)
	textView.SetScrollable(true)

	return &PreviewView{
		TextView:  textView,
		renderer:  psync.NewDocumentRenderer(),
		nodeRange: make(map[*psync.Node][2]int),
	}
}

// SetQueueUpdate configures how UI mutations from non-UI goroutines are
// marshalled, typically app.QueueUpdateDraw. Without it, mutations run
// inline (useful in tests).
func (v *PreviewView) SetQueueUpdate(fn func(func())) {
	v.queueUpdate = fn
}

// SetActivateHandler sets the callback fired when a rendered node is
// clicked.
func (v *PreviewView) SetActivateHandler(fn func(*psync.Node)) {
	v.onActivate = fn
}

// SetDocument re-renders the preview from markup. Must be called from the
// UI goroutine.
func (v *PreviewView) SetDocument(markup string) {
	tree := v.renderer.Render(markup)
	v.treeMu.Lock()
	v.tree = tree
	v.treeMu.Unlock()
	v.highlighted = nil
	v.rebuild()
}

// Tree returns the current preview tree, or nil before the first document.
func (v *PreviewView) Tree() *psync.Node {
	v.treeMu.RLock()
	defer v.treeMu.RUnlock()
	return v.tree
}

// ScrollTo vertically centers the node's first display line.
func (v *PreviewView) ScrollTo(n *psync.Node) {
	v.enqueue(func() {
		r, ok := v.rangeFor(n)
		if !ok {
			return
		}
		_, _, _, height := v.GetInnerRect()
		row := r[0] - height/2
		if row < 0 {
			row = 0
		}
		v.TextView.ScrollTo(row, 0)
	})
}

// ApplyHighlight marks the node as the active sync target.
func (v *PreviewView) ApplyHighlight(n *psync.Node) {
	v.enqueue(func() {
		if _, ok := v.rangeFor(n); !ok {
			return
		}
		v.highlighted = n
		v.updateContent()
	})
}

// ClearHighlight removes the highlight if the node still owns it.
func (v *PreviewView) ClearHighlight(n *psync.Node) {
	v.enqueue(func() {
		if v.highlighted != n {
			return
		}
		v.highlighted = nil
		v.updateContent()
	})
}

// MouseHandler consumes left clicks on rendered nodes; everything else keeps
// the TextView's default behavior.
func (v *PreviewView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
	return v.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
		if action == tview.MouseLeftClick {
			x, y := event.Position()
			if v.InRect(x, y) {
				_, rectY, _, _ := v.GetInnerRect()
				rowOffset, _ := v.GetScrollOffset()
				if node := v.nodeAt(y - rectY + rowOffset); node != nil && v.onActivate != nil {
					v.onActivate(node)
				}
				return true, nil
			}
		}
		return v.TextView.MouseHandler()(action, event, setFocus)
	})
}

func (v *PreviewView) enqueue(fn func()) {
	if v.queueUpdate != nil {
		v.queueUpdate(fn)
		return
	}
	fn()
}

func (v *PreviewView) rangeFor(n *psync.Node) ([2]int, bool) {
	for node := n; node != nil; node = node.Parent {
		if r, ok := v.nodeRange[node]; ok {
			return r, true
		}
	}
	return [2]int{}, false
}

func (v *PreviewView) nodeAt(displayLine int) *psync.Node {
	if displayLine < 0 || displayLine >= len(v.owners) {
		return nil
	}
	return v.owners[displayLine]
}

func (v *PreviewView) rebuild() {
	v.displayLines = v.displayLines[:0]
	v.owners = v.owners[:0]
	v.nodeRange = make(map[*psync.Node][2]int)
	if tree := v.Tree(); tree != nil {
		for _, child := range tree.Children {
			v.renderNode(child, "")
			v.emit("", nil)
		}
	}
	v.updateContent()
}

// emit appends one display line and records its owning node.
func (v *PreviewView) emit(line string, owner *psync.Node) {
	idx := len(v.displayLines)
	v.displayLines = append(v.displayLines, line)
	v.owners = append(v.owners, owner)
	if owner == nil {
		return
	}
	if r, ok := v.nodeRange[owner]; ok {
		r[1] = idx + 1
		v.nodeRange[owner] = r
	} else {
		v.nodeRange[owner] = [2]int{idx, idx + 1}
	}
}

func (v *PreviewView) renderNode(n *psync.Node, prefix string) {
	switch n.Kind {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := tview.Escape(n.TextContent())
		v.emit(prefix+util.FormatTag("yellow", "", true)+text+util.ResetTag(), n)

	case psync.KindParagraph, psync.KindSpan:
		v.emit(prefix+tview.Escape(n.TextContent()), n)

	case psync.KindList, psync.KindOrdered:
		num := 1
		for _, item := range n.Children {
			if item.Kind != psync.KindListItem {
				continue
			}
			marker := "• "
			if n.Kind == psync.KindOrdered {
				marker = fmt.Sprintf("%d. ", num)
				num++
			}
			v.renderListItem(item, prefix, marker)
		}

	case psync.KindBlockquote, psync.KindAside:
		if cite := n.Attr("cite"); cite != "" {
			v.emit(prefix+util.FormatTag("gray", "", false)+"│ "+tview.Escape(cite)+":"+util.ResetTag(), n)
		}
		for _, child := range n.Children {
			v.renderNode(child, prefix+"│ ")
		}

	case psync.KindPre:
		for _, code := range n.Children {
			for _, line := range splitCodeLines(code.Text) {
				v.emit(prefix+util.FormatTag("green", "", false)+tview.Escape(line)+util.ResetTag(), n)
			}
		}

	case psync.KindTable:
		widths := tableColumnWidths(n)
		for _, row := range n.Children {
			if row.Kind != psync.KindTableRow {
				continue
			}
			var cells []string
			for i, cell := range row.Children {
				text := tview.Escape(cell.TextContent())
				if i < len(widths) {
					if pad := widths[i] - util.VisibleWidth(text); pad > 0 {
						text += strings.Repeat(" ", pad)
					}
				}
				cells = append(cells, text)
			}
			v.emit(prefix+strings.Join(cells, " │ "), row)
		}

	case psync.KindDetails:
		for _, child := range n.Children {
			if child.Kind == psync.KindSummary {
				v.emit(prefix+util.FormatTag("aqua", "", true)+"▸ "+tview.Escape(child.TextContent())+util.ResetTag(), child)
				continue
			}
			v.renderNode(child, prefix+"  ")
		}

	case psync.KindVideo:
		label := n.Attr("src")
		if label == "" {
			label = n.TextContent()
		}
		v.emit(prefix+util.FormatTag("fuchsia", "", false)+"[video] "+tview.Escape(label)+util.ResetTag(), n)

	case psync.KindImage:
		v.emit(prefix+util.FormatTag("fuchsia", "", false)+"[image] "+tview.Escape(n.Attr("alt"))+util.ResetTag(), n)

	case psync.KindRule:
		v.emit(prefix+strings.Repeat("─", 40), n)

	default:
		for _, child := range n.Children {
			v.renderNode(child, prefix)
		}
	}
}

func (v *PreviewView) renderListItem(item *psync.Node, prefix, marker string) {
	var inline []string
	var nested []*psync.Node
	for _, child := range item.Children {
		switch child.Kind {
		case psync.KindList, psync.KindOrdered:
			nested = append(nested, child)
		default:
			if t := child.TextContent(); t != "" {
				inline = append(inline, t)
			}
		}
	}
	v.emit(prefix+marker+tview.Escape(strings.Join(inline, " ")), item)
	for _, list := range nested {
		v.renderNode(list, prefix+"  ")
	}
}

func (v *PreviewView) updateContent() {
	var r [2]int
	hasHighlight := false
	if v.highlighted != nil {
		r, hasHighlight = v.rangeFor(v.highlighted)
	}

	var b strings.Builder
	for i, line := range v.displayLines {
		if hasHighlight && i == r[0] {
			b.WriteString(util.RegionStart(highlightRegionID))
		}
		b.WriteString(line)
		if hasHighlight && i == r[1]-1 {
			b.WriteString(util.RegionEnd())
		}
		if i < len(v.displayLines)-1 {
			b.WriteString("\n")
		}
	}

	v.SetText(b.String())
	if hasHighlight {
		v.Highlight(highlightRegionID)
	} else {
		v.Highlight()
	}
}

// tableColumnWidths measures the widest cell per column so separators line
// up across rows. Widths are of visible text, with any tags stripped.
func tableColumnWidths(table *psync.Node) []int {
	var widths []int
	for _, row := range table.Children {
		if row.Kind != psync.KindTableRow {
			continue
		}
		for i, cell := range row.Children {
			w := util.VisibleWidth(tview.Escape(cell.TextContent()))
			if i >= len(widths) {
				widths = append(widths, w)
			} else if w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func splitCodeLines(code string) []string {
	code = strings.TrimRight(code, "\n")
	if code == "" {
		return nil
	}
	return strings.Split(code, "\n")
}
