package previewsync

import (
	"regexp"
	"strings"
)

var (
	detailsOpenPattern = regexp.MustCompile(`(?i)\[details(?:=(?:"([^"\]]*)"|([^\]]*)))?\]`)
	imageLinePattern   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)
)

// Resolver maps buffer lines to preview nodes and back. Each call is a pure
// function of the buffer and tree snapshots passed in; the resolver holds no
// state besides its acceptance threshold.
type Resolver struct {
	threshold float64
}

// NewResolver creates a resolver. A non-positive threshold selects the
// default.
func NewResolver(threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = defaultAcceptThreshold
	}
	return &Resolver{threshold: threshold}
}

// fuzzyThreshold is the relaxed acceptance bar used by the click-direction
// fuzzy pass, where the node text is authoritative rendered output.
func (r *Resolver) fuzzyThreshold() float64 {
	t := r.threshold - 0.1
	if t < 0.1 {
		t = 0.1
	}
	return t
}

// LineForNode resolves the buffer line corresponding to a clicked preview
// node. An annotated ancestor (including the node itself) wins outright;
// otherwise the node's rendered text is matched against stripped buffer
// lines in three strict passes: exact, containment, fuzzy. A pass that
// yields a match ends the search. Returns ok=false when nothing matches.
func (r *Resolver) LineForNode(buffer string, node *Node) (int, bool) {
	if node == nil {
		return 0, false
	}
	if anc := node.AnnotatedAncestor(); anc != nil {
		return anc.SourceLine, true
	}

	target := Normalize(node.TextContent())
	if target == "" {
		return 0, false
	}

	lines := strings.Split(buffer, "\n")
	normalized := make([]string, len(lines))
	for i, line := range lines {
		normalized[i] = Normalize(Strip(line))
	}

	// Pass 1: exact normalized equality, first line wins.
	for i, line := range normalized {
		if line == target {
			return i, true
		}
	}

	// Pass 2: containment either direction, highest length ratio wins,
	// lowest index breaks ties.
	if line, ok := r.bestLine(normalized, target, func(line string) float64 {
		if !strings.Contains(line, target) && !strings.Contains(target, line) {
			return 0
		}
		return Score(target, line)
	}, r.fuzzyThreshold()); ok {
		return line, true
	}

	// Pass 3: fuzzy word overlap.
	return r.bestLine(normalized, target, func(line string) float64 {
		return Score(target, line)
	}, r.fuzzyThreshold())
}

func (r *Resolver) bestLine(normalized []string, target string, score func(string) float64, threshold float64) (int, bool) {
	bestIdx := -1
	bestScore := 0.0
	for i, line := range normalized {
		if line == "" {
			continue
		}
		if s := score(line); s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < threshold {
		return 0, false
	}
	return bestIdx, true
}

// NodeForLine resolves the preview node corresponding to a buffer line.
//
// Annotated nodes win: the last node in document order annotated with the
// line is the most specific anchor. A line with no annotation anywhere
// inherits the anchor of the nearest preceding annotated line (a bounded
// walk back to line 0). Only when no annotation exists at or before the
// line does content-based resolution run, on the originally queried line:
// special-construct rules first, then the generic classify-and-score path.
func (r *Resolver) NodeForLine(buffer string, tree *Node, line int) (*Node, bool) {
	if tree == nil || line < 0 {
		return nil, false
	}

	for l := line; l >= 0; l-- {
		if n := lastAnnotated(tree, l); n != nil {
			return n, true
		}
	}

	raw := NewPositionIndex(buffer).TextOfLine(line)
	if n, ok, done := r.resolveSpecial(raw, tree); done {
		return n, ok
	}

	target := Normalize(Strip(raw))
	if target == "" {
		return nil, false
	}

	var best *Node
	bestScore := 0.0
	for _, candidate := range tree.NodesOfKind(CandidateKinds(raw)...) {
		// The queried root aggregates every descendant's text; a single line
		// can never mean the whole document.
		if candidate == tree {
			continue
		}
		// An annotated node claiming a different line is already spoken for.
		if candidate.SourceLine != NoLine && candidate.SourceLine != line {
			continue
		}
		s := Score(target, Normalize(candidate.TextContent()))
		// Equal scores go to the more specific node: a descendant of the
		// current best displaces it.
		if s > bestScore || (s == bestScore && best != nil && candidate.HasAncestor(best)) {
			bestScore = s
			best = candidate
		}
	}
	if best == nil || bestScore < r.threshold {
		return nil, false
	}
	return best, true
}

// resolveSpecial applies the construct-specific rules that take precedence
// over generic content matching. The third return value reports whether a
// rule's trigger matched and was applicable, in which case its result is
// final even when it is a no-match.
func (r *Resolver) resolveSpecial(raw string, tree *Node) (*Node, bool, bool) {
	if n, ok, done := r.resolveDetails(raw, tree); done {
		return n, ok, true
	}
	if n, ok, done := r.resolveTableRow(raw, tree); done {
		return n, ok, true
	}
	if n, ok, done := r.resolveMedia(raw, tree); done {
		return n, ok, true
	}
	if n, ok, done := r.resolveImage(raw, tree); done {
		return n, ok, true
	}
	return nil, false, false
}

// resolveDetails matches a collapsible-section opener by its title text
// against summary elements.
func (r *Resolver) resolveDetails(raw string, tree *Node) (*Node, bool, bool) {
	m := detailsOpenPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, false, false
	}
	summaries := tree.NodesOfKind(KindSummary)
	details := tree.NodesOfKind(KindDetails)
	if len(summaries) == 0 && len(details) == 0 {
		return nil, false, false
	}

	title := m[1]
	if title == "" {
		title = m[2]
	}
	if target := Normalize(title); target != "" {
		var best *Node
		bestScore := 0.0
		for _, s := range summaries {
			if sc := Score(target, Normalize(s.TextContent())); sc > bestScore {
				bestScore = sc
				best = s
			}
		}
		if best != nil && bestScore >= r.threshold {
			return best, true, true
		}
	}
	if len(details) > 0 {
		return details[0], true, true
	}
	return summaries[0], true, true
}

// resolveTableRow matches a pipe-delimited source line against table rows by
// cell-level overlap, falling back to the first table when no row matches.
func (r *Resolver) resolveTableRow(raw string, tree *Node) (*Node, bool, bool) {
	if !strings.Contains(raw, "|") {
		return nil, false, false
	}
	rows := tree.NodesOfKind(KindTableRow)
	tables := tree.NodesOfKind(KindTable)
	if len(rows) == 0 && len(tables) == 0 {
		return nil, false, false
	}

	var cells []string
	for _, cell := range strings.Split(raw, "|") {
		if c := Normalize(Strip(cell)); c != "" {
			cells = append(cells, c)
		}
	}

	var best *Node
	bestOverlap := 0
	for _, row := range rows {
		overlap := 0
		rowCells := row.NodesOfKind(KindTableCell, KindTableHead)
		for _, c := range cells {
			for _, rc := range rowCells {
				t := Normalize(rc.TextContent())
				if t == "" {
					continue
				}
				if t == c || strings.Contains(t, c) || strings.Contains(c, t) {
					overlap++
					break
				}
			}
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = row
		}
	}
	if best != nil {
		return best, true, true
	}
	if len(tables) > 0 {
		return tables[0], true, true
	}
	return rows[0], true, true
}

// resolveMedia matches media lines structurally: media elements carry little
// or no comparable text, so the first video candidate wins.
func (r *Resolver) resolveMedia(raw string, tree *Node) (*Node, bool, bool) {
	if !IsMediaLine(raw) {
		return nil, false, false
	}
	videos := tree.NodesOfKind(KindVideo)
	if len(videos) == 0 {
		return nil, false, false
	}
	return videos[0], true, true
}

// resolveImage matches embedded images by their label text against rendered
// alternative text.
func (r *Resolver) resolveImage(raw string, tree *Node) (*Node, bool, bool) {
	m := imageLinePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, false, false
	}
	images := tree.NodesOfKind(KindImage)
	if len(images) == 0 {
		return nil, false, false
	}

	if target := Normalize(m[1]); target != "" {
		for _, img := range images {
			if Normalize(img.Attr("alt")) == target {
				return img, true, true
			}
		}
		var best *Node
		bestScore := 0.0
		for _, img := range images {
			if s := Score(target, Normalize(img.Attr("alt"))); s > bestScore {
				bestScore = s
				best = img
			}
		}
		if best != nil && bestScore >= r.threshold {
			return best, true, true
		}
	}
	return images[0], true, true
}
