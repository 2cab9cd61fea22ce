package previewsync

import "strings"

// PositionIndex converts between byte offsets and zero-based line numbers in
// a buffer snapshot. It never mutates the buffer and never fails: invalid
// offsets are clamped and invalid line numbers degrade to empty results.
type PositionIndex struct {
	buffer string
}

// NewPositionIndex wraps a buffer snapshot.
func NewPositionIndex(buffer string) *PositionIndex {
	return &PositionIndex{buffer: buffer}
}

// LineNumberAt returns the zero-based line number containing the byte
// offset. Offsets are clamped to [0, len(buffer)].
func (p *PositionIndex) LineNumberAt(offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset > len(p.buffer) {
		offset = len(p.buffer)
	}
	return strings.Count(p.buffer[:offset], "\n")
}

// LineBounds returns the byte range [start, end) of the given line,
// excluding its trailing line break. A line number past the end of the
// buffer yields an empty range at the buffer end.
func (p *PositionIndex) LineBounds(line int) (start, end int) {
	if line < 0 {
		return 0, 0
	}
	start = 0
	for i := 0; i < line; i++ {
		next := strings.IndexByte(p.buffer[start:], '\n')
		if next < 0 {
			return len(p.buffer), len(p.buffer)
		}
		start += next + 1
	}
	rest := strings.IndexByte(p.buffer[start:], '\n')
	if rest < 0 {
		return start, len(p.buffer)
	}
	return start, start + rest
}

// TextOfLine returns the raw text of the line, or the empty string when the
// line number is out of range.
func (p *PositionIndex) TextOfLine(line int) string {
	start, end := p.LineBounds(line)
	return p.buffer[start:end]
}

// LineCount returns the number of lines in the buffer. An empty buffer has
// one (empty) line.
func (p *PositionIndex) LineCount() int {
	return strings.Count(p.buffer, "\n") + 1
}
