package model

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// SourceText is a named definition text that positions point into.
//
// Line and column numbers are not computed while parsing. The first
// lookup scans the text once to build a table of line starts; the table
// is shared by every Position created from the same SourceText and is
// safe for concurrent use.
type SourceText struct {
	name  string
	text  string
	once  sync.Once
	lines []int
}

// NewSourceText returns a SourceText for the given name and text.
func NewSourceText(name, text string) *SourceText {
	return &SourceText{name: name, text: text}
}

// Name returns the source name.
func (s *SourceText) Name() string {
	return s.name
}

// Text returns the full source text.
func (s *SourceText) Text() string {
	return s.text
}

// Position returns the position of a byte offset in the text.
func (s *SourceText) Position(offset int) Position {
	return Position{name: s.name, source: s, offset: offset}
}

func (s *SourceText) lineStarts() []int {
	s.once.Do(func() {
		s.lines = append(s.lines, 0)
		for i := 0; i < len(s.text); i++ {
			if s.text[i] == '\n' {
				s.lines = append(s.lines, i+1)
			}
		}
	})
	return s.lines
}

// LineColumn converts a byte offset into a 1-based line and a 1-based
// column counted in runes.
func (s *SourceText) LineColumn(offset int) (line, column int) {
	offset = min(max(offset, 0), len(s.text))
	starts := s.lineStarts()
	idx := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	start := starts[idx]
	return idx + 1, utf8.RuneCountInString(s.text[start:offset]) + 1
}

// Line returns the text of a 1-based line without its line terminator,
// or "" if the line does not exist.
func (s *SourceText) Line(n int) string {
	starts := s.lineStarts()
	if n < 1 || n > len(starts) {
		return ""
	}
	end := len(s.text)
	if n < len(starts) {
		end = starts[n] - 1
	}
	return strings.TrimSuffix(s.text[starts[n-1]:end], "\r")
}

// Position is a location in a named source: a name, and optionally a
// 1-based line and column.
//
// Positions produced by the parser hold a byte offset and resolve their
// line and column lazily through their SourceText.
type Position struct {
	name   string
	source *SourceText
	offset int
	line   int
	column int
}

// NewPosition returns a position with an explicit line and column.
// Use zero for an unknown line or column.
func NewPosition(name string, line, column int) Position {
	return Position{name: name, line: line, column: column}
}

// Name returns the source name.
func (p Position) Name() string {
	return p.name
}

// Line returns the 1-based line number, or 0 if unknown.
func (p Position) Line() int {
	if p.source != nil {
		line, _ := p.source.LineColumn(p.offset)
		return line
	}
	return p.line
}

// Column returns the 1-based column number, or 0 if unknown.
func (p Position) Column() int {
	if p.source != nil {
		_, column := p.source.LineColumn(p.offset)
		return column
	}
	return p.column
}

// Offset returns the byte offset into the source text, or -1 for
// positions created with NewPosition.
func (p Position) Offset() int {
	if p.source == nil {
		return -1
	}
	return p.offset
}

// Source returns the text this position points into, if known.
func (p Position) Source() *SourceText {
	return p.source
}

// IsZero reports whether the position carries no information.
func (p Position) IsZero() bool {
	return p.name == "" && p.source == nil && p.line == 0 && p.column == 0
}

// Before reports whether p is located before q in the same source.
func (p Position) Before(q Position) bool {
	if p.source != nil && p.source == q.source {
		return p.offset < q.offset
	}
	pl, ql := p.Line(), q.Line()
	return pl < ql || (pl == ql && p.Column() < q.Column())
}

// String renders the position as "name", "name(line)" or
// "name(line,column)".
func (p Position) String() string {
	line, column := p.line, p.column
	if p.source != nil {
		line, column = p.source.LineColumn(p.offset)
	}
	switch {
	case line <= 0:
		return p.name
	case column <= 0:
		return fmt.Sprintf("%s(%d)", p.name, line)
	default:
		return fmt.Sprintf("%s(%d,%d)", p.name, line, column)
	}
}
