package parser

import (
	"slices"
	"strings"
)

// SyntaxError describes why the text could not be parsed: the names of
// everything that could have appeared at the furthest offset the parser
// reached.
type SyntaxError struct {
	Offset   int
	Expected []string
}

// Message renders the error as "expected A or B or C".
func (e *SyntaxError) Message() string {
	return "expected " + strings.Join(e.Expected, " or ")
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return e.Message()
}

// closers are listed before every other expectation, in this order.
var closers = []string{"')'", "']'", "'}'", "';'"}

// expectations tracks the named failures at the furthest offset.
type expectations struct {
	offset int
	names  []string
}

func newExpectations() *expectations {
	return &expectations{offset: -1}
}

// add records that name was expected at offset. Failures before the
// furthest offset are irrelevant and dropped; a failure beyond it
// replaces everything recorded so far.
func (e *expectations) add(offset int, name string) {
	switch {
	case offset > e.offset:
		e.offset = offset
		e.names = append(e.names[:0], name)
	case offset == e.offset && !slices.Contains(e.names, name):
		e.names = append(e.names, name)
	}
}

func (e *expectations) err() *SyntaxError {
	names := slices.Clone(e.names)
	slices.SortFunc(names, func(a, b string) int {
		ra, rb := closerRank(a), closerRank(b)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	return &SyntaxError{Offset: max(e.offset, 0), Expected: names}
}

func closerRank(name string) int {
	if i := slices.Index(closers, name); i >= 0 {
		return i
	}
	return len(closers)
}
