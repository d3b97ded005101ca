// Package remarks separates long-form documentation from grammar text.
//
// A definition documents its members in one of two ways. In trailing
// mode the grammar comes first and is followed by Markdown sections whose
// "# Name" headings name the member they describe. In interleaved mode
// the file is Markdown: grammar lives in ```fsd fences and the prose
// between fences describes the member declared just before it.
//
// Either way the grammar text handed to the parser has the same length
// and lines as the original, with documentation blanked out by spaces, so
// byte offsets into either text agree.
package remarks

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/fsdgo/fsd/internal/ast"
	"github.com/fsdgo/fsd/internal/types"
)

// Mode selects how documentation is laid out.
type Mode int

const (
	// Auto picks Interleaved if any line opens an fsd fence, else Trailing.
	Auto Mode = iota
	// Trailing expects "# Name" sections after the grammar.
	Trailing
	// Interleaved expects grammar in ```fsd fences between prose blocks.
	Interleaved
)

var modeNames = [...]string{
	Auto:        "auto",
	Trailing:    "trailing",
	Interleaved: "interleaved",
}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

const fenceOpen = "```fsd"

// Detect returns the mode a text is written in.
func Detect(text string) Mode {
	for _, line := range splitLines(text) {
		if OpensFence(line.text) {
			return Interleaved
		}
	}
	return Trailing
}

// Section is a "# Name" heading and its body, from trailing mode.
type Section struct {
	Name   string
	Offset int // start of the heading line
	Lines  []string
}

// Block is a run of prose between fences, from interleaved mode.
type Block struct {
	Line   int // 1-based line of the first non-blank line
	Offset int
	Lines  []string
}

// Document is the result of splitting a definition text.
type Document struct {
	Mode     Mode
	Grammar  string
	Sections []Section
	Blocks   []Block
	types.Logger
}

type line struct {
	text   string // without terminator
	offset int
	end    int // offset just past the terminator
}

func splitLines(text string) []line {
	var lines []line
	for start := 0; start < len(text); {
		end := strings.IndexByte(text[start:], '\n')
		next := len(text)
		if end >= 0 {
			next = start + end + 1
			end = start + end
		} else {
			end = len(text)
		}
		lines = append(lines, line{
			text:   strings.TrimSuffix(text[start:end], "\r"),
			offset: start,
			end:    next,
		})
		start = next
	}
	return lines
}

// Extract splits text into grammar and documentation. Pass Auto to
// detect the mode from the text.
func Extract(text string, mode Mode, logger *slog.Logger) *Document {
	if mode == Auto {
		mode = Detect(text)
	}
	d := &Document{Mode: mode, Logger: types.Logger{L: logger}}
	lines := splitLines(text)
	if mode == Interleaved {
		d.extractInterleaved(text, lines)
	} else {
		d.extractTrailing(text, lines)
	}
	d.Log(slog.LevelDebug, "documentation extracted",
		slog.String("mode", mode.String()),
		slog.Int("sections", len(d.Sections)),
		slog.Int("blocks", len(d.Blocks)))
	return d
}

// OpensFence reports whether line opens an fsd fence.
func OpensFence(line string) bool {
	return strings.HasPrefix(line, fenceOpen)
}

// IsHeading reports whether line starts a trailing "# Name" section.
func IsHeading(line string) bool {
	_, ok := isHeading(line)
	return ok
}

func isHeading(text string) (string, bool) {
	rest, ok := strings.CutPrefix(text, "#")
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func (d *Document) extractTrailing(text string, lines []line) {
	var grammar strings.Builder
	grammar.Grow(len(text))
	var current *Section
	for _, ln := range lines {
		name, heading := isHeading(ln.text)
		if heading {
			d.Sections = append(d.Sections, Section{Name: name, Offset: ln.offset})
			current = &d.Sections[len(d.Sections)-1]
		}
		if current == nil {
			grammar.WriteString(text[ln.offset:ln.end])
			continue
		}
		if !heading {
			current.Lines = append(current.Lines, ln.text)
		}
		blankLine(&grammar, text[ln.offset:ln.end])
	}
	for i := range d.Sections {
		d.Sections[i].Lines = trimBlank(d.Sections[i].Lines)
	}
	d.Grammar = grammar.String()
}

func (d *Document) extractInterleaved(text string, lines []line) {
	var grammar strings.Builder
	grammar.Grow(len(text))
	inFence := false
	var prose []string
	proseLine, proseOffset := 0, 0

	flush := func() {
		first := 0
		for first < len(prose) && strings.TrimSpace(prose[first]) == "" {
			first++
		}
		if body := trimBlank(prose); len(body) != 0 {
			d.Blocks = append(d.Blocks, Block{Line: proseLine + first, Offset: proseOffset, Lines: body})
		}
		prose = nil
	}

	for i, ln := range lines {
		raw := text[ln.offset:ln.end]
		switch {
		case inFence && strings.HasPrefix(ln.text, "```"):
			inFence = false
			blankLine(&grammar, raw)
		case inFence:
			grammar.WriteString(raw)
		case OpensFence(ln.text):
			flush()
			inFence = true
			blankLine(&grammar, raw)
		default:
			if prose == nil {
				proseLine, proseOffset = i+1, ln.offset
			}
			if strings.TrimSpace(ln.text) != "" && len(trimBlank(prose)) == 0 {
				proseOffset = ln.offset
			}
			prose = append(prose, ln.text)
			blankLine(&grammar, raw)
		}
	}
	flush()
	d.Grammar = grammar.String()
}

// blankLine writes raw with everything but its line terminator replaced
// by spaces, keeping byte offsets.
func blankLine(b *strings.Builder, raw string) {
	content := strings.TrimRight(raw, "\r\n")
	b.WriteString(strings.Repeat(" ", len(content)))
	b.WriteString(raw[len(content):])
}

func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return nil
	}
	return lines[start:end]
}

// Problem is a documentation error at a byte offset.
type Problem struct {
	Message string
	Offset  int
}

// Attach decides which declaration each piece of documentation belongs
// to. lineOf maps a byte offset to its 1-based line.
func (d *Document) Attach(svc *ast.Service, lineOf func(offset int) int) (map[*ast.Header][]string, []Problem) {
	if d.Mode == Interleaved {
		return d.attachBlocks(svc, lineOf), nil
	}
	return d.attachSections(svc)
}

func (d *Document) attachSections(svc *ast.Service) (map[*ast.Header][]string, []Problem) {
	byName := make(map[string]*ast.Header)
	svc.Walk(func(h *ast.Header) {
		key := foldName(h.Name.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = h
		}
	})

	remarks := make(map[*ast.Header][]string)
	var problems []Problem
	seen := make(map[string]bool, len(d.Sections))
	for _, s := range d.Sections {
		key := foldName(s.Name)
		switch h, ok := byName[key]; {
		case seen[key]:
			problems = append(problems, Problem{Message: "Duplicate remarks heading: " + s.Name, Offset: s.Offset})
		case !ok:
			problems = append(problems, Problem{Message: "Unused remarks heading: " + s.Name, Offset: s.Offset})
		default:
			remarks[h] = s.Lines
		}
		seen[key] = true
	}
	for _, p := range problems {
		d.Log(slog.LevelDebug, "remarks problem", slog.String("message", p.Message), slog.Int("offset", p.Offset))
	}
	return remarks, problems
}

// foldName lower-cases ASCII letters; headings match names ignoring case.
func foldName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func (d *Document) attachBlocks(svc *ast.Service, lineOf func(int) int) map[*ast.Header][]string {
	first := lineOf(int(svc.Name.Span.Start))
	last := lineOf(int(svc.End.Start))

	type candidate struct {
		header *ast.Header
		line   int
	}
	var candidates []candidate
	svc.Walk(func(h *ast.Header) {
		candidates = append(candidates, candidate{h, lineOf(int(h.Name.Span.Start))})
	})

	remarks := make(map[*ast.Header][]string)
	for _, b := range d.Blocks {
		if b.Line <= first || b.Line > last {
			d.Trace("remarks block dropped", slog.Int("line", b.Line))
			continue
		}
		var target *ast.Header
		best := 0
		for _, c := range candidates {
			if c.line < b.Line && c.line >= best {
				target, best = c.header, c.line
			}
		}
		if target == nil {
			continue
		}
		if existing := remarks[target]; len(existing) != 0 {
			remarks[target] = slices.Concat(existing, []string{""}, b.Lines)
		} else {
			remarks[target] = b.Lines
		}
	}
	return remarks
}
