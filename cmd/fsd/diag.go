package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/fsdgo/fsd/model"
)

// printErrors writes each error followed by its source line and a caret
// under the column. At most limit errors are printed when limit is positive.
func (p palette) printErrors(w io.Writer, errs []*model.Error, limit int) {
	shown := errs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, err := range shown {
		p.printError(w, err)
	}
	if hidden := len(errs) - len(shown); hidden > 0 {
		p.summary.Fprintf(w, "... and %d more\n", hidden)
	}
}

func (p palette) printError(w io.Writer, err *model.Error) {
	pos := err.Position
	if !pos.IsZero() {
		p.location.Fprint(w, pos.String()+":")
		fmt.Fprint(w, " ")
	}
	p.severity.Fprint(w, "error:")
	fmt.Fprintln(w, " "+err.Message)

	src := pos.Source()
	if src == nil {
		return
	}
	line := src.Line(pos.Line())
	if strings.TrimSpace(line) == "" {
		return
	}
	fmt.Fprintln(w, "  "+line)
	fmt.Fprint(w, "  "+caretPadding(line, pos.Column()))
	p.caret.Fprintln(w, "^")
}

// caretPadding returns the whitespace that lines a caret up under the
// 1-based rune column of line. Tabs are kept so the terminal expands them
// the same way.
func caretPadding(line string, column int) string {
	var b strings.Builder
	n := 0
	for _, r := range line {
		if n >= column-1 {
			break
		}
		n++
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
