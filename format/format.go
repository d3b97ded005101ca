// Package format writes a service model back out as canonical definition
// text.
//
// The output parses to an equivalent model: the same members, fields,
// attributes, summaries and remarks in the same order. Formatting is
// canonical, so formatting the reparsed model gives identical text.
// Required fields are written with an explicit [required] attribute.
// Remarks are written as trailing "# Name" sections unless one of their
// lines would itself read as a heading. Then the whole definition is
// written in ```fsd fences with each member's remarks after it.
package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/fsdgo/fsd/internal/remarks"
	"github.com/fsdgo/fsd/model"
)

// Options controls layout.
type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 2
	}
	return o
}

var bareValue = regexp.MustCompile(`^[0-9A-Za-z.+_-]+$`)

// Service returns the canonical text of svc.
func Service(svc *model.ServiceInfo, opt Options) ([]byte, error) {
	if svc == nil {
		return nil, errors.New("format: nil service")
	}
	interleave, err := interleaveRemarks(svc)
	if err != nil {
		return nil, err
	}
	p := printer{w: newWriter(opt.withDefaults())}
	if interleave {
		p.printInterleaved(svc)
	} else {
		p.printService(svc)
	}
	return p.w.Bytes(), nil
}

// Write writes the canonical text of svc to w.
func Write(w io.Writer, svc *model.ServiceInfo, opt Options) error {
	out, err := Service(svc, opt)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// interleaveRemarks reports whether svc must be written in fences. No
// layout can hold a remarks line that opens a fence.
func interleaveRemarks(svc *model.ServiceInfo) (bool, error) {
	interleave := false
	for _, m := range slices.Concat([]model.Member{svc}, svc.Members()) {
		for _, line := range m.Remarks() {
			if remarks.OpensFence(line) {
				return false, fmt.Errorf("format: remarks of %s: line %q opens a fence", m.Name(), line)
			}
			if remarks.IsHeading(line) {
				interleave = true
			}
		}
	}
	return interleave, nil
}

type printer struct {
	w *writer
}

func (p *printer) printService(svc *model.ServiceInfo) {
	p.printHeader(svc)
	p.w.Line("service " + svc.Name())
	p.w.Line("{")
	p.w.indent++
	for i, m := range svc.Members() {
		if i > 0 {
			p.w.Blank()
		}
		p.printMember(m)
	}
	p.w.indent--
	p.w.Line("}")

	p.printRemarks(svc)
	for _, m := range svc.Members() {
		p.printRemarks(m)
	}
}

func (p *printer) printInterleaved(svc *model.ServiceInfo) {
	p.w.Raw("```fsd")
	p.printHeader(svc)
	p.w.Line("service " + svc.Name())
	p.w.Line("{")
	p.w.indent++
	prose := p.printProse(svc.Remarks())
	for i, m := range svc.Members() {
		if i > 0 && !prose {
			p.w.Blank()
		}
		p.printMember(m)
		prose = p.printProse(m.Remarks())
	}
	p.w.indent--
	p.w.Line("}")
	p.w.Raw("```")
}

// printProse closes the fence around lines and reopens it after them.
func (p *printer) printProse(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	p.w.Raw("```")
	p.w.Blank()
	for _, line := range lines {
		p.w.Raw(line)
	}
	p.w.Blank()
	p.w.Raw("```fsd")
	return true
}

func (p *printer) printMember(m model.Member) {
	p.printHeader(m)
	switch m := m.(type) {
	case *model.DtoInfo:
		p.w.Line("data " + m.Name())
		p.printFields(m.Fields())
	case *model.MethodInfo:
		p.w.Line("method " + m.Name())
		p.printFields(m.RequestFields())
		p.w.Text(":")
		p.printFields(m.ResponseFields())
	case *model.EnumInfo:
		p.w.Line("enum " + m.Name())
		p.w.Line("{")
		p.w.indent++
		for _, v := range m.Values() {
			p.printHeader(v)
			p.w.Line(v.Name() + ",")
		}
		p.w.indent--
		p.w.Line("}")
	case *model.ErrorSetInfo:
		p.w.Line("errors " + m.Name())
		p.w.Line("{")
		p.w.indent++
		for _, e := range m.Errors() {
			p.printHeader(e)
			p.w.Line(e.Name() + ",")
		}
		p.w.indent--
		p.w.Line("}")
	case *model.ExternalDtoInfo:
		p.w.Line("extern data " + m.Name() + ";")
	case *model.ExternalEnumInfo:
		p.w.Line("extern enum " + m.Name() + ";")
	}
}

func (p *printer) printFields(fields []*model.FieldInfo) {
	p.w.Line("{")
	p.w.indent++
	for _, f := range fields {
		p.printHeader(f)
		p.w.Line(f.Name() + ": " + f.TypeName() + ";")
	}
	p.w.indent--
	p.w.Line("}")
}

type summarized interface {
	model.Attributed
	Summary() string
}

func (p *printer) printHeader(e summarized) {
	if s := e.Summary(); s != "" {
		p.w.Line("/// " + s)
	}
	for _, a := range e.Attributes() {
		p.w.Line("[" + attribute(a) + "]")
	}
}

func attribute(a *model.AttributeInfo) string {
	if len(a.Parameters()) == 0 {
		return a.Name()
	}
	params := make([]string, len(a.Parameters()))
	for i, param := range a.Parameters() {
		params[i] = param.Name() + ": " + value(param.Value())
	}
	return a.Name() + "(" + strings.Join(params, ", ") + ")"
}

func value(v string) string {
	if bareValue.MatchString(v) {
		return v
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
	return strings.TrimSuffix(buf.String(), "\n")
}

func (p *printer) printRemarks(m model.Member) {
	if len(m.Remarks()) == 0 {
		return
	}
	p.w.Blank()
	p.w.Line("# " + m.Name())
	p.w.Blank()
	for _, line := range m.Remarks() {
		p.w.Raw(line)
	}
}
