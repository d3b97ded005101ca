// Package export converts a service model into a plain document that can
// be written as JSON, YAML or MessagePack.
//
// Documents carry names, resolved type names, attributes, summaries and
// remarks. Source positions are left out, so two definitions that differ
// only in layout export to equal documents.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/fsdgo/fsd/model"
)

// Document is the exported form of a service.
type Document struct {
	Name       string      `json:"name" yaml:"name" msgpack:"name"`
	Summary    string      `json:"summary,omitempty" yaml:"summary,omitempty" msgpack:"summary,omitempty"`
	Remarks    []string    `json:"remarks,omitempty" yaml:"remarks,omitempty" msgpack:"remarks,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Members    []Member    `json:"members,omitempty" yaml:"members,omitempty" msgpack:"members,omitempty"`
}

// Member is the exported form of a service member. Which of the element
// lists is set depends on Kind.
type Member struct {
	Kind       string      `json:"kind" yaml:"kind" msgpack:"kind"`
	Name       string      `json:"name" yaml:"name" msgpack:"name"`
	Summary    string      `json:"summary,omitempty" yaml:"summary,omitempty" msgpack:"summary,omitempty"`
	Remarks    []string    `json:"remarks,omitempty" yaml:"remarks,omitempty" msgpack:"remarks,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Fields     []Field     `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
	Request    []Field     `json:"request,omitempty" yaml:"request,omitempty" msgpack:"request,omitempty"`
	Response   []Field     `json:"response,omitempty" yaml:"response,omitempty" msgpack:"response,omitempty"`
	Values     []Value     `json:"values,omitempty" yaml:"values,omitempty" msgpack:"values,omitempty"`
}

// Field is the exported form of a DTO or method field.
type Field struct {
	Name       string      `json:"name" yaml:"name" msgpack:"name"`
	Type       string      `json:"type" yaml:"type" msgpack:"type"`
	Kind       string      `json:"kind,omitempty" yaml:"kind,omitempty" msgpack:"kind,omitempty"`
	Required   bool        `json:"required,omitempty" yaml:"required,omitempty" msgpack:"required,omitempty"`
	Summary    string      `json:"summary,omitempty" yaml:"summary,omitempty" msgpack:"summary,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// Value is an enumerated value or an error of an error set.
type Value struct {
	Name       string      `json:"name" yaml:"name" msgpack:"name"`
	Summary    string      `json:"summary,omitempty" yaml:"summary,omitempty" msgpack:"summary,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// Attribute is an exported attribute.
type Attribute struct {
	Name       string      `json:"name" yaml:"name" msgpack:"name"`
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty" msgpack:"parameters,omitempty"`
}

// Parameter is an exported attribute parameter.
type Parameter struct {
	Name  string `json:"name" yaml:"name" msgpack:"name"`
	Value string `json:"value" yaml:"value" msgpack:"value"`
}

// Build returns the document for svc.
func Build(svc *model.ServiceInfo) Document {
	doc := Document{
		Name:       svc.Name(),
		Summary:    svc.Summary(),
		Remarks:    lines(svc.Remarks()),
		Attributes: attributes(svc.Attributes()),
	}
	for _, m := range svc.Members() {
		doc.Members = append(doc.Members, member(svc, m))
	}
	return doc
}

func member(svc *model.ServiceInfo, m model.Member) Member {
	out := Member{
		Kind:       m.Kind().String(),
		Name:       m.Name(),
		Summary:    m.Summary(),
		Remarks:    lines(m.Remarks()),
		Attributes: attributes(m.Attributes()),
	}
	switch m := m.(type) {
	case *model.DtoInfo:
		out.Fields = fields(svc, m.Fields())
	case *model.MethodInfo:
		out.Request = fields(svc, m.RequestFields())
		out.Response = fields(svc, m.ResponseFields())
	case *model.EnumInfo:
		for _, v := range m.Values() {
			out.Values = append(out.Values, Value{Name: v.Name(), Summary: v.Summary(), Attributes: attributes(v.Attributes())})
		}
	case *model.ErrorSetInfo:
		for _, e := range m.Errors() {
			out.Values = append(out.Values, Value{Name: e.Name(), Summary: e.Summary(), Attributes: attributes(e.Attributes())})
		}
	}
	return out
}

func fields(svc *model.ServiceInfo, in []*model.FieldInfo) []Field {
	var out []Field
	for _, f := range in {
		field := Field{
			Name:       f.Name(),
			Type:       f.TypeName(),
			Required:   f.IsRequired(),
			Summary:    f.Summary(),
			Attributes: attributes(f.Attributes()),
		}
		if typ := svc.GetFieldType(f); typ != nil {
			field.Type = typ.String()
			field.Kind = typ.Kind.String()
		}
		out = append(out, field)
	}
	return out
}

func attributes(in []*model.AttributeInfo) []Attribute {
	var out []Attribute
	for _, a := range in {
		attr := Attribute{Name: a.Name()}
		for _, p := range a.Parameters() {
			attr.Parameters = append(attr.Parameters, Parameter{Name: p.Name(), Value: p.Value()})
		}
		out = append(out, attr)
	}
	return out
}

func lines(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return in
}

// Format names an output encoding.
type Format string

// Supported formats.
const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, MsgPack}

// ParseFormat returns the format with the given name, ignoring case.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", name)
}

// Encode writes doc to w in the given format. JSON is indented.
func Encode(w io.Writer, doc Document, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case MsgPack:
		enc := msgpack.NewEncoder(w)
		enc.UseCompactInts(true)
		return enc.Encode(doc)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// Decode reads a document written by Encode.
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document
	var err error
	switch format {
	case JSON:
		err = json.NewDecoder(r).Decode(&doc)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case MsgPack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	return doc, err
}
