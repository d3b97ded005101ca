// Package ast provides the raw syntax tree of a parsed service definition.
//
// The tree is produced once by the parser and never modified afterwards.
// It records names, attributes and spans only; validation happens when
// the model is built from it.
package ast

import (
	"github.com/fsdgo/fsd/internal/types"
)

// Ident is an identifier with source location.
type Ident struct {
	Name string
	Span types.Span
}

// NewIdent creates a new identifier.
func NewIdent(name string, span types.Span) Ident {
	return Ident{Name: name, Span: span}
}

// Parameter is a name/value pair inside an attribute.
type Parameter struct {
	Name      Ident
	Value     string // decoded
	ValueSpan types.Span
}

// Attribute is a bracketed attribute such as [tag(name: beta)].
type Attribute struct {
	Name       Ident
	Parameters []Parameter
	Span       types.Span
}

// Header holds what every declaration has: summary, attributes, the
// declaring keyword and the name.
type Header struct {
	Summary    string
	Attributes []Attribute
	Keyword    types.Span // empty for fields, values and errors
	Name       Ident
	Span       types.Span
}
