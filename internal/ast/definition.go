package ast

import (
	"github.com/fsdgo/fsd/internal/types"
)

// Definition is a member declared inside a service.
type Definition interface {
	DefinitionHeader() *Header
	definition()
}

// DefBase provides the header and closing span common to every
// Definition type.
type DefBase struct {
	Header
	End types.Span // closing '}' or ';'
}

func (d *DefBase) DefinitionHeader() *Header { return &d.Header }
func (*DefBase) definition()                 {}

// Field is a field of a DTO or of a method request or response.
type Field struct {
	Header
	TypeName Ident
	// Required is the span of a trailing '!', if present.
	Required *types.Span
}

// Value is an enumerated value or an error of an error set.
type Value struct {
	Header
}

// DtoDef is a "data" declaration.
type DtoDef struct {
	DefBase
	Fields []Field
}

// EnumDef is an "enum" declaration.
type EnumDef struct {
	DefBase
	Values []Value
}

// ErrorSetDef is an "errors" declaration.
type ErrorSetDef struct {
	DefBase
	Errors []Value
}

// MethodDef is a "method" declaration.
type MethodDef struct {
	DefBase
	Request  []Field
	Response []Field
}

// ExternalKind distinguishes "extern data" from "extern enum".
type ExternalKind int

const (
	ExternalData ExternalKind = iota
	ExternalEnum
)

// ExternalDef is an "extern data" or "extern enum" declaration.
type ExternalDef struct {
	DefBase
	Kind ExternalKind
}
