// Package lexer provides on-demand scanning of service definition text.
//
// The grammar is context sensitive at the token level (a field type name
// may contain brackets, an attribute value may contain dots and dashes),
// so the parser asks the scanner for a specific token shape at each step
// instead of consuming a pre-built token stream.
package lexer

import (
	"github.com/fsdgo/fsd/internal/types"
)

// TokenKind identifies a token type.
type TokenKind int

const (
	// TokEOF is end of input.
	TokEOF TokenKind = iota
	// TokPunct is a single punctuation character.
	TokPunct
	// TokIdent is an identifier or keyword: [A-Za-z_][A-Za-z0-9_]*.
	TokIdent
	// TokTypeName is a field type name, which may contain <>[].
	TokTypeName
	// TokBareValue is an unquoted attribute value: [0-9A-Za-z.+_-]+.
	TokBareValue
	// TokString is a double-quoted attribute value.
	TokString
)

var tokenKindNames = [...]string{
	TokEOF:       "end of input",
	TokPunct:     "punctuation",
	TokIdent:     "identifier",
	TokTypeName:  "type name",
	TokBareValue: "value",
	TokString:    "string",
}

// String returns a human-readable name for the kind.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown"
}

// Token is a scanned token with its source span. Text is the raw source
// text, except for TokString where it is the decoded value.
type Token struct {
	Kind TokenKind
	Span types.Span
	Text string
}
