// Package parser provides service definition parsing into an AST.
//
// The parser is a hand-written recursive descent over an on-demand
// scanner. It does not recover from errors: the first point at which no
// alternative applies ends the parse. Every token test that fails records
// a human-readable name for what it wanted; the names recorded at the
// furthest offset reached become the single "expected ..." syntax error.
package parser

import (
	"log/slog"

	"github.com/fsdgo/fsd/internal/ast"
	"github.com/fsdgo/fsd/internal/lexer"
	"github.com/fsdgo/fsd/internal/types"
)

// Parser converts grammar text into an AST service.
type Parser struct {
	source   string
	lex      *lexer.Scanner
	expected *expectations
	types.Logger
}

// New returns a Parser for the given grammar text. Pass nil for logger
// to disable logging.
func New(source string, logger *slog.Logger) *Parser {
	p := &Parser{
		source:   source,
		lex:      lexer.New(source, types.Component(logger, "lexer")),
		expected: newExpectations(),
		Logger:   types.Logger{L: logger},
	}
	p.Log(slog.LevelDebug, "parser initialized")
	return p
}

// ParseService parses a complete definition. On failure it returns a
// nil service and the syntax error.
func (p *Parser) ParseService() (*ast.Service, *SyntaxError) {
	svc, ok := p.parseService()
	if ok && !p.lex.AtEOF() {
		p.fail("end of input")
		ok = false
	}
	if !ok {
		err := p.expected.err()
		p.Log(slog.LevelDebug, "parse failed",
			slog.Int("offset", err.Offset),
			slog.String("message", err.Message()))
		return nil, err
	}
	p.Log(slog.LevelDebug, "parsing complete",
		slog.String("service", svc.Name.Name),
		slog.Int("members", len(svc.Members)))
	return svc, nil
}

// fail records that name was expected at the next significant offset.
func (p *Parser) fail(name string) {
	p.lex.SkipInsignificant()
	p.expected.add(p.lex.Pos(), name)
}

func (p *Parser) punct(c byte) (lexer.Token, bool) {
	tok, ok := p.lex.Punct(c)
	if !ok {
		p.fail("'" + string(c) + "'")
	}
	return tok, ok
}

func (p *Parser) keyword(kw string) (lexer.Token, bool) {
	tok, ok := p.lex.Keyword(kw)
	if !ok {
		p.fail("'" + kw + "'")
	}
	return tok, ok
}

func (p *Parser) ident(name string) (ast.Ident, bool) {
	tok, ok := p.lex.Ident()
	if !ok {
		p.fail(name)
		return ast.Ident{}, false
	}
	return ast.NewIdent(tok.Text, tok.Span), true
}

func (p *Parser) here() types.ByteOffset {
	p.lex.SkipInsignificant()
	return lexer.Offset(p.lex.Pos())
}

func (p *Parser) spanFrom(start types.ByteOffset) types.Span {
	return types.NewSpan(start, lexer.Offset(p.lex.Pos()))
}

// beginHeader reads the summary and attributes that open a declaration.
// It reports whether any attribute was present.
func (p *Parser) beginHeader() (ast.Header, bool, bool) {
	p.lex.SkipInsignificant()
	h := ast.Header{Summary: p.lex.Summary()}
	start := p.here()
	attrs, ok := p.parseAttributes()
	if !ok {
		return h, false, false
	}
	h.Attributes = attrs
	h.Span = types.NewSpan(start, start)
	return h, len(attrs) > 0, true
}

// parseService parses: attrs 'service' name ( ';' member* | '{' member* '}' )
func (p *Parser) parseService() (*ast.Service, bool) {
	h, _, ok := p.beginHeader()
	if !ok {
		return nil, false
	}
	kw, ok := p.keyword("service")
	if !ok {
		return nil, false
	}
	h.Keyword = kw.Span
	if h.Name, ok = p.ident("service name"); !ok {
		return nil, false
	}

	svc := &ast.Service{}
	if _, ok := p.lex.Punct(';'); ok {
		svc.FileScoped = true
		for {
			def, found, ok := p.parseMember()
			if !ok {
				return nil, false
			}
			if !found {
				break
			}
			svc.Members = append(svc.Members, def)
		}
		end := p.here()
		svc.End = types.NewSpan(end, end)
	} else {
		p.fail("';'")
		if _, ok := p.punct('{'); !ok {
			return nil, false
		}
		for {
			def, found, ok := p.parseMember()
			if !ok {
				return nil, false
			}
			if !found {
				break
			}
			svc.Members = append(svc.Members, def)
		}
		closing, ok := p.punct('}')
		if !ok {
			return nil, false
		}
		svc.End = closing.Span
	}
	h.Span.End = svc.End.End
	svc.Header = h
	return svc, true
}

var memberKeywords = []string{"data", "enum", "errors", "extern", "method"}

// parseMember parses one member declaration. found is false when the
// input does not start a member at all.
func (p *Parser) parseMember() (def ast.Definition, found bool, ok bool) {
	h, hasAttrs, ok := p.beginHeader()
	if !ok {
		return nil, false, false
	}

	for _, kw := range memberKeywords {
		tok, matched := p.lex.Keyword(kw)
		if !matched {
			p.fail("'" + kw + "'")
			continue
		}
		h.Keyword = tok.Span
		switch kw {
		case "data":
			def, ok = p.parseDto(h)
		case "enum":
			def, ok = p.parseEnum(h)
		case "errors":
			def, ok = p.parseErrorSet(h)
		case "extern":
			def, ok = p.parseExternal(h)
		case "method":
			def, ok = p.parseMethod(h)
		}
		if ok && p.TraceEnabled() {
			p.Trace("member", slog.String("kind", kw), slog.String("name", h.Name.Name))
		}
		return def, true, ok
	}

	// Attributes must be followed by a member keyword.
	return nil, false, !hasAttrs
}

func (p *Parser) parseDto(h ast.Header) (ast.Definition, bool) {
	var ok bool
	if h.Name, ok = p.ident("data name"); !ok {
		return nil, false
	}
	fields, end, ok := p.parseFieldBlock()
	if !ok {
		return nil, false
	}
	h.Span.End = end.End
	return &ast.DtoDef{DefBase: ast.DefBase{Header: h, End: end}, Fields: fields}, true
}

func (p *Parser) parseMethod(h ast.Header) (ast.Definition, bool) {
	var ok bool
	if h.Name, ok = p.ident("method name"); !ok {
		return nil, false
	}
	request, _, ok := p.parseFieldBlock()
	if !ok {
		return nil, false
	}
	if _, ok := p.punct(':'); !ok {
		return nil, false
	}
	response, end, ok := p.parseFieldBlock()
	if !ok {
		return nil, false
	}
	h.Span.End = end.End
	return &ast.MethodDef{DefBase: ast.DefBase{Header: h, End: end}, Request: request, Response: response}, true
}

func (p *Parser) parseEnum(h ast.Header) (ast.Definition, bool) {
	var ok bool
	if h.Name, ok = p.ident("enum name"); !ok {
		return nil, false
	}
	values, end, ok := p.parseValueBlock("enumerated value name")
	if !ok {
		return nil, false
	}
	h.Span.End = end.End
	return &ast.EnumDef{DefBase: ast.DefBase{Header: h, End: end}, Values: values}, true
}

func (p *Parser) parseErrorSet(h ast.Header) (ast.Definition, bool) {
	var ok bool
	if h.Name, ok = p.ident("error set name"); !ok {
		return nil, false
	}
	errs, end, ok := p.parseValueBlock("error name")
	if !ok {
		return nil, false
	}
	h.Span.End = end.End
	return &ast.ErrorSetDef{DefBase: ast.DefBase{Header: h, End: end}, Errors: errs}, true
}

// parseExternal parses the rest of: 'extern' ( 'data' | 'enum' ) name ';'
func (p *Parser) parseExternal(h ast.Header) (ast.Definition, bool) {
	kind := ast.ExternalData
	if _, ok := p.lex.Keyword("data"); !ok {
		p.fail("'data'")
		if _, ok := p.keyword("enum"); !ok {
			return nil, false
		}
		kind = ast.ExternalEnum
	}
	var ok bool
	if h.Name, ok = p.ident("external type name"); !ok {
		return nil, false
	}
	end, ok := p.punct(';')
	if !ok {
		return nil, false
	}
	h.Span.End = end.Span.End
	return &ast.ExternalDef{DefBase: ast.DefBase{Header: h, End: end.Span}, Kind: kind}, true
}

// parseFieldBlock parses: '{' field* '}'
func (p *Parser) parseFieldBlock() ([]ast.Field, types.Span, bool) {
	if _, ok := p.punct('{'); !ok {
		return nil, types.Span{}, false
	}
	var fields []ast.Field
	for {
		f, found, ok := p.parseField()
		if !ok {
			return nil, types.Span{}, false
		}
		if !found {
			break
		}
		fields = append(fields, f)
	}
	closing, ok := p.punct('}')
	if !ok {
		return nil, types.Span{}, false
	}
	return fields, closing.Span, true
}

// parseField parses: attrs name ':' typeName '!'? ';'
func (p *Parser) parseField() (ast.Field, bool, bool) {
	h, hasAttrs, ok := p.beginHeader()
	if !ok {
		return ast.Field{}, false, false
	}
	name, ok := p.ident("field name")
	if !ok {
		return ast.Field{}, false, !hasAttrs
	}
	h.Name = name
	if _, ok := p.punct(':'); !ok {
		return ast.Field{}, true, false
	}
	tok, ok := p.lex.TypeName()
	if !ok {
		p.fail("field type name")
		return ast.Field{}, true, false
	}
	f := ast.Field{TypeName: ast.NewIdent(tok.Text, tok.Span)}
	if bang, ok := p.lex.Punct('!'); ok {
		f.Required = &bang.Span
	} else {
		p.fail("'!'")
	}
	end, ok := p.punct(';')
	if !ok {
		return ast.Field{}, true, false
	}
	h.Span.End = end.Span.End
	f.Header = h
	return f, true, true
}

// parseValueBlock parses: '{' ( attrs name ),* ','? '}'
func (p *Parser) parseValueBlock(name string) ([]ast.Value, types.Span, bool) {
	if _, ok := p.punct('{'); !ok {
		return nil, types.Span{}, false
	}
	var values []ast.Value
	for {
		h, hasAttrs, ok := p.beginHeader()
		if !ok {
			return nil, types.Span{}, false
		}
		ident, found := p.ident(name)
		if !found {
			if hasAttrs {
				return nil, types.Span{}, false
			}
			break
		}
		h.Name = ident
		h.Span.End = ident.Span.End
		values = append(values, ast.Value{Header: h})
		if _, ok := p.lex.Punct(','); !ok {
			p.fail("','")
			break
		}
	}
	closing, ok := p.punct('}')
	if !ok {
		return nil, types.Span{}, false
	}
	return values, closing.Span, true
}

// parseAttributes parses: ( '[' attr,* ']' )*
func (p *Parser) parseAttributes() ([]ast.Attribute, bool) {
	var attrs []ast.Attribute
	for {
		if _, ok := p.lex.Punct('['); !ok {
			p.fail("'['")
			return attrs, true
		}
		for {
			attr, found, ok := p.parseAttribute()
			if !ok {
				return nil, false
			}
			if !found {
				break
			}
			attrs = append(attrs, attr)
			if _, ok := p.lex.Punct(','); !ok {
				p.fail("','")
				break
			}
		}
		if _, ok := p.punct(']'); !ok {
			return nil, false
		}
	}
}

// parseAttribute parses: name ( '(' ( name ':' value ),* ')' )?
func (p *Parser) parseAttribute() (ast.Attribute, bool, bool) {
	start := p.here()
	name, ok := p.ident("attribute name")
	if !ok {
		return ast.Attribute{}, false, true
	}
	attr := ast.Attribute{Name: name}
	if _, ok := p.lex.Punct('('); ok {
		for {
			param, found, ok := p.parseParameter()
			if !ok {
				return ast.Attribute{}, true, false
			}
			if !found {
				break
			}
			attr.Parameters = append(attr.Parameters, param)
			if _, ok := p.lex.Punct(','); !ok {
				p.fail("','")
				break
			}
		}
		if _, ok := p.punct(')'); !ok {
			return ast.Attribute{}, true, false
		}
	} else {
		p.fail("'('")
	}
	attr.Span = p.spanFrom(start)
	return attr, true, true
}

func (p *Parser) parseParameter() (ast.Parameter, bool, bool) {
	name, ok := p.ident("parameter name")
	if !ok {
		return ast.Parameter{}, false, true
	}
	if _, ok := p.punct(':'); !ok {
		return ast.Parameter{}, true, false
	}
	tok, ok := p.lex.Value()
	if !ok {
		p.fail("parameter value")
		return ast.Parameter{}, true, false
	}
	return ast.Parameter{Name: name, Value: tok.Text, ValueSpan: tok.Span}, true, true
}
