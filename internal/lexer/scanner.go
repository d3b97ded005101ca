package lexer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"fortio.org/safecast"

	"github.com/fsdgo/fsd/internal/types"
)

// Scanner reads tokens from service definition text on demand.
//
// Whitespace and line comments are insignificant and skipped before
// every token. While skipping, the scanner remembers the trailing run of
// "///" summary comments so the parser can attach it to the declaration
// that follows.
type Scanner struct {
	source  string
	pos     int
	skipped int // position the last skip ended at, -1 if none
	summary []string
	types.Logger
}

// New returns a Scanner positioned at the start of source.
func New(source string, logger *slog.Logger) *Scanner {
	s := &Scanner{
		source:  source,
		skipped: -1,
		Logger:  types.Logger{L: logger},
	}
	s.Log(slog.LevelDebug, "scanner initialized", slog.Int("bytes", len(source)))
	return s
}

// Pos returns the current byte offset.
func (s *Scanner) Pos() int {
	return s.pos
}

// Offset converts a byte position to a ByteOffset.
func Offset(pos int) types.ByteOffset {
	off, err := safecast.Conv[uint32](pos)
	if err != nil {
		return types.ByteOffset(math.MaxUint32)
	}
	return types.ByteOffset(off)
}

func (s *Scanner) span(start int) types.Span {
	return types.NewSpan(Offset(start), Offset(s.pos))
}

func (s *Scanner) peek() (byte, bool) {
	if s.pos >= len(s.source) {
		return 0, false
	}
	return s.source[s.pos], true
}

func (s *Scanner) peekAt(offset int) (byte, bool) {
	idx := s.pos + offset
	if idx >= len(s.source) {
		return 0, false
	}
	return s.source[idx], true
}

// SkipInsignificant skips whitespace and line comments. Calling it again
// at the same position is a no-op, so the collected summary survives
// repeated lookahead.
func (s *Scanner) SkipInsignificant() {
	if s.skipped == s.pos {
		return
	}
	s.summary = s.summary[:0]
	for {
		b, ok := s.peek()
		if !ok {
			break
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			s.pos++
			continue
		}
		if next, ok := s.peekAt(1); ok && b == '/' && next == '/' {
			s.consumeComment()
			continue
		}
		break
	}
	s.skipped = s.pos
}

func (s *Scanner) consumeComment() {
	start := s.pos
	for s.pos < len(s.source) && s.source[s.pos] != '\n' {
		s.pos++
	}
	text := strings.TrimRight(s.source[start:s.pos], " \t\r")
	if text == "///" {
		s.summary = append(s.summary, "")
		return
	}
	if rest, ok := strings.CutPrefix(text, "/// "); ok {
		s.summary = append(s.summary, strings.TrimSpace(rest))
		return
	}
	// Any other comment, "///x" included, breaks the summary run.
	s.summary = s.summary[:0]
}

// Summary returns the summary comment run that precedes the current
// position, joined by single spaces. It is empty unless the last skip
// ended here.
func (s *Scanner) Summary() string {
	if s.skipped != s.pos || len(s.summary) == 0 {
		return ""
	}
	var parts []string
	for _, line := range s.summary {
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// AtEOF skips insignificant text and reports whether input is exhausted.
func (s *Scanner) AtEOF() bool {
	s.SkipInsignificant()
	return s.pos >= len(s.source)
}

// Punct consumes the punctuation character c.
func (s *Scanner) Punct(c byte) (Token, bool) {
	s.SkipInsignificant()
	if b, ok := s.peek(); !ok || b != c {
		return Token{}, false
	}
	start := s.pos
	s.pos++
	return s.token(TokPunct, start), true
}

// Ident consumes an identifier.
func (s *Scanner) Ident() (Token, bool) {
	s.SkipInsignificant()
	start := s.pos
	if b, ok := s.peek(); !ok || !isIdentStart(b) {
		return Token{}, false
	}
	s.pos++
	for s.pos < len(s.source) && isIdentPart(s.source[s.pos]) {
		s.pos++
	}
	return s.token(TokIdent, start), true
}

// Keyword consumes the identifier kw. A longer identifier that merely
// starts with kw does not match.
func (s *Scanner) Keyword(kw string) (Token, bool) {
	start := s.pos
	tok, ok := s.Ident()
	if !ok || tok.Text != kw {
		s.pos = start
		return Token{}, false
	}
	return tok, true
}

// TypeName consumes a field type name such as "string", "Widget[]" or
// "map<result<Widget>>".
func (s *Scanner) TypeName() (Token, bool) {
	s.SkipInsignificant()
	start := s.pos
	if b, ok := s.peek(); !ok || !isIdentStart(b) {
		return Token{}, false
	}
	s.pos++
	for s.pos < len(s.source) && isTypeNamePart(s.source[s.pos]) {
		s.pos++
	}
	return s.token(TokTypeName, start), true
}

// Value consumes an attribute parameter value: either a bare token or a
// double-quoted string with JSON escapes. Bytes other than escapes are
// kept as written. A string that is unterminated or has an invalid escape
// does not match.
func (s *Scanner) Value() (Token, bool) {
	s.SkipInsignificant()
	start := s.pos
	b, ok := s.peek()
	if !ok {
		return Token{}, false
	}
	if b == '"' {
		return s.quoted(start)
	}
	for s.pos < len(s.source) && isBareValuePart(s.source[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return Token{}, false
	}
	return s.token(TokBareValue, start), true
}

func (s *Scanner) quoted(start int) (Token, bool) {
	s.pos++
	for {
		b, ok := s.peek()
		if !ok || b == '\n' || b == '\r' {
			s.pos = start
			return Token{}, false
		}
		s.pos++
		if b == '\\' {
			if _, ok := s.peek(); ok {
				s.pos++
			}
			continue
		}
		if b == '"' {
			break
		}
	}

	value, err := unquote(s.source[start+1 : s.pos-1])
	if err != nil {
		s.Log(slog.LevelDebug, "invalid string literal",
			slog.Int("offset", start),
			slog.String("error", err.Error()))
		s.pos = start
		return Token{}, false
	}
	tok := s.token(TokString, start)
	tok.Text = value
	return tok, true
}

// unquote decodes the escapes of a string body. A \u escape of an
// unpaired surrogate decodes to U+FFFD.
func unquote(body string) (string, error) {
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", errors.New("escape at end of string")
		}
		switch c = body[i]; c {
		case '"', '\\', '/':
			b.WriteByte(c)
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, ok := hex4(body[i+1:])
			if !ok {
				return "", fmt.Errorf("invalid \\u escape at %d", i-1)
			}
			i += 4
			if utf16.IsSurrogate(r) {
				r = surrogatePair(r, body[i+1:])
				if r != unicode.ReplacementChar {
					i += 6
				}
			}
			b.WriteRune(r)
		default:
			return "", fmt.Errorf("invalid escape %q", "\\"+string(c))
		}
	}
	return b.String(), nil
}

// surrogatePair combines high with a \u escape of a low surrogate at the
// start of rest, or returns U+FFFD.
func surrogatePair(high rune, rest string) rune {
	next, ok := strings.CutPrefix(rest, `\u`)
	if !ok {
		return unicode.ReplacementChar
	}
	low, ok := hex4(next)
	if !ok {
		return unicode.ReplacementChar
	}
	return utf16.DecodeRune(high, low)
}

func hex4(s string) (rune, bool) {
	if len(s) < 4 {
		return 0, false
	}
	n, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}

func (s *Scanner) token(kind TokenKind, start int) Token {
	tok := Token{Kind: kind, Span: s.span(start), Text: s.source[start:s.pos]}
	if s.TraceEnabled() {
		s.Trace("token",
			slog.String("kind", kind.String()),
			slog.Int("start", start),
			slog.Int("end", s.pos))
	}
	return tok
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isTypeNamePart(b byte) bool {
	return isIdentPart(b) || b == '<' || b == '>' || b == '[' || b == ']'
}

func isBareValuePart(b byte) bool {
	return isIdentPart(b) || b == '.' || b == '+' || b == '-'
}
