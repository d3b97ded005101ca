package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdgo/fsd/internal/ast"
)

func mustParse(t *testing.T, source string) *ast.Service {
	t.Helper()
	svc, err := New(source, nil).ParseService()
	require.Nil(t, err, "unexpected syntax error")
	require.NotNil(t, svc)
	return svc
}

func parseError(t *testing.T, source string) *SyntaxError {
	t.Helper()
	svc, err := New(source, nil).ParseService()
	require.NotNil(t, err, "expected a syntax error")
	assert.Nil(t, svc)
	return err
}

func TestParseMinimalService(t *testing.T) {
	svc := mustParse(t, "service TestApi{}")
	assert.Equal(t, "TestApi", svc.Name.Name)
	assert.Empty(t, svc.Members)
	assert.False(t, svc.FileScoped)
	assert.Equal(t, "service TestApi{}"[svc.End.Start:svc.End.End], "}")
}

func TestParseEmptyInput(t *testing.T) {
	err := parseError(t, "")
	assert.Equal(t, 0, err.Offset)
	assert.Equal(t, "expected '[' or 'service'", err.Message())
}

func TestParseMembers(t *testing.T) {
	source := `[http(url: "/v1")]
/// The widget API.
service WidgetApi
{
	/// Gets a widget.
	[http(method: GET, path: "/widgets/{id}")]
	method getWidget
	{
		id: string!;
	}:
	{
		widget: Widget;
	}

	data Widget
	{
		[tag(name: beta)]
		name: string;
		sizes: map<int32[]>;
	}

	enum Color { red, green, blue, }

	errors ApiErrors
	{
		NotFound,
		[obsolete] Gone
	}

	extern data Money;
	extern enum Currency;
}`
	svc := mustParse(t, source)
	assert.Equal(t, "WidgetApi", svc.Name.Name)
	require.Len(t, svc.Header.Attributes, 1)
	assert.Equal(t, "http", svc.Header.Attributes[0].Name.Name)
	require.Len(t, svc.Members, 6)

	method, ok := svc.Members[0].(*ast.MethodDef)
	require.True(t, ok)
	assert.Equal(t, "getWidget", method.Name.Name)
	assert.Equal(t, "Gets a widget.", method.Summary)
	require.Len(t, method.Attributes, 1)
	params := method.Attributes[0].Parameters
	require.Len(t, params, 2)
	assert.Equal(t, "GET", params[0].Value)
	assert.Equal(t, "/widgets/{id}", params[1].Value)
	require.Len(t, method.Request, 1)
	assert.NotNil(t, method.Request[0].Required)
	require.Len(t, method.Response, 1)
	assert.Nil(t, method.Response[0].Required)
	assert.Equal(t, "Widget", method.Response[0].TypeName.Name)

	dto, ok := svc.Members[1].(*ast.DtoDef)
	require.True(t, ok)
	require.Len(t, dto.Fields, 2)
	assert.Equal(t, "map<int32[]>", dto.Fields[1].TypeName.Name)
	require.Len(t, dto.Fields[0].Attributes, 1)
	assert.Equal(t, "beta", dto.Fields[0].Attributes[0].Parameters[0].Value)

	enum, ok := svc.Members[2].(*ast.EnumDef)
	require.True(t, ok)
	require.Len(t, enum.Values, 3)
	assert.Equal(t, "blue", enum.Values[2].Name.Name)

	errs, ok := svc.Members[3].(*ast.ErrorSetDef)
	require.True(t, ok)
	require.Len(t, errs.Errors, 2)
	assert.Equal(t, "obsolete", errs.Errors[1].Attributes[0].Name.Name)

	money, ok := svc.Members[4].(*ast.ExternalDef)
	require.True(t, ok)
	assert.Equal(t, ast.ExternalData, money.Kind)
	currency, ok := svc.Members[5].(*ast.ExternalDef)
	require.True(t, ok)
	assert.Equal(t, ast.ExternalEnum, currency.Kind)
}

func TestParseFileScopedService(t *testing.T) {
	svc := mustParse(t, "service Api;\n\ndata One {}\ndata Two {}\n")
	assert.True(t, svc.FileScoped)
	assert.Len(t, svc.Members, 2)
}

func TestParseSummary(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"single", "/// Hello.\nservice A {}", "Hello."},
		{"joined", "/// Hello\n/// world.\nservice A {}", "Hello world."},
		{"blank lines skipped", "/// Hello\n///\n/// world.\nservice A {}", "Hello world."},
		{"plain comment breaks run", "/// Lost.\n// note\n/// Kept.\nservice A {}", "Kept."},
		{"plain comment only", "// note\nservice A {}", ""},
		{"trailing plain comment", "/// Lost.\n// note\nservice A {}", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mustParse(t, tt.source)
			assert.Equal(t, tt.want, svc.Summary)
		})
	}
}

func TestParseQuotedValues(t *testing.T) {
	svc := mustParse(t, `[info(text: "a\"b\\cé\n", bare: 1.5-beta+x)] service A {}`)
	params := svc.Attributes[0].Parameters
	require.Len(t, params, 2)
	assert.Equal(t, "a\"b\\cé\n", params[0].Value)
	assert.Equal(t, "1.5-beta+x", params[1].Value)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"missing name", "service {}", "expected service name"},
		{"missing body", "service A", "expected ';' or '{'"},
		{"bad member", "service A { foo }", "expected '}' or '[' or 'data' or 'enum' or 'errors' or 'extern' or 'method'"},
		{"unclosed attribute list", "service A { [x }", "expected ']' or '(' or ','"},
		{"attribute without keyword", "service A { [x] [y] foo Bar {} }", "expected '[' or 'data' or 'enum' or 'errors' or 'extern' or 'method'"},
		{"missing semicolon", "service A { data B { x: string } }", "expected ';' or '!'"},
		{"missing type", "service A { data B { x: ; } }", "expected field type name"},
		{"trailing input", "service A {} x", "expected end of input"},
		{"method response", "service A { method m {} {} }", "expected ':'"},
		{"unterminated string", `[a(b: "x)] service A {}`, "expected parameter value"},
		{"enum value", "service A { enum E { a b } }", "expected '}' or ','"},
		{"extern kind", "service A { extern foo X; }", "expected 'data' or 'enum'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseError(t, tt.source)
			assert.Equal(t, tt.want, err.Message())
		})
	}
}

func TestParseErrorOffset(t *testing.T) {
	source := "service A {\n  data B {\n    x: string\n  }\n}"
	err := parseError(t, source)
	assert.Equal(t, len("service A {\n  data B {\n    x: string\n  "), err.Offset)
}

func TestExpectationsOrdering(t *testing.T) {
	e := newExpectations()
	e.add(3, "'a'")
	e.add(5, "field name")
	e.add(5, "'['")
	e.add(5, "';'")
	e.add(5, "')'")
	e.add(5, "'['")
	e.add(4, "'ignored'")
	err := e.err()
	assert.Equal(t, 5, err.Offset)
	assert.Equal(t, []string{"')'", "';'", "'['", "field name"}, err.Expected)
}
