package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdgo/fsd/internal/testutil"
	"github.com/fsdgo/fsd/model"
)

func TestPosition(t *testing.T) {
	src := model.NewSourceText("a.fsd", "service A\n{\r\n  data Bé {}\n}")
	pos := src.Position(len("service A\n{\r\n  data Bé "))
	assert.Equal(t, 3, pos.Line())
	assert.Equal(t, 11, pos.Column())
	assert.Equal(t, "a.fsd(3,11)", pos.String())
	assert.Equal(t, "{", src.Line(2))
	assert.Equal(t, "", src.Line(9))

	assert.Equal(t, "x.fsd", model.NewPosition("x.fsd", 0, 0).String())
	assert.Equal(t, "x.fsd(4)", model.NewPosition("x.fsd", 4, 0).String())
	assert.Equal(t, -1, model.NewPosition("x.fsd", 4, 2).Offset())
	assert.True(t, model.Position{}.IsZero())
	assert.True(t, src.Position(1).Before(src.Position(2)))
	assert.True(t, model.NewPosition("x", 1, 9).Before(model.NewPosition("x", 2, 1)))
}

func TestErrorRendering(t *testing.T) {
	cause := errors.New("boom")
	err := &model.Error{Message: "Bad thing.", Position: model.NewPosition("a.fsd", 2, 3), Cause: cause}
	assert.Equal(t, "a.fsd(2,3): Bad thing.", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "No position.", model.NewError("No position.", model.Position{}).Error())

	agg := model.NewServiceDefinitionError([]*model.Error{err, model.NewError("Second.", model.Position{})})
	assert.Equal(t, "a.fsd(2,3): Bad thing.\nSecond.", agg.Error())
	assert.ErrorIs(t, agg, cause)
	assert.Same(t, err, agg.First())

	assert.Panics(t, func() { model.NewServiceDefinitionError(nil) })
}

func TestInvalidNames(t *testing.T) {
	_, err := model.NewField(model.Decl{Name: "9lives"}, "string", model.Throw)
	var defErr *model.ServiceDefinitionError
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, "Invalid name '9lives'.", defErr.First().Message)

	f, err := model.NewField(model.Decl{Name: "9lives"}, "string", model.Collect)
	require.NoError(t, err)
	assert.False(t, model.IsValid(f))
	assert.Equal(t, []string{"Invalid name '9lives'."}, testutil.Messages(f.LocalErrors()))

	assert.True(t, model.IsValidName("_ok9"))
	assert.False(t, model.IsValidName("no-dash"))
	assert.False(t, model.IsValidName(""))
}

func TestDuplicates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"members", "service A { data B {} enum b {} errors B {} }",
			[]string{"Duplicate service member: b", "Duplicate service member: B"}},
		{"fields", "service A { data B { x: string; X: string; x: int32; } }",
			[]string{"Duplicate field: X", "Duplicate field: x"}},
		{"request fields", "service A { method m { a: string; A: string; }: { a: string; } }",
			[]string{"Duplicate request field: A"}},
		{"response fields", "service A { method m { }: { a: string; a: string; } }",
			[]string{"Duplicate response field: a"}},
		{"enum values", "service A { enum E { one, One } }",
			[]string{"Duplicate enumerated value: One"}},
		{"errors", "service A { errors E { Oops, oops } }",
			[]string{"Duplicate error: oops"}},
		{"attribute parameters", "service A { [x(a: 1, a: 2)] data B {} }",
			[]string{"Duplicate attribute parameter: a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := testutil.TryParse(t, tt.text)
			assert.ElementsMatch(t, tt.want, testutil.Messages(errs))
		})
	}
}

func TestWellKnownAttributes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"required twice", "service A { data B { [required] x: string!; } }",
			[]string{"'required' attribute is duplicated."}},
		{"required parameter", "service A { data B { [required(when: always)] x: string; } }",
			[]string{"Unexpected 'required' parameter 'when'."}},
		{"obsolete parameter", "service A { [obsolete(reason: old)] data B {} }",
			[]string{"Unexpected 'obsolete' parameter 'reason'."}},
		{"tag without name", "service A { [tag] data B {} }",
			[]string{"Missing 'tag' parameter 'name'."}},
		{"unknown attributes pass", "service A { [http(method: GET)] [custom] data B {} }", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := testutil.TryParse(t, tt.text)
			assert.ElementsMatch(t, tt.want, testutil.Messages(errs))
		})
	}
}

func TestValidateAttribute(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want []string
	}{
		{"string length", "[validate(length: 1..10)] x: string;", nil},
		{"string regex", `[validate(regex: "^[a-z]+$")] x: string;`, nil},
		{"string both", `[validate(length: 3.., regex: "^x")] x: string;`, nil},
		{"number", "[validate(value: -1.5..2)] x: double;", nil},
		{"number open", "[validate(value: ..0)] x: int64;", nil},
		{"count bytes", "[validate(count: 4)] x: bytes;", nil},
		{"count map", "[validate(count: 1..)] x: map<string>;", nil},
		{"missing string", "[validate] x: string;",
			[]string{"Missing 'validate' parameters: [length, regex]."}},
		{"missing number", "[validate] x: int32;",
			[]string{"Missing 'validate' parameters: [value]."}},
		{"unexpected", "[validate(count: 1)] x: string;",
			[]string{"Unexpected 'validate' parameter 'count'.", "Missing 'validate' parameters: [length, regex]."}},
		{"unsupported enum", "[validate(value: 1)] x: E;",
			[]string{"'validate' is not supported for field type 'E'."}},
		{"unsupported dto", "[validate(count: 1)] x: D;",
			[]string{"'validate' is not supported for field type 'D'."}},
		{"unsupported boolean", "[validate] x: boolean;",
			[]string{"'validate' is not supported for field type 'boolean'."}},
		{"bad range", "[validate(length: 10..1)] x: string;",
			[]string{"Invalid 'validate' length parameter '10..1'."}},
		{"bad count", "[validate(count: -1)] x: string[];",
			[]string{"Invalid 'validate' count parameter '-1'."}},
		{"bad number", "[validate(value: abc)] x: int32;",
			[]string{"Invalid 'validate' value parameter 'abc'."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "service A { enum E { a } data D {} data B { " + tt.decl + " } }"
			_, errs := testutil.TryParse(t, text)
			assert.ElementsMatch(t, tt.want, testutil.Messages(errs))
		})
	}
}

func TestUnknownFieldTypeReportedPerField(t *testing.T) {
	text := `service A
{
	data B
	{
		x: Nope;
		y: Nope;
		z: Nope[];
	}
}`
	svc, errs := testutil.TryParse(t, text)
	require.NotNil(t, svc)
	require.Len(t, errs, 3)
	assert.Equal(t, "test.fsd(5,6): Unknown field type 'Nope'.", errs[0].Error())
	assert.Equal(t, "test.fsd(6,6): Unknown field type 'Nope'.", errs[1].Error())
	assert.Equal(t, "Unknown field type 'Nope[]'.", errs[2].Message)
	assert.ErrorIs(t, errs[0], model.ErrUnknownFieldType)
	assert.Nil(t, svc.GetFieldType(svc.Dtos()[0].Field("x")))
}

func TestServiceLookups(t *testing.T) {
	svc := testutil.Parse(t, `service A
{
	[tag(name: one)] [tag(name: two)]
	data B { [obsolete] x: C; }
	enum C { a, [obsolete(message: gone)] b }
	errors E { Oops }
	extern enum F;
	method m { }: { }
}`)
	b, ok := svc.FindMember("B").(*model.DtoInfo)
	require.True(t, ok)
	assert.Nil(t, svc.FindMember("b"))
	assert.Equal(t, []string{"one", "two"}, model.GetTags(b))
	assert.True(t, model.HasTag(b, "two"))
	assert.Len(t, model.GetAttributes(b, "tag"), 2)
	assert.Equal(t, model.MemberDto, b.Kind())
	assert.Equal(t, "data", b.Kind().String())

	c := svc.Enums()[0]
	assert.NotNil(t, c.Value("B"))
	assert.Equal(t, "gone", model.ObsoleteMessage(c.Value("b")))
	assert.Equal(t, model.KindEnum, svc.GetFieldType(b.Field("x")).Kind)

	assert.Len(t, svc.ExternalEnums(), 1)
	assert.Equal(t, "extern enum", svc.ExternalEnums()[0].Kind().String())
	assert.Len(t, svc.ErrorSets()[0].Errors(), 1)

	var kinds []string
	for _, e := range model.Descendants(svc) {
		if m, ok := e.(model.Member); ok {
			kinds = append(kinds, m.Kind().String())
		}
	}
	assert.Equal(t, []string{"data", "enum", "errors", "extern enum", "method"}, kinds)

	name, ok := b.Part(model.PartName)
	require.True(t, ok)
	assert.Equal(t, 4, name.Start.Line())
	keyword, ok := b.Part(model.PartKeyword)
	require.True(t, ok)
	assert.Equal(t, 2, keyword.Start.Column())
	_, ok = b.Part(model.PartEnd)
	assert.True(t, ok)
}

func TestDecodeAttribute(t *testing.T) {
	svc := testutil.Parse(t, `[http(url: "https://example.com/", version: 2, beta: true)] service A {}`)
	var params struct {
		URL     string `fsd:"url"`
		Version int    `fsd:"version"`
		Beta    bool   `fsd:"beta"`
	}
	require.NoError(t, model.DecodeAttribute(model.GetAttribute(svc, "http"), &params))
	assert.Equal(t, "https://example.com/", params.URL)
	assert.Equal(t, 2, params.Version)
	assert.True(t, params.Beta)

	var bad struct {
		Version int `fsd:"url"`
	}
	assert.Error(t, model.DecodeAttribute(model.GetAttribute(svc, "http"), &bad))
}

func TestThrowModeConstructors(t *testing.T) {
	good, err := model.NewField(model.Decl{Name: "ok"}, "string", model.Throw)
	require.NoError(t, err)
	dup, err := model.NewField(model.Decl{Name: "OK"}, "string", model.Throw)
	require.NoError(t, err)

	dto, err := model.NewDto(model.Decl{Name: "D"}, []*model.FieldInfo{good, dup}, model.Throw)
	assert.Nil(t, dto)
	var defErr *model.ServiceDefinitionError
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, "Duplicate field: OK", defErr.First().Message)

	unknown, err := model.NewField(model.Decl{Name: "x"}, "Missing", model.Throw)
	require.NoError(t, err)
	holder, err := model.NewDto(model.Decl{Name: "H"}, []*model.FieldInfo{unknown}, model.Throw)
	require.NoError(t, err)
	svc, err := model.NewService(model.Decl{Name: "S"}, []model.Member{holder}, model.Throw)
	assert.Nil(t, svc)
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, "Unknown field type 'Missing'.", defErr.First().Message)
}

func TestDtoOrder(t *testing.T) {
	svc := testutil.Parse(t, `service A
{
	data Order { customer: Customer; lines: map<Line[]>; }
	data Customer { address: Address; }
	data Address { }
	data Line { item: string; }
	data Node { edges: Edge[]; }
	data Edge { to: result<Node>; }
	data Tree { children: Tree[]; }
}`)
	order, cycles := svc.DtoOrder()
	var names []string
	for _, d := range order {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"Address", "Customer", "Line", "Order"}, names)

	var groups [][]string
	for _, group := range cycles {
		var g []string
		for _, d := range group {
			g = append(g, d.Name())
		}
		groups = append(groups, g)
	}
	assert.Equal(t, [][]string{{"Node", "Edge"}, {"Tree"}}, groups)
}
