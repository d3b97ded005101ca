package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdgo/fsd/model"
)

func lookupOf(members ...model.Member) func(string) model.Member {
	return func(name string) model.Member {
		for _, m := range members {
			if m.Name() == name {
				return m
			}
		}
		return nil
	}
}

func TestResolveType(t *testing.T) {
	dto, err := model.NewDto(model.Decl{Name: "MyDto"}, nil, model.Throw)
	require.NoError(t, err)
	enum, err := model.NewEnum(model.Decl{Name: "MyEnum"}, nil, model.Throw)
	require.NoError(t, err)
	money, err := model.NewExternalDto(model.Decl{Name: "Money"}, model.Throw)
	require.NoError(t, err)
	lookup := lookupOf(dto, enum, money)

	tests := []struct {
		text string
		want string
		kind model.TypeKind
	}{
		{"string", "string", model.KindString},
		{"boolean", "boolean", model.KindBoolean},
		{"double", "double", model.KindDouble},
		{"int32", "int32", model.KindInt32},
		{"int64", "int64", model.KindInt64},
		{"bytes", "bytes", model.KindBytes},
		{"object", "object", model.KindObject},
		{"error", "error", model.KindError},
		{"MyDto", "MyDto", model.KindDto},
		{"MyEnum", "MyEnum", model.KindEnum},
		{"Money", "Money", model.KindDto},
		{"result<MyDto>", "result<MyDto>", model.KindResult},
		{"MyEnum[]", "MyEnum[]", model.KindArray},
		{"result<MyDto>[]", "result<MyDto>[]", model.KindArray},
		{"map<string>", "map<string>", model.KindMap},
		{"map<MyDto[]>", "map<MyDto[]>", model.KindMap},
		{"map<result<MyDto>>", "map<result<MyDto>>", model.KindMap},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			typ, err := model.ResolveType(tt.text, lookup)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, typ.Kind)
			assert.Equal(t, tt.want, typ.String())
		})
	}

	mapped, err := model.ResolveType("map<MyDto[]>", lookup)
	require.NoError(t, err)
	assert.Same(t, dto, mapped.Value.Value.Dto)
}

func TestResolveTypeErrors(t *testing.T) {
	dto, _ := model.NewDto(model.Decl{Name: "MyDto"}, nil, model.Collect)
	enum, _ := model.NewEnum(model.Decl{Name: "MyEnum"}, nil, model.Collect)
	svc, _ := model.NewService(model.Decl{Name: "Api"}, nil, model.Collect)
	lookup := lookupOf(dto, enum, svc)

	tests := []struct {
		text string
		want error
	}{
		{"string[][]", model.ErrNestedArray},
		{"map<string>[]", model.ErrNestedArray},
		{"map<map<string>>", model.ErrNestedMap},
		{"result<MyEnum>", model.ErrResultValueNotDto},
		{"result<string>", model.ErrResultValueNotDto},
		{"decimal", model.ErrUnknownFieldType},
		{"Api", model.ErrUnknownFieldType},
		{"Missing", model.ErrUnknownFieldType},
		{"result<Missing>", model.ErrUnknownFieldType},
		{"map<>", model.ErrUnknownFieldType},
		{"[]", model.ErrUnknownFieldType},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			typ, err := model.ResolveType(tt.text, lookup)
			assert.Nil(t, typ)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTypeConstructors(t *testing.T) {
	decimal, err := model.PrimitiveType(model.KindDecimal)
	require.NoError(t, err)
	assert.Equal(t, "decimal", decimal.String())

	_, err = model.PrimitiveType(model.KindArray)
	assert.Error(t, err)

	arr, err := model.ArrayType(decimal)
	require.NoError(t, err)
	_, err = model.ArrayType(arr)
	assert.True(t, errors.Is(err, model.ErrNestedArray))

	m, err := model.MapType(arr)
	require.NoError(t, err)
	assert.Equal(t, "map<decimal[]>", m.String())
	_, err = model.MapType(m)
	assert.True(t, errors.Is(err, model.ErrNestedMap))

	assert.True(t, model.KindError.IsPrimitive())
	assert.False(t, model.KindDto.IsPrimitive())
}
