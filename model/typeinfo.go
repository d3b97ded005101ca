package model

import (
	"errors"
	"fmt"
	"strings"
)

// TypeKind identifies the shape of a field type.
type TypeKind int

// Type kinds.
const (
	KindString TypeKind = iota + 1
	KindBoolean
	KindDouble
	KindInt32
	KindInt64
	KindDecimal
	KindBytes
	KindObject
	KindError
	KindDto
	KindEnum
	KindResult
	KindArray
	KindMap
)

var typeKindNames = map[TypeKind]string{
	KindString:  "string",
	KindBoolean: "boolean",
	KindDouble:  "double",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindDecimal: "decimal",
	KindBytes:   "bytes",
	KindObject:  "object",
	KindError:   "error",
	KindDto:     "dto",
	KindEnum:    "enum",
	KindResult:  "result",
	KindArray:   "array",
	KindMap:     "map",
}

// String returns the lower-case kind name.
func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsPrimitive reports whether the kind has no referenced or value type.
func (k TypeKind) IsPrimitive() bool {
	return k >= KindString && k <= KindError
}

// Errors returned when a type cannot be constructed or resolved.
var (
	ErrUnknownFieldType  = errors.New("unknown field type")
	ErrResultValueNotDto = errors.New("result value type is not a DTO")
	ErrNestedArray       = errors.New("array value type must not be an array or map")
	ErrNestedMap         = errors.New("map value type must not be a map")
)

// TypeInfo is a resolved field type.
type TypeInfo struct {
	Kind TypeKind
	// Dto is the *DtoInfo or *ExternalDtoInfo of a KindDto type.
	Dto Member
	// Enum is the *EnumInfo or *ExternalEnumInfo of a KindEnum type.
	Enum Member
	// Value is the value type of a result, array or map.
	Value *TypeInfo
}

// PrimitiveType returns the type of a primitive kind.
func PrimitiveType(kind TypeKind) (*TypeInfo, error) {
	if !kind.IsPrimitive() {
		return nil, fmt.Errorf("%s is not a primitive type kind", kind)
	}
	return &TypeInfo{Kind: kind}, nil
}

// DtoType returns the type of a DTO or external DTO.
func DtoType(dto Member) *TypeInfo {
	return &TypeInfo{Kind: KindDto, Dto: dto}
}

// EnumType returns the type of an enum or external enum.
func EnumType(enum Member) *TypeInfo {
	return &TypeInfo{Kind: KindEnum, Enum: enum}
}

// ResultType returns result<value>. The value type must be a DTO.
func ResultType(value *TypeInfo) (*TypeInfo, error) {
	if value.Kind != KindDto {
		return nil, ErrResultValueNotDto
	}
	return &TypeInfo{Kind: KindResult, Value: value}, nil
}

// ArrayType returns value[]. The value type must not be an array or map.
func ArrayType(value *TypeInfo) (*TypeInfo, error) {
	if value.Kind == KindArray || value.Kind == KindMap {
		return nil, ErrNestedArray
	}
	return &TypeInfo{Kind: KindArray, Value: value}, nil
}

// MapType returns map<value>. The value type must not be a map.
func MapType(value *TypeInfo) (*TypeInfo, error) {
	if value.Kind == KindMap {
		return nil, ErrNestedMap
	}
	return &TypeInfo{Kind: KindMap, Value: value}, nil
}

// String renders the type as it is written in a definition.
func (t *TypeInfo) String() string {
	switch t.Kind {
	case KindDto:
		return t.Dto.Name()
	case KindEnum:
		return t.Enum.Name()
	case KindResult:
		return "result<" + t.Value.String() + ">"
	case KindArray:
		return t.Value.String() + "[]"
	case KindMap:
		return "map<" + t.Value.String() + ">"
	default:
		return t.Kind.String()
	}
}

// primitiveTypes maps type keywords to kinds. There is no decimal
// keyword; KindDecimal is only produced by PrimitiveType.
var primitiveTypes = map[string]TypeKind{
	"string":  KindString,
	"boolean": KindBoolean,
	"double":  KindDouble,
	"int32":   KindInt32,
	"int64":   KindInt64,
	"bytes":   KindBytes,
	"object":  KindObject,
	"error":   KindError,
}

// ResolveType resolves a field type name. Bare names are looked up with
// lookup, which may return nil for unknown names.
func ResolveType(text string, lookup func(name string) Member) (*TypeInfo, error) {
	return newTypeResolver(lookup).resolve(text)
}

type resolvedType struct {
	t   *TypeInfo
	err error
}

// typeResolver memoizes resolution by type name.
type typeResolver struct {
	lookup func(string) Member
	cache  map[string]resolvedType
}

func newTypeResolver(lookup func(string) Member) *typeResolver {
	return &typeResolver{lookup: lookup, cache: make(map[string]resolvedType)}
}

func (r *typeResolver) resolve(text string) (*TypeInfo, error) {
	if cached, ok := r.cache[text]; ok {
		return cached.t, cached.err
	}
	t, err := r.resolveUncached(text)
	r.cache[text] = resolvedType{t: t, err: err}
	return t, err
}

func (r *typeResolver) resolveUncached(text string) (*TypeInfo, error) {
	if kind, ok := primitiveTypes[text]; ok {
		return &TypeInfo{Kind: kind}, nil
	}

	if inner, ok := cutAffixes(text, "result<", ">"); ok {
		value, err := r.resolve(inner)
		if err != nil {
			return nil, err
		}
		return ResultType(value)
	}

	if inner, ok := cutAffixes(text, "", "[]"); ok {
		value, err := r.resolve(inner)
		if err != nil {
			return nil, err
		}
		return ArrayType(value)
	}

	if inner, ok := cutAffixes(text, "map<", ">"); ok {
		value, err := r.resolve(inner)
		if err != nil {
			return nil, err
		}
		return MapType(value)
	}

	if r.lookup != nil {
		switch m := r.lookup(text).(type) {
		case *DtoInfo, *ExternalDtoInfo:
			return DtoType(m), nil
		case *EnumInfo, *ExternalEnumInfo:
			return EnumType(m), nil
		}
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownFieldType, text)
}

func cutAffixes(text, prefix, suffix string) (string, bool) {
	if len(text) <= len(prefix)+len(suffix) || !strings.HasPrefix(text, prefix) || !strings.HasSuffix(text, suffix) {
		return "", false
	}
	return text[len(prefix) : len(text)-len(suffix)], true
}
