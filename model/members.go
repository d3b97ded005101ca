package model

import "strings"

// FieldInfo is a named, typed slot of a DTO or of a method request or
// response.
type FieldInfo struct {
	declBase
	typeName string
}

// NewField returns a field whose type name is resolved later by the
// enclosing service.
func NewField(d Decl, typeName string, mode ValidationMode) (*FieldInfo, error) {
	return newField(d, typeName, newValidation(mode))
}

func newField(d Decl, typeName string, v *validation) (*FieldInfo, error) {
	f := &FieldInfo{declBase: newDeclBase(d), typeName: typeName}
	f.check(v)
	if required := GetAttributes(f, "required"); len(required) > 1 {
		for _, a := range required[1:] {
			v.report(&f.element, a.Position(), "'required' attribute is duplicated.")
		}
	}
	if err := v.result(); err != nil {
		return nil, err
	}
	return f, nil
}

// TypeName returns the unresolved type name.
func (f *FieldInfo) TypeName() string { return f.typeName }

// IsRequired reports whether the field has a [required] attribute,
// including one written as a trailing '!'.
func (f *FieldInfo) IsRequired() bool { return GetAttribute(f, "required") != nil }

// Children returns the attributes.
func (f *FieldInfo) Children() []Element { return f.attributeChildren(0) }

// DtoInfo is a data transfer object.
type DtoInfo struct {
	memberBase
	fields []*FieldInfo
}

// NewDto returns a DTO with the given fields.
func NewDto(d Decl, fields []*FieldInfo, mode ValidationMode) (*DtoInfo, error) {
	return newDto(d, fields, newValidation(mode))
}

func newDto(d Decl, fields []*FieldInfo, v *validation) (*DtoInfo, error) {
	dto := &DtoInfo{memberBase: newMemberBase(d), fields: fields}
	dto.check(v)
	checkDuplicates(v, &dto.element, fields, "field")
	if err := v.result(); err != nil {
		return nil, err
	}
	return dto, nil
}

// Kind returns MemberDto.
func (dto *DtoInfo) Kind() MemberKind { return MemberDto }

// Fields returns the fields in source order.
func (dto *DtoInfo) Fields() []*FieldInfo { return dto.fields }

// Field returns the field with the given name, or nil.
func (dto *DtoInfo) Field(name string) *FieldInfo { return findByName(dto.fields, name) }

// Children returns the attributes followed by the fields.
func (dto *DtoInfo) Children() []Element {
	return appendChildren(dto.attributeChildren(len(dto.fields)), dto.fields)
}

// MethodInfo is a service method with request and response fields.
type MethodInfo struct {
	memberBase
	request  []*FieldInfo
	response []*FieldInfo
}

// NewMethod returns a method with the given request and response fields.
func NewMethod(d Decl, request, response []*FieldInfo, mode ValidationMode) (*MethodInfo, error) {
	return newMethod(d, request, response, newValidation(mode))
}

func newMethod(d Decl, request, response []*FieldInfo, v *validation) (*MethodInfo, error) {
	m := &MethodInfo{memberBase: newMemberBase(d), request: request, response: response}
	m.check(v)
	checkDuplicates(v, &m.element, request, "request field")
	checkDuplicates(v, &m.element, response, "response field")
	if err := v.result(); err != nil {
		return nil, err
	}
	return m, nil
}

// Kind returns MemberMethod.
func (m *MethodInfo) Kind() MemberKind { return MemberMethod }

// RequestFields returns the request fields in source order.
func (m *MethodInfo) RequestFields() []*FieldInfo { return m.request }

// ResponseFields returns the response fields in source order.
func (m *MethodInfo) ResponseFields() []*FieldInfo { return m.response }

// Children returns the attributes, request fields and response fields.
func (m *MethodInfo) Children() []Element {
	children := appendChildren(m.attributeChildren(len(m.request)+len(m.response)), m.request)
	return appendChildren(children, m.response)
}

// EnumValueInfo is one value of an enumerated type.
type EnumValueInfo struct {
	declBase
}

// NewEnumValue returns an enumerated value.
func NewEnumValue(d Decl, mode ValidationMode) (*EnumValueInfo, error) {
	return newEnumValue(d, newValidation(mode))
}

func newEnumValue(d Decl, v *validation) (*EnumValueInfo, error) {
	ev := &EnumValueInfo{declBase: newDeclBase(d)}
	ev.check(v)
	if err := v.result(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Children returns the attributes.
func (ev *EnumValueInfo) Children() []Element { return ev.attributeChildren(0) }

// EnumInfo is an enumerated type.
type EnumInfo struct {
	memberBase
	values []*EnumValueInfo
}

// NewEnum returns an enumerated type with the given values.
func NewEnum(d Decl, values []*EnumValueInfo, mode ValidationMode) (*EnumInfo, error) {
	return newEnum(d, values, newValidation(mode))
}

func newEnum(d Decl, values []*EnumValueInfo, v *validation) (*EnumInfo, error) {
	e := &EnumInfo{memberBase: newMemberBase(d), values: values}
	e.check(v)
	checkDuplicates(v, &e.element, values, "enumerated value")
	if err := v.result(); err != nil {
		return nil, err
	}
	return e, nil
}

// Kind returns MemberEnum.
func (e *EnumInfo) Kind() MemberKind { return MemberEnum }

// Values returns the values in source order.
func (e *EnumInfo) Values() []*EnumValueInfo { return e.values }

// Value returns the value with the given name, ignoring ASCII case, or nil.
func (e *EnumInfo) Value(name string) *EnumValueInfo {
	for _, ev := range e.values {
		if strings.EqualFold(ev.name, name) {
			return ev
		}
	}
	return nil
}

// Children returns the attributes followed by the values.
func (e *EnumInfo) Children() []Element {
	return appendChildren(e.attributeChildren(len(e.values)), e.values)
}

// ErrorInfo is one error of an error set.
type ErrorInfo struct {
	declBase
}

// NewErrorInfo returns an error set entry.
func NewErrorInfo(d Decl, mode ValidationMode) (*ErrorInfo, error) {
	return newErrorInfo(d, newValidation(mode))
}

func newErrorInfo(d Decl, v *validation) (*ErrorInfo, error) {
	ei := &ErrorInfo{declBase: newDeclBase(d)}
	ei.check(v)
	if err := v.result(); err != nil {
		return nil, err
	}
	return ei, nil
}

// Children returns the attributes.
func (ei *ErrorInfo) Children() []Element { return ei.attributeChildren(0) }

// ErrorSetInfo is a named set of errors.
type ErrorSetInfo struct {
	memberBase
	errors []*ErrorInfo
}

// NewErrorSet returns an error set with the given errors.
func NewErrorSet(d Decl, errors []*ErrorInfo, mode ValidationMode) (*ErrorSetInfo, error) {
	return newErrorSet(d, errors, newValidation(mode))
}

func newErrorSet(d Decl, errors []*ErrorInfo, v *validation) (*ErrorSetInfo, error) {
	es := &ErrorSetInfo{memberBase: newMemberBase(d), errors: errors}
	es.check(v)
	checkDuplicates(v, &es.element, errors, "error")
	if err := v.result(); err != nil {
		return nil, err
	}
	return es, nil
}

// Kind returns MemberErrorSet.
func (es *ErrorSetInfo) Kind() MemberKind { return MemberErrorSet }

// Errors returns the errors in source order.
func (es *ErrorSetInfo) Errors() []*ErrorInfo { return es.errors }

// Children returns the attributes followed by the errors.
func (es *ErrorSetInfo) Children() []Element {
	return appendChildren(es.attributeChildren(len(es.errors)), es.errors)
}

// ExternalDtoInfo is a DTO defined outside the service definition.
type ExternalDtoInfo struct {
	memberBase
}

// NewExternalDto returns an external DTO.
func NewExternalDto(d Decl, mode ValidationMode) (*ExternalDtoInfo, error) {
	return newExternalDto(d, newValidation(mode))
}

func newExternalDto(d Decl, v *validation) (*ExternalDtoInfo, error) {
	x := &ExternalDtoInfo{memberBase: newMemberBase(d)}
	x.check(v)
	if err := v.result(); err != nil {
		return nil, err
	}
	return x, nil
}

// Kind returns MemberExternalDto.
func (x *ExternalDtoInfo) Kind() MemberKind { return MemberExternalDto }

// Children returns the attributes.
func (x *ExternalDtoInfo) Children() []Element { return x.attributeChildren(0) }

// ExternalEnumInfo is an enumerated type defined outside the service
// definition.
type ExternalEnumInfo struct {
	memberBase
}

// NewExternalEnum returns an external enumerated type.
func NewExternalEnum(d Decl, mode ValidationMode) (*ExternalEnumInfo, error) {
	return newExternalEnum(d, newValidation(mode))
}

func newExternalEnum(d Decl, v *validation) (*ExternalEnumInfo, error) {
	x := &ExternalEnumInfo{memberBase: newMemberBase(d)}
	x.check(v)
	if err := v.result(); err != nil {
		return nil, err
	}
	return x, nil
}

// Kind returns MemberExternalEnum.
func (x *ExternalEnumInfo) Kind() MemberKind { return MemberExternalEnum }

// Children returns the attributes.
func (x *ExternalEnumInfo) Children() []Element { return x.attributeChildren(0) }

func findByName[T named](items []T, name string) T {
	for _, item := range items {
		if item.Name() == name {
			return item
		}
	}
	var zero T
	return zero
}
