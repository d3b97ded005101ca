package model

import "fmt"

// ExcludeTag returns a copy of the service without the members, fields,
// enumerated values and errors tagged with tag. It returns a
// *ServiceDefinitionError if the reduced service is invalid.
func (s *ServiceInfo) ExcludeTag(tag string) (*ServiceInfo, error) {
	svc, errs := s.TryExcludeTag(tag)
	if len(errs) != 0 {
		return nil, NewServiceDefinitionError(errs)
	}
	return svc, nil
}

// TryExcludeTag is like ExcludeTag but always returns the reduced
// service along with every problem found in it. Problems are reported
// with the usual messages followed by a note naming the excluded tag.
func (s *ServiceInfo) TryExcludeTag(tag string) (*ServiceInfo, []*Error) {
	x := &tagExcluder{
		tag: tag,
		v:   &validation{mode: Collect, suffix: fmt.Sprintf(" ('%s' tags are excluded.)", tag)},
	}

	var members []Member
	for _, m := range s.members {
		if HasTag(m, tag) {
			continue
		}
		members = append(members, x.member(m))
	}

	d := s.decl()
	d.Attributes = x.attributes(d.Attributes)
	svc, _ := newService(d, members, x.v.child())
	return svc, Errors(svc)
}

// tagExcluder rebuilds model elements without tagged children, running
// every constructor again so the reduced graph is validated from scratch.
type tagExcluder struct {
	tag string
	v   *validation
}

func (x *tagExcluder) member(m Member) Member {
	switch m := m.(type) {
	case *DtoInfo:
		dto, _ := newDto(x.memberDecl(&m.memberBase), x.fields(m.fields), x.v.child())
		return dto
	case *MethodInfo:
		method, _ := newMethod(x.memberDecl(&m.memberBase), x.fields(m.request), x.fields(m.response), x.v.child())
		return method
	case *EnumInfo:
		var values []*EnumValueInfo
		for _, ev := range m.values {
			if !HasTag(ev, x.tag) {
				value, _ := newEnumValue(x.declOf(&ev.declBase), x.v.child())
				values = append(values, value)
			}
		}
		enum, _ := newEnum(x.memberDecl(&m.memberBase), values, x.v.child())
		return enum
	case *ErrorSetInfo:
		var errs []*ErrorInfo
		for _, ei := range m.errors {
			if !HasTag(ei, x.tag) {
				e, _ := newErrorInfo(x.declOf(&ei.declBase), x.v.child())
				errs = append(errs, e)
			}
		}
		es, _ := newErrorSet(x.memberDecl(&m.memberBase), errs, x.v.child())
		return es
	case *ExternalDtoInfo:
		ext, _ := newExternalDto(x.memberDecl(&m.memberBase), x.v.child())
		return ext
	case *ExternalEnumInfo:
		ext, _ := newExternalEnum(x.memberDecl(&m.memberBase), x.v.child())
		return ext
	default:
		return m
	}
}

func (x *tagExcluder) fields(fields []*FieldInfo) []*FieldInfo {
	var out []*FieldInfo
	for _, f := range fields {
		if HasTag(f, x.tag) {
			continue
		}
		field, _ := newField(x.declOf(&f.declBase), f.typeName, x.v.child())
		out = append(out, field)
	}
	return out
}

func (x *tagExcluder) declOf(d *declBase) Decl {
	decl := d.decl()
	decl.Attributes = x.attributes(decl.Attributes)
	return decl
}

func (x *tagExcluder) memberDecl(m *memberBase) Decl {
	decl := m.decl()
	decl.Attributes = x.attributes(decl.Attributes)
	return decl
}

func (x *tagExcluder) attributes(attrs []*AttributeInfo) []*AttributeInfo {
	out := make([]*AttributeInfo, 0, len(attrs))
	for _, a := range attrs {
		params := make([]*AttributeParameterInfo, 0, len(a.parameters))
		for _, p := range a.parameters {
			param, _ := newAttributeParameter(p.name, p.value, p.parts, x.v.child())
			params = append(params, param)
		}
		attr, _ := newAttribute(a.name, params, a.parts, x.v.child())
		out = append(out, attr)
	}
	return out
}
