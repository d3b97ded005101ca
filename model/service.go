package model

// ServiceInfo is a service definition: the root of the model.
type ServiceInfo struct {
	memberBase
	members    []Member
	byName     map[string]Member
	fieldTypes map[*FieldInfo]*TypeInfo
}

// NewService returns a service with the given members.
//
// Besides the checks every member runs, the service resolves the type
// name of every field it contains. Each distinct type name is resolved
// once; fields whose type cannot be resolved get an
// "Unknown field type" error, and resolved fields have their [validate]
// attributes checked against the resolved type.
func NewService(d Decl, members []Member, mode ValidationMode) (*ServiceInfo, error) {
	return newService(d, members, newValidation(mode))
}

func newService(d Decl, members []Member, v *validation) (*ServiceInfo, error) {
	s := &ServiceInfo{
		memberBase: newMemberBase(d),
		members:    members,
		byName:     make(map[string]Member, len(members)),
		fieldTypes: make(map[*FieldInfo]*TypeInfo),
	}
	for _, m := range members {
		if _, ok := s.byName[m.Name()]; !ok {
			s.byName[m.Name()] = m
		}
	}

	for _, err := range d.Errors {
		v.attach(&s.element, err)
	}
	s.check(v)
	checkDuplicates(v, &s.element, members, "service member")
	s.resolveFieldTypes(v)

	if err := v.result(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ServiceInfo) resolveFieldTypes(v *validation) {
	var order []string
	byType := make(map[string][]*FieldInfo)
	for _, f := range s.allFields() {
		if _, ok := byType[f.typeName]; !ok {
			order = append(order, f.typeName)
		}
		byType[f.typeName] = append(byType[f.typeName], f)
	}

	resolver := newTypeResolver(s.FindMember)
	for _, typeName := range order {
		t, err := resolver.resolve(typeName)
		for _, f := range byType[typeName] {
			if err != nil {
				e := v.report(&f.element, f.positionOf(PartTypeName), "Unknown field type '%s'.", typeName)
				e.Cause = err
				continue
			}
			s.fieldTypes[f] = t
			checkValidateAttributes(v, f, t)
		}
	}
}

func (s *ServiceInfo) allFields() []*FieldInfo {
	var fields []*FieldInfo
	for _, m := range s.members {
		switch m := m.(type) {
		case *DtoInfo:
			fields = append(fields, m.fields...)
		case *MethodInfo:
			fields = append(fields, m.request...)
			fields = append(fields, m.response...)
		}
	}
	return fields
}

// Kind returns MemberService.
func (s *ServiceInfo) Kind() MemberKind { return MemberService }

// Members returns the members in source order.
func (s *ServiceInfo) Members() []Member { return s.members }

// FindMember returns the member with the given name, or nil. When names
// are duplicated the first member wins.
func (s *ServiceInfo) FindMember(name string) Member {
	return s.byName[name]
}

// GetFieldType returns the resolved type of a field of this service, or
// nil if the type could not be resolved.
func (s *ServiceInfo) GetFieldType(f *FieldInfo) *TypeInfo {
	return s.fieldTypes[f]
}

// Methods returns the methods in source order.
func (s *ServiceInfo) Methods() []*MethodInfo { return membersOf[*MethodInfo](s.members) }

// Dtos returns the DTOs in source order.
func (s *ServiceInfo) Dtos() []*DtoInfo { return membersOf[*DtoInfo](s.members) }

// Enums returns the enumerated types in source order.
func (s *ServiceInfo) Enums() []*EnumInfo { return membersOf[*EnumInfo](s.members) }

// ErrorSets returns the error sets in source order.
func (s *ServiceInfo) ErrorSets() []*ErrorSetInfo { return membersOf[*ErrorSetInfo](s.members) }

// ExternalDtos returns the external DTOs in source order.
func (s *ServiceInfo) ExternalDtos() []*ExternalDtoInfo {
	return membersOf[*ExternalDtoInfo](s.members)
}

// ExternalEnums returns the external enumerated types in source order.
func (s *ServiceInfo) ExternalEnums() []*ExternalEnumInfo {
	return membersOf[*ExternalEnumInfo](s.members)
}

// Children returns the attributes followed by the members.
func (s *ServiceInfo) Children() []Element {
	return appendChildren(s.attributeChildren(len(s.members)), s.members)
}

func membersOf[T Member](members []Member) []T {
	var out []T
	for _, m := range members {
		if t, ok := m.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
