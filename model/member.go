package model

// MemberKind identifies the variant of a Member.
type MemberKind int

// Member kinds.
const (
	MemberService MemberKind = iota
	MemberMethod
	MemberDto
	MemberEnum
	MemberErrorSet
	MemberExternalDto
	MemberExternalEnum
)

var memberKindNames = [...]string{
	MemberService:      "service",
	MemberMethod:       "method",
	MemberDto:          "data",
	MemberEnum:         "enum",
	MemberErrorSet:     "errors",
	MemberExternalDto:  "extern data",
	MemberExternalEnum: "extern enum",
}

// String returns the declaration keyword of the kind.
func (k MemberKind) String() string {
	if k >= 0 && int(k) < len(memberKindNames) {
		return memberKindNames[k]
	}
	return "unknown"
}

// Decl carries the properties shared by every declaration.
// Remarks are ignored by elements that are not members.
type Decl struct {
	Name       string
	Attributes []*AttributeInfo
	Summary    string
	Remarks    []string
	Parts      []Part
	// Errors are problems found before construction, such as misplaced
	// documentation. Only the service records them.
	Errors []*Error
}

// Member is a named declaration: the service itself, or one of its
// methods, DTOs, enums, error sets or external types.
type Member interface {
	Attributed
	Kind() MemberKind
	Summary() string
	Remarks() []string
	member()
}

// declBase holds what every declaration shares.
type declBase struct {
	element
	name       string
	attributes []*AttributeInfo
	summary    string
}

func newDeclBase(d Decl) declBase {
	return declBase{
		element:    element{parts: d.Parts},
		name:       d.Name,
		attributes: d.Attributes,
		summary:    d.Summary,
	}
}

// Name returns the declared name.
func (d *declBase) Name() string { return d.name }

// Attributes returns the attributes in source order.
func (d *declBase) Attributes() []*AttributeInfo { return d.attributes }

// Summary returns the one-line summary, if any.
func (d *declBase) Summary() string { return d.summary }

func (d *declBase) check(v *validation) {
	v.checkName(&d.element, d.name)
	checkAttributes(v, &d.element, d.attributes)
}

func (d *declBase) attributeChildren(extra int) []Element {
	children := make([]Element, 0, len(d.attributes)+extra)
	for _, a := range d.attributes {
		children = append(children, a)
	}
	return children
}

func (d *declBase) decl() Decl {
	return Decl{Name: d.name, Attributes: d.attributes, Summary: d.summary, Parts: d.parts}
}

// memberBase adds remarks to a declaration.
type memberBase struct {
	declBase
	remarks []string
}

func newMemberBase(d Decl) memberBase {
	return memberBase{declBase: newDeclBase(d), remarks: d.Remarks}
}

// Remarks returns the long-form documentation lines, if any.
func (m *memberBase) Remarks() []string { return m.remarks }

func (m *memberBase) member() {}

func (m *memberBase) decl() Decl {
	d := m.declBase.decl()
	d.Remarks = m.remarks
	return d
}

func appendChildren[T Element](children []Element, items []T) []Element {
	for _, item := range items {
		children = append(children, item)
	}
	return children
}
