package model

import (
	"fmt"
	"slices"

	"github.com/gorilla/schema"
)

var attributeDecoder = schema.NewDecoder()

func init() {
	attributeDecoder.IgnoreUnknownKeys(true)
	attributeDecoder.SetAliasTag("fsd")
}

// AttributeParameterInfo is a name/value pair inside an attribute.
type AttributeParameterInfo struct {
	element
	name  string
	value string
}

// NewAttributeParameter returns an attribute parameter.
func NewAttributeParameter(name, value string, parts []Part, mode ValidationMode) (*AttributeParameterInfo, error) {
	return newAttributeParameter(name, value, parts, newValidation(mode))
}

func newAttributeParameter(name, value string, parts []Part, v *validation) (*AttributeParameterInfo, error) {
	p := &AttributeParameterInfo{element: element{parts: parts}, name: name, value: value}
	v.checkName(&p.element, name)
	if err := v.result(); err != nil {
		return nil, err
	}
	return p, nil
}

// Name returns the parameter name.
func (p *AttributeParameterInfo) Name() string { return p.name }

// Value returns the decoded parameter value.
func (p *AttributeParameterInfo) Value() string { return p.value }

// Children returns nil; parameters are leaves.
func (p *AttributeParameterInfo) Children() []Element { return nil }

// AttributeInfo is an attribute such as [obsolete] or [tag(name: x)].
type AttributeInfo struct {
	element
	name       string
	parameters []*AttributeParameterInfo
}

// NewAttribute returns an attribute with the given parameters.
func NewAttribute(name string, parameters []*AttributeParameterInfo, parts []Part, mode ValidationMode) (*AttributeInfo, error) {
	return newAttribute(name, parameters, parts, newValidation(mode))
}

func newAttribute(name string, parameters []*AttributeParameterInfo, parts []Part, v *validation) (*AttributeInfo, error) {
	a := &AttributeInfo{element: element{parts: parts}, name: name, parameters: parameters}
	v.checkName(&a.element, name)
	checkDuplicates(v, &a.element, parameters, "attribute parameter")
	if err := v.result(); err != nil {
		return nil, err
	}
	return a, nil
}

// Name returns the attribute name.
func (a *AttributeInfo) Name() string { return a.name }

// Parameters returns the attribute parameters in source order.
func (a *AttributeInfo) Parameters() []*AttributeParameterInfo { return a.parameters }

// Parameter returns the first parameter with the given name, or nil.
func (a *AttributeInfo) Parameter(name string) *AttributeParameterInfo {
	for _, p := range a.parameters {
		if p.name == name {
			return p
		}
	}
	return nil
}

// Children returns the parameters.
func (a *AttributeInfo) Children() []Element {
	children := make([]Element, len(a.parameters))
	for i, p := range a.parameters {
		children[i] = p
	}
	return children
}

// Attributed is implemented by every element that carries attributes.
type Attributed interface {
	Element
	Name() string
	Attributes() []*AttributeInfo
}

// GetAttributes returns every attribute of e with the given name.
func GetAttributes(e Attributed, name string) []*AttributeInfo {
	var out []*AttributeInfo
	for _, a := range e.Attributes() {
		if a.name == name {
			out = append(out, a)
		}
	}
	return out
}

// GetAttribute returns the first attribute of e with the given name, or nil.
func GetAttribute(e Attributed, name string) *AttributeInfo {
	for _, a := range e.Attributes() {
		if a.name == name {
			return a
		}
	}
	return nil
}

// IsObsolete reports whether e has an [obsolete] attribute.
func IsObsolete(e Attributed) bool {
	return GetAttribute(e, "obsolete") != nil
}

// ObsoleteMessage returns the message parameter of e's [obsolete]
// attribute, if any.
func ObsoleteMessage(e Attributed) string {
	if a := GetAttribute(e, "obsolete"); a != nil {
		if p := a.Parameter("message"); p != nil {
			return p.value
		}
	}
	return ""
}

// GetTags returns the names of every [tag] attribute of e.
func GetTags(e Attributed) []string {
	var tags []string
	for _, a := range GetAttributes(e, "tag") {
		if p := a.Parameter("name"); p != nil {
			tags = append(tags, p.value)
		}
	}
	return tags
}

// HasTag reports whether e is tagged with the given name.
func HasTag(e Attributed, tag string) bool {
	return slices.Contains(GetTags(e), tag)
}

// DecodeAttribute decodes the parameters of an attribute into the struct
// pointed to by dst. Struct fields are matched by their `fsd` tag, or by
// name when untagged. Parameters without a matching field are ignored.
func DecodeAttribute(a *AttributeInfo, dst any) error {
	return decodeParameters(a.name, a.parameters, dst)
}

func decodeParameters(attr string, params []*AttributeParameterInfo, dst any) error {
	values := make(map[string][]string, len(params))
	for _, p := range params {
		values[p.name] = append(values[p.name], p.value)
	}
	if err := attributeDecoder.Decode(dst, values); err != nil {
		return fmt.Errorf("decoding '%s' attribute: %w", attr, err)
	}
	return nil
}

// attributeRule restricts the parameters of a well-known attribute.
type attributeRule struct {
	allowed  []string
	required []string
}

var attributeRules = map[string]attributeRule{
	"required": {},
	"obsolete": {allowed: []string{"message"}},
	"tag":      {allowed: []string{"name"}, required: []string{"name"}},
}

// checkAttributes applies the parameter rules of well-known attributes.
func checkAttributes(v *validation, e *element, attrs []*AttributeInfo) {
	for _, a := range attrs {
		rule, ok := attributeRules[a.name]
		if !ok {
			continue
		}
		for _, p := range a.parameters {
			if !slices.Contains(rule.allowed, p.name) {
				v.report(e, p.Position(), "Unexpected '%s' parameter '%s'.", a.name, p.name)
			}
		}
		for _, name := range rule.required {
			if a.Parameter(name) == nil {
				v.report(e, a.Position(), "Missing '%s' parameter '%s'.", a.name, name)
			}
		}
	}
}
