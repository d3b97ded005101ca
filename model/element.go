package model

// PartKind identifies a tagged sub-span of an element.
type PartKind int

// Part kinds.
const (
	PartKeyword PartKind = iota
	PartName
	PartValue
	PartTypeName
	PartEnd
)

var partKindNames = [...]string{
	PartKeyword:  "keyword",
	PartName:     "name",
	PartValue:    "value",
	PartTypeName: "type name",
	PartEnd:      "end",
}

// String returns the part kind name.
func (k PartKind) String() string {
	if k >= 0 && int(k) < len(partKindNames) {
		return partKindNames[k]
	}
	return "unknown"
}

// Part locates one tagged piece of an element in its source.
type Part struct {
	Kind  PartKind
	Start Position
	End   Position
}

// Element is a node of the service model.
type Element interface {
	// Parts returns the tagged source spans of the element.
	Parts() []Part
	// Part returns the first part of the given kind.
	Part(kind PartKind) (Part, bool)
	// Position returns the preferred position for diagnostics.
	Position() Position
	// LocalErrors returns the errors found in this element only.
	LocalErrors() []*Error
	// Children returns the direct child elements.
	Children() []Element
}

// element holds the state shared by every model element.
type element struct {
	parts  []Part
	errors []*Error
}

func (e *element) Parts() []Part {
	return e.parts
}

func (e *element) Part(kind PartKind) (Part, bool) {
	for _, p := range e.parts {
		if p.Kind == kind {
			return p, true
		}
	}
	return Part{}, false
}

// Position prefers the name part, falling back to the first part.
func (e *element) Position() Position {
	if p, ok := e.Part(PartName); ok {
		return p.Start
	}
	if len(e.parts) > 0 {
		return e.parts[0].Start
	}
	return Position{}
}

func (e *element) LocalErrors() []*Error {
	return e.errors
}

func (e *element) positionOf(kind PartKind) Position {
	if p, ok := e.Part(kind); ok {
		return p.Start
	}
	return e.Position()
}

// IsValid reports whether neither the element nor any descendant has
// errors.
func IsValid(e Element) bool {
	if len(e.LocalErrors()) != 0 {
		return false
	}
	for _, child := range e.Children() {
		if !IsValid(child) {
			return false
		}
	}
	return true
}

// Errors returns the errors of the element and its descendants,
// depth-first, without duplicates.
func Errors(e Element) []*Error {
	var errs []*Error
	seen := make(map[*Error]bool)
	walk(e, func(el Element) {
		for _, err := range el.LocalErrors() {
			if !seen[err] {
				seen[err] = true
				errs = append(errs, err)
			}
		}
	})
	return errs
}

// Descendants returns every element below e, depth-first.
func Descendants(e Element) []Element {
	var out []Element
	for _, child := range e.Children() {
		walk(child, func(el Element) { out = append(out, el) })
	}
	return out
}

func walk(e Element, fn func(Element)) {
	fn(e)
	for _, child := range e.Children() {
		walk(child, fn)
	}
}
