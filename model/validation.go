package model

import (
	"fmt"
	"regexp"
)

// ValidationMode controls how constructors report problems.
type ValidationMode int

const (
	// Collect records problems in the element and keeps going.
	Collect ValidationMode = iota
	// Throw makes the constructor return the first problem as a
	// *ServiceDefinitionError instead of an element.
	Throw
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidName reports whether name is a valid identifier.
func IsValidName(name string) bool {
	return namePattern.MatchString(name)
}

// validation is the state of a single constructor call.
type validation struct {
	mode   ValidationMode
	suffix string
	added  []*Error
}

func newValidation(mode ValidationMode) *validation {
	return &validation{mode: mode}
}

// child returns the validation state used for a nested constructor call.
func (v *validation) child() *validation {
	return &validation{mode: Collect, suffix: v.suffix}
}

func (v *validation) report(e *element, pos Position, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if v.suffix != "" {
		msg += v.suffix
	}
	err := &Error{Message: msg, Position: pos}
	e.errors = append(e.errors, err)
	v.added = append(v.added, err)
	return err
}

// attach records an error that was produced elsewhere.
func (v *validation) attach(e *element, err *Error) {
	e.errors = append(e.errors, err)
	v.added = append(v.added, err)
}

// result converts the collected problems into the constructor's error
// return according to the mode.
func (v *validation) result() error {
	if v.mode == Throw && len(v.added) != 0 {
		return NewServiceDefinitionError(v.added[:1])
	}
	return nil
}

func (v *validation) checkName(e *element, name string) {
	if !IsValidName(name) {
		v.report(e, e.positionOf(PartName), "Invalid name '%s'.", name)
	}
}

// named is implemented by every element that has a name.
type named interface {
	Element
	Name() string
}

// checkDuplicates reports every sibling whose case-folded name repeats an
// earlier sibling's, at the position of the repeat.
func checkDuplicates[T named](v *validation, parent *element, items []T, description string) {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := foldName(item.Name())
		if seen[key] {
			v.report(parent, item.Position(), "Duplicate %s: %s", description, item.Name())
			continue
		}
		seen[key] = true
	}
}

// foldName lower-cases ASCII letters only.
func foldName(name string) string {
	for i := 0; i < len(name); i++ {
		if c := name[i]; c >= 'A' && c <= 'Z' {
			b := []byte(name)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return name
}
