package model

import (
	"errors"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	countRange  = regexp.MustCompile(`^(?:[0-9]+|[0-9]+\.\.[0-9]*|\.\.[0-9]+)$`)
	numberRange = regexp.MustCompile(`^(?:(-?[0-9]+(?:\.[0-9]+)?)|(-?[0-9]+(?:\.[0-9]+)?)?\.\.(-?[0-9]+(?:\.[0-9]+)?)?)$`)

	validate = newRangeValidator()
)

// validateParameters are the parameters of a [validate] attribute.
type validateParameters struct {
	Length string `fsd:"length" validate:"omitempty,fsd_count"`
	Regex  string `fsd:"regex"`
	Value  string `fsd:"value" validate:"omitempty,fsd_number"`
	Count  string `fsd:"count" validate:"omitempty,fsd_count"`
}

func newRangeValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("fsd_count", func(fl validator.FieldLevel) bool {
		return isOrderedRange(fl.Field().String(), countRange)
	})
	_ = v.RegisterValidation("fsd_number", func(fl validator.FieldLevel) bool {
		return isOrderedRange(fl.Field().String(), numberRange)
	})
	return v
}

// isOrderedRange checks the syntax of "n", "n..m", "n.." or "..m" and
// that the lower bound does not exceed the upper one.
func isOrderedRange(text string, syntax *regexp.Regexp) bool {
	if !syntax.MatchString(text) || text == ".." {
		return false
	}
	lo, hi, ok := strings.Cut(text, "..")
	if !ok || lo == "" || hi == "" {
		return true
	}
	l, err1 := strconv.ParseFloat(lo, 64)
	h, err2 := strconv.ParseFloat(hi, 64)
	return err1 == nil && err2 == nil && l <= h
}

// validateRule lists the [validate] parameters allowed for a type kind.
// At least one of the allowed parameters must be present.
type validateRule struct {
	allowed []string
}

func validateRuleFor(kind TypeKind) (validateRule, bool) {
	switch kind {
	case KindString:
		return validateRule{allowed: []string{"length", "regex"}}, true
	case KindInt32, KindInt64, KindDouble, KindDecimal:
		return validateRule{allowed: []string{"value"}}, true
	case KindBytes, KindArray, KindMap:
		return validateRule{allowed: []string{"count"}}, true
	default:
		return validateRule{}, false
	}
}

// checkValidateAttributes checks the [validate] attributes of a field
// against its resolved type.
func checkValidateAttributes(v *validation, f *FieldInfo, t *TypeInfo) {
	for _, a := range GetAttributes(f, "validate") {
		rule, ok := validateRuleFor(t.Kind)
		if !ok {
			v.report(&f.element, a.Position(), "'validate' is not supported for field type '%s'.", f.typeName)
			continue
		}

		var present []*AttributeParameterInfo
		for _, p := range a.parameters {
			if slices.Contains(rule.allowed, p.name) {
				present = append(present, p)
				continue
			}
			v.report(&f.element, p.Position(), "Unexpected 'validate' parameter '%s'.", p.name)
		}
		if len(present) == 0 {
			v.report(&f.element, a.Position(), "Missing 'validate' parameters: [%s].", strings.Join(rule.allowed, ", "))
			continue
		}

		var params validateParameters
		if err := decodeParameters(a.name, present, &params); err != nil {
			v.report(&f.element, a.Position(), "Invalid 'validate' attribute: %v", err)
			continue
		}
		var invalid validator.ValidationErrors
		if err := validate.Struct(params); errors.As(err, &invalid) {
			for _, fe := range invalid {
				name := strings.ToLower(fe.Field())
				pos := a.Position()
				if p := a.Parameter(name); p != nil {
					pos = p.positionOf(PartValue)
				}
				v.report(&f.element, pos, "Invalid 'validate' %s parameter '%v'.", name, fe.Value())
			}
		}
	}
}
