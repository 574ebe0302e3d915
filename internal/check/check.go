package check

import (
	"errors"
	"fmt"

	"failover-constructor/internal/attribute"
	"failover-constructor/internal/class"
	"failover-constructor/internal/fault"
)

var ErrPrecheckUnavailable = errors.New("precheck unavailable")

// Attributes returns the target's attribute descriptors, or
// ErrPrecheckUnavailable when the target does not describe them.
func Attributes(target class.Constructible) ([]attribute.Descriptor, error) {
	d, ok := target.(class.Describer)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no attribute metadata", ErrPrecheckUnavailable, target.Name())
	}

	return d.Attributes(), nil
}

// Run returns the first predicted failure in attribute declaration order, or
// nil.
func Run(target class.Constructible, args class.Args) fault.Error {
	attrs, err := Attributes(target)
	if err != nil {
		return nil
	}

	for _, attr := range attrs {
		if f := checkAttribute(target.Name(), attr, args); f != nil {
			return f
		}
	}

	return nil
}

// All returns every predicted failure instead of stopping at the first one.
func All(target class.Constructible, args class.Args) []fault.Error {
	attrs, err := Attributes(target)
	if err != nil {
		return nil
	}

	var faults []fault.Error

	for _, attr := range attrs {
		if f := checkAttribute(target.Name(), attr, args); f != nil {
			faults = append(faults, f)
		}
	}

	return faults
}

func checkAttribute(className string, attr attribute.Descriptor, args class.Args) fault.Error {
	// custom initializers validate raw values themselves
	if !attr.Suppliable() || attr.HasInitializer() {
		return nil
	}

	value, ok := args[attr.InputKey]
	if !ok {
		if attr.Required && !attr.Synthesized() {
			return &fault.MissingRequiredError{Class: className, Attribute: attr.Name, Supplied: args.Keys()}
		}

		return nil
	}

	if _, err := attr.Apply(value); err != nil {
		return &fault.ConstraintViolationError{
			Attribute:  attr.Name,
			Value:      value,
			Constraint: attr.ConstraintName(),
			Err:        err,
		}
	}

	return nil
}
