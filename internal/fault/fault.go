package fault

import (
	"errors"
	"fmt"
	"strings"

	"failover-constructor/internal/common"
)

// Kind tags the source of a construction failure.
type Kind int

const (
	MissingRequired Kind = iota + 1
	ConstraintViolation
	ConstructionRaised
)

func (k Kind) String() string {
	switch k {
	case MissingRequired:
		return "missing_required"
	case ConstraintViolation:
		return "constraint_violation"
	case ConstructionRaised:
		return "construction_raised"
	default:
		return common.UnknownStr
	}
}

// Predicted reports whether the kind is detected before construction runs.
func (k Kind) Predicted() bool {
	return k == MissingRequired || k == ConstraintViolation
}

// Error is a construction failure with a kind tag.
type Error interface {
	error
	Kind() Kind
}

// MissingRequiredError reports a required attribute whose key was absent and
// that has neither a default nor a builder.
type MissingRequiredError struct {
	Class     string
	Attribute string
	// Supplied lists the argument keys that were present, sorted.
	Supplied []string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("%s: attribute (%s) is required (supplied: [%s])",
		e.Class, e.Attribute, strings.Join(e.Supplied, ", "))
}

func (e *MissingRequiredError) Kind() Kind { return MissingRequired }

// ConstraintViolationError reports a supplied value rejected by the
// attribute's type constraint.
type ConstraintViolationError struct {
	Attribute  string
	Value      any
	Constraint string
	Err        error
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("attribute (%s) does not pass the type constraint (%s) with %#v: %v",
		e.Attribute, e.Constraint, e.Value, e.Err)
}

func (e *ConstraintViolationError) Kind() Kind { return ConstraintViolation }

func (e *ConstraintViolationError) Unwrap() error { return e.Err }

// ConstructionRaisedError wraps an error returned by the real constructor,
// including post-construction hook failures.
type ConstructionRaisedError struct {
	Class string
	Err   error
}

func (e *ConstructionRaisedError) Error() string {
	return fmt.Sprintf("%s: construction failed: %v", e.Class, e.Err)
}

func (e *ConstructionRaisedError) Kind() Kind { return ConstructionRaised }

func (e *ConstructionRaisedError) Unwrap() error { return e.Err }

// Raised wraps err as a ConstructionRaised fault. Only a bare fault.Error is
// kept as is; a wrapper around one is the constructor's own error and gets
// wrapped like any other.
func Raised(class string, err error) Error {
	if err == nil {
		return nil
	}

	if f, ok := err.(Error); ok {
		return f
	}

	return &ConstructionRaisedError{Class: class, Err: err}
}

// Cause returns the error to hand back to a caller once no failover
// candidate remains: the constructor's own error for ConstructionRaised and
// the fault itself otherwise.
func Cause(err error) error {
	if raised, ok := err.(*ConstructionRaisedError); ok {
		return raised.Err
	}

	return err
}

// KindOf returns the kind of the first fault in err's chain, or 0.
func KindOf(err error) Kind {
	var f Error
	if errors.As(err, &f) {
		return f.Kind()
	}

	return 0
}
