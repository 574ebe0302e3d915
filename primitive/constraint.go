package primitive

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"
)

var (
	ErrConstraint        = errors.New("constraint not satisfied")
	ErrUnknownConstraint = errors.New("unknown constraint")
)

// Constraint validates attribute values and optionally coerces them into an
// acceptable shape first.
type Constraint interface {
	Name() string
	Validate(value any) error
	// Coerce returns value converted into an acceptable shape, or value
	// unchanged when no conversion applies.
	Coerce(value any) any
}

// Type is a constraint over primitive kinds.
type Type struct {
	name     string
	target   KindEnum
	accepts  func(KindEnum) bool
	coercion CategoryEnum
}

var (
	Str = &Type{
		name:     "Str",
		target:   KindString,
		accepts:  func(k KindEnum) bool { return k == KindString },
		coercion: CategoryTextNumber | CategoryTextualBool | CategoryDatetime | CategoryDuration,
	}
	Int = &Type{
		name:     "Int",
		target:   KindInt,
		accepts:  KindEnum.IsInteger,
		coercion: CategoryTextNumber | CategoryUnsafeNumber | CategoryNumericBool,
	}
	Num = &Type{
		name:     "Num",
		target:   KindFloat64,
		accepts:  KindEnum.IsNumber,
		coercion: CategoryTextNumber,
	}
	Bool = &Type{
		name:     "Bool",
		target:   KindBool,
		accepts:  func(k KindEnum) bool { return k == KindBool },
		coercion: CategoryTextualBool | CategoryNumericBool,
	}
	Time = &Type{
		name:     "Time",
		target:   KindTime,
		accepts:  func(k KindEnum) bool { return k == KindTime },
		coercion: CategoryDatetime | CategoryTimestamp,
	}
	Duration = &Type{
		name:     "Duration",
		target:   KindDuration,
		accepts:  func(k KindEnum) bool { return k == KindDuration },
		coercion: CategoryDuration | CategoryNanoseconds | CategorySeconds,
	}
	Any Constraint = anyConstraint{}
)

func (t *Type) Name() string { return t.name }

// Kind returns the kind values are coerced into.
func (t *Type) Kind() KindEnum { return t.target }

func (t *Type) Validate(value any) error {
	if value == nil {
		return fmt.Errorf("%w: %s requires a value, got nil", ErrConstraint, t.name)
	}

	if !t.accepts(Of(value)) {
		return fmt.Errorf("%w: %v (%T) is not a %s", ErrConstraint, value, value, t.name)
	}

	return nil
}

func (t *Type) Coerce(value any) any {
	if value == nil || t.accepts(Of(value)) {
		return value
	}

	if out, ok := Convert(value, t.target, t.coercion); ok {
		return out
	}

	return value
}

type anyConstraint struct{}

func (anyConstraint) Name() string         { return "Any" }
func (anyConstraint) Validate(any) error   { return nil }
func (anyConstraint) Coerce(value any) any { return value }

type maybe struct {
	inner Constraint
}

// Maybe accepts nil in addition to everything inner accepts.
func Maybe(inner Constraint) Constraint {
	return maybe{inner: inner}
}

func (m maybe) Name() string { return "Maybe[" + m.inner.Name() + "]" }

func (m maybe) Validate(value any) error {
	if value == nil {
		return nil
	}

	return m.inner.Validate(value)
}

func (m maybe) Coerce(value any) any {
	if value == nil {
		return nil
	}

	return m.inner.Coerce(value)
}

type oneOf struct {
	values []any
}

// OneOf accepts only the listed values.
func OneOf(values ...any) Constraint {
	return oneOf{values: values}
}

func (o oneOf) Name() string {
	parts := make([]string, len(o.values))
	for i, v := range o.values {
		parts[i] = fmt.Sprint(v)
	}

	return "OneOf[" + strings.Join(parts, ",") + "]"
}

func (o oneOf) Validate(value any) error {
	for _, v := range o.values {
		if reflect.DeepEqual(v, value) {
			return nil
		}
	}

	return fmt.Errorf("%w: %v is not one of %s", ErrConstraint, value, o.Name())
}

func (o oneOf) Coerce(value any) any { return value }

type match struct {
	re *regexp.Regexp
}

// Match accepts strings matching pattern. It panics when pattern does not
// compile, like regexp.MustCompile.
func Match(pattern string) Constraint {
	return match{re: regexp.MustCompile(pattern)}
}

func (m match) Name() string { return "Match[" + m.re.String() + "]" }

func (m match) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %v (%T) is not a string", ErrConstraint, value, value)
	}

	if !m.re.MatchString(s) {
		return fmt.Errorf("%w: %q does not match %s", ErrConstraint, s, m.re)
	}

	return nil
}

func (m match) Coerce(value any) any { return Str.Coerce(value) }

var named = map[string]Constraint{
	"Str":      Str,
	"Int":      Int,
	"Num":      Num,
	"Bool":     Bool,
	"Time":     Time,
	"Duration": Duration,
	"Any":      Any,
}

// Names returns the constraint names Lookup accepts without a wrapper,
// sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(named))
}

// Lookup resolves a constraint by name. Besides the plain names it accepts
// "Maybe[<name>]".
func Lookup(name string) (Constraint, error) {
	name = strings.TrimSpace(name)

	if inner, ok := strings.CutPrefix(name, "Maybe["); ok && strings.HasSuffix(inner, "]") {
		c, err := Lookup(strings.TrimSuffix(inner, "]"))
		if err != nil {
			return nil, err
		}

		return Maybe(c), nil
	}

	if c, ok := named[name]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownConstraint, name)
}
