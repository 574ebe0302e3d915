package catalog

import (
	"errors"
	"fmt"
	"regexp"

	"failover-constructor/internal/attribute"
	"failover-constructor/primitive"
)

var errConflictingConstraints = errors.New("only one of isa, one_of and match may be set")

// constraintOf returns the attribute's constraint, or nil when none is
// declared.
func constraintOf(a *AttributeDef) (attribute.Constraint, error) {
	set := 0
	for _, ok := range []bool{a.Isa != "", len(a.OneOf) > 0, a.Match != ""} {
		if ok {
			set++
		}
	}

	if set > 1 {
		return nil, errConflictingConstraints
	}

	switch {
	case a.Isa != "":
		return primitive.Lookup(a.Isa)

	case len(a.OneOf) > 0:
		return primitive.OneOf(a.OneOf...), nil

	case a.Match != "":
		if _, err := regexp.Compile(a.Match); err != nil {
			return nil, fmt.Errorf("invalid match pattern: %w", err)
		}

		return primitive.Match(a.Match), nil
	}

	return nil, nil
}
