// Package attribute describes the constructible attributes a class declares.
//
// A Descriptor is a read-only view of one attribute: the key it is supplied
// under, whether it is required, whether a value can be synthesized (default
// or builder), whether the class validates the raw value itself (initializer),
// and an optional type constraint with optional coercion.
//
// Inheritance is resolved with Merge: ancestor attributes keep their
// declaration order, a descendant attribute with the same name replaces the
// ancestor's in place, and new descendant attributes are appended.
package attribute
