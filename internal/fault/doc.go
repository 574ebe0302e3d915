// Package fault defines the errors a single construction attempt can end
// with.
//
// Exactly one fault describes a failed attempt: a predicted MissingRequired
// or ConstraintViolation found before the constructor runs, or a
// ConstructionRaised wrapping whatever the real constructor returned.
package fault
