// Package check predicts construction failures from attribute metadata.
//
// Run inspects a class's attributes against an argument mapping without
// allocating anything, so constructors with side effects never run for
// arguments that are bound to fail. Classes without attribute metadata are
// trusted: Run reports no failure and real construction decides.
package check
