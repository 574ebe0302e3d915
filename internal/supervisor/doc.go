// Package supervisor drives construction with failover.
//
// For every attempt the supervisor resolves the failover directive first,
// predicts failures from attribute metadata, and only then runs the real
// constructor. A failed attempt hands its error to the next candidate as an
// argument. When no candidate is left, the first error of the chain is
// returned: a constructor's own error unwrapped, or the predicted fault.
// Failing to load a candidate class always ends the call.
package supervisor
