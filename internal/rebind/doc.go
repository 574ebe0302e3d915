// Package rebind implements in-place failover.
//
// A Handle keeps one stable identity while the instance behind it is walked
// through candidate subclasses of its current class. Each attempt works on a
// copy of the current instance and only replaces it when the candidate's
// hooks succeed, so a failed attempt never leaves a half-initialized
// variant behind. Only the most recent failure is kept on the handle.
package rebind
