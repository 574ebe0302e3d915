// Package failover normalizes failover directives.
//
// A directive names one or more candidate classes, optional replacement
// arguments and the argument key the captured error is injected under. It is
// supplied per call under the reserved "failover_to" argument or declared by
// a class as its default. Resolve pops the first candidate and keeps the rest
// as a reduced directive that the next class receives as its own
// "failover_to", which is how chains continue.
package failover
