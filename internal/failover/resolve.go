package failover

import (
	"slices"

	"failover-constructor/internal/class"
	"failover-constructor/internal/common"
)

// Pending is a directive reduced by one step: the candidate to try now and
// whatever remains for the candidates after it.
type Pending struct {
	Class    string
	Args     class.Args
	ErrorKey string
	// Rest is nil when Class is the last candidate.
	Rest *Directive
}

// Resolve picks the next candidate. An explicit raw directive wins over the
// fallback's class-level default. It returns nil when no candidate exists.
func Resolve(raw any, fallback class.FailoverDefaulter, inherit bool) (*Pending, error) {
	d, err := Lookup(raw, fallback, inherit)
	if err != nil || d == nil {
		return nil, err
	}

	first, rest, ok := common.Uncons(d.Classes)
	if !ok {
		return nil, nil
	}

	p := &Pending{Class: first, Args: d.Args, ErrorKey: d.ErrorKey}

	if !common.IsEmpty(rest) {
		p.Rest = d.Clone()
		p.Rest.Classes = slices.Clone(rest)
	}

	return p, nil
}

// Lookup returns the effective directive: raw when set, otherwise the
// fallback's class-level default. It returns nil when neither exists.
func Lookup(raw any, fallback class.FailoverDefaulter, inherit bool) (*Directive, error) {
	if raw == nil && fallback != nil {
		if d, ok := fallback.DefaultFailover(inherit); ok {
			raw = d
		}
	}

	return Parse(raw)
}

// NextArgs builds the arguments for the pending candidate. Replacement args
// are used when the directive has them, otherwise current is copied. The
// captured error is injected under ErrorKey and the remaining candidates are
// forwarded under Key; a consumed directive is dropped from reused args.
func (p *Pending) NextArgs(current class.Args, cause error) class.Args {
	var next class.Args
	if p.Args != nil {
		next = p.Args.Clone()
	} else {
		next = current.Clone()
	}

	if p.ErrorKey != "" {
		next[p.ErrorKey] = cause
	}

	switch {
	case p.Rest != nil:
		next[Key] = p.Rest
	case p.Args == nil:
		delete(next, Key)
	}

	return next
}
