package rebind

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"failover-constructor/internal/check"
	"failover-constructor/internal/class"
	"failover-constructor/internal/fault"
	"failover-constructor/internal/metrics"
)

// ErrNotSubclass is returned when a candidate does not extend the handle's
// current class.
var ErrNotSubclass = class.ErrNotSubclass

// Handle is a stable identity for an instance whose class may change.
type Handle struct {
	ID uuid.UUID

	// Logger receives rebind attempts. Nil means slog.Default().
	Logger *slog.Logger

	base    *class.Class
	current *class.Instance
	err     error
}

// New constructs an instance of base behind a fresh handle. Predicted and
// raised failures are returned as is.
func New(base *class.Class, args class.Args) (*Handle, error) {
	if f := check.Run(base, args); f != nil {
		return nil, f
	}

	inst, err := base.Allocate(args)
	if err != nil {
		return nil, err
	}

	if err := base.PostConstruct(inst); err != nil {
		return nil, err
	}

	return &Handle{ID: uuid.New(), base: base, current: inst}, nil
}

// Instance returns the current variant.
func (h *Handle) Instance() *class.Instance { return h.current }

func (h *Handle) Class() *class.Class { return h.current.Class() }

func (h *Handle) Base() *class.Class { return h.base }

// ClassError returns the error of the most recent failed attempt.
func (h *Handle) ClassError() error { return h.err }

func (h *Handle) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}

	return h.Logger
}

// Rebind tries to move the handle to candidate. A candidate that is not a
// subclass of the current class is a caller error. Predicted and raised
// failures are recorded on the handle and reported as false.
func Rebind(h *Handle, candidate *class.Class, args class.Args) (bool, error) {
	from := h.current.Class()
	if !candidate.IsA(from) {
		return false, fmt.Errorf("%w: %s is not a subclass of %s", ErrNotSubclass, candidate.Name(), from.Name())
	}

	log := h.logger().With("handle", h.ID, "from", from.Name(), "candidate", candidate.Name())

	if f := check.Run(candidate, args); f != nil {
		metrics.Rebinds.WithLabelValues(candidate.Name(), metrics.OutcomePredicted).Inc()
		log.Debug("Rebind predicted to fail", "kind", f.Kind(), "error", f)

		h.err = f

		return false, nil
	}

	next, err := candidate.Rebless(h.current, args)
	if err != nil {
		metrics.Rebinds.WithLabelValues(candidate.Name(), metrics.OutcomeRolledBack).Inc()
		log.Debug("Rebind rolled back", "error", err)

		h.err = fault.Raised(candidate.Name(), err)

		return false, nil
	}

	metrics.Rebinds.WithLabelValues(candidate.Name(), metrics.OutcomeCommitted).Inc()
	log.Debug("Rebind committed")

	h.current = next

	return true, nil
}

// Walk clears the recorded error and tries candidates in order, stopping at
// the first success. When all fail the handle keeps its class and the last
// failure.
func Walk(h *Handle, candidates []*class.Class, args class.Args) (bool, error) {
	h.err = nil

	for _, candidate := range candidates {
		ok, err := Rebind(h, candidate, args)
		if err != nil || ok {
			return ok, err
		}
	}

	return false, nil
}
