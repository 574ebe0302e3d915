package supervisor

import (
	"errors"
	"fmt"
	"log/slog"

	"failover-constructor/internal/check"
	"failover-constructor/internal/class"
	"failover-constructor/internal/failover"
	"failover-constructor/internal/fault"
	"failover-constructor/internal/metrics"
	"failover-constructor/internal/rebind"
)

var (
	ErrMaxDepth    = errors.New("failover depth exceeded")
	ErrNotDeclared = errors.New("not a declared class")
)

// Config controls the supervisor.
type Config struct {
	// MaxDepth bounds the number of failover hops. Zero or less means no
	// bound beyond the candidate lists themselves.
	MaxDepth int
	// InheritDefaultFailover lets a class use an ancestor's default
	// directive when it declares none itself.
	InheritDefaultFailover bool
	Logger                 *slog.Logger
}

// DefaultConfig returns the default supervisor configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth: 16,
		Logger:   slog.Default(),
	}
}

// Supervisor constructs classes loaded from a Loader. It keeps no state
// between calls and is safe for concurrent use when the loader is.
type Supervisor struct {
	loader class.Loader
	config Config
}

// New creates a supervisor.
func New(loader class.Loader, config Config) *Supervisor {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Supervisor{loader: loader, config: config}
}

// Construct loads the named class and constructs it.
func (s *Supervisor) Construct(name string, args class.Args) (any, error) {
	target, err := s.loader.Load(name)
	if err != nil {
		return nil, err
	}

	return s.ConstructClass(target, args)
}

// ConstructClass constructs target, failing over along its directive.
func (s *Supervisor) ConstructClass(target class.Constructible, args class.Args) (any, error) {
	return s.construct(target, args, 0, nil)
}

func (s *Supervisor) construct(target class.Constructible, args class.Args, depth int, first error) (any, error) {
	name := target.Name()
	log := s.config.Logger.With("class", name, "depth", depth)

	metrics.Attempts.WithLabelValues(name).Inc()

	defaulter, _ := target.(class.FailoverDefaulter)

	pending, err := failover.Resolve(args[failover.Key], defaulter, s.config.InheritDefaultFailover)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	plain := args.Without(failover.Key)

	f := check.Run(target, plain)
	if f != nil {
		metrics.PredictedFailures.WithLabelValues(name, f.Kind().String()).Inc()
		log.Debug("Construction predicted to fail", "kind", f.Kind(), "error", f)
	} else {
		inst, err := target.Construct(plain)
		if err == nil {
			log.Debug("Constructed")
			return inst, nil
		}

		f = fault.Raised(name, err)

		metrics.RaisedFailures.WithLabelValues(name).Inc()
		log.Debug("Construction failed", "kind", f.Kind(), "error", err)
	}

	if first == nil {
		first = f
	}

	if pending == nil {
		metrics.Exhausted.WithLabelValues(name).Inc()
		log.Debug("No failover candidate left", "error", first)

		return nil, fault.Cause(first)
	}

	if s.config.MaxDepth > 0 && depth >= s.config.MaxDepth {
		return nil, fmt.Errorf("%w after %d hops: %w", ErrMaxDepth, depth, fault.Cause(first))
	}

	next, err := s.loader.Load(pending.Class)
	if err != nil {
		return nil, fmt.Errorf("%s: failover to %q: %w", name, pending.Class, err)
	}

	metrics.Hops.WithLabelValues(name, pending.Class).Inc()
	log.Info("Failing over", "candidate", pending.Class, "kind", f.Kind())

	return s.construct(next, pending.NextArgs(args, f), depth+1, first)
}

// ConstructInPlace constructs the named class behind a rebind handle and
// then walks the handle through the candidates of its directive, which must
// all be subclasses. Replacement args in the directive are used for the walk
// instead of the original arguments.
func (s *Supervisor) ConstructInPlace(name string, args class.Args) (*rebind.Handle, error) {
	base, err := s.declared(name)
	if err != nil {
		return nil, err
	}

	d, err := failover.Lookup(args[failover.Key], base, s.config.InheritDefaultFailover)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	plain := args.Without(failover.Key)

	h, err := rebind.New(base, plain)
	if err != nil {
		return nil, fault.Cause(err)
	}

	h.Logger = s.config.Logger

	if d == nil {
		return h, nil
	}

	candidates := make([]*class.Class, 0, len(d.Classes))

	for _, candidate := range d.Classes {
		c, err := s.declared(candidate)
		if err != nil {
			return nil, fmt.Errorf("%s: failover to %q: %w", name, candidate, err)
		}

		candidates = append(candidates, c)
	}

	walkArgs := plain
	if d.Args != nil {
		walkArgs = d.Args.Clone()
	}

	ok, err := rebind.Walk(h, candidates, walkArgs)
	if err != nil {
		return nil, err
	}

	s.config.Logger.Debug("In-place construction finished",
		"handle", h.ID, "class", h.Class().Name(), "rebound", ok, "error", h.ClassError())

	return h, nil
}

func (s *Supervisor) declared(name string) (*class.Class, error) {
	c, err := s.loader.Load(name)
	if err != nil {
		return nil, err
	}

	declared, ok := c.(*class.Class)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDeclared, name)
	}

	return declared, nil
}
