package supervisor

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"failover-constructor/internal/attribute"
	"failover-constructor/internal/class"
	"failover-constructor/internal/failover"
	"failover-constructor/internal/fault"
	"failover-constructor/internal/metrics"
	"failover-constructor/primitive"
)

var errBoom = errors.New("boom")

// spy counts calls to the real constructor.
type spy struct {
	*class.Class
	mu    sync.Mutex
	calls int
}

func (s *spy) Construct(args class.Args) (any, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	return s.Class.Construct(args)
}

func (s *spy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type fixture struct {
	registry *class.Registry
	spied    *spy
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	sub1 := class.New("Sub1", class.WithAttributes(
		attribute.New("num", attribute.Isa(primitive.Int)),
		attribute.New("r_str", attribute.Isa(primitive.Str), attribute.Required()),
	))
	sub2 := class.New("Sub2", class.Extends(sub1), class.WithAttributes(
		attribute.New("q_str", attribute.Isa(primitive.Str), attribute.Required()),
	))
	sub3 := class.New("Sub3", class.Extends(sub1), class.WithAttributes(
		attribute.New("tag", attribute.Default("sub3")),
	))
	fo := class.New("Failover", class.WithAttributes(
		attribute.New(class.ErrorAttribute),
		attribute.New("note", attribute.Isa(primitive.Maybe(primitive.Str))),
	))
	hooked := class.New("Hooked", class.WithHook(func(*class.Instance) error { return errBoom }))
	guarded := class.New("Guarded",
		class.WithAttributes(attribute.New("token", attribute.Required())),
		class.WithFailover("Failover"),
	)
	guardedChild := class.New("GuardedChild", class.Extends(guarded))

	s := &spy{Class: class.New("Spied", class.Extends(sub1))}
	r := class.NewRegistry()
	require.NoError(t, r.Register(sub1, s, sub2, sub3, fo, hooked, guarded, guardedChild))
	require.NoError(t, r.Register(class.Func("Opaque", func(args class.Args) (any, error) {
		if args.Has("fail") {
			return nil, errBoom
		}

		return "opaque", nil
	})))

	return fixture{registry: r, spied: s}
}

func (f fixture) supervisor(opts ...func(*Config)) *Supervisor {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return New(f.registry, config)
}

func instance(t *testing.T, v any) *class.Instance {
	t.Helper()

	inst, ok := v.(*class.Instance)
	require.True(t, ok, "expected *class.Instance, got %T", v)

	return inst
}

func TestConstruct_Success(t *testing.T) {
	f := newFixture(t)

	got, err := f.supervisor().Construct("Sub1", class.Args{"num": 123, "r_str": "test", failover.Key: "Failover"})
	require.NoError(t, err)

	inst := instance(t, got)
	assert.Equal(t, "Sub1", inst.ClassName())
	assert.Equal(t, map[string]any{"num": 123, "r_str": "test"}, inst.Values())
}

func TestConstruct_MissingRequiredWithoutFailover(t *testing.T) {
	f := newFixture(t)

	_, err := f.supervisor().Construct("Sub1", class.Args{"num": 123})

	var missing *fault.MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Sub1", missing.Class)
	assert.Equal(t, "r_str", missing.Attribute)

	_, err = f.supervisor().Construct("Spied", class.Args{"num": 123})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Spied", missing.Class)
	assert.Zero(t, f.spied.Calls(), "predicted failures never reach the constructor")
}

func TestConstruct_ViolationSkipsConstructor(t *testing.T) {
	f := newFixture(t)

	_, err := f.supervisor().Construct("Spied", class.Args{"num": "123x", "r_str": "test"})

	var violation *fault.ConstraintViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "num", violation.Attribute)
	assert.Equal(t, "123x", violation.Value)
	assert.Zero(t, f.spied.Calls())

	_, err = f.supervisor().Construct("Spied", class.Args{"num": "123", "r_str": "test"})
	require.ErrorAs(t, err, &violation, "no coercion is declared")
	assert.Zero(t, f.spied.Calls())

	_, err = f.supervisor().Construct("Spied", class.Args{"num": 123, "r_str": "test"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.spied.Calls())
}

func TestConstruct_FailoverOnMissingRequired(t *testing.T) {
	f := newFixture(t)

	got, err := f.supervisor().Construct("Sub1", class.Args{"num": 123, failover.Key: "Failover"})
	require.NoError(t, err)

	inst := instance(t, got)
	assert.Equal(t, "Failover", inst.ClassName())

	var missing *fault.MissingRequiredError
	require.ErrorAs(t, inst.ClassError(), &missing)
	assert.Equal(t, "r_str", missing.Attribute)
}

func TestConstruct_FailoverOnViolation(t *testing.T) {
	f := newFixture(t)

	got, err := f.supervisor().Construct("Sub1", class.Args{
		"num":        "123x",
		"r_str":      "test",
		failover.Key: map[string]any{"class": "Failover", "err_arg": "error"},
	})
	require.NoError(t, err)

	inst := instance(t, got)
	assert.Equal(t, "Failover", inst.ClassName())

	var violation *fault.ConstraintViolationError
	require.ErrorAs(t, inst.ClassError(), &violation)
	assert.Equal(t, "num", violation.Attribute)
}

func TestConstruct_FirstSucceedingCandidateWins(t *testing.T) {
	f := newFixture(t)

	got, err := f.supervisor().Construct("Sub2", class.Args{
		"num":        123,
		"r_str":      "test",
		failover.Key: map[string]any{"class": []any{"Sub1", "Failover"}, "err_arg": "error"},
	})
	require.NoError(t, err)

	inst := instance(t, got)
	assert.Equal(t, "Sub1", inst.ClassName())
	assert.Equal(t, map[string]any{"num": 123, "r_str": "test"}, inst.Values())
}

func TestConstruct_ChainContinues(t *testing.T) {
	f := newFixture(t)

	got, err := f.supervisor().Construct("Sub2", class.Args{
		"num":        123,
		failover.Key: map[string]any{"class": []any{"Sub1", "Failover"}, "err_arg": "error"},
	})
	require.NoError(t, err)

	inst := instance(t, got)
	assert.Equal(t, "Failover", inst.ClassName())

	var missing *fault.MissingRequiredError
	require.ErrorAs(t, inst.ClassError(), &missing)
	assert.Equal(t, "Sub1", missing.Class)
	assert.Equal(t, "r_str", missing.Attribute)
}

func TestConstruct_ExhaustedReturnsFirstError(t *testing.T) {
	f := newFixture(t)

	_, err := f.supervisor().Construct("Sub2", class.Args{"num": 123, failover.Key: "Sub1"})

	var missing *fault.MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Sub2", missing.Class)
	assert.Equal(t, "r_str", missing.Attribute)
}

func TestConstruct_RaisedError(t *testing.T) {
	f := newFixture(t)
	s := f.supervisor()

	_, err := s.Construct("Hooked", nil)
	assert.Same(t, errBoom, err, "raised errors propagate unchanged")

	got, err := s.Construct("Hooked", class.Args{failover.Key: "Failover"})
	require.NoError(t, err)

	classErr := instance(t, got).ClassError()
	assert.Equal(t, fault.ConstructionRaised, fault.KindOf(classErr))
	require.ErrorIs(t, classErr, errBoom)
}

func TestConstruct_WrappedFaultKeepsIdentity(t *testing.T) {
	wrapped := fmt.Errorf("db layer: %w", &fault.MissingRequiredError{Class: "Inner", Attribute: "dsn"})

	r := class.NewRegistry()
	require.NoError(t, r.Register(
		class.Func("WrappedOpaque", func(class.Args) (any, error) { return nil, wrapped }),
		class.New("WrappedFailover", class.WithAttributes(attribute.New(class.ErrorAttribute))),
	))

	s := New(r, DefaultConfig())

	_, err := s.Construct("WrappedOpaque", class.Args{})
	assert.Same(t, wrapped, err)

	got, err := s.Construct("WrappedOpaque", class.Args{failover.Key: "WrappedFailover"})
	require.NoError(t, err)

	classErr := instance(t, got).ClassError()
	assert.Equal(t, fault.ConstructionRaised, fault.KindOf(classErr))
	assert.Same(t, wrapped, fault.Cause(classErr))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RaisedFailures.WithLabelValues("WrappedOpaque")))
}

func TestConstruct_UncheckedAttributeRaises(t *testing.T) {
	passthrough := func(v any) (any, error) { return v, nil }

	r := class.NewRegistry()
	require.NoError(t, r.Register(
		class.New("Initialized", class.WithAttributes(
			attribute.New("code", attribute.Isa(primitive.Int), attribute.Initializer(passthrough)),
		)),
		class.New("InitializedFailover", class.WithAttributes(attribute.New(class.ErrorAttribute))),
	))

	s := New(r, DefaultConfig())

	got, err := s.Construct("Initialized", class.Args{"code": "x", failover.Key: "InitializedFailover"})
	require.NoError(t, err)

	classErr := instance(t, got).ClassError()
	assert.Equal(t, fault.ConstructionRaised, fault.KindOf(classErr))

	var violation *fault.ConstraintViolationError
	require.ErrorAs(t, classErr, &violation)
	assert.Equal(t, "code", violation.Attribute)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PredictedFailures.WithLabelValues("Initialized", "constraint_violation")))
}

func TestConstructInPlace_UsesConfiguredLogger(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	s := f.supervisor(func(c *Config) {
		c.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})

	h, err := s.ConstructInPlace("Sub1", class.Args{"r_str": "a", failover.Key: "Sub3"})
	require.NoError(t, err)
	assert.Same(t, s.config.Logger, h.Logger)
	assert.Contains(t, buf.String(), `msg="Rebind committed"`)
}

func TestConstruct_PrecheckUnavailable(t *testing.T) {
	f := newFixture(t)
	s := f.supervisor()

	got, err := s.Construct("Opaque", nil)
	require.NoError(t, err)
	assert.Equal(t, "opaque", got)

	got, err = s.Construct("Opaque", class.Args{"fail": true, failover.Key: "Failover"})
	require.NoError(t, err)
	require.ErrorIs(t, instance(t, got).ClassError(), errBoom)
}

func TestConstruct_ReplacementArgs(t *testing.T) {
	f := newFixture(t)

	got, err := f.supervisor().Construct("Sub1", class.Args{
		"num": 1,
		failover.Key: map[string]any{
			"class":   "Failover",
			"args":    map[string]any{"note": "replaced"},
			"err_arg": nil,
		},
	})
	require.NoError(t, err)

	inst := instance(t, got)
	assert.Equal(t, map[string]any{"note": "replaced"}, inst.Values())
	assert.NoError(t, inst.ClassError())
}

func TestConstruct_ClassNotFoundIsFatal(t *testing.T) {
	f := newFixture(t)

	_, err := f.supervisor().Construct("Sub1", class.Args{failover.Key: []string{"Missing", "Failover"}})
	require.ErrorIs(t, err, class.ErrClassNotFound)

	_, err = f.supervisor().Construct("Missing", nil)
	require.ErrorIs(t, err, class.ErrClassNotFound)
}

func TestConstruct_InvalidDirective(t *testing.T) {
	f := newFixture(t)

	_, err := f.supervisor().Construct("Sub1", class.Args{"r_str": "x", failover.Key: 42})
	require.ErrorIs(t, err, failover.ErrInvalidDirective)
}

func TestConstruct_ClassDefault(t *testing.T) {
	f := newFixture(t)
	s := f.supervisor()

	got, err := s.Construct("Guarded", nil)
	require.NoError(t, err)
	assert.Equal(t, "Failover", instance(t, got).ClassName())

	_, err = s.Construct("Guarded", class.Args{failover.Key: "Sub1"})
	var missing *fault.MissingRequiredError
	require.ErrorAs(t, err, &missing, "explicit directive wins over the class default")
	assert.Equal(t, "Guarded", missing.Class)

	_, err = s.Construct("GuardedChild", nil)
	require.ErrorAs(t, err, &missing, "defaults are not inherited by default")

	inheriting := f.supervisor(func(c *Config) { c.InheritDefaultFailover = true })
	got, err = inheriting.Construct("GuardedChild", nil)
	require.NoError(t, err)
	assert.Equal(t, "Failover", instance(t, got).ClassName())
}

func TestConstruct_RepeatedCandidate(t *testing.T) {
	r := class.NewRegistry()
	require.NoError(t, r.Register(
		class.New("RepeatStart", class.WithAttributes(attribute.New("x", attribute.Required()))),
		class.New("RepeatX", class.WithAttributes(attribute.New("y", attribute.Required()))),
	))

	_, err := New(r, DefaultConfig()).Construct("RepeatStart", class.Args{failover.Key: []string{"RepeatX", "RepeatX"}})

	var missing *fault.MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "RepeatStart", missing.Class)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Attempts.WithLabelValues("RepeatX")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Exhausted.WithLabelValues("RepeatX")))
}

func TestConstruct_MaxDepth(t *testing.T) {
	r := class.NewRegistry()
	require.NoError(t, r.Register(class.New("Loop",
		class.WithAttributes(attribute.New("x", attribute.Required())),
		class.WithFailover("Loop"),
	)))

	config := DefaultConfig()
	config.MaxDepth = 3

	_, err := New(r, config).Construct("Loop", nil)
	require.ErrorIs(t, err, ErrMaxDepth)

	var missing *fault.MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.Attempts.WithLabelValues("Loop")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Hops.WithLabelValues("Loop", "Loop")))
}

func TestConstruct_Logging(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	s := f.supervisor(func(c *Config) { c.Logger = slog.New(slog.NewTextHandler(&buf, nil)) })

	_, err := s.Construct("Sub1", class.Args{failover.Key: "Failover"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `msg="Failing over" class=Sub1 depth=0 candidate=Failover kind=missing_required`)
}

func TestConstruct_Concurrent(t *testing.T) {
	f := newFixture(t)
	s := f.supervisor()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			args := class.Args{"num": i, failover.Key: []string{"Sub1", "Failover"}}
			if i%2 == 0 {
				args["r_str"] = "even"
			}

			got, err := s.Construct("Sub2", args)
			assert.NoError(t, err)

			want := "Failover"
			if i%2 == 0 {
				want = "Sub1"
			}

			assert.Equal(t, want, got.(*class.Instance).ClassName())
		}()
	}

	wg.Wait()
}

func TestConstructInPlace(t *testing.T) {
	f := newFixture(t)
	s := f.supervisor()

	h, err := s.ConstructInPlace("Sub1", class.Args{
		"num":        1,
		"r_str":      "a",
		failover.Key: []string{"Sub2", "Sub3"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sub3", h.Class().Name())
	assert.Equal(t, "Sub1", h.Base().Name())
	assert.Equal(t, map[string]any{"num": 1, "r_str": "a", "tag": "sub3"}, h.Instance().Values())
	assert.Equal(t, fault.MissingRequired, fault.KindOf(h.ClassError()))

	h, err = s.ConstructInPlace("Sub1", class.Args{"r_str": "a"})
	require.NoError(t, err)
	assert.Equal(t, "Sub1", h.Class().Name())
}

func TestConstructInPlace_Errors(t *testing.T) {
	f := newFixture(t)
	s := f.supervisor()

	_, err := s.ConstructInPlace("Sub1", class.Args{"r_str": "a", failover.Key: "Failover"})
	require.ErrorIs(t, err, class.ErrNotSubclass)

	_, err = s.ConstructInPlace("Sub1", class.Args{"r_str": "a", failover.Key: "Missing"})
	require.ErrorIs(t, err, class.ErrClassNotFound)

	_, err = s.ConstructInPlace("Opaque", nil)
	require.ErrorIs(t, err, ErrNotDeclared)

	_, err = s.ConstructInPlace("Hooked", nil)
	assert.Same(t, errBoom, err)

	_, err = s.ConstructInPlace("Sub1", nil)
	var missing *fault.MissingRequiredError
	require.ErrorAs(t, err, &missing)
}
