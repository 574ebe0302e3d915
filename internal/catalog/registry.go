package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"failover-constructor/internal/attribute"
	"failover-constructor/internal/class"
)

var ErrHookRejected = errors.New("rejected by hook")

// HookFactory builds a hook from its catalog reference.
type HookFactory func(ref HookRef) (class.Hook, error)

// Registry holds the named builders, initializers and hooks a catalog can
// refer to.
type Registry struct {
	builders     map[string]attribute.BuilderFunc
	initializers map[string]attribute.InitializerFunc
	hooks        map[string]HookFactory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders:     make(map[string]attribute.BuilderFunc),
		initializers: make(map[string]attribute.InitializerFunc),
		hooks:        make(map[string]HookFactory),
	}
}

// DefaultRegistry returns a registry with the built-in entries:
//   - builders: uuid, now, empty
//   - initializers: trim, lower
//   - hooks: require_any, reject
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.AddBuilder("uuid", func(map[string]any) (any, error) { return uuid.NewString(), nil })
	r.AddBuilder("now", func(map[string]any) (any, error) { return time.Now().UTC(), nil })
	r.AddBuilder("empty", func(map[string]any) (any, error) { return "", nil })

	r.AddInitializer("trim", textInitializer(strings.TrimSpace))
	r.AddInitializer("lower", textInitializer(strings.ToLower))

	r.AddHook("require_any", requireAny)
	r.AddHook("reject", reject)

	return r
}

func (r *Registry) AddBuilder(name string, fn attribute.BuilderFunc) { r.builders[name] = fn }

func (r *Registry) AddInitializer(name string, fn attribute.InitializerFunc) {
	r.initializers[name] = fn
}

func (r *Registry) AddHook(name string, factory HookFactory) { r.hooks[name] = factory }

// Builder returns a builder by name, or nil if not found.
func (r *Registry) Builder(name string) attribute.BuilderFunc { return r.builders[name] }

// Initializer returns an initializer by name, or nil if not found.
func (r *Registry) Initializer(name string) attribute.InitializerFunc { return r.initializers[name] }

// Hook returns a hook factory by name, or nil if not found.
func (r *Registry) Hook(name string) HookFactory { return r.hooks[name] }

// BuilderNames returns all builder names, sorted.
func (r *Registry) BuilderNames() []string { return slices.Sorted(maps.Keys(r.builders)) }

// InitializerNames returns all initializer names, sorted.
func (r *Registry) InitializerNames() []string { return slices.Sorted(maps.Keys(r.initializers)) }

// HookNames returns all hook names, sorted.
func (r *Registry) HookNames() []string { return slices.Sorted(maps.Keys(r.hooks)) }

func textInitializer(fn func(string) string) attribute.InitializerFunc {
	return func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected text, got %T", value)
		}

		return fn(s), nil
	}
}

// requireAny fails unless at least one of the listed attributes holds a
// non-nil value.
func requireAny(ref HookRef) (class.Hook, error) {
	if len(ref.Attributes) == 0 {
		return nil, errors.New("require_any needs at least one attribute")
	}

	return func(inst *class.Instance) error {
		for _, name := range ref.Attributes {
			if v, ok := inst.Get(name); ok && v != nil {
				return nil
			}
		}

		return fmt.Errorf("%w: %s needs one of [%s]", ErrHookRejected, inst.ClassName(), strings.Join(ref.Attributes, ", "))
	}, nil
}

// reject always fails, optionally with a message.
func reject(ref HookRef) (class.Hook, error) {
	return func(inst *class.Instance) error {
		if ref.Message != "" {
			return fmt.Errorf("%w: %s", ErrHookRejected, ref.Message)
		}

		return fmt.Errorf("%w: %s", ErrHookRejected, inst.ClassName())
	}, nil
}
