package class

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	ErrClassNotFound  = errors.New("class not found")
	ErrDuplicateClass = errors.New("class already registered")
)

// Factory produces a class on first load.
type Factory func() (Constructible, error)

// Registry maps class names to classes. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	classes   map[string]Constructible
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes:   make(map[string]Constructible),
		factories: make(map[string]Factory),
	}
}

// Register adds classes under their own names.
func (r *Registry) Register(classes ...Constructible) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range classes {
		if r.exists(c.Name()) {
			return fmt.Errorf("%w: %q", ErrDuplicateClass, c.Name())
		}

		r.classes[c.Name()] = c
	}

	return nil
}

// RegisterFactory adds a class that is built on its first Load.
func (r *Registry) RegisterFactory(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.exists(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateClass, name)
	}

	r.factories[name] = factory

	return nil
}

// Load returns the class registered under name, running its factory once if
// needed.
func (r *Registry) Load(name string) (Constructible, error) {
	r.mu.RLock()
	c, ok := r.classes[name]
	r.mu.RUnlock()

	if ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.classes[name]; ok {
		return c, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClassNotFound, name)
	}

	c, err := factory()
	if err != nil {
		return nil, fmt.Errorf("loading class %q: %w", name, err)
	}

	delete(r.factories, name)
	r.classes[name] = c

	return c, nil
}

// Has returns true if a class or factory is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.exists(name)
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Collect(maps.Keys(r.classes))
	names = slices.AppendSeq(names, maps.Keys(r.factories))
	slices.Sort(names)

	return names
}

func (r *Registry) exists(name string) bool {
	_, ok := r.classes[name]
	if !ok {
		_, ok = r.factories[name]
	}

	return ok
}
