package class

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"failover-constructor/internal/attribute"
	"failover-constructor/internal/fault"
)

var ErrNotSubclass = errors.New("not a subclass")

// Hook runs after all attributes are initialized. A non-nil error fails the
// construction.
type Hook func(inst *Instance) error

// Class is a declared class with a schema of attributes.
type Class struct {
	name        string
	parent      *Class
	declared    []attribute.Descriptor
	attributes  []attribute.Descriptor
	hooks       []Hook
	failover    any
	hasFailover bool
}

// Option configures a Class built with New.
type Option func(*Class)

func Extends(parent *Class) Option {
	return func(c *Class) { c.parent = parent }
}

func WithAttributes(attrs ...attribute.Descriptor) Option {
	return func(c *Class) { c.declared = append(c.declared, attrs...) }
}

func WithHook(hooks ...Hook) Option {
	return func(c *Class) { c.hooks = append(c.hooks, hooks...) }
}

// WithFailover sets the class-level failover directive. Any shape accepted
// by failover.Parse is allowed.
func WithFailover(directive any) Option {
	return func(c *Class) {
		c.failover = directive
		c.hasFailover = true
	}
}

// New declares a class. Attributes are merged with the parent's at
// declaration time.
func New(name string, opts ...Option) *Class {
	c := &Class{name: name}
	for _, opt := range opts {
		opt(c)
	}

	var inherited []attribute.Descriptor
	if c.parent != nil {
		inherited = c.parent.attributes
	}

	c.attributes = attribute.Merge(inherited, c.declared)

	return c
}

func (c *Class) Name() string { return c.name }

func (c *Class) Parent() *Class { return c.parent }

// Attributes returns the merged attribute descriptors in declaration order.
func (c *Class) Attributes() []attribute.Descriptor {
	return slices.Clone(c.attributes)
}

func (c *Class) DefaultFailover(inherit bool) (any, bool) {
	for cls := c; cls != nil; cls = cls.parent {
		if cls.hasFailover {
			return cls.failover, true
		}

		if !inherit {
			break
		}
	}

	return nil, false
}

// IsA reports whether c is other or one of its descendants.
func (c *Class) IsA(other *Class) bool {
	for cls := c; cls != nil; cls = cls.parent {
		if cls == other {
			return true
		}
	}

	return false
}

// Construct allocates an instance and runs the post-construction hooks.
func (c *Class) Construct(args Args) (any, error) {
	inst, err := c.Allocate(args)
	if err != nil {
		return nil, err
	}

	if err := c.PostConstruct(inst); err != nil {
		return nil, err
	}

	return inst, nil
}

// Allocate initializes every attribute from args, defaults and builders.
// Hooks are not run.
func (c *Class) Allocate(args Args) (*Instance, error) {
	inst := &Instance{class: c, values: make(map[string]any, len(c.attributes))}

	for _, attr := range c.attributes {
		if err := c.initAttribute(inst, attr, args, false); err != nil {
			return nil, err
		}
	}

	return inst, nil
}

// PostConstruct runs the hooks of every class in the lineage, ancestors
// first.
func (c *Class) PostConstruct(inst *Instance) error {
	return c.runHooks(inst, nil)
}

// Rebless builds a copy of from bound to c. Attributes supplied in args are
// (re)initialized, attributes already present are kept and the rest get
// their defaults. Only hooks of classes below from's class run. The receiver
// must be from's class or a descendant of it.
func (c *Class) Rebless(from *Instance, args Args) (*Instance, error) {
	if !c.IsA(from.class) {
		return nil, fmt.Errorf("%w: %s is not a subclass of %s", ErrNotSubclass, c.name, from.class.name)
	}

	inst := &Instance{class: c, values: maps.Clone(from.values)}

	for _, attr := range c.attributes {
		if err := c.initAttribute(inst, attr, args, true); err != nil {
			return nil, err
		}
	}

	if err := c.runHooks(inst, from.class); err != nil {
		return nil, err
	}

	return inst, nil
}

func (c *Class) runHooks(inst *Instance, done *Class) error {
	var lineage []*Class
	for cls := c; cls != nil && (done == nil || !done.IsA(cls)); cls = cls.parent {
		lineage = append(lineage, cls)
	}

	slices.Reverse(lineage)

	for _, cls := range lineage {
		for _, hook := range cls.hooks {
			if err := hook(inst); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *Class) initAttribute(inst *Instance, attr attribute.Descriptor, args Args, keep bool) error {
	if attr.Suppliable() {
		if raw, ok := args[attr.InputKey]; ok {
			return c.assign(inst, attr, raw, true)
		}
	}

	if _, ok := inst.values[attr.Name]; ok && keep {
		return nil
	}

	switch {
	case attr.HasDefault:
		return c.assign(inst, attr, attr.Default, false)

	case attr.HasBuilder():
		v, err := attr.Builder(args)
		if err != nil {
			return fmt.Errorf("%s: building attribute (%s): %w", c.name, attr.Name, err)
		}

		return c.assign(inst, attr, v, false)

	case attr.Required:
		return c.unchecked(attr, &fault.MissingRequiredError{Class: c.name, Attribute: attr.Name, Supplied: args.Keys()})
	}

	return nil
}

func (c *Class) assign(inst *Instance, attr attribute.Descriptor, raw any, supplied bool) error {
	value := raw

	if supplied && attr.HasInitializer() {
		var err error
		if value, err = attr.Initializer(value); err != nil {
			return fmt.Errorf("%s: initializing attribute (%s): %w", c.name, attr.Name, err)
		}
	}

	value, err := attr.Apply(value)
	if err != nil {
		violation := &fault.ConstraintViolationError{
			Attribute:  attr.Name,
			Value:      raw,
			Constraint: attr.ConstraintName(),
			Err:        err,
		}

		if !supplied {
			return fmt.Errorf("%s: synthesized attribute (%s): %w", c.name, attr.Name, violation)
		}

		return c.unchecked(attr, violation)
	}

	inst.values[attr.Name] = value

	return nil
}

// unchecked returns f bare when the precheck covers attr and wrapped
// otherwise, so failures the checker cannot predict surface as raised.
func (c *Class) unchecked(attr attribute.Descriptor, f fault.Error) error {
	if attr.Suppliable() && !attr.HasInitializer() {
		return f
	}

	return fmt.Errorf("%s: attribute (%s): %w", c.name, attr.Name, f)
}
