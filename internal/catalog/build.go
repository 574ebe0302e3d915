package catalog

import (
	"errors"
	"fmt"

	"failover-constructor/internal/attribute"
	"failover-constructor/internal/class"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Build validates f and registers every class it declares, parents first.
func Build(f *File, reg *Registry) (*class.Registry, error) {
	if res := Validate(f, reg); res.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, res.Error())
	}

	order, err := classOrder(f)
	if err != nil {
		return nil, err
	}

	out := class.NewRegistry()
	built := make(map[string]*class.Class, len(f.Classes))

	for _, i := range order {
		cd := &f.Classes[i]

		c, err := buildClass(cd, built[cd.Extends], reg)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", cd.Name, err)
		}

		built[cd.Name] = c

		if err := out.Register(c); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func buildClass(cd *ClassDef, parent *class.Class, reg *Registry) (*class.Class, error) {
	var opts []class.Option
	if parent != nil {
		opts = append(opts, class.Extends(parent))
	}

	attrs := make([]attribute.Descriptor, 0, len(cd.Attributes))

	for i := range cd.Attributes {
		d, err := buildAttribute(&cd.Attributes[i], reg)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", cd.Attributes[i].Name, err)
		}

		attrs = append(attrs, d)
	}

	opts = append(opts, class.WithAttributes(attrs...))

	for _, ref := range cd.PostConstruct {
		hook, err := reg.Hook(ref.Hook)(ref)
		if err != nil {
			return nil, fmt.Errorf("hook %q: %w", ref.Hook, err)
		}

		opts = append(opts, class.WithHook(hook))
	}

	if cd.Failover != nil {
		opts = append(opts, class.WithFailover(cd.Failover))
	}

	return class.New(cd.Name, opts...), nil
}

func buildAttribute(a *AttributeDef, reg *Registry) (attribute.Descriptor, error) {
	var opts []attribute.Option

	if key, ok := a.InputKey(); ok {
		opts = append(opts, attribute.InitArg(key))
	} else {
		opts = append(opts, attribute.NoInitArg())
	}

	if a.Required {
		opts = append(opts, attribute.Required())
	}

	if a.Coerce {
		opts = append(opts, attribute.Coerce())
	}

	c, err := constraintOf(a)
	if err != nil {
		return attribute.Descriptor{}, err
	}

	if c != nil {
		opts = append(opts, attribute.Isa(c))
	}

	if a.HasDefault() {
		v, err := a.DefaultValue()
		if err != nil {
			return attribute.Descriptor{}, err
		}

		opts = append(opts, attribute.Default(v))
	}

	if a.Builder != "" {
		opts = append(opts, attribute.Builder(reg.Builder(a.Builder)))
	}

	if a.Initializer != "" {
		opts = append(opts, attribute.Initializer(reg.Initializer(a.Initializer)))
	}

	return attribute.New(a.Name, opts...), nil
}
