package attribute

// Constraint validates a single attribute value.
type Constraint interface {
	Name() string
	Validate(value any) error
}

// Coercer is implemented by constraints that can convert a raw value before
// validation.
type Coercer interface {
	Coerce(value any) any
}

// BuilderFunc synthesizes a value from the full argument set.
type BuilderFunc func(args map[string]any) (any, error)

// InitializerFunc validates and transforms a raw supplied value.
type InitializerFunc func(value any) (any, error)

// Descriptor is the capability surface of one declared attribute.
type Descriptor struct {
	// Name identifies the attribute on the instance.
	Name string
	// InputKey is the constructor argument key. Empty means the attribute
	// cannot be supplied externally.
	InputKey string
	// Required attributes must be supplied unless a default or builder exists.
	Required bool
	// HasDefault marks Default as meaningful (nil is a valid default).
	HasDefault bool
	Default    any
	Builder    BuilderFunc
	// Initializer makes the class responsible for validating the raw value.
	Initializer InitializerFunc
	// Coerce applies the constraint's coercion before validation.
	Coerce     bool
	Constraint Constraint
}

// Option configures a Descriptor built with New.
type Option func(*Descriptor)

// New creates a descriptor whose input key equals its name.
func New(name string, opts ...Option) Descriptor {
	d := Descriptor{Name: name, InputKey: name}
	for _, opt := range opts {
		opt(&d)
	}

	return d
}

func Required() Option {
	return func(d *Descriptor) { d.Required = true }
}

func Isa(c Constraint) Option {
	return func(d *Descriptor) { d.Constraint = c }
}

func Coerce() Option {
	return func(d *Descriptor) { d.Coerce = true }
}

func Default(value any) Option {
	return func(d *Descriptor) {
		d.HasDefault = true
		d.Default = value
	}
}

func Builder(fn BuilderFunc) Option {
	return func(d *Descriptor) { d.Builder = fn }
}

func Initializer(fn InitializerFunc) Option {
	return func(d *Descriptor) { d.Initializer = fn }
}

// InitArg overrides the constructor argument key.
func InitArg(key string) Option {
	return func(d *Descriptor) { d.InputKey = key }
}

// NoInitArg makes the attribute impossible to supply from arguments.
func NoInitArg() Option {
	return func(d *Descriptor) { d.InputKey = "" }
}

func (d Descriptor) Suppliable() bool { return d.InputKey != "" }

func (d Descriptor) HasBuilder() bool { return d.Builder != nil }

func (d Descriptor) HasInitializer() bool { return d.Initializer != nil }

// Synthesized reports whether a missing value will be filled in.
func (d Descriptor) Synthesized() bool {
	return d.HasDefault || d.HasBuilder()
}

// ConstraintName returns the constraint's name, or "" without a constraint.
func (d Descriptor) ConstraintName() string {
	if d.Constraint == nil {
		return ""
	}

	return d.Constraint.Name()
}

// Apply coerces value when coercion is declared and then validates it.
// It returns the value the attribute would hold.
func (d Descriptor) Apply(value any) (any, error) {
	if d.Constraint == nil {
		return value, nil
	}

	if c, ok := d.Constraint.(Coercer); ok && d.Coerce {
		value = c.Coerce(value)
	}

	if err := d.Constraint.Validate(value); err != nil {
		return value, err
	}

	return value, nil
}

// Merge resolves inheritance between an ancestor's and a descendant's
// attributes.
func Merge(ancestor, descendant []Descriptor) []Descriptor {
	merged := make([]Descriptor, len(ancestor), len(ancestor)+len(descendant))
	copy(merged, ancestor)

	index := make(map[string]int, len(merged))
	for i, d := range merged {
		index[d.Name] = i
	}

	for _, d := range descendant {
		if i, ok := index[d.Name]; ok {
			merged[i] = d
			continue
		}

		index[d.Name] = len(merged)
		merged = append(merged, d)
	}

	return merged
}
