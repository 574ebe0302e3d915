package class

import "failover-constructor/internal/attribute"

// ErrorAttribute is the conventional attribute a failover class receives the
// captured construction error under.
const ErrorAttribute = "error"

// Constructible is a class that can build instances from arguments.
type Constructible interface {
	Name() string
	Construct(args Args) (any, error)
}

// Describer exposes the attributes a class accepts.
type Describer interface {
	Attributes() []attribute.Descriptor
}

// FailoverDefaulter exposes a class-level failover directive used when the
// caller supplies none. With inherit set, ancestors are consulted when the
// class itself declares nothing.
type FailoverDefaulter interface {
	DefaultFailover(inherit bool) (any, bool)
}

// Loader resolves class names.
type Loader interface {
	Load(name string) (Constructible, error)
}
