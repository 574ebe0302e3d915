package class

// ConstructorFunc is an opaque constructor.
type ConstructorFunc func(args Args) (any, error)

type funcClass struct {
	name string
	fn   ConstructorFunc
}

// Func wraps fn as a class without any capability surface. Failures can only
// be observed by running it.
func Func(name string, fn ConstructorFunc) Constructible {
	return &funcClass{name: name, fn: fn}
}

func (f *funcClass) Name() string { return f.name }

func (f *funcClass) Construct(args Args) (any, error) { return f.fn(args) }
