package class

import "maps"

// Instance is an allocated object of a declared class.
type Instance struct {
	class  *Class
	values map[string]any
}

func (i *Instance) Class() *Class { return i.class }

func (i *Instance) ClassName() string { return i.class.name }

// Get returns the value of an initialized attribute.
func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.values[name]
	return v, ok
}

// Values returns a copy of all initialized attributes.
func (i *Instance) Values() map[string]any {
	return maps.Clone(i.values)
}

// ClassError returns the error injected under ErrorAttribute, if any.
func (i *Instance) ClassError() error {
	err, _ := i.values[ErrorAttribute].(error)
	return err
}
