package class_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"failover-constructor/internal/attribute"
	"failover-constructor/internal/class"
	"failover-constructor/internal/fault"
	"failover-constructor/primitive"
)

func sub1() *class.Class {
	return class.New("Sub1", class.WithAttributes(
		attribute.New("num", attribute.Isa(primitive.Int)),
		attribute.New("r_str", attribute.Isa(primitive.Str), attribute.Required()),
	))
}

func TestClass_Attributes(t *testing.T) {
	base := sub1()
	sub2 := class.New("Sub2", class.Extends(base), class.WithAttributes(
		attribute.New("q_str", attribute.Isa(primitive.Str), attribute.Required()),
	))

	var names []string
	for _, d := range sub2.Attributes() {
		names = append(names, d.Name)
	}

	assert.Equal(t, []string{"num", "r_str", "q_str"}, names)
	assert.Same(t, base, sub2.Parent())
	assert.True(t, sub2.IsA(base))
	assert.True(t, sub2.IsA(sub2))
	assert.False(t, base.IsA(sub2))
}

func TestClass_Construct(t *testing.T) {
	c := sub1()

	got, err := c.Construct(class.Args{"num": 123, "r_str": "test", "extra": true})
	require.NoError(t, err)

	inst := got.(*class.Instance)
	assert.Equal(t, "Sub1", inst.ClassName())
	assert.Equal(t, map[string]any{"num": 123, "r_str": "test"}, inst.Values())
	assert.NoError(t, inst.ClassError())

	_, err = c.Construct(class.Args{"num": 123})
	var missing *fault.MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "r_str", missing.Attribute)
	assert.Equal(t, []string{"num"}, missing.Supplied)

	_, err = c.Construct(class.Args{"num": "123x", "r_str": "test"})
	var violation *fault.ConstraintViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "num", violation.Attribute)
	assert.Equal(t, "123x", violation.Value)
	assert.Equal(t, "Int", violation.Constraint)
}

func TestClass_AllocateSynthesized(t *testing.T) {
	calls := 0
	c := class.New("Widget", class.WithAttributes(
		attribute.New("size", attribute.Isa(primitive.Int), attribute.Coerce(), attribute.Default("7")),
		attribute.New("id", attribute.Required(), attribute.Builder(func(args map[string]any) (any, error) {
			calls++
			name, _ := args["name"].(string)

			return "id-" + name, nil
		})),
		attribute.New("name", attribute.Initializer(func(v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, errors.New("name must be text")
			}

			return "<" + s + ">", nil
		})),
		attribute.New("cache", attribute.NoInitArg(), attribute.Default(nil)),
	))

	inst, err := c.Allocate(class.Args{"name": "w", "cache": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, map[string]any{"size": 7, "id": "id-w", "name": "<w>", "cache": nil}, inst.Values())

	_, err = c.Allocate(class.Args{"name": 1})
	require.ErrorContains(t, err, "name must be text")
}

func TestClass_UncheckedFailuresAreWrapped(t *testing.T) {
	c := class.New("Widget", class.WithAttributes(
		attribute.New("code", attribute.Isa(primitive.Int), attribute.Initializer(func(v any) (any, error) { return v, nil })),
	))

	_, err := c.Allocate(class.Args{"code": "x"})
	_, bare := err.(fault.Error)
	assert.False(t, bare)

	var violation *fault.ConstraintViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "code", violation.Attribute)

	c = class.New("Widget", class.WithAttributes(
		attribute.New("size", attribute.Isa(primitive.Int), attribute.NoInitArg(), attribute.Default("large")),
	))

	_, err = c.Allocate(nil)
	_, bare = err.(fault.Error)
	assert.False(t, bare)
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "size", violation.Attribute)

	c = class.New("Widget", class.WithAttributes(
		attribute.New("secret", attribute.NoInitArg(), attribute.Required()),
	))

	_, err = c.Allocate(nil)
	_, bare = err.(fault.Error)
	assert.False(t, bare)

	var missing *fault.MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "secret", missing.Attribute)
}

func TestClass_PostConstructOrder(t *testing.T) {
	var order []string
	hook := func(name string) class.Hook {
		return func(*class.Instance) error {
			order = append(order, name)
			return nil
		}
	}

	base := class.New("Base", class.WithHook(hook("base")))
	mid := class.New("Mid", class.Extends(base), class.WithHook(hook("mid")))
	leaf := class.New("Leaf", class.Extends(mid), class.WithHook(hook("leaf")))

	_, err := leaf.Construct(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "mid", "leaf"}, order)

	order = nil
	inst, err := base.Allocate(nil)
	require.NoError(t, err)

	reblessed, err := leaf.Rebless(inst, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "leaf"}, order)
	assert.Equal(t, "Leaf", reblessed.ClassName())
	assert.Equal(t, "Base", inst.ClassName())
}

func TestClass_Rebless(t *testing.T) {
	base := sub1()
	errHook := errors.New("q_str rejected")
	sub2 := class.New("Sub2", class.Extends(base),
		class.WithAttributes(attribute.New("q_str", attribute.Isa(primitive.Str), attribute.Required())),
		class.WithHook(func(inst *class.Instance) error {
			if v, _ := inst.Get("q_str"); v == "bad" {
				return errHook
			}

			return nil
		}),
	)

	inst, err := base.Allocate(class.Args{"num": 1, "r_str": "a"})
	require.NoError(t, err)

	next, err := sub2.Rebless(inst, class.Args{"q_str": "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"num": 1, "r_str": "a", "q_str": "b"}, next.Values())
	assert.Equal(t, map[string]any{"num": 1, "r_str": "a"}, inst.Values())

	_, err = sub2.Rebless(inst, class.Args{"q_str": "bad"})
	require.ErrorIs(t, err, errHook)

	_, err = base.Rebless(next, nil)
	require.ErrorIs(t, err, class.ErrNotSubclass)
}

func TestClass_DefaultFailover(t *testing.T) {
	base := class.New("Base", class.WithFailover("Failover"))
	child := class.New("Child", class.Extends(base))

	d, ok := base.DefaultFailover(false)
	require.True(t, ok)
	assert.Equal(t, "Failover", d)

	_, ok = child.DefaultFailover(false)
	assert.False(t, ok)

	d, ok = child.DefaultFailover(true)
	require.True(t, ok)
	assert.Equal(t, "Failover", d)
}

func TestInstance_ClassError(t *testing.T) {
	failover := class.New("Failover", class.WithAttributes(attribute.New(class.ErrorAttribute)))
	cause := errors.New("boom")

	inst, err := failover.Allocate(class.Args{"error": cause})
	require.NoError(t, err)
	assert.Same(t, cause, inst.ClassError())

	inst, err = failover.Allocate(class.Args{"error": "not an error"})
	require.NoError(t, err)
	assert.NoError(t, inst.ClassError())
}

func TestFunc(t *testing.T) {
	fn := class.Func("Opaque", func(args class.Args) (any, error) {
		return args["v"], nil
	})

	assert.Equal(t, "Opaque", fn.Name())
	_, isDescriber := fn.(class.Describer)
	assert.False(t, isDescriber)

	v, err := fn.Construct(class.Args{"v": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
