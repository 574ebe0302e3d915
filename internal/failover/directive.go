package failover

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"failover-constructor/internal/class"
	"failover-constructor/internal/common"
)

const (
	// Key is the reserved constructor argument carrying a directive.
	Key = "failover_to"
	// DefaultErrorKey is the argument the captured error is injected under.
	DefaultErrorKey = class.ErrorAttribute
)

var ErrInvalidDirective = errors.New("invalid failover directive")

// Directive lists failover candidates in the order they are tried.
type Directive struct {
	Classes []string
	// Args replaces the current arguments when set.
	Args class.Args
	// ErrorKey is empty when error injection is disabled.
	ErrorKey string
}

// New creates a directive with the default error key.
func New(classes ...string) *Directive {
	return &Directive{Classes: classes, ErrorKey: DefaultErrorKey}
}

func (d *Directive) Clone() *Directive {
	out := &Directive{Classes: slices.Clone(d.Classes), ErrorKey: d.ErrorKey}
	if d.Args != nil {
		out.Args = d.Args.Clone()
	}

	return out
}

// Parse normalizes a raw directive. Accepted shapes are a class name, a list
// of class names, a mapping with the keys class, args and err_arg, or a
// Directive. A nil raw value yields a nil directive.
func Parse(raw any) (*Directive, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil

	case string:
		if v == "" {
			return nil, fmt.Errorf("%w: empty class name", ErrInvalidDirective)
		}

		return New(v), nil

	case []string, []any:
		classes, err := parseClasses(v)
		if err != nil {
			return nil, err
		}

		return New(classes...), nil

	case *Directive:
		if v == nil {
			return nil, nil
		}

		return v.Clone(), nil

	case Directive:
		return v.Clone(), nil

	case class.Args:
		return parseMap(v)

	case map[string]any:
		return parseMap(v)

	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidDirective, raw)
	}
}

func parseMap(m map[string]any) (*Directive, error) {
	if _, ok := m["class"]; !ok {
		return nil, fmt.Errorf("%w: missing class", ErrInvalidDirective)
	}

	d := &Directive{ErrorKey: DefaultErrorKey}

	for _, key := range slices.Sorted(maps.Keys(m)) {
		value := m[key]

		switch key {
		case "class":
			classes, err := parseClasses(value)
			if err != nil {
				return nil, err
			}

			d.Classes = classes

		case "args":
			switch args := value.(type) {
			case nil:
			case class.Args:
				d.Args = args.Clone()
			case map[string]any:
				d.Args = class.Args(args).Clone()
			default:
				return nil, fmt.Errorf("%w: args must be a mapping, got %T", ErrInvalidDirective, value)
			}

		case "err_arg":
			switch errKey := value.(type) {
			case nil:
				d.ErrorKey = ""
			case string:
				d.ErrorKey = errKey
			default:
				return nil, fmt.Errorf("%w: err_arg must be a string or null, got %T", ErrInvalidDirective, value)
			}

		default:
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidDirective, key)
		}
	}

	return d, nil
}

func parseClasses(raw any) ([]string, error) {
	var items []any

	switch v := raw.(type) {
	case string:
		items = []any{v}
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []any:
		items = v
	default:
		return nil, fmt.Errorf("%w: class must be a name or a list of names, got %T", ErrInvalidDirective, raw)
	}

	classes := make([]string, 0, len(items))

	for i, item := range items {
		name, ok := item.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: class[%d] must be a non-empty name, got %#v", ErrInvalidDirective, i, item)
		}

		classes = append(classes, name)
	}

	return classes, nil
}

// UnmarshalYAML accepts the same shapes as Parse:
//   - Scalar: Failover
//   - Sequence: [Sub1, Failover]
//   - Mapping: {class: [Sub1, Failover], args: {...}, err_arg: error}
//
// err_arg: ~ disables error injection.
func (d *Directive) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		var raw any
		if err := node.Decode(&raw); err != nil {
			return err
		}

		parsed, err := Parse(raw)
		if err != nil {
			return err
		}

		if parsed == nil {
			*d = Directive{}
			return nil
		}

		*d = *parsed

		return nil

	case yaml.MappingNode:
		raw := make(map[string]any, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			var key string
			if err := node.Content[i].Decode(&key); err != nil {
				return err
			}

			value := node.Content[i+1]
			if value.Tag == "!!null" {
				raw[key] = nil
				continue
			}

			var v any
			if err := value.Decode(&v); err != nil {
				return err
			}

			raw[key] = v
		}

		parsed, err := parseMap(raw)
		if err != nil {
			return err
		}

		*d = *parsed

		return nil

	default:
		return fmt.Errorf("%w: expected name, list or mapping, got %v", ErrInvalidDirective, node.Kind)
	}
}

// MarshalYAML outputs a bare name for single-candidate directives with
// default settings.
func (d Directive) MarshalYAML() (any, error) {
	if common.IsSingle(d.Classes) && d.Args == nil && d.ErrorKey == DefaultErrorKey {
		return d.Classes[0], nil
	}

	out := map[string]any{"class": d.Classes}
	if d.Args != nil {
		out["args"] = map[string]any(d.Args)
	}

	if d.ErrorKey == "" {
		out["err_arg"] = nil
	} else {
		out["err_arg"] = d.ErrorKey
	}

	return out, nil
}

func (d *Directive) String() string {
	return fmt.Sprintf("%v (err_arg=%q)", d.Classes, d.ErrorKey)
}
