package catalog

import (
	"gopkg.in/yaml.v3"

	"failover-constructor/internal/failover"
)

// File represents the root of a YAML class catalog.
type File struct {
	// Version of the catalog schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	Classes []ClassDef `yaml:"classes"`
}

// ClassDef declares one class.
type ClassDef struct {
	Name string `yaml:"name"`

	// Extends names the parent class, if any.
	Extends string `yaml:"extends,omitempty"`

	Attributes []AttributeDef `yaml:"attributes,omitempty"`

	// Failover is the class-level default directive.
	Failover *failover.Directive `yaml:"failover_to,omitempty"`

	// PostConstruct lists hooks run after attribute initialization.
	PostConstruct []HookRef `yaml:"post_construct,omitempty"`
}

// AttributeDef declares one attribute.
type AttributeDef struct {
	Name string `yaml:"name"`

	// InitArg is kept as a node to tell an absent key from an explicit null.
	InitArg yaml.Node `yaml:"init_arg,omitempty"`

	Isa   string `yaml:"isa,omitempty"`
	OneOf []any  `yaml:"one_of,omitempty"`
	Match string `yaml:"match,omitempty"`

	Required bool `yaml:"required,omitempty"`
	Coerce   bool `yaml:"coerce,omitempty"`

	// Default is kept as a node so that "default: ~" declares a nil default.
	Default yaml.Node `yaml:"default,omitempty"`

	Builder     string `yaml:"builder,omitempty"`
	Initializer string `yaml:"initializer,omitempty"`
}

// HookRef references a named post-construction hook.
type HookRef struct {
	Hook       string   `yaml:"hook"`
	Attributes []string `yaml:"attributes,omitempty"`
	Message    string   `yaml:"message,omitempty"`
}

// InputKey returns the constructor key and whether the attribute can be
// supplied at all.
func (a *AttributeDef) InputKey() (string, bool) {
	switch {
	case a.InitArg.Kind == 0:
		return a.Name, true
	case isNull(&a.InitArg):
		return "", false
	default:
		return a.InitArg.Value, a.InitArg.Value != ""
	}
}

// HasDefault returns true if a default value is declared, null included.
func (a *AttributeDef) HasDefault() bool {
	return a.Default.Kind != 0
}

// DefaultValue decodes the declared default.
func (a *AttributeDef) DefaultValue() (any, error) {
	if !a.HasDefault() || isNull(&a.Default) {
		return nil, nil
	}

	var v any
	if err := a.Default.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

// HasConstraint returns true if any constraint key is set.
func (a *AttributeDef) HasConstraint() bool {
	return a.Isa != "" || len(a.OneOf) > 0 || a.Match != ""
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
