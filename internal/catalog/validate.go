package catalog

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"failover-constructor/internal/diagnostic"
	"failover-constructor/internal/suggest"
	"failover-constructor/primitive"
)

const maxSuggestions = 3

// Validate checks a catalog against the names known to reg. It reports
// structural problems only; whether classes construct successfully is decided
// at run time.
func Validate(f *File, reg *Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("catalog_is_nil", "catalog file is nil", "", "")
		return res
	}

	if reg == nil {
		res.AddError("registry_is_nil", "registry is nil", "", "")
		return res
	}

	if f.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported catalog version %q", f.Version), "", "")
	}

	classNames := make([]string, 0, len(f.Classes))
	seenClasses := map[string]struct{}{}

	for i := range f.Classes {
		cd := &f.Classes[i]
		if cd.Name == "" {
			res.AddError("class_name_empty", fmt.Sprintf("class #%d has no name", i+1), "", "")
			continue
		}

		if _, ok := seenClasses[cd.Name]; ok {
			res.AddError("duplicate_class", fmt.Sprintf("duplicate class %q", cd.Name), cd.Name, "")
			continue
		}

		seenClasses[cd.Name] = struct{}{}
		classNames = append(classNames, cd.Name)
	}

	for i := range f.Classes {
		cd := &f.Classes[i]
		if cd.Name == "" {
			continue
		}

		if cd.Extends != "" {
			if _, ok := seenClasses[cd.Extends]; !ok {
				addUnknown(res, "unknown_parent", "parent class", cd.Extends, classNames, cd.Name, "")
			}
		}

		validateAttributes(res, cd, reg)
		validateHooks(res, cd, reg)
		validateFailover(res, cd, classNames, seenClasses)
	}

	if _, err := classOrder(f); err != nil {
		res.AddError("inheritance_cycle", err.Error(), "", "")
	}

	return res
}

func validateAttributes(res *diagnostic.Diagnostics, cd *ClassDef, reg *Registry) {
	seen := map[string]struct{}{}

	for i := range cd.Attributes {
		a := &cd.Attributes[i]
		if a.Name == "" {
			res.AddError("attribute_name_empty", fmt.Sprintf("attribute #%d has no name", i+1), cd.Name, "")
			continue
		}

		if _, ok := seen[a.Name]; ok {
			res.AddError("duplicate_attribute", fmt.Sprintf("duplicate attribute %q", a.Name), cd.Name, a.Name)
			continue
		}

		seen[a.Name] = struct{}{}

		if a.InitArg.Kind != 0 && a.InitArg.Kind != yaml.ScalarNode {
			res.AddError("invalid_init_arg", "init_arg must be a name or ~", cd.Name, a.Name)
		}

		if _, err := constraintOf(a); err != nil {
			if errors.Is(err, primitive.ErrUnknownConstraint) {
				addUnknown(res, "unknown_constraint", "constraint", a.Isa, primitive.Names(), cd.Name, a.Name)
			} else {
				res.AddError("invalid_constraint", err.Error(), cd.Name, a.Name)
			}
		}

		if a.Coerce && !a.HasConstraint() {
			res.AddWarning("coerce_without_constraint", "coerce has no effect without a constraint", cd.Name, a.Name)
		}

		if _, err := a.DefaultValue(); err != nil {
			res.AddError("invalid_default", fmt.Sprintf("invalid default: %v", err), cd.Name, a.Name)
		}

		if a.Builder != "" {
			if reg.Builder(a.Builder) == nil {
				addUnknown(res, "unknown_builder", "builder", a.Builder, reg.BuilderNames(), cd.Name, a.Name)
			}

			if a.HasDefault() {
				res.AddWarning("default_and_builder", "default takes precedence over builder", cd.Name, a.Name)
			}
		}

		if a.Initializer != "" && reg.Initializer(a.Initializer) == nil {
			addUnknown(res, "unknown_initializer", "initializer", a.Initializer, reg.InitializerNames(), cd.Name, a.Name)
		}

		if _, ok := a.InputKey(); !ok && a.Required && !a.HasDefault() && a.Builder == "" {
			res.AddError("unsatisfiable_required",
				"required attribute cannot be supplied and has neither default nor builder", cd.Name, a.Name)
		}
	}
}

func validateHooks(res *diagnostic.Diagnostics, cd *ClassDef, reg *Registry) {
	for _, ref := range cd.PostConstruct {
		factory := reg.Hook(ref.Hook)
		if factory == nil {
			addUnknown(res, "unknown_hook", "hook", ref.Hook, reg.HookNames(), cd.Name, "")
			continue
		}

		if _, err := factory(ref); err != nil {
			res.AddError("invalid_hook", fmt.Sprintf("hook %q: %v", ref.Hook, err), cd.Name, "")
		}
	}
}

func validateFailover(res *diagnostic.Diagnostics, cd *ClassDef, classNames []string, known map[string]struct{}) {
	if cd.Failover == nil {
		return
	}

	if len(cd.Failover.Classes) == 0 {
		res.AddWarning("empty_failover", "failover_to lists no class", cd.Name, "")
	}

	for _, name := range cd.Failover.Classes {
		if _, ok := known[name]; !ok {
			addUnknown(res, "unknown_failover_class", "failover class", name, classNames, cd.Name, "")
		}
	}
}

func addUnknown(res *diagnostic.Diagnostics, code, what, name string, known []string, class, attr string) {
	res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.Error,
		Code:        code,
		Message:     fmt.Sprintf("unknown %s %q", what, name),
		Class:       class,
		Attribute:   attr,
		Suggestions: suggest.Closest(name, known, maxSuggestions),
	})
}
