// Package catalog declares classes in YAML.
//
// A catalog lists classes with their attributes, parents, post-construction
// hooks and default failover directives. It is validated into coded
// diagnostics and then built into a class.Registry.
//
// # Schema Overview
//
//	version: "1"
//	classes:
//	  - name: Sub1
//	    attributes:
//	      - {name: num, isa: Int}
//	      - {name: r_str, isa: Str, required: true}
//	  - name: Sub2
//	    extends: Sub1
//	    attributes:
//	      - {name: q_str, isa: Str, required: true}
//	  - name: Failover
//	    attributes:
//	      - {name: error}
//	  - name: Guarded
//	    failover_to: {class: [Sub1, Failover], err_arg: error}
//	    post_construct:
//	      - {hook: require_any, attributes: [num, r_str]}
//
// # Attribute keys
//
//   - name: attribute name (required)
//   - init_arg: constructor key; defaults to name, ~ makes it not suppliable
//   - isa: constraint name (Str, Int, Num, Bool, Time, Duration, Any, Maybe[...])
//   - one_of / match: enumerated values or a regular expression instead of isa
//   - required, coerce: booleans
//   - default: any YAML value, ~ included
//   - builder / initializer: names from the Registry
package catalog
