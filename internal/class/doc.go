// Package class provides the open set of constructible classes.
//
// A class is anything implementing Constructible. Classes that can describe
// their attributes implement Describer, and classes that carry their own
// failover default implement FailoverDefaulter. Class is the schema-backed
// implementation used by catalogs and tests: it declares attributes, an
// optional parent, post-construction hooks and an optional default failover
// directive. Func wraps an opaque constructor function with no capability
// surface at all.
//
// Registry maps names to classes. Entries can be registered eagerly or as
// lazy factories that are loaded once and cached.
package class
