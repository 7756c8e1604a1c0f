// Package sdk is the registration pipeline: it turns user-authored
// definitions into validated FeatureSpec and FeatureSetSpec values and
// publishes them to the registry.
//
// A Definition is the Go counterpart of a decorated function. Modifier
// calls (Aggregate, DataSource, Namespace, Builder) stage options on the
// definition; the terminal Register call consumes the staged options,
// builds and validates the spec, delegates program compilation, attaches
// the replay and manifest capabilities, and publishes. Staged options must
// be applied before registration: once a definition carries a spec, every
// modifier fails with ErrOptionAfterRegister.
//
// Cross-references between definitions are resolved through an explicit
// Scope (a symbol table mapping identifiers to definitions) rather than by
// inspecting the caller's stack; supply one with WithScope when a body or a
// feature set refers to other features by bare identifier.
package sdk
