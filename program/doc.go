// Package program turns a feature's computation body into a deferred
// Program the platform (or the local replay engine) can execute later.
//
// The Compiler interface is the boundary the registration pipeline talks
// to. ExprCompiler is the in-repo implementation: the computation body is
// an HCL expression over the reserved roots `data`, `keys` and `timestamp`,
// plus `get_feature`/`f` calls for cross-feature reads. Compilation
// resolves every cross-reference through the Resolver supplied by the
// caller, so the compiler itself never touches a registry.
package program
