// Package registry holds the published specs of a single process: every
// registered feature keyed by FQN and by source name, every feature set,
// and the subset of feature sets marked for export.
//
// A Registry is constructed explicitly with New and injected into the SDK;
// there is no package-level instance. Registration happens sequentially
// during the definition-loading phase and reads dominate afterwards, so the
// registry is guarded by a single RWMutex.
package registry
