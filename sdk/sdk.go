package sdk

import (
	"log/slog"

	"github.com/featuregrid/featuregrid/program"
	"github.com/featuregrid/featuregrid/registry"
	"github.com/featuregrid/featuregrid/replay"
	"github.com/featuregrid/featuregrid/types"
)

// SDK wires the registration pipeline to its collaborators: the registry
// specs are published into, the compiler that turns bodies into programs,
// and the replay store computed values land in.
type SDK struct {
	reg              *registry.Registry
	compiler         program.Compiler
	store            *replay.Store
	defaultNamespace string
	logger           *slog.Logger
}

// Option configures an SDK instance.
type Option func(*SDK)

// WithRegistry injects a registry; by default every SDK gets its own.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *SDK) { s.reg = reg }
}

// WithCompiler injects a program compiler; ExprCompiler is the default.
func WithCompiler(c program.Compiler) Option {
	return func(s *SDK) { s.compiler = c }
}

// WithDefaultNamespace sets the namespace applied to unqualified names.
func WithDefaultNamespace(ns string) Option {
	return func(s *SDK) { s.defaultNamespace = ns }
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SDK) { s.logger = logger }
}

// WithStore injects a replay value store, shared when several SDK
// instances replay against the same data.
func WithStore(store *replay.Store) Option {
	return func(s *SDK) { s.store = store }
}

// New creates an SDK instance.
func New(opts ...Option) *SDK {
	s := &SDK{
		defaultNamespace: types.DefaultNamespace,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reg == nil {
		s.reg = registry.New(s.defaultNamespace)
	}
	if s.compiler == nil {
		s.compiler = program.NewExprCompiler()
	}
	if s.store == nil {
		s.store = replay.NewStore()
	}
	return s
}

// Registry returns the registry specs are published into.
func (s *SDK) Registry() *registry.Registry { return s.reg }

// Store returns the replay value store.
func (s *SDK) Store() *replay.Store { return s.store }

// DefaultNamespace returns the namespace applied to unqualified names.
func (s *SDK) DefaultNamespace() string { return s.defaultNamespace }
