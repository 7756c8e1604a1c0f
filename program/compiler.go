package program

import (
	"context"

	"github.com/featuregrid/featuregrid/types"
)

// Resolver translates a symbolic cross-reference found inside a computation
// body — a bare identifier or a literal FQN string — into the canonical FQN
// of an already-registered feature. Resolution failures abort compilation.
type Resolver func(ref string) (string, error)

// Source is the user-authored computation handed to a compiler: the
// declaring name, its documentation, the expression body, and an optional
// declared return type. Returns may be empty when the body's type can be
// inferred statically.
type Source struct {
	Name    string
	Doc     string
	Expr    string
	Returns string
}

// Compiler compiles a Source into a Program, reporting the inferred result
// primitive. Implementations must call resolve for every cross-reference in
// the body and fail when any resolution fails.
type Compiler interface {
	Compile(ctx context.Context, src *Source, resolve Resolver) (*Program, error)
}

// primitiveFromReturns parses the declared return annotation.
func primitiveFromReturns(returns string) (types.Primitive, error) {
	return types.ParsePrimitive(returns)
}
