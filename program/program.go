package program

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/featuregrid/featuregrid/types"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Program is a compiled, deferred computation. It is referenced by the
// FeatureSpec that owns it and executed by the replay engine or by the
// platform.
type Program struct {
	Name      string
	Primitive types.Primitive

	// Expr is the compiled expression body.
	Expr hcl.Expression

	// Dependencies are the canonical FQNs of every feature the body reads,
	// sorted and de-duplicated.
	Dependencies []string

	src      string
	checksum string
}

func newProgram(name string, primitive types.Primitive, expr hcl.Expression, deps []string, src string) *Program {
	sum := sha256.Sum256([]byte(src))
	return &Program{
		Name:         name,
		Primitive:    primitive,
		Expr:         expr,
		Dependencies: deps,
		src:          src,
		checksum:     hex.EncodeToString(sum[:]),
	}
}

// ResultPrimitive implements types.CompiledProgram.
func (p *Program) ResultPrimitive() types.Primitive { return p.Primitive }

// SourceChecksum implements types.CompiledProgram.
func (p *Program) SourceChecksum() string { return p.checksum }

// SourceText implements types.CompiledProgram.
func (p *Program) SourceText() string { return p.src }

// Eval executes the compiled body against the given evaluation context.
func (p *Program) Eval(evalCtx *hcl.EvalContext) (cty.Value, error) {
	val, diags := p.Expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("evaluating %s: %w", p.Name, diags)
	}
	return val, nil
}
