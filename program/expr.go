package program

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/featuregrid/featuregrid/types"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Reserved variable roots available to every computation body. They are
// request-scoped inputs, never cross-references.
const (
	RootData      = "data"
	RootKeys      = "keys"
	RootTimestamp = "timestamp"
)

// GetFeatureFn and its short alias are the functions a body uses to read
// another feature's value.
const (
	GetFeatureFn      = "get_feature"
	GetFeatureFnAlias = "f"
)

// ExprCompiler compiles HCL expression bodies. The zero value is usable.
type ExprCompiler struct{}

// NewExprCompiler returns an ExprCompiler.
func NewExprCompiler() *ExprCompiler { return &ExprCompiler{} }

// Compile parses the body, resolves every cross-reference through resolve,
// and infers the result primitive from the declared return annotation or,
// when the body is statically evaluable, from its cty type.
func (c *ExprCompiler) Compile(_ context.Context, src *Source, resolve Resolver) (*Program, error) {
	if src.Expr == "" {
		return nil, errors.New("empty computation body")
	}
	if resolve == nil {
		return nil, errors.New("nil resolver")
	}

	expr, diags := hclsyntax.ParseExpression([]byte(src.Expr), src.Name+".expr", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", src.Name, diags)
	}

	refs, err := collectReferences(expr)
	if err != nil {
		return nil, err
	}

	deps := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		fqn, err := resolve(ref)
		if err != nil {
			return nil, err
		}
		deps[fqn] = struct{}{}
	}
	sorted := make([]string, 0, len(deps))
	for fqn := range deps {
		sorted = append(sorted, fqn)
	}
	sort.Strings(sorted)

	primitive, err := inferPrimitive(src, expr)
	if err != nil {
		return nil, err
	}

	return newProgram(src.Name, primitive, expr, sorted, src.Expr), nil
}

// collectReferences gathers every cross-reference in the body: bare
// variable roots outside the reserved set, and the literal first argument
// of each get_feature/f call.
func collectReferences(expr hclsyntax.Expression) ([]string, error) {
	seen := make(map[string]struct{})
	var refs []string
	add := func(ref string) {
		if _, ok := seen[ref]; !ok {
			seen[ref] = struct{}{}
			refs = append(refs, ref)
		}
	}

	for _, traversal := range expr.Variables() {
		root := traversal.RootName()
		switch root {
		case RootData, RootKeys, RootTimestamp:
		default:
			add(root)
		}
	}

	var walkErr error
	walkCalls(expr, func(call *hclsyntax.FunctionCallExpr) {
		if walkErr != nil {
			return
		}
		if call.Name != GetFeatureFn && call.Name != GetFeatureFnAlias {
			return
		}
		if len(call.Args) != 1 {
			walkErr = fmt.Errorf("%s takes exactly one argument", call.Name)
			return
		}
		val, diags := call.Args[0].Value(nil)
		if diags.HasErrors() || val.Type() != cty.String || !val.IsKnown() {
			walkErr = fmt.Errorf("%s requires a literal feature name", call.Name)
			return
		}
		add(val.AsString())
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return refs, nil
}

// walkCalls visits every function call in the expression tree.
func walkCalls(expr hclsyntax.Expression, visit func(*hclsyntax.FunctionCallExpr)) {
	hclsyntax.Walk(expr, callWalker(visit))
}

type callWalker func(*hclsyntax.FunctionCallExpr)

func (w callWalker) Enter(node hclsyntax.Node) hcl.Diagnostics {
	if call, ok := node.(*hclsyntax.FunctionCallExpr); ok {
		w(call)
	}
	return nil
}

func (w callWalker) Exit(hclsyntax.Node) hcl.Diagnostics { return nil }

// inferPrimitive prefers the declared annotation; failing that it evaluates
// statically closed bodies and maps their cty type.
func inferPrimitive(src *Source, expr hclsyntax.Expression) (types.Primitive, error) {
	if src.Returns != "" {
		p, err := primitiveFromReturns(src.Returns)
		if err != nil {
			return types.PrimitiveUnknown, fmt.Errorf("in %s: %w", src.Name, err)
		}
		return p, nil
	}
	if len(expr.Variables()) == 0 {
		if val, diags := expr.Value(staticEvalContext()); !diags.HasErrors() {
			if p, ok := PrimitiveFromCty(val.Type()); ok {
				return p, nil
			}
		}
	}
	return types.PrimitiveUnknown, fmt.Errorf("cannot determine the primitive of %s: declare a return type", src.Name)
}

// staticEvalContext lets statically closed bodies that still call
// get_feature type-check; the stub returns an unknown string.
func staticEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{Functions: stubFeatureFunctions()}
}

// PrimitiveFromCty maps a cty type onto the spec primitive enumeration.
// Numbers map to float: cty does not distinguish integers.
func PrimitiveFromCty(ty cty.Type) (types.Primitive, bool) {
	switch {
	case ty == cty.String:
		return types.PrimitiveString, true
	case ty == cty.Number:
		return types.PrimitiveFloat, true
	case ty == cty.Bool:
		return types.PrimitiveBoolean, true
	}
	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		elem := cty.DynamicPseudoType
		if ty.IsListType() || ty.IsSetType() {
			elem = ty.ElementType()
		} else if elems := ty.TupleElementTypes(); len(elems) > 0 {
			elem = elems[0]
			for _, t := range elems {
				if !t.Equals(elem) {
					return types.PrimitiveUnknown, false
				}
			}
		}
		switch {
		case elem == cty.String:
			return types.PrimitiveStringList, true
		case elem == cty.Number:
			return types.PrimitiveFloatList, true
		case elem == cty.Bool:
			return types.PrimitiveBooleanList, true
		}
	}
	return types.PrimitiveUnknown, false
}
