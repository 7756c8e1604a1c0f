package program

import (
	"fmt"
	"time"

	"github.com/featuregrid/featuregrid/types"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Getter reads a previously computed feature value, identified by canonical
// FQN and key tuple, as of the given timestamp.
type Getter func(fqn string, keys map[string]string, at time.Time) (cty.Value, error)

// Context is the evaluation-time view a program runs against: the request's
// key tuple and timestamp, the namespace unqualified get_feature names are
// normalized into, and the getter that serves cross-feature reads.
type Context struct {
	Namespace string
	Keys      map[string]string
	Timestamp time.Time
	Getter    Getter
}

// EvalContext assembles the HCL evaluation context for one request. data is
// the raw event payload the body reads under the `data` root.
func (c *Context) EvalContext(data map[string]cty.Value) *hcl.EvalContext {
	dataVal := cty.EmptyObjectVal
	if len(data) > 0 {
		dataVal = cty.ObjectVal(data)
	}
	keys := make(map[string]cty.Value, len(c.Keys))
	for k, v := range c.Keys {
		keys[k] = cty.StringVal(v)
	}
	keysVal := cty.EmptyObjectVal
	if len(keys) > 0 {
		keysVal = cty.ObjectVal(keys)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			RootData:      dataVal,
			RootKeys:      keysVal,
			RootTimestamp: cty.StringVal(c.Timestamp.UTC().Format(time.RFC3339)),
		},
		Functions: c.featureFunctions(),
	}
}

// featureFunctions exposes get_feature and its alias f.
func (c *Context) featureFunctions() map[string]function.Function {
	impl := function.New(&function.Spec{
		Params: []function.Parameter{{Name: "fqn", Type: cty.String}},
		Type:   function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			if c.Getter == nil {
				return cty.NilVal, fmt.Errorf("no feature getter configured")
			}
			fqn, err := types.NormalizeFQN(args[0].AsString(), c.Namespace)
			if err != nil {
				return cty.NilVal, err
			}
			return c.Getter(fqn, c.Keys, c.Timestamp)
		},
	})
	return map[string]function.Function{
		GetFeatureFn:      impl,
		GetFeatureFnAlias: impl,
	}
}

// stubFeatureFunctions satisfies type checking when no request context is
// available (static compilation).
func stubFeatureFunctions() map[string]function.Function {
	stub := function.New(&function.Spec{
		Params: []function.Parameter{{Name: "fqn", Type: cty.String}},
		Type:   function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func([]cty.Value, cty.Type) (cty.Value, error) {
			return cty.UnknownVal(cty.DynamicPseudoType), nil
		},
	})
	return map[string]function.Function{
		GetFeatureFn:      stub,
		GetFeatureFnAlias: stub,
	}
}
