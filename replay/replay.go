package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/featuregrid/featuregrid/internal/hclutil"
	"github.com/featuregrid/featuregrid/program"
	"github.com/featuregrid/featuregrid/types"
	"github.com/zclconf/go-cty/cty"
)

// Event is one historical input record: the entity keys it belongs to, when
// it happened, and its payload (exposed to the program as `data`).
type Event struct {
	Keys      map[string]string
	Timestamp time.Time
	Data      map[string]any
}

// Computed is one feature value produced by a replay run.
type Computed struct {
	FQN       string
	Keys      map[string]string
	Timestamp time.Time
	Value     any
}

// Func re-executes a feature's computation against a batch of events.
type Func func(ctx context.Context, events []Event) ([]Computed, error)

// NewReplay builds the replay capability for a registered feature. Raw
// values are stored under the feature's FQN; aggregated features
// additionally fan out into one bucketed series per aggregation function.
func NewReplay(spec *types.FeatureSpec, prog *program.Program, store *Store, defaultNamespace string) Func {
	fqn := spec.FQN(defaultNamespace)
	// Unqualified get_feature reads must normalize into the same namespace
	// the dependency values were stored under.
	namespace := spec.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	return func(ctx context.Context, events []Event) ([]Computed, error) {
		var out []Computed
		raw := make([]Computed, 0, len(events))

		for _, ev := range events {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			data, err := hclutil.ToCtyMap(ev.Data)
			if err != nil {
				return nil, fmt.Errorf("replaying %s: %w", fqn, err)
			}
			pctx := &program.Context{
				Namespace: namespace,
				Keys:      ev.Keys,
				Timestamp: ev.Timestamp,
				Getter: func(depFQN string, keys map[string]string, at time.Time) (cty.Value, error) {
					val, ok := store.Get(depFQN, keys, at)
					if !ok {
						return cty.NilVal, fmt.Errorf("no value for %s at %s", depFQN, at.Format(time.RFC3339))
					}
					return val, nil
				},
			}

			val, err := prog.Eval(pctx.EvalContext(data))
			if err != nil {
				return nil, fmt.Errorf("replaying %s: %w", fqn, err)
			}
			store.Put(fqn, ev.Keys, ev.Timestamp, val)

			goVal, err := hclutil.FromCty(val)
			if err != nil {
				return nil, fmt.Errorf("replaying %s: %w", fqn, err)
			}
			raw = append(raw, Computed{FQN: fqn, Keys: ev.Keys, Timestamp: ev.Timestamp, Value: goVal})
		}
		out = append(out, raw...)

		if spec.HasAggregation() {
			aggregated, err := aggregate(spec, fqn, raw, store)
			if err != nil {
				return nil, err
			}
			out = append(out, aggregated...)
		}
		return out, nil
	}
}
