package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/featuregrid/featuregrid/internal/hclutil"
	"github.com/featuregrid/featuregrid/types"
)

// GetFunc assembles, per key tuple, the latest stored value of every member
// feature of a set as of the given timestamp. Missing members are nil.
type GetFunc func(ctx context.Context, keys map[string]string, at time.Time) (map[string]any, error)

// NewHistoricalGet builds the historical-get capability for a feature set.
// The set's fetch timeout bounds the whole assembly; the timeout is a spec
// attribute enforced here only because replay stands in for the platform.
func NewHistoricalGet(spec *types.FeatureSetSpec, store *Store) GetFunc {
	timeout, err := spec.Timeout.Value()

	return func(ctx context.Context, keys map[string]string, at time.Time) (map[string]any, error) {
		if err != nil {
			return nil, fmt.Errorf("in %s: invalid timeout: %w", spec.Name, err)
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		row := make(map[string]any, len(spec.Features))
		for _, fqn := range spec.Features {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			val, ok := store.Get(fqn, keys, at)
			if !ok {
				row[fqn] = nil
				continue
			}
			goVal, err := hclutil.FromCty(val)
			if err != nil {
				return nil, fmt.Errorf("in %s: %s: %w", spec.Name, fqn, err)
			}
			row[fqn] = goVal
		}
		return row, nil
	}
}
