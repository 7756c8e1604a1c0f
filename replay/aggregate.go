package replay

import (
	"fmt"
	"sort"
	"time"

	"github.com/featuregrid/featuregrid/types"
	"github.com/zclconf/go-cty/cty"
)

// bucket groups one key tuple's raw values inside a single granularity
// window.
type bucket struct {
	keys   map[string]string
	end    time.Time
	values []any
}

// aggregate materializes the derived per-function series of an aggregated
// feature: raw values are grouped by key tuple and granularity window, each
// aggregation function is applied per window, and the results are stored
// under the aggregated FQNs at the window end.
func aggregate(spec *types.FeatureSpec, baseFQN string, raw []Computed, store *Store) ([]Computed, error) {
	granularity, err := spec.Aggr.Granularity.Value()
	if err != nil {
		return nil, fmt.Errorf("aggregating %s: %w", baseFQN, err)
	}
	if granularity <= 0 {
		return nil, fmt.Errorf("aggregating %s: granularity is required", baseFQN)
	}

	buckets := make(map[string]*bucket)
	var order []string
	for _, c := range raw {
		start := c.Timestamp.Truncate(granularity)
		id := seriesID(start.Format(time.RFC3339Nano), c.Keys)
		b, ok := buckets[id]
		if !ok {
			b = &bucket{keys: c.Keys, end: start.Add(granularity)}
			buckets[id] = b
			order = append(order, id)
		}
		b.values = append(b.values, c.Value)
	}
	sort.Strings(order)

	var out []Computed
	for _, id := range order {
		b := buckets[id]
		for _, fn := range spec.Aggr.Funcs {
			val, err := apply(fn, b.values)
			if err != nil {
				return nil, fmt.Errorf("aggregating %s: %w", baseFQN, err)
			}
			fqn := baseFQN + "+" + string(fn)
			store.Put(fqn, b.keys, b.end, toCtyNumberOr(val))
			out = append(out, Computed{FQN: fqn, Keys: b.keys, Timestamp: b.end, Value: val})
		}
	}
	return out, nil
}

// apply computes a single aggregation function over a window's raw values.
func apply(fn types.AggregationFunction, values []any) (any, error) {
	switch fn {
	case types.AggrCount:
		return float64(len(values)), nil
	case types.AggrDistinctCount, types.AggrApproxDistinctCount:
		distinct := make(map[string]struct{}, len(values))
		for _, v := range values {
			distinct[fmt.Sprint(v)] = struct{}{}
		}
		return float64(len(distinct)), nil
	case types.AggrSum, types.AggrAvg, types.AggrMin, types.AggrMax:
		if len(values) == 0 {
			return float64(0), nil
		}
		nums := make([]float64, 0, len(values))
		for _, v := range values {
			n, ok := asFloat(v)
			if !ok {
				return nil, fmt.Errorf("aggregation %s over non-numeric value %v", fn, v)
			}
			nums = append(nums, n)
		}
		switch fn {
		case types.AggrSum, types.AggrAvg:
			var sum float64
			for _, n := range nums {
				sum += n
			}
			if fn == types.AggrAvg {
				return sum / float64(len(nums)), nil
			}
			return sum, nil
		case types.AggrMin:
			m := nums[0]
			for _, n := range nums[1:] {
				if n < m {
					m = n
				}
			}
			return m, nil
		default: // AggrMax
			m := nums[0]
			for _, n := range nums[1:] {
				if n > m {
					m = n
				}
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown aggregation function %q", fn)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toCtyNumberOr(v any) cty.Value {
	if n, ok := asFloat(v); ok {
		return cty.NumberFloatVal(n)
	}
	return cty.NullVal(cty.Number)
}
