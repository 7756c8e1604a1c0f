package types

import "fmt"

// AggregationFunction is a closed enumeration of the aggregation kinds a
// feature may declare. AggrUnknown is a sentinel and never valid in a spec.
type AggregationFunction string

const (
	AggrUnknown             AggregationFunction = "unknown"
	AggrSum                 AggregationFunction = "sum"
	AggrAvg                 AggregationFunction = "avg"
	AggrMin                 AggregationFunction = "min"
	AggrMax                 AggregationFunction = "max"
	AggrCount               AggregationFunction = "count"
	AggrDistinctCount       AggregationFunction = "distinct_count"
	AggrApproxDistinctCount AggregationFunction = "approx_distinct_count"
)

// ParseAggregationFunction converts a lower-snake name into an
// AggregationFunction. Unrecognized names return AggrUnknown with an error.
func ParseAggregationFunction(s string) (AggregationFunction, error) {
	switch AggregationFunction(s) {
	case AggrSum, AggrAvg, AggrMin, AggrMax, AggrCount, AggrDistinctCount, AggrApproxDistinctCount:
		return AggregationFunction(s), nil
	}
	return AggrUnknown, fmt.Errorf("unknown aggregation function %q", s)
}

// Supports reports whether the aggregation function can be computed over
// values of the given primitive. The arithmetic functions require a numeric
// primitive; the counting functions accept any primitive.
func (f AggregationFunction) Supports(p Primitive) bool {
	switch f {
	case AggrUnknown:
		return false
	case AggrSum, AggrAvg, AggrMin, AggrMax:
		return p.Numeric()
	}
	return true
}

func (f AggregationFunction) String() string { return string(f) }

// AggrSpec describes the aggregations a feature fans out into. Granularity
// is the bucket width the windows are computed over; when present it
// substitutes for the feature's freshness.
type AggrSpec struct {
	Funcs       []AggregationFunction
	Granularity Duration
}
