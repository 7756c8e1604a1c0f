package types_test

import (
	"testing"

	"github.com/featuregrid/featuregrid/types"
	"github.com/stretchr/testify/require"
)

func TestParseFQN(t *testing.T) {
	cases := []struct {
		in   string
		want types.FQN
	}{
		{"total_spend", types.FQN{Name: "total_spend"}},
		{"billing.total_spend", types.FQN{Namespace: "billing", Name: "total_spend"}},
		{"billing.total_spend+sum", types.FQN{Namespace: "billing", Name: "total_spend", AggrFn: types.AggrSum}},
		{"f9+distinct_count", types.FQN{Name: "f9", AggrFn: types.AggrDistinctCount}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := types.ParseFQN(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.in, got.String())
		})
	}
}

func TestParseFQN_Invalid(t *testing.T) {
	for _, in := range []string{"", "_leading", "trailing_", "ns..name", "a.b.c", "name+", "name+nope", "Name"} {
		t.Run(in, func(t *testing.T) {
			_, err := types.ParseFQN(in)
			require.Error(t, err)
		})
	}
}

func TestNormalizeFQN(t *testing.T) {
	got, err := types.NormalizeFQN("total_spend+sum", "billing")
	require.NoError(t, err)
	require.Equal(t, "billing.total_spend+sum", got)

	// Already qualified names keep their namespace.
	got, err = types.NormalizeFQN("other.total_spend", "billing")
	require.NoError(t, err)
	require.Equal(t, "other.total_spend", got)

	// No default falls back to the package default.
	got, err = types.NormalizeFQN("total_spend", "")
	require.NoError(t, err)
	require.Equal(t, "default.total_spend", got)
}

func TestNormalizeFQN_Deterministic(t *testing.T) {
	first, err := types.NormalizeFQN("spend+avg", "ns_a")
	require.NoError(t, err)
	second, err := types.NormalizeFQN("spend+avg", "ns_a")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBaseFQN(t *testing.T) {
	f, err := types.ParseFQN("ns.spend+sum")
	require.NoError(t, err)
	require.Equal(t, "ns.spend", f.BaseFQN())
}
