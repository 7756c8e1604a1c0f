package types_test

import (
	"testing"
	"time"

	"github.com/featuregrid/featuregrid/types"
	"github.com/stretchr/testify/require"
)

func TestDurationValue(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"1h", time.Hour},
		{"90m", 90 * time.Minute},
		{"1d", 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"1d12h", 36 * time.Hour},
		{"1.5h", 90 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			d, err := types.ParseDuration(tc.in)
			require.NoError(t, err)
			got, err := d.Value()
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, in := range []string{"h", "1x", "1hh", "one hour", "-1h"} {
		t.Run(in, func(t *testing.T) {
			_, err := types.ParseDuration(in)
			require.Error(t, err)
		})
	}
}

func TestDurationEmpty(t *testing.T) {
	require.True(t, types.Duration("").Empty())
	require.False(t, types.Duration("5s").Empty())
}
