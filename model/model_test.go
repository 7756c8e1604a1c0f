package model_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/featuregrid/featuregrid/model"
	"github.com/featuregrid/featuregrid/sdk"
	"github.com/featuregrid/featuregrid/types"
)

func writeDefs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const spendDefs = `
feature "total_spend" {
  description = "total spend of a user"
  keys        = ["user_id"]
  staleness   = "30d"
  data_source = "purchases"
  returns     = "float"
  expr        = "data.amount"

  aggregation {
    funcs       = ["sum", "count"]
    granularity = "1d"
  }

  builder "streaming" {
    replicas = 3
  }
}

feature_set "user_profile" {
  features = ["default.total_spend+sum"]
  timeout  = "7s"
  register = true
}
`

func TestLoadDirAndApply(t *testing.T) {
	t.Parallel()
	dir := writeDefs(t, map[string]string{"spend.hcl": spendDefs})

	defs, err := model.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, defs.Files, 1)
	require.Len(t, defs.Files[0].Features, 1)
	require.Len(t, defs.Files[0].Sets, 1)

	s := sdk.New()
	require.NoError(t, model.Apply(context.Background(), s, defs))

	spec, err := s.Registry().SpecByFQN("default.total_spend")
	require.NoError(t, err)
	require.Equal(t, "total spend of a user", spec.Description)
	require.Equal(t, []string{"user_id"}, spec.Keys)
	require.Equal(t, types.PrimitiveFloat, spec.Primitive)
	require.True(t, spec.HasAggregation())
	require.Equal(t, types.Duration("1d"), spec.Aggr.Granularity)
	require.Equal(t, "purchases", spec.DataSource.Name)
	require.Equal(t, "streaming", spec.Builder.Kind)
	require.Equal(t, 3.0, spec.Builder.Options["replicas"])

	set, err := s.Registry().SetByFQN("user_profile")
	require.NoError(t, err)
	require.Equal(t, []string{"default.total_spend+sum"}, set.Features)
	require.Equal(t, types.Duration("7s"), set.Timeout)
	require.Len(t, s.Registry().Exports(), 1)
}

func TestApplyCrossFileReferences(t *testing.T) {
	t.Parallel()
	// Lexical walk order: a.hcl is applied before b.hcl.
	dir := writeDefs(t, map[string]string{
		"a.hcl": `
feature "base_amount" {
  keys      = ["user_id"]
  staleness = "1h"
  freshness = "10m"
  returns   = "float"
  expr      = "data.amount"
}
`,
		"b.hcl": `
feature "double_amount" {
  keys      = ["user_id"]
  staleness = "1h"
  freshness = "10m"
  returns   = "float"
  expr      = "base_amount * 2"
}

feature_set "amounts" {
  features = ["base_amount", "double_amount"]
}
`,
	})

	defs, err := model.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, defs.Files, 2)

	s := sdk.New()
	require.NoError(t, model.Apply(context.Background(), s, defs))

	set, err := s.Registry().SetByFQN("amounts")
	require.NoError(t, err)
	require.Equal(t, []string{"default.base_amount", "default.double_amount"}, set.Features)
	require.Equal(t, types.DefaultFeatureSetTimeout, set.Timeout)
}

func TestLoadDirEmpty(t *testing.T) {
	t.Parallel()
	defs, err := model.LoadDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.Empty(t, defs.Files)
}

func TestLoadDirParseError(t *testing.T) {
	t.Parallel()
	dir := writeDefs(t, map[string]string{"broken.hcl": `feature "x" {`})

	_, err := model.LoadDir(context.Background(), dir)
	require.Error(t, err)
	require.ErrorContains(t, err, "broken.hcl")
}

func TestApplyUnknownAggregation(t *testing.T) {
	t.Parallel()
	dir := writeDefs(t, map[string]string{"bad.hcl": `
feature "bad" {
  keys      = ["user_id"]
  staleness = "1h"
  returns   = "float"
  expr      = "data.amount"

  aggregation {
    funcs       = ["median"]
    granularity = "1d"
  }
}
`})

	defs, err := model.LoadDir(context.Background(), dir)
	require.NoError(t, err)

	err = model.Apply(context.Background(), sdk.New(), defs)
	require.ErrorContains(t, err, `unknown aggregation function "median"`)
	require.ErrorContains(t, err, "bad.hcl")
}

func TestApplyRegistrationFailureNamesFile(t *testing.T) {
	t.Parallel()
	dir := writeDefs(t, map[string]string{"fresh.hcl": `
feature "fresh_less" {
  keys      = ["user_id"]
  staleness = "1h"
  expr      = "1 + 1"
}
`})

	defs, err := model.LoadDir(context.Background(), dir)
	require.NoError(t, err)

	err = model.Apply(context.Background(), sdk.New(), defs)
	require.ErrorIs(t, err, sdk.ErrMissingFreshness)
	require.ErrorContains(t, err, "fresh.hcl")
}
