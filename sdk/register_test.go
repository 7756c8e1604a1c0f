package sdk_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/featuregrid/featuregrid/program"
	"github.com/featuregrid/featuregrid/replay"
	"github.com/featuregrid/featuregrid/sdk"
	"github.com/featuregrid/featuregrid/types"
)

func TestRegisterBasic(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("total_spend", "data.amount", sdk.Doc("total spend per user"), sdk.Returns("float"))
	spec, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)

	require.Equal(t, "total_spend", spec.Name)
	require.Equal(t, "total spend per user", spec.Description)
	require.Equal(t, []string{"user_id"}, spec.Keys)
	require.Equal(t, types.Duration("1h"), spec.Staleness)
	require.Equal(t, types.Duration("10m"), spec.Freshness)
	require.Equal(t, types.PrimitiveFloat, spec.Primitive)
	require.Equal(t, "default.total_spend", spec.FQN(s.DefaultNamespace()))
	require.NotNil(t, spec.Program)
	require.Equal(t, "data.amount", spec.Program.SourceText())

	require.True(t, def.Registered())
	require.NotNil(t, def.Replay())

	got, err := s.Registry().SpecByFQN("default.total_spend")
	require.NoError(t, err)
	require.Same(t, spec, got)
}

func TestRegisterRequiresKeys(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("orphan", "1 + 1")
	_, err := s.Register(context.Background(), def, nil, "1h", "10m", nil)
	require.ErrorIs(t, err, sdk.ErrMissingKeys)
	require.ErrorContains(t, err, "in orphan")
	require.False(t, def.Registered())
}

func TestRegisterRequiresStaleness(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("stale_less", "1 + 1")
	_, err := s.Register(context.Background(), def, []string{"user_id"}, "", "10m", nil)
	require.ErrorIs(t, err, sdk.ErrMissingStaleness)
}

func TestRegisterRequiresFreshness(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("fresh_less", "1 + 1")
	_, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "", nil)
	require.ErrorIs(t, err, sdk.ErrMissingFreshness)
}

func TestRegisterGranularitySubstitutesForFreshness(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("daily_spend", "data.amount", sdk.Returns("float"))
	require.NoError(t, def.Aggregate([]types.AggregationFunction{types.AggrSum}, "1d"))

	spec, err := s.Register(context.Background(), def, []string{"user_id"}, "30d", "", nil)
	require.NoError(t, err)
	require.True(t, spec.HasAggregation())
	require.Equal(t, types.Duration("1d"), spec.EffectiveFreshness())
	require.Equal(t,
		[]string{"default.daily_spend+sum"},
		spec.AggrFQNs(s.DefaultNamespace()))
}

func TestAggregateRejectsUnknownFunction(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("bad_aggr", "data.amount", sdk.Returns("float"))
	err := def.Aggregate([]types.AggregationFunction{types.AggrUnknown}, "1h")
	require.ErrorIs(t, err, sdk.ErrUnknownAggr)
}

func TestRegisterRejectsAggregationOverNonNumeric(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("favorite_color", "data.color", sdk.Returns("string"))
	require.NoError(t, def.Aggregate([]types.AggregationFunction{types.AggrSum}, "1h"))

	_, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "", nil)
	require.ErrorIs(t, err, sdk.ErrAggrUnsupported)
	require.ErrorContains(t, err, "sum over string")
}

func TestRegisterCountingAggregationOverString(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("colors_seen", "data.color", sdk.Returns("string"))
	require.NoError(t, def.Aggregate(
		[]types.AggregationFunction{types.AggrCount, types.AggrDistinctCount}, "1h"))

	spec, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "", nil)
	require.NoError(t, err)
	require.Len(t, spec.Aggr.Funcs, 2)
}

func TestModifierAfterRegisterFails(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("locked", "1 + 1")
	_, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)

	require.ErrorIs(t, def.Namespace("late"), sdk.ErrOptionAfterRegister)
	require.ErrorIs(t, def.DataSource("orders", ""), sdk.ErrOptionAfterRegister)
	require.ErrorIs(t, def.Builder("streaming", nil), sdk.ErrOptionAfterRegister)
	require.ErrorIs(t,
		def.Aggregate([]types.AggregationFunction{types.AggrSum}, "1h"),
		sdk.ErrOptionAfterRegister)
}

func TestStagedOptionsWinOverOptionsMap(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("spend", "1 + 1")
	require.NoError(t, def.Namespace("payments"))

	spec, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "10m",
		sdk.Options{sdk.OptionNamespace: "other"})
	require.NoError(t, err)
	require.Equal(t, "payments", spec.Namespace)
	require.Equal(t, "payments.spend", spec.FQN(s.DefaultNamespace()))
}

func TestRegisterOptionsFromMap(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("sourced", "data.amount", sdk.Returns("float"))
	spec, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "10m", sdk.Options{
		sdk.OptionDataSource: "payments.orders",
		sdk.OptionBuilder:    types.BuilderSpec{Kind: "streaming"},
	})
	require.NoError(t, err)
	require.NotNil(t, spec.DataSource)
	require.Equal(t, "orders", spec.DataSource.Name)
	require.Equal(t, "payments", spec.DataSource.Namespace)
	require.NotNil(t, spec.Builder)
	require.Equal(t, "streaming", spec.Builder.Kind)
}

func TestRegisterResolvesScopeReference(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	base := s.Define("base_amount", "data.amount", sdk.Returns("float"))
	_, err := s.Register(context.Background(), base, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)

	derived := s.Define("double_amount", "base_amount * 2", sdk.Returns("float"))
	spec, err := s.Register(context.Background(), derived, []string{"user_id"}, "1h", "10m", nil,
		sdk.WithScope(sdk.Scope{"base_amount": base}))
	require.NoError(t, err)
	prog, ok := spec.Program.(*program.Program)
	require.True(t, ok)
	require.Equal(t, []string{"default.base_amount"}, prog.Dependencies)
}

func TestRegisterResolvesThroughRegistry(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	base := s.Define("base_amount", "data.amount", sdk.Returns("float"))
	_, err := s.Register(context.Background(), base, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)

	// No scope: the registry's source-name table resolves the identifier.
	derived := s.Define("triple_amount", "base_amount * 3", sdk.Returns("float"))
	_, err = s.Register(context.Background(), derived, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)
}

func TestRegisterBareReferenceToAggregatedFails(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	agg := s.Define("daily_spend", "data.amount", sdk.Returns("float"))
	require.NoError(t, agg.Aggregate([]types.AggregationFunction{types.AggrSum}, "1d"))
	_, err := s.Register(context.Background(), agg, []string{"user_id"}, "30d", "", nil)
	require.NoError(t, err)

	bare := s.Define("bare_ref", "daily_spend * 2", sdk.Returns("float"))
	_, err = s.Register(context.Background(), bare, []string{"user_id"}, "1h", "10m", nil,
		sdk.WithScope(sdk.Scope{"daily_spend": agg}))
	require.ErrorIs(t, err, sdk.ErrAggrNeedsFQN)

	qualified := s.Define("qualified_ref", `f("default.daily_spend+sum") * 2`, sdk.Returns("float"))
	_, err = s.Register(context.Background(), qualified, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)
}

func TestRegisterUnresolvedReference(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("dangling", "nonexistent * 2", sdk.Returns("float"))
	_, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "10m", nil)
	require.ErrorIs(t, err, sdk.ErrUnresolvedReference)
	require.ErrorContains(t, err, "nonexistent")
}

func TestRegisterReplacesByFQN(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	first := s.Define("spend", "1 + 1")
	_, err := s.Register(context.Background(), first, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)

	second := s.Define("spend", "2 + 2")
	spec, err := s.Register(context.Background(), second, []string{"user_id"}, "2h", "20m", nil)
	require.NoError(t, err)

	require.Len(t, s.Registry().Features(), 1)
	got, err := s.Registry().SpecByFQN("spend")
	require.NoError(t, err)
	require.Same(t, spec, got)
	require.Equal(t, types.Duration("2h"), got.Staleness)
}

func TestRegisterManifestRenders(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("spend", "data.amount", sdk.Returns("float"), sdk.Doc("spend"))
	_, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)

	rendered, err := def.Manifest()
	require.NoError(t, err)
	require.Contains(t, rendered, "kind: Feature")
	require.Contains(t, rendered, "name: spend")

	exported, err := def.Export()
	require.NoError(t, err)
	require.Equal(t, rendered, exported)
}

func TestManifestBeforeRegisterFails(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("early", "1 + 1")
	_, err := def.Manifest()
	require.ErrorContains(t, err, "not registered")
}

func TestReplayWithCustomDefaultNamespace(t *testing.T) {
	t.Parallel()
	s := sdk.New(sdk.WithDefaultNamespace("prod"))

	base := s.Define("base_amount", "data.amount", sdk.Returns("float"))
	_, err := s.Register(context.Background(), base, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)

	dep := s.Define("plus_base", `data.amount + f("base_amount")`, sdk.Returns("float"))
	_, err = s.Register(context.Background(), dep, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)

	ts := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	keys := map[string]string{"user_id": "u1"}
	_, err = base.Replay()(context.Background(), []replay.Event{
		{Keys: keys, Timestamp: ts.Add(-time.Minute), Data: map[string]any{"amount": 40.0}},
	})
	require.NoError(t, err)

	got, err := dep.Replay()(context.Background(), []replay.Event{
		{Keys: keys, Timestamp: ts, Data: map[string]any{"amount": 2.0}},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "prod.plus_base", got[0].FQN)
	require.Equal(t, 42.0, got[0].Value)
}

func TestRegisterReplayRoundTrip(t *testing.T) {
	t.Parallel()
	s := sdk.New()

	def := s.Define("amount", "data.amount", sdk.Returns("float"))
	_, err := s.Register(context.Background(), def, []string{"user_id"}, "1h", "10m", nil)
	require.NoError(t, err)

	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	keys := map[string]string{"user_id": "u1"}
	computed, err := def.Replay()(context.Background(), []replay.Event{
		{Keys: keys, Timestamp: base, Data: map[string]any{"amount": 10.0}},
		{Keys: keys, Timestamp: base.Add(time.Minute), Data: map[string]any{"amount": 5.0}},
	})
	require.NoError(t, err)
	require.Len(t, computed, 2)
	require.Equal(t, "default.amount", computed[0].FQN)
	require.Equal(t, 10.0, computed[0].Value)
	require.Equal(t, 5.0, computed[1].Value)
}
