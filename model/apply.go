package model

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/featuregrid/featuregrid/internal/ctxlog"
	"github.com/featuregrid/featuregrid/internal/hclutil"
	"github.com/featuregrid/featuregrid/sdk"
	"github.com/featuregrid/featuregrid/types"
)

// Apply drives every loaded definition through the registration pipeline,
// file by file, features before sets within each file. Later files may
// reference features registered by earlier ones.
func Apply(ctx context.Context, s *sdk.SDK, defs *Definitions) error {
	logger := ctxlog.FromContext(ctx)

	for _, file := range defs.Files {
		for _, f := range file.Features {
			if err := applyFeature(ctx, s, f); err != nil {
				return fmt.Errorf("applying %s: %w", file.Path, err)
			}
		}
		for _, set := range file.Sets {
			if err := applySet(ctx, s, set); err != nil {
				return fmt.Errorf("applying %s: %w", file.Path, err)
			}
		}
		logger.Debug("applied definition file", "path", file.Path,
			"features", len(file.Features), "sets", len(file.Sets))
	}
	return nil
}

func applyFeature(ctx context.Context, s *sdk.SDK, f *hclFeature) error {
	var defineOpts []sdk.DefineOption
	if f.Description != "" {
		defineOpts = append(defineOpts, sdk.Doc(f.Description))
	}
	if f.Returns != "" {
		defineOpts = append(defineOpts, sdk.Returns(f.Returns))
	}
	def := s.Define(f.Name, f.Expr, defineOpts...)

	if f.Namespace != "" {
		if err := def.Namespace(f.Namespace); err != nil {
			return err
		}
	}
	if f.DataSource != "" {
		if err := def.DataSource(f.DataSource, ""); err != nil {
			return err
		}
	}
	if f.Aggregation != nil {
		funcs := make([]types.AggregationFunction, 0, len(f.Aggregation.Funcs))
		for _, name := range f.Aggregation.Funcs {
			fn, err := types.ParseAggregationFunction(name)
			if err != nil {
				return fmt.Errorf("in %s: %w", f.Name, err)
			}
			funcs = append(funcs, fn)
		}
		if err := def.Aggregate(funcs, f.Aggregation.Granularity); err != nil {
			return err
		}
	}
	if f.Builder != nil {
		options, err := builderOptions(f.Builder.Body)
		if err != nil {
			return fmt.Errorf("in %s: %w", f.Name, err)
		}
		if err := def.Builder(f.Builder.Kind, options); err != nil {
			return err
		}
	}

	_, err := s.Register(ctx, def, f.Keys, f.Staleness, f.Freshness, nil)
	return err
}

func applySet(ctx context.Context, s *sdk.SDK, set *hclFeatureSet) error {
	var defineOpts []sdk.DefineOption
	if set.Description != "" {
		defineOpts = append(defineOpts, sdk.Doc(set.Description))
	}
	members := set.Features
	sd := s.DefineSet(set.Name, func() []string { return members }, defineOpts...)

	options := sdk.Options{}
	if set.Timeout != "" {
		options[sdk.OptionTimeout] = set.Timeout
	}
	if set.KeyFeature != "" {
		options[sdk.OptionKeyFeature] = set.KeyFeature
	}
	if set.Namespace != "" {
		options[sdk.OptionNamespace] = set.Namespace
	}

	_, err := s.RegisterSet(ctx, sd, set.Register, options)
	return err
}

// builderOptions evaluates the builder block's free-form attributes into an
// option map. Attribute values must be statically known.
func builderOptions(body hcl.Body) (map[string]any, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid builder options: %w", diags)
	}
	if len(attrs) == 0 {
		return nil, nil
	}

	options := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("builder option %q: %w", name, diags)
		}
		goVal, err := hclutil.FromCty(val)
		if err != nil {
			return nil, fmt.Errorf("builder option %q: %w", name, err)
		}
		options[name] = goVal
	}
	return options, nil
}
