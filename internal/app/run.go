package app

import (
	"context"
	"fmt"

	"github.com/featuregrid/featuregrid/internal/ctxlog"
	"github.com/featuregrid/featuregrid/manifest"
	"github.com/featuregrid/featuregrid/model"
)

// Run executes the main application logic based on the provided
// configuration: load the definition files, register everything through the
// SDK, and write one manifest per registered spec to the output directory.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	defs, err := model.LoadDir(ctx, cfg.DefsPath)
	if err != nil {
		return fmt.Errorf("failed to load definitions: %w", err)
	}
	if err := model.Apply(ctx, a.sdk, defs); err != nil {
		return fmt.Errorf("failed to register definitions: %w", err)
	}

	reg := a.sdk.Registry()
	features := reg.Features()
	sets := reg.Sets()
	a.logger.Info("Definitions registered.",
		"features", len(features), "feature_sets", len(sets), "exported", len(reg.Exports()))

	written := 0
	for _, spec := range features {
		rendered, err := manifest.Feature(spec, a.sdk.DefaultNamespace())
		if err != nil {
			return err
		}
		path, err := manifest.WriteFile(cfg.OutPath, spec.FQN(a.sdk.DefaultNamespace()), "Feature", rendered)
		if err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		a.logger.Debug("Wrote feature manifest.", "path", path)
		written++
	}
	for _, spec := range sets {
		rendered, err := manifest.FeatureSet(spec, a.sdk.DefaultNamespace())
		if err != nil {
			return err
		}
		path, err := manifest.WriteFile(cfg.OutPath, spec.FQN(a.sdk.DefaultNamespace()), "FeatureSet", rendered)
		if err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		a.logger.Debug("Wrote feature set manifest.", "path", path)
		written++
	}

	a.logger.Info("Manifests written.", "count", written, "path", cfg.OutPath)
	a.logger.Debug("App.Run method finished.")
	return nil
}
