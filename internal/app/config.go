package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DefsPath string // .hcl definition files
	OutPath  string // manifest output directory

	LogFormat        string
	LogLevel         string
	DefaultNamespace string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.DefsPath == "" {
		return nil, errors.New("DefsPath is a required configuration field and cannot be empty")
	}
	if cfg.OutPath == "" {
		return nil, errors.New("OutPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
