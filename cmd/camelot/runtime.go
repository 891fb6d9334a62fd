package main

import (
	"fmt"

	"camelot/internal/config"
	"camelot/internal/logging"
	"camelot/internal/mood"

	"github.com/spf13/cobra"
)

// runtimeEnv is what every command builds before doing work. It is created
// per invocation and passed down explicitly.
type runtimeEnv struct {
	cfg      config.Config
	registry *mood.Registry
}

// setup loads configuration (defaults, file, env, then flags), configures
// logging on the command's stderr and loads the mood graph.
func setup(cmd *cobra.Command, requireCredentials bool) (*runtimeEnv, error) {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	if rootFlags.graph != "" {
		cfg.Graph = rootFlags.graph
	}
	if rootFlags.logLevel != "" {
		cfg.Log.Level = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		cfg.Log.Format = rootFlags.logFormat
	}
	if err := cfg.Validate(requireCredentials); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.Init(level, cfg.Log.Format, cmd.ErrOrStderr())

	reg, err := loadRegistry(cfg.Graph)
	if err != nil {
		return nil, err
	}
	return &runtimeEnv{cfg: cfg, registry: reg}, nil
}

func loadRegistry(path string) (*mood.Registry, error) {
	if path == "" {
		return mood.DefaultRegistry()
	}
	reg, err := mood.LoadRegistryFile(path)
	if err != nil {
		return nil, fmt.Errorf("load mood graph: %w", err)
	}
	logging.New("cli").Debug("loaded mood graph", "path", path, "graph", reg.Name(), "moods", reg.Len())
	return reg, nil
}
