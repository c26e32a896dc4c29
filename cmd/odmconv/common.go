package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/bestit/odm-param-converter-bundle/internal/config"
	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

// loadConfig resolves the config path (argument or ODMCONV_CONFIG), loads
// and validates it.
func loadConfig(positional []string) (config.FileConfig, string, error) {
	var arg string
	if len(positional) > 0 {
		arg = positional[0]
	}
	path, err := config.ResolvePath(arg)
	if err != nil {
		return config.FileConfig{}, "", err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.FileConfig{}, path, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return config.FileConfig{}, path, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

// newResolver builds the in-memory document manager and resolver for cfg.
func newResolver(cfg config.FileConfig, logger *slog.Logger) (*paramconv.Resolver, error) {
	dm, err := cfg.DocumentManager()
	if err != nil {
		return nil, fmt.Errorf("failed to build document manager: %w", err)
	}
	return paramconv.New(dm, paramconv.WithLogger(logger)), nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
