package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the default config path.
const EnvConfigPath = "ODMCONV_CONFIG"

// Load reads and parses an odmconv configuration file, then applies
// environment overrides.
func Load(path string) (FileConfig, error) {
	// Clean the path to prevent directory traversal attacks
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - Config file path is trusted (from admin/user)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return FileConfig{}, err
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("invalid environment override: %w", err)
	}
	return cfg, nil
}

// Parse decodes a configuration document. Unknown keys are rejected outside
// converter options.
func Parse(data []byte) (FileConfig, error) {
	var cfg FileConfig

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ResolvePath returns path, or the value of ODMCONV_CONFIG when path is empty.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("%s environment variable not set; pass a config file path", EnvConfigPath)
}

// applyEnvOverrides overrides server values with environment variables if set.
func applyEnvOverrides(cfg *FileConfig) error {
	if addr := os.Getenv("ODMCONV_LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if route := os.Getenv("ODMCONV_ROUTE"); route != "" {
		cfg.Server.Route = route
	}
	if timeout := os.Getenv("ODMCONV_READ_HEADER_TIMEOUT"); timeout != "" {
		if _, err := parseDuration(timeout); err != nil {
			return fmt.Errorf("ODMCONV_READ_HEADER_TIMEOUT %q: %w", timeout, err)
		}
		cfg.Server.ReadHeaderTimeout = timeout
	}
	return nil
}
