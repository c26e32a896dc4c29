package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

// Validate checks a configuration file.
//
// Ensures:
//   - Version is unset or CurrentVersion
//   - Document classes are non-empty and unique; finder names and parameter
//     names are unique per class
//   - Converter names are non-empty and unique, classes are declared under
//     documents, options parse, and repository_method names a declared finder
//   - server.read_header_timeout, when set, is a positive duration
//
// All problems are reported together.
func Validate(cfg FileConfig) error {
	var errs []error

	if cfg.Version != 0 && cfg.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported version %d (expected %d)", cfg.Version, CurrentVersion))
	}

	finders := make(map[string]map[string]struct{}, len(cfg.Documents))
	for i, doc := range cfg.Documents {
		if doc.Class == "" {
			errs = append(errs, fmt.Errorf("documents[%d].class must be set", i))
			continue
		}
		if _, dup := finders[doc.Class]; dup {
			errs = append(errs, fmt.Errorf("documents[%d]: class %s declared twice", i, doc.Class))
			continue
		}
		names := make(map[string]struct{}, len(doc.Finders))
		for j, f := range doc.Finders {
			if f.Name == "" {
				errs = append(errs, fmt.Errorf("documents[%d].finders[%d].name must be set", i, j))
				continue
			}
			if _, dup := names[f.Name]; dup {
				errs = append(errs, fmt.Errorf("documents[%d]: finder %s declared twice", i, f.Name))
			}
			names[f.Name] = struct{}{}
			if err := validateParams(f.Params); err != nil {
				errs = append(errs, fmt.Errorf("documents[%d].finders[%d]: %w", i, j, err))
			}
		}
		finders[doc.Class] = names
	}

	seen := make(map[string]struct{}, len(cfg.Converters))
	for i, c := range cfg.Converters {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("converters[%d].name must be set", i))
		} else if _, dup := seen[c.Name]; dup {
			errs = append(errs, fmt.Errorf("converters[%d]: name %s declared twice", i, c.Name))
		}
		seen[c.Name] = struct{}{}

		if c.Class == "" {
			errs = append(errs, fmt.Errorf("converters[%d].class must be set", i))
			continue
		}
		classFinders, declared := finders[c.Class]
		if !declared {
			errs = append(errs, fmt.Errorf("converters[%d]: class %s is not declared under documents", i, c.Class))
		}

		opts, err := paramconv.ParseOptions(c.Options)
		if err != nil {
			errs = append(errs, fmt.Errorf("converters[%d].options: %w", i, err))
			continue
		}
		if declared && opts.RepositoryMethod != "" {
			if _, ok := classFinders[opts.RepositoryMethod]; !ok {
				errs = append(errs, fmt.Errorf("converters[%d]: class %s has no finder %s", i, c.Class, opts.RepositoryMethod))
			}
		}
	}

	if cfg.Server.ReadHeaderTimeout != "" {
		if _, err := parseDuration(cfg.Server.ReadHeaderTimeout); err != nil {
			errs = append(errs, fmt.Errorf("server.read_header_timeout: %w", err))
		}
	}

	return errors.Join(errs...)
}

func validateParams(params []ParamSection) error {
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if p.Name == "" {
			return errors.New("parameter name must be set")
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", s)
	}
	return d, nil
}
