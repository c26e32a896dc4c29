package config

import (
	"testing"
)

// FuzzLoad tests the config loading function with random inputs
// to find panics, crashes, or unexpected behavior
func FuzzLoad(f *testing.F) {
	// Seed corpus with valid YAML examples
	f.Add([]byte(sampleConfig))

	f.Add([]byte(`
converters:
  - name: order
    class: Order
    optional: true
documents:
  - class: Order
    finders:
      - name: findByNumber
        params: [{name: number}, {name: state, default: open}]
`))

	// Fuzz with random YAML-like data
	f.Fuzz(func(t *testing.T, data []byte) {
		// Write to temp file
		tmpfile := t.TempDir() + "/fuzz_config.yaml"
		if err := WriteForTest(tmpfile, data); err != nil {
			t.Skip()
		}

		// Loading and validating should never panic
		cfg, err := Load(tmpfile)
		if err != nil {
			return
		}
		if Validate(cfg) == nil {
			_, _ = cfg.DocumentManager()
		}
	})
}
