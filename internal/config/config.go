package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only config file format version understood today.
const CurrentVersion = 1

// FileConfig represents an odmconv configuration file.
//
// The config format is versioned to support future evolution without breaking changes.
type FileConfig struct {
	// Version is the config file format version (optional, currently always 1).
	Version int `yaml:"version,omitempty"`

	Server     ServerSection      `yaml:"server"`
	Converters []ConverterSection `yaml:"converters"`
	Documents  []DocumentSection  `yaml:"documents"`
}

// ServerSection configures the demo HTTP server of `odmconv serve`.
type ServerSection struct {
	// ListenAddr defaults to ":8080".
	ListenAddr string `yaml:"listen_addr"`

	// Route is the chi route pattern the converters are mounted on.
	// Example: "/users/{userId}"
	Route string `yaml:"route"`

	// ReadHeaderTimeout uses Go duration format ("5s", "1m").
	// If not set, defaults to 10 seconds.
	ReadHeaderTimeout string `yaml:"read_header_timeout"`

	// Query lists query parameters copied into the request attributes.
	Query []string `yaml:"query"`

	// PeerIDAttribute, when set, stores the mTLS peer SPIFFE ID under this
	// attribute name.
	PeerIDAttribute string `yaml:"peer_id_attribute"`
}

// ConverterSection declares one parameter conversion.
type ConverterSection struct {
	Name     string         `yaml:"name"`
	Class    string         `yaml:"class"`
	Optional bool           `yaml:"optional"`
	Options  map[string]any `yaml:"options"`
}

// DocumentSection declares one mapped class of the in-memory document layer.
type DocumentSection struct {
	Class      string           `yaml:"class"`
	Repository string           `yaml:"repository"`
	Fields     []string         `yaml:"fields"`
	Finders    []FinderSection  `yaml:"finders"`
	Records    []map[string]any `yaml:"records"`
}

// FinderSection declares a named repository finder.
type FinderSection struct {
	Name   string         `yaml:"name"`
	Params []ParamSection `yaml:"params"`
	Many   bool           `yaml:"many"`
}

// ParamSection is one finder parameter. A parameter with a `default` key is
// optional, even when the default is null.
type ParamSection struct {
	Name       string
	Default    any
	HasDefault bool
}

// UnmarshalYAML accepts either a bare parameter name or a mapping with
// `name` and an optional `default`.
func (p *ParamSection) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&p.Name)
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: finder parameter must be a name or a mapping", node.Line)
	}

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	for key := range raw {
		if key != "name" && key != "default" {
			return fmt.Errorf("line %d: unknown finder parameter key %q", node.Line, key)
		}
	}

	name, ok := raw["name"].(string)
	if !ok {
		return fmt.Errorf("line %d: finder parameter name must be a string", node.Line)
	}
	p.Name = name
	p.Default, p.HasDefault = raw["default"]
	return nil
}
