package config

import (
	"strings"
	"testing"
)

func validBase() FileConfig {
	return FileConfig{
		Version: 1,
		Converters: []ConverterSection{
			{Name: "user", Class: "User", Options: map[string]any{"id": "userId"}},
		},
		Documents: []DocumentSection{
			{
				Class:      "User",
				Repository: "UserRepository",
				Finders:    []FinderSection{{Name: "findBySlug", Params: []ParamSection{{Name: "slug"}}}},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FileConfig)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(*FileConfig) {},
			wantErr: false,
		},
		{
			name:    "version omitted",
			mutate:  func(c *FileConfig) { c.Version = 0 },
			wantErr: false,
		},
		{
			name:    "unsupported version",
			mutate:  func(c *FileConfig) { c.Version = 2 },
			wantErr: true,
			errMsg:  "unsupported version 2",
		},
		{
			name:    "converter without name",
			mutate:  func(c *FileConfig) { c.Converters[0].Name = "" },
			wantErr: true,
			errMsg:  "converters[0].name must be set",
		},
		{
			name: "duplicate converter",
			mutate: func(c *FileConfig) {
				c.Converters = append(c.Converters, c.Converters[0])
			},
			wantErr: true,
			errMsg:  "name user declared twice",
		},
		{
			name:    "converter without class",
			mutate:  func(c *FileConfig) { c.Converters[0].Class = "" },
			wantErr: true,
			errMsg:  "converters[0].class must be set",
		},
		{
			name:    "undeclared class",
			mutate:  func(c *FileConfig) { c.Converters[0].Class = "Order" },
			wantErr: true,
			errMsg:  "class Order is not declared",
		},
		{
			name:    "invalid options",
			mutate:  func(c *FileConfig) { c.Converters[0].Options = map[string]any{"mapping": "slug"} },
			wantErr: true,
			errMsg:  "converters[0].options",
		},
		{
			name: "repository method declared",
			mutate: func(c *FileConfig) {
				c.Converters[0].Options = map[string]any{"repository_method": "findBySlug"}
			},
			wantErr: false,
		},
		{
			name: "repository method not declared",
			mutate: func(c *FileConfig) {
				c.Converters[0].Options = map[string]any{"repository_method": "findByEmail"}
			},
			wantErr: true,
			errMsg:  "has no finder findByEmail",
		},
		{
			name:    "document without class",
			mutate:  func(c *FileConfig) { c.Documents = append(c.Documents, DocumentSection{}) },
			wantErr: true,
			errMsg:  "documents[1].class must be set",
		},
		{
			name:    "duplicate document",
			mutate:  func(c *FileConfig) { c.Documents = append(c.Documents, DocumentSection{Class: "User"}) },
			wantErr: true,
			errMsg:  "class User declared twice",
		},
		{
			name: "duplicate finder",
			mutate: func(c *FileConfig) {
				c.Documents[0].Finders = append(c.Documents[0].Finders, FinderSection{Name: "findBySlug"})
			},
			wantErr: true,
			errMsg:  "finder findBySlug declared twice",
		},
		{
			name: "finder without name",
			mutate: func(c *FileConfig) {
				c.Documents[0].Finders = append(c.Documents[0].Finders, FinderSection{})
			},
			wantErr: true,
			errMsg:  "finders[1].name must be set",
		},
		{
			name: "duplicate finder parameter",
			mutate: func(c *FileConfig) {
				c.Documents[0].Finders[0].Params = []ParamSection{{Name: "slug"}, {Name: "slug"}}
			},
			wantErr: true,
			errMsg:  `duplicate parameter "slug"`,
		},
		{
			name:    "invalid read header timeout",
			mutate:  func(c *FileConfig) { c.Server.ReadHeaderTimeout = "-5s" },
			wantErr: true,
			errMsg:  "server.read_header_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.mutate(&cfg)

			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := FileConfig{
		Version:    3,
		Converters: []ConverterSection{{}, {Name: "x", Class: "Missing"}},
	}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"unsupported version 3", "converters[0].name", "converters[0].class", "class Missing"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %v, want it to mention %q", err, want)
		}
	}
}
