package config

import (
	"time"

	"github.com/bestit/odm-param-converter-bundle/internal/adapters/outbound/inmemory"
	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

// Defaults for the server section.
const (
	DefaultListenAddr        = ":8080"
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Declarations converts the converters section, in file order.
func (c FileConfig) Declarations() []paramconv.Declaration {
	decls := make([]paramconv.Declaration, 0, len(c.Converters))
	for _, conv := range c.Converters {
		decls = append(decls, conv.Declaration())
	}
	return decls
}

// Declaration converts one converter section.
func (c ConverterSection) Declaration() paramconv.Declaration {
	return paramconv.Declaration{
		Name:     c.Name,
		Class:    c.Class,
		Options:  c.Options,
		Optional: c.Optional,
	}
}

// Converter returns the converter named name.
func (c FileConfig) Converter(name string) (ConverterSection, bool) {
	for _, conv := range c.Converters {
		if conv.Name == name {
			return conv, true
		}
	}
	return ConverterSection{}, false
}

// ClassSpecs converts the documents section into in-memory class specs.
func (c FileConfig) ClassSpecs() []inmemory.ClassSpec {
	specs := make([]inmemory.ClassSpec, 0, len(c.Documents))
	for _, doc := range c.Documents {
		spec := inmemory.ClassSpec{
			Class:      doc.Class,
			Repository: doc.Repository,
			Fields:     append([]string(nil), doc.Fields...),
		}
		for _, rec := range doc.Records {
			spec.Records = append(spec.Records, inmemory.Record(rec))
		}
		for _, f := range doc.Finders {
			finder := inmemory.FinderSpec{Name: f.Name, Many: f.Many}
			for _, p := range f.Params {
				finder.Params = append(finder.Params, paramconv.Param{
					Name:       p.Name,
					Default:    p.Default,
					HasDefault: p.HasDefault,
				})
			}
			spec.Finders = append(spec.Finders, finder)
		}
		specs = append(specs, spec)
	}
	return specs
}

// DocumentManager builds a sealed in-memory document manager from the
// documents section.
func (c FileConfig) DocumentManager() (*inmemory.DocumentManager, error) {
	dm := inmemory.NewDocumentManager()
	for _, spec := range c.ClassSpecs() {
		if err := dm.Register(spec); err != nil {
			return nil, err
		}
	}
	dm.Seal()
	return dm, nil
}

// ListenAddrOrDefault returns server.listen_addr or DefaultListenAddr.
func (s ServerSection) ListenAddrOrDefault() string {
	if s.ListenAddr == "" {
		return DefaultListenAddr
	}
	return s.ListenAddr
}

// ReadHeaderTimeoutOrDefault returns server.read_header_timeout parsed, or
// DefaultReadHeaderTimeout when unset or invalid. Validate reports invalid values.
func (s ServerSection) ReadHeaderTimeoutOrDefault() time.Duration {
	if s.ReadHeaderTimeout == "" {
		return DefaultReadHeaderTimeout
	}
	d, err := parseDuration(s.ReadHeaderTimeout)
	if err != nil {
		return DefaultReadHeaderTimeout
	}
	return d
}
