package paramconv

import (
	"fmt"
	"sort"
)

// Recognized option keys. Any other key in Declaration.Options is ignored.
const (
	OptionID                 = "id"
	OptionMapping            = "mapping"
	OptionRepositoryMethod   = "repository_method"
	OptionMapMethodSignature = "map_method_signature"
)

// DefaultPrimaryKey is the request attribute the identifier strategy reads
// when the id option is not set.
const DefaultPrimaryKey = "id"

// Declaration describes one request-to-document binding.
type Declaration struct {
	// Name is the attribute key the resolved value is stored under.
	Name string
	// Class identifies the mapped document class.
	Class string
	// Options holds the raw converter options (id, mapping, repository_method,
	// map_method_signature).
	Options map[string]any
	// Optional tolerates a miss by storing nil instead of failing.
	Optional bool
}

// Options is the typed view of Declaration.Options.
type Options struct {
	// ID is the request attribute holding the primary key. Empty when unset;
	// ParseOptions rejects an explicit empty id.
	ID string
	// Mapping maps request attribute names to document field names.
	// Nil when the option is unset, which means identity over the request keys.
	Mapping map[string]string
	// RepositoryMethod names a registered finder used instead of FindOneBy.
	RepositoryMethod string
	// MapMethodSignature binds the criteria to the finder's parameters by name.
	MapMethodSignature bool
}

// PrimaryKey returns the request attribute the identifier strategy reads.
func (o Options) PrimaryKey() string {
	if o.ID != "" {
		return o.ID
	}
	return DefaultPrimaryKey
}

// ParseOptions converts raw declaration options into Options.
// It never modifies raw.
func ParseOptions(raw map[string]any) (Options, error) {
	var opts Options

	if v, ok := raw[OptionID]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return Options{}, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidOption, OptionID, v)
		}
		if s == "" {
			return Options{}, fmt.Errorf("%w: %s must not be empty", ErrInvalidOption, OptionID)
		}
		opts.ID = s
	}

	if v, ok := raw[OptionMapping]; ok && v != nil {
		m, err := toStringMap(v)
		if err != nil {
			return Options{}, fmt.Errorf("%w: %s: %v", ErrInvalidOption, OptionMapping, err)
		}
		opts.Mapping = m
	}

	if v, ok := raw[OptionRepositoryMethod]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return Options{}, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidOption, OptionRepositoryMethod, v)
		}
		opts.RepositoryMethod = s
	}

	if v, ok := raw[OptionMapMethodSignature]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return Options{}, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidOption, OptionMapMethodSignature, v)
		}
		opts.MapMethodSignature = b
	}

	return opts, nil
}

// toStringMap accepts map[string]string as well as the map[string]any shape
// produced by YAML and JSON decoders.
func toStringMap(v any) (map[string]string, error) {
	switch m := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, f := range m {
			out[k] = f
		}
		return out, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, f := range m {
			s, ok := f.(string)
			if !ok {
				return nil, fmt.Errorf("field for attribute %q must be a string, got %T", k, f)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a map of attribute to field, got %T", v)
	}
}

// mappingPairs returns the mapping as attribute/field pairs sorted by attribute
// so that resolution and logging are deterministic.
func mappingPairs(m map[string]string) [][2]string {
	pairs := make([][2]string, 0, len(m))
	for attr, field := range m {
		pairs = append(pairs, [2]string{attr, field})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })
	return pairs
}
