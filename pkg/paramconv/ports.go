package paramconv

import "context"

// Outbound collaborators of the resolver.
//
// A DocumentManager is shared by every in-flight request and must be safe for
// concurrent use. The resolver only reads through it.

// Criteria maps document field names to the values a finder should match.
type Criteria map[string]any

// DocumentManager gives access to repositories and mapping metadata per class.
type DocumentManager interface {
	// Repository returns the repository for class.
	Repository(class string) (Repository, error)
	// ClassMetadata returns the mapping metadata for class. Implementations
	// return an error wrapping ErrUnknownClass when class is not mapped.
	ClassMetadata(class string) (ClassMetadata, error)
}

// Repository is the default single-document finder.
// FindOneBy returns nil, nil when no document matches.
type Repository interface {
	FindOneBy(ctx context.Context, criteria Criteria) (any, error)
}

// MethodProvider is implemented by repositories that expose named finders.
// Finders are registered with their parameter table instead of being looked
// up reflectively.
type MethodProvider interface {
	Method(name string) (Method, bool)
}

// Method is a named finder and its declared parameters.
type Method struct {
	Name string
	// Params lists the finder parameters in declaration order. It is only
	// consulted for signature binding.
	Params []Param
	// Func runs the finder with positional arguments. A finder invoked without
	// signature binding receives a single Criteria argument.
	Func func(ctx context.Context, args []any) (any, error)
}

// Param is one entry of a finder's parameter table.
type Param struct {
	Name       string
	Default    any
	HasDefault bool
}

// Required declares a parameter without a default.
func Required(name string) Param { return Param{Name: name} }

// Optional declares a parameter with a default value.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// CriteriaMethod builds a finder that takes the whole criteria as its only argument.
func CriteriaMethod(name string, fn func(ctx context.Context, criteria Criteria) (any, error)) Method {
	return Method{
		Name:   name,
		Params: []Param{Required("criteria")},
		Func: func(ctx context.Context, args []any) (any, error) {
			var c Criteria
			if len(args) > 0 {
				switch v := args[0].(type) {
				case Criteria:
					c = v
				case map[string]any:
					c = Criteria(v)
				}
			}
			return fn(ctx, c)
		},
	}
}

// ClassMetadata describes how a document class is persisted.
type ClassMetadata interface {
	// RepositoryIdentifier names the repository serving the class.
	RepositoryIdentifier() string
	// NewInstance returns a fresh, empty instance of the mapped class.
	NewInstance() any
}

// FieldDefinition describes one persisted field of a document class.
type FieldDefinition struct {
	Type string
}

// FieldDefiner is implemented by document instances that declare their
// persisted fields.
type FieldDefiner interface {
	FieldDefinitions() map[string]FieldDefinition
}
