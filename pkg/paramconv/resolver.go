// Package paramconv resolves documents from request attributes and stores them
// back into the request for downstream handlers.
//
// A Declaration names the target class, the attribute to store the result
// under, and options controlling the lookup. The Resolver first tries the
// identifier strategy (the attribute named by the id option, "id" by default),
// then the criteria strategy (request attributes mapped onto known document
// fields). A declaration marked optional tolerates a miss.
//
// Usage:
//
//	r := paramconv.New(documentManager, paramconv.WithLogger(logger))
//	decl := paramconv.Declaration{
//	    Name:    "user",
//	    Class:   "User",
//	    Options: map[string]any{"id": "userId"},
//	}
//	if r.Supports(decl) {
//	    if err := r.Apply(ctx, attrs, decl); err != nil {
//	        // errors.Is(err, paramconv.ErrNotFound) -> 404
//	    }
//	}
package paramconv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/bestit/odm-param-converter-bundle/internal/assert"
)

// Resolver converts request attributes into documents fetched through a
// DocumentManager. It holds no per-request state and may be shared.
type Resolver struct {
	dm     DocumentManager
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug traces of the resolution chain.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a Resolver backed by dm.
func New(dm DocumentManager, opts ...Option) *Resolver {
	r := &Resolver{
		dm:     dm,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supports reports whether decl targets a mapped class with a repository.
// Lookup failures are treated as unsupported.
func (r *Resolver) Supports(decl Declaration) bool {
	if decl.Class == "" {
		return false
	}

	meta, err := r.dm.ClassMetadata(decl.Class)
	if err != nil {
		r.logger.Debug("class metadata lookup failed", "class", decl.Class, "error", err)
		return false
	}
	if isNil(meta) {
		return false
	}

	return meta.RepositoryIdentifier() != ""
}

// Apply resolves decl against attrs and stores the value under decl.Name.
//
// Nothing is stored when an error is returned. An optional declaration that
// resolves nothing stores nil.
func (r *Resolver) Apply(ctx context.Context, attrs Attributes, decl Declaration) error {
	value, err := r.Resolve(ctx, attrs, decl)
	if err != nil {
		return err
	}
	attrs.Set(decl.Name, value)
	assert.Invariant(attrs.Has(decl.Name), "attribute "+decl.Name+" missing after apply")
	return nil
}

// Resolve runs the identifier strategy, then the criteria strategy, and
// returns the resolved value without storing it.
func (r *Resolver) Resolve(ctx context.Context, attrs Attributes, decl Declaration) (any, error) {
	opts, err := ParseOptions(decl.Options)
	if err != nil {
		return nil, fmt.Errorf("declaration %q: %w", decl.Name, err)
	}

	res, err := r.findByIdentifier(ctx, attrs, opts, decl.Class)
	if err == nil && !res.Applicable() {
		res, err = r.findByCriteria(ctx, attrs, opts, decl.Class)
	}
	if err != nil {
		var respErr *ResponseError
		if errors.As(err, &respErr) {
			return nil, &NotFoundError{Class: decl.Class, Code: respErr.Code, Err: err}
		}
		return nil, err
	}

	r.logger.Debug("resolved declaration", "name", decl.Name, "class", decl.Class, "result", res.String())

	if !res.Applicable() {
		if decl.Optional {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: class %s, declaration %q", ErrGuessFailure, decl.Class, decl.Name)
	}

	value, ok := res.Value()
	if !ok && !decl.Optional {
		return nil, &NotFoundError{Class: decl.Class}
	}
	return value, nil
}

// KnownFields returns the persisted field names of class, read from a fresh
// instance of the mapped class.
func (r *Resolver) KnownFields(class string) ([]string, error) {
	meta, err := r.dm.ClassMetadata(class)
	if err != nil {
		return nil, err
	}
	if isNil(meta) {
		return nil, nil
	}
	return FieldsOf(meta.NewInstance()), nil
}

func (r *Resolver) findByIdentifier(ctx context.Context, attrs Attributes, opts Options, class string) (Result, error) {
	primaryKey := opts.PrimaryKey()
	if !attrs.Has(primaryKey) {
		return NotApplicable(), nil
	}

	criteria := Criteria{DefaultPrimaryKey: attrs.Get(primaryKey)}
	repo, err := r.dm.Repository(class)
	if err != nil {
		return NotApplicable(), err
	}

	r.logger.Debug("finding by identifier", "class", class, "attribute", primaryKey, "method", opts.RepositoryMethod)
	return r.find(ctx, repo, opts, criteria)
}

func (r *Resolver) findByCriteria(ctx context.Context, attrs Attributes, opts Options, class string) (Result, error) {
	if opts.Mapping == nil {
		opts.Mapping = identityMapping(attrs)
	}

	// An explicit id without a value must not fall back to a criteria search
	// that could match another document.
	if opts.ID != "" && attrs.Get(opts.ID) == nil {
		return NotApplicable(), nil
	}

	knownFields, err := r.KnownFields(class)
	if err != nil {
		return NotApplicable(), err
	}
	criteria := ResolveMapping(attrs, opts, knownFields)

	repo, err := r.dm.Repository(class)
	if err != nil {
		return NotApplicable(), err
	}

	r.logger.Debug("finding by criteria", "class", class, "fields", len(criteria), "method", opts.RepositoryMethod)
	return r.find(ctx, repo, opts, criteria)
}

// find dispatches to the configured finder: signature bound, criteria
// argument, or FindOneBy.
func (r *Resolver) find(ctx context.Context, repo Repository, opts Options, criteria Criteria) (Result, error) {
	var (
		value any
		err   error
	)
	switch {
	case opts.RepositoryMethod != "" && opts.MapMethodSignature:
		value, err = BindBySignature(ctx, repo, opts.RepositoryMethod, criteria)
	case opts.RepositoryMethod != "":
		value, err = callMethod(ctx, repo, opts.RepositoryMethod, criteria)
	default:
		value, err = repo.FindOneBy(ctx, criteria)
	}
	if err != nil {
		return NotApplicable(), err
	}
	if isNil(value) {
		return FoundNothing(), nil
	}
	return Found(value), nil
}

// isNil also catches typed nils stored in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
