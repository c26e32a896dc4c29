package paramhttp

import (
	"context"
	"net/http"

	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

// context key type (unexported) to avoid collisions with keys from other packages.
type attrsCtxKey struct{}

var attrsKey = attrsCtxKey{}

// WithAttributes attaches the attribute bag to the context.
func WithAttributes(ctx context.Context, attrs paramconv.Attributes) context.Context {
	return context.WithValue(ctx, attrsKey, attrs)
}

// AttributesFromContext returns the bag stored by Middleware.
func AttributesFromContext(ctx context.Context) (paramconv.Attributes, bool) {
	if ctx == nil {
		return nil, false
	}
	attrs, ok := ctx.Value(attrsKey).(paramconv.Attributes)
	return attrs, ok
}

// Value returns the attribute name of r converted to T.
// It reports false when the attribute is missing, nil, or of another type.
func Value[T any](r *http.Request, name string) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	attrs, ok := AttributesFromContext(r.Context())
	if !ok {
		return zero, false
	}
	v, ok := attrs.Get(name).(T)
	return v, ok
}
