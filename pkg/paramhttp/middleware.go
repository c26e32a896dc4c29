// Package paramhttp plugs a paramconv resolver into net/http and chi.
//
// The middleware turns the matched route parameters (plus optional query
// parameters and the mTLS peer ID) into a paramconv attribute bag, applies
// every supported declaration to it, and stores the bag in the request
// context for the handler:
//
//	r := chi.NewRouter()
//	r.With(paramhttp.Middleware(resolver, []paramconv.Declaration{
//	    {Name: "user", Class: "User", Options: map[string]any{"id": "userID"}},
//	})).Get("/users/{userID}", func(w http.ResponseWriter, req *http.Request) {
//	    user, _ := paramhttp.Value[*User](req, "user")
//	    fmt.Fprintf(w, "Hello %s\n", user.Name)
//	})
//
// Route parameters are only known after chi matched the route, so install the
// middleware with Router.With, inside Router.Route/Group, or on a sub-router,
// not with Use on the top-level router.
package paramhttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

// Converter is the part of *paramconv.Resolver the middleware needs.
type Converter interface {
	Supports(decl paramconv.Declaration) bool
	Apply(ctx context.Context, attrs paramconv.Attributes, decl paramconv.Declaration) error
}

var _ Converter = (*paramconv.Resolver)(nil)

// Middleware applies decls to every request in order.
//
// Declarations the converter does not support are skipped. The first failing
// declaration aborts the request through the error handler (DefaultErrorHandler
// unless WithErrorHandler is given). When an outer paramhttp middleware already
// stored a bag in the context, that bag is reused so earlier results stay
// visible, and route parameters bound since then are added to it.
func Middleware(conv Converter, decls []paramconv.Declaration, opts ...Option) func(http.Handler) http.Handler {
	s := newSettings(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attrs, ok := AttributesFromContext(r.Context())
			if ok {
				mergeAttributes(attrs, collectAttributes(r, s))
			} else {
				attrs = collectAttributes(r, s)
			}

			for _, decl := range decls {
				if !conv.Supports(decl) {
					s.logger.Debug("skipping unsupported declaration", "name", decl.Name, "class", decl.Class)
					continue
				}
				if err := conv.Apply(r.Context(), attrs, decl); err != nil {
					s.logger.Warn("parameter conversion failed",
						"name", decl.Name,
						"class", decl.Class,
						"path", r.URL.Path,
						"error", err,
					)
					s.errorHandler(w, r, err)
					return
				}
			}

			ctx := WithAttributes(r.Context(), attrs)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// mergeAttributes sets every key of from that attrs does not have yet.
func mergeAttributes(attrs paramconv.Attributes, from *paramconv.Bag) {
	for _, key := range from.Keys() {
		if !attrs.Has(key) {
			attrs.Set(key, from.Get(key))
		}
	}
}

// StatusCode maps a conversion error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, paramconv.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// DefaultErrorHandler writes the status from StatusCode. Only not-found errors
// expose their message; everything else is a server-side configuration or
// repository failure.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status := StatusCode(err)
	if status == http.StatusNotFound {
		http.Error(w, err.Error(), status)
		return
	}
	http.Error(w, http.StatusText(status), status)
}
