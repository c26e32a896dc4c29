package paramhttp

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
	"github.com/go-chi/chi/v5"
	"github.com/spiffe/go-spiffe/v2/spiffetls"
)

// Option configures how request attributes are collected and how the
// middleware reports failures.
type Option func(*settings)

type settings struct {
	queryKeys    []string
	peerIDKey    string
	logger       *slog.Logger
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

func newSettings(opts []Option) *settings {
	s := &settings{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithQuery copies the named query parameters into the attributes, after the
// route parameters. A query parameter never overrides a route parameter.
func WithQuery(keys ...string) Option {
	return func(s *settings) {
		s.queryKeys = append(s.queryKeys, keys...)
	}
}

// WithPeerID stores the verified SPIFFE ID of the mTLS peer under key.
//
// SECURITY: the ID is read from r.TLS as-is. Only enable this behind a server
// whose tls.Config verifies client SVIDs (go-spiffe tlsconfig.MTLSServerConfig).
func WithPeerID(key string) Option {
	return func(s *settings) {
		s.peerIDKey = key
	}
}

// WithLogger sets the logger used by the middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(s *settings) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// AttributesFromRequest builds the attribute bag for r.
//
// Route parameters come first in route order (later segments of mounted
// sub-routers override earlier ones with the same name), followed by the
// query parameters and peer ID selected through opts.
func AttributesFromRequest(r *http.Request, opts ...Option) *paramconv.Bag {
	return collectAttributes(r, newSettings(opts))
}

func collectAttributes(r *http.Request, s *settings) *paramconv.Bag {
	bag := paramconv.NewBag()
	if r == nil {
		return bag
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "" || key == "*" || i >= len(rctx.URLParams.Values) {
				continue
			}
			bag.Set(key, rctx.URLParams.Values[i])
		}
	}

	if len(s.queryKeys) > 0 && r.URL != nil {
		query := r.URL.Query()
		for _, key := range s.queryKeys {
			if bag.Has(key) || !query.Has(key) {
				continue
			}
			bag.Set(key, query.Get(key))
		}
	}

	if s.peerIDKey != "" {
		if id, ok := PeerID(r); ok {
			bag.Set(s.peerIDKey, id)
		}
	}

	return bag
}

// PeerID returns the SPIFFE ID of the mTLS peer of r.
// It reports false when r has no TLS state or the peer certificate carries no
// SPIFFE ID.
func PeerID(r *http.Request) (string, bool) {
	if r == nil || r.TLS == nil {
		return "", false
	}
	id, err := spiffetls.PeerIDFromConnectionState(*r.TLS)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
