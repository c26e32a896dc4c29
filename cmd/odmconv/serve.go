package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gopkg.in/yaml.v3"

	"github.com/bestit/odm-param-converter-bundle/internal/config"
	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
	"github.com/bestit/odm-param-converter-bundle/pkg/paramhttp"
)

const shutdownTimeout = 5 * time.Second

func (r *CommandRegistry) serveCommand(args []string, out Output) error {
	fs := r.commands["serve"].NewFlagSet(out)
	listen := fs.String("listen", "", "Listen address (overrides server.listen_addr)")
	route := fs.String("route", "", "chi route pattern (overrides server.route)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	cfg, path, err := loadConfig(positional)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Server.ListenAddr = *listen
	}
	if *route != "" {
		cfg.Server.Route = *route
	}
	if cfg.Server.Route == "" {
		return errors.New("no route configured: set server.route or pass --route")
	}

	logger := newLogger(out.Stderr, *verbose)
	resolver, err := newResolver(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddrOrDefault(),
		Handler:           newRouter(cfg, resolver, logger),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeoutOrDefault(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("serving converters", "config", path, "addr", srv.Addr, "route", cfg.Server.Route)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter mounts every configured converter on the configured route and
// answers with the resolved values as YAML.
func newRouter(cfg config.FileConfig, resolver *paramconv.Resolver, logger *slog.Logger) http.Handler {
	decls := cfg.Declarations()

	opts := []paramhttp.Option{paramhttp.WithLogger(logger)}
	if len(cfg.Server.Query) > 0 {
		opts = append(opts, paramhttp.WithQuery(cfg.Server.Query...))
	}
	if cfg.Server.PeerIDAttribute != "" {
		opts = append(opts, paramhttp.WithPeerID(cfg.Server.PeerIDAttribute))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.With(paramhttp.Middleware(resolver, decls, opts...)).Get(cfg.Server.Route, func(w http.ResponseWriter, req *http.Request) {
		attrs, _ := paramhttp.AttributesFromContext(req.Context())
		resolved := make(map[string]any, len(decls))
		for _, decl := range decls {
			if attrs != nil && attrs.Has(decl.Name) {
				resolved[decl.Name] = attrs.Get(decl.Name)
			}
		}

		data, err := yaml.Marshal(resolved)
		if err != nil {
			logger.Error("failed to encode response", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
	})

	return r
}
