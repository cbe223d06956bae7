package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/errgroup"

	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
	"git.home.luguber.info/inful/rde/internal/logfields"
	"git.home.luguber.info/inful/rde/internal/site"
)

const (
	// MetricsPath exposes the build metrics when a metrics handler is configured.
	MetricsPath = "/_rde/metrics"

	shutdownTimeout = 5 * time.Second
)

// Builder produces the site served by the preview server.
type Builder interface {
	Generate(ctx context.Context) (*site.BuildReport, error)
}

// Options configures a preview Server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Output is the committed output directory to serve.
	Output string
	// Watch lists the directory trees whose changes trigger a rebuild.
	Watch []string
	// Metrics is mounted at MetricsPath when non-nil.
	Metrics  http.Handler
	Debounce time.Duration
	Logger   *slog.Logger
}

// Server builds the site, serves it and rebuilds on change.
type Server struct {
	builder Builder
	opts    Options
	hub     *Hub
	logger  *slog.Logger
}

// NewServer creates a preview server.
func NewServer(builder Builder, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Server{builder: builder, opts: opts, hub: NewHub(logger), logger: logger}
}

// Hub returns the live reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP handler serving the output directory.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(LiveReloadPath, s.hub)
	mux.HandleFunc(LiveReloadScriptPath, serveScript)
	if s.opts.Metrics != nil {
		mux.Handle(MetricsPath, s.opts.Metrics)
	}
	mux.Handle("/", gzhttp.GzipHandler(injectLiveReload(noCache(http.FileServer(http.Dir(s.opts.Output))))))
	return mux
}

// Rebuild runs one build and notifies browsers when it succeeds. A failed
// build keeps the previous output in place.
func (s *Server) Rebuild(ctx context.Context) error {
	report, err := s.builder.Generate(ctx)
	if err != nil {
		if !foundationerrors.HasCategory(err, foundationerrors.CategoryInterrupted) {
			s.logger.Warn("Rebuild failed; serving previous output", logfields.Error(err))
		}
		return err
	}
	s.hub.Broadcast(report.BuildID)
	return nil
}

// Run builds once, then serves and watches until ctx is done. A failed
// initial build is logged and the server starts anyway so a fix can be
// picked up by the watcher.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Rebuild(ctx); err != nil && ctx.Err() != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "failed to listen").
			WithContext("addr", s.opts.Addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve runs the preview loop on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	watcher, err := NewWatcher(s.logger, s.opts.Debounce, s.opts.Watch...)
	if err != nil {
		_ = ln.Close()
		return foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "failed to start watcher").Build()
	}
	defer func() { _ = watcher.Close() }()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       300 * time.Second,
	}
	s.logger.Info("Preview server listening", slog.String("url", fmt.Sprintf("http://%s", ln.Addr())))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "preview server failed").Build()
		}
		return nil
	})
	g.Go(func() error {
		watcher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		s.rebuildLoop(gctx, watcher.Changes())
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down preview server")
		s.hub.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
		}
		return nil
	})
	return g.Wait()
}

// rebuildLoop runs one rebuild at a time. Changes arriving during a rebuild
// collapse into a single follow-up because the channel holds one request.
func (s *Server) rebuildLoop(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			if ctx.Err() != nil {
				return
			}
			s.logger.Info("Change detected; rebuilding docs")
			_ = s.Rebuild(ctx)
		}
	}
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
