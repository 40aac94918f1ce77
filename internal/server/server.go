package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nao1215/wordrank/internal/analysis"
	"github.com/nao1215/wordrank/internal/database"
	"github.com/nao1215/wordrank/internal/model"
	"github.com/nao1215/wordrank/internal/pipeline"
)

// DefaultTop is the number of ranked words shown on the result page.
const DefaultTop = 20

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 5 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

// Store is the persistence used by the server. *database.DB implements it.
type Store interface {
	pipeline.ResultStore
	GetResult(ctx context.Context, id int64) (*database.ResultRecord, error)
	ListResults(ctx context.Context, url string, limit int) ([]*database.ResultRecord, error)
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	ListUsers(ctx context.Context, limit int) ([]model.User, error)
}

// Server serves the analysis form and the JSON API.
type Server struct {
	fetcher       pipeline.Fetcher
	analyzer      *analysis.Analyzer
	store         Store
	logger        *slog.Logger
	version       string
	top           int
	skipUnchanged bool
	tmpl          *template.Template
	handler       http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for requests and pipeline failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by /app-version.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithTop sets how many ranked words the result page shows. Zero shows all.
func WithTop(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.top = n
		}
	}
}

// WithSkipUnchanged reuses the latest stored record when the page content
// has not changed since it was saved.
func WithSkipUnchanged(skip bool) Option {
	return func(s *Server) {
		s.skipUnchanged = skip
	}
}

// New creates a Server. store may be nil, in which case results are not
// saved and the /users and /results endpoints answer 503.
func New(fetcher pipeline.Fetcher, analyzer *analysis.Analyzer, store Store, opts ...Option) *Server {
	s := &Server{
		fetcher:  fetcher,
		analyzer: analyzer,
		store:    store,
		logger:   slog.New(slog.DiscardHandler),
		version:  "dev",
		top:      DefaultTop,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/index.html"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleAnalyze)
	mux.HandleFunc("GET /app-version", s.handleAppVersion)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /results", s.handleListResults)
	mux.HandleFunc("GET /results/{id}", s.handleGetResult)

	s.handler = requestID(logRequests(s.logger, mux))
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, if non-nil, receives the bound address once the
// listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Analysing a page can take as long as the fetch timeout plus retries.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	s.logger.Info("server listening", slog.String("address", listener.Addr().String()))
	if ready != nil {
		ready(listener.Addr())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
