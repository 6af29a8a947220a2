// Package api provides the HTTP API server for addressbook.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/spachava753/addressbook/contacts"
)

const (
	// DefaultTimeout bounds how long a request waits for a scan.
	DefaultTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// ContactBook defines the contact operations the API needs.
// *contacts.Book implements it.
type ContactBook interface {
	GetAll() (contacts.Collection, error)
	FindByName(property, term string) (contacts.Collection, error)
}

// Server represents the HTTP API server.
type Server struct {
	book    ContactBook
	logger  *slog.Logger
	timeout time.Duration
	router  chi.Router
}

// NewServer creates a new API server. A non-positive timeout uses
// DefaultTimeout.
func NewServer(book ContactBook, logger *slog.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &Server{
		book:    book,
		logger:  logger,
		timeout: timeout,
	}
	s.router = s.setupRouter()
	return s
}

// setupRouter configures the chi router with all routes and middleware.
func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(s.loggerMiddleware)
	r.Use(chimw.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/contacts", func(r chi.Router) {
		r.Use(s.timeoutMiddleware)
		r.Get("/", s.handleGetAll)
		r.Get("/find", s.handleFind)
	})
	r.Get("/fields", s.handleFields)

	return r
}

// Serve listens on addr and serves until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.timeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("starting API server", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// timeoutMiddleware bounds the request context. Handlers observe the
// deadline through dispatch.Run and write the 504 themselves.
func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggerMiddleware logs HTTP requests.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
