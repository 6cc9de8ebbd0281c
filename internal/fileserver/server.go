// Package fileserver serves a local directory over HTTP with permissive CORS
// headers so a browser extension can fetch local files.
package fileserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"higgsctl/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server hosts the CORS-wrapped file server.
type Server struct {
	bind   string
	dir    string
	logger *slog.Logger
}

// New builds a Server for dir bound to addr (host:port).
func New(addr, dir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{bind: addr, dir: dir, logger: logger}
}

// Handler returns the CORS-wrapped file handler.
func (s *Server) Handler() http.Handler {
	return withCORS(http.FileServer(http.Dir(s.dir)))
}

// ListenAndServe serves until ctx is cancelled, then drains connections.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.bind, err)
	}

	server := &http.Server{Handler: s.Handler()}
	s.logger.Info("serving directory",
		logging.String("dir", s.dir),
		logging.String("url", "http://"+listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown file server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("file server: %w", err)
	}
}

// withCORS adds the headers the browser extension needs on every response
// and answers preflight requests directly.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
