package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixil98/go-loadout/internal/host"
	"github.com/pixil98/go-loadout/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP inspection and administration surface. Transactions
// normally arrive over NATS; the HTTP transaction route exists for tooling.
type Server struct {
	httpServer *http.Server
	host       *host.Host
}

func NewServer(port int, h *host.Host) *Server {
	s := &Server{host: h}

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", s.handleListCatalog)
		r.Get("/{key}", s.handleGetItem)
	})

	r.Route("/participants", func(r chi.Router) {
		r.Get("/", s.handleListParticipants)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetParticipant)
			r.Post("/", s.handleJoin)
			r.Delete("/", s.handleLeave)
			r.Post("/transactions", s.handleTransaction)
			r.Put("/tags/{tag}", s.handleAddTag)
			r.Delete("/tags/{tag}", s.handleRemoveTag)
		})
	})

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server starting", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		slog.DebugContext(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start))
	})
}
