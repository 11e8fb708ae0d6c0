// Package receiver implements a local stand-in for the Slack webhook
// endpoint, used to eyeball notification payloads during development.
package receiver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/JakeFAU/pipeline-notify/blocks"
)

const maxPayloadBytes = 1 << 20

// Server accepts Block Kit payloads the way Slack's webhook endpoint does
// and answers plain "ok", so a notifier can be pointed at it with nothing
// but a URL change.
type Server struct {
	router   chi.Router
	logger   *zap.Logger
	registry *prometheus.Registry
	received prometheus.Counter
	rejected prometheus.Counter
}

// NewServer constructs a Server with middleware, routes, and a private
// metrics registry.
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		logger:   logger,
		registry: prometheus.NewRegistry(),
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "receiver_payloads_received_total",
			Help: "Payloads accepted by the receiver.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "receiver_payloads_rejected_total",
			Help: "Payloads rejected as malformed.",
		}),
	}
	s.registry.MustRegister(s.received, s.rejected)

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Post("/", s.handleNotification)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	var p blocks.Payload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&p); err != nil {
		s.rejected.Inc()
		s.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if len(p.Blocks) == 0 {
		s.rejected.Inc()
		s.writeError(w, http.StatusBadRequest, "payload has no blocks")
		return
	}

	s.received.Inc()
	reqID := requestIDFrom(r.Context())
	s.logger.Info("notification received",
		zap.String("request_id", reqID),
		zap.Int("blocks", len(p.Blocks)),
		zap.String("summary", summarize(p)),
	)
	s.logger.Debug("notification payload",
		zap.String("request_id", reqID),
		zap.String("text", flatten(p)),
	)

	// Slack's webhook endpoint answers a bare "ok".
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Error("write response failed", zap.Error(err))
	}
}

// summarize picks a one-line description of the payload: the header text
// when present, otherwise the first line of the first section.
func summarize(p blocks.Payload) string {
	for _, b := range p.Blocks {
		if b.Type == blocks.TypeHeader && b.Text != nil {
			return truncate(b.Text.Text)
		}
	}
	for _, b := range p.Blocks {
		if b.Type == blocks.TypeSection && b.Text != nil {
			line := b.Text.Text
			if i := strings.IndexByte(line, '\n'); i >= 0 {
				line = line[:i]
			}
			return truncate(line)
		}
	}
	return ""
}

func truncate(s string) string {
	const max = 80
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// flatten renders every piece of text the payload carries, one line per
// piece, for verbose inspection.
func flatten(p blocks.Payload) string {
	var lines []string
	for _, b := range p.Blocks {
		if b.Text != nil {
			lines = append(lines, b.Text.Text)
		}
		for _, f := range b.Fields {
			lines = append(lines, f.Text)
		}
		for _, e := range b.Elements {
			lines = append(lines, e.Text)
		}
	}
	return strings.Join(lines, "\n")
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Debug("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("panic", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
