package webhook

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/mattjoyce/chainhook/internal/auth"
)

// Server represents the webhook HTTP server.
type Server struct {
	config  Config
	sink    Sink
	logger  *slog.Logger
	metrics *Metrics
	server  *http.Server
}

// New creates a new webhook server instance.
func New(config Config, sink Sink, logger *slog.Logger) *Server {
	if config.Path == "" {
		config.Path = DefaultPath
	}
	if config.SignatureHeader == "" {
		config.SignatureHeader = DefaultSignatureHeader
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}

	return &Server{
		config:  config,
		sink:    sink,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

// Handler returns the routed HTTP handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting",
		"listen", s.config.Listen,
		"path", s.config.Path,
		"signature_header", s.config.SignatureHeader,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post(s.config.Path, s.handleWebhook)
	r.Get("/healthz", s.handleHealthz)
	if s.config.Metrics {
		r.With(auth.RequireToken(s.config.MetricsToken)).Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}

// loggingMiddleware logs HTTP requests (excludes payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleWebhook verifies and accepts one delivery.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	// Header.Get canonicalizes the key, so the lookup is case-insensitive.
	signature := r.Header.Get(s.config.SignatureHeader)
	if signature == "" {
		s.logger.Warn("webhook signature missing",
			"header", s.config.SignatureHeader,
			"request_id", reqID,
		)
		s.reject(w, http.StatusUnauthorized, OutcomeMissingSignature, MsgMissingSignature)
		return
	}

	// The exact bytes are kept for verification; nothing is decoded yet.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.logger.Warn("webhook body exceeds limit", "limit", tooLarge.Limit, "request_id", reqID)
			s.reject(w, http.StatusRequestEntityTooLarge, OutcomeTooLarge, MsgPayloadTooLarge)
			return
		}
		s.logger.Warn("failed to read webhook body", "error", err, "request_id", reqID)
		s.reject(w, http.StatusBadRequest, OutcomeReadError, MsgReadFailed)
		return
	}
	s.metrics.observeBody(len(body))

	fp := fingerprint(body)

	if err := Verify(body, signature, s.config.Secret); err != nil {
		s.logger.Warn("webhook signature verification failed",
			"fingerprint", fp,
			"request_id", reqID,
		)
		s.reject(w, http.StatusUnauthorized, OutcomeInvalidSignature, MsgInvalidSignature)
		return
	}

	payload, err := ParsePayload(body)
	if err != nil {
		var pfe *PayloadFormatError
		if errors.As(err, &pfe) {
			s.logger.Warn("verified webhook body is not a JSON object",
				"fingerprint", fp,
				"error", pfe.Err,
				"request_id", reqID,
			)
		}
		s.reject(w, http.StatusBadRequest, OutcomeMalformedPayload, MsgMalformedPayload)
		return
	}

	d := Delivery{
		ID:          uuid.NewString(),
		Fingerprint: fp,
		Payload:     payload,
		ReceivedAt:  time.Now().UTC(),
	}
	s.sink.Accept(ctx, d)
	s.metrics.observe(OutcomeAccepted)

	w.Header().Set("X-Delivery-Id", d.ID)
	s.respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) reject(w http.ResponseWriter, status int, outcome, message string) {
	s.metrics.observe(outcome)
	s.respondError(w, status, message)
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}

// fingerprint identifies a body in logs without logging its content.
func fingerprint(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}
