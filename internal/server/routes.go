package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Handler builds the routed handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.Obs.HTTPMiddleware()(s.requestIDMiddleware(s.setupRoutes()))
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	protected := func(limit int64, h http.HandlerFunc) http.HandlerFunc {
		return s.rateLimitMiddleware()(s.authMiddleware(s.requestSizeLimitMiddleware(limit)(h)))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)

	mux.HandleFunc("POST /score", protected(s.MaxBodySize, s.scoreHandler))
	mux.HandleFunc("POST /ats", protected(s.MaxBodySize, s.atsHandler))
	mux.HandleFunc("POST /analyze", protected(s.MaxBodySize, s.analyzeHandler))
	mux.HandleFunc("POST /validate", protected(s.MaxBodySize, s.validateHandler))
	mux.HandleFunc("POST /parse-file", protected(s.uploadLimit(), s.parseFileHandler))
	mux.HandleFunc("POST /suggest/{kind}", protected(s.MaxBodySize, s.suggestHandler))

	if handler := s.Obs.PrometheusHandler(); handler != nil && s.servesPrometheusInline() {
		mux.Handle("GET "+s.AppConfig.Observability.Prometheus.Endpoint, handler)
	}

	return mux
}

// uploadLimit leaves room for multipart framing around the file itself.
func (s *Server) uploadLimit() int64 {
	if s.MaxUploadSize <= 0 {
		return 0
	}
	return s.MaxUploadSize + 64*1024
}

// servesPrometheusInline reports whether metrics share the API port.
func (s *Server) servesPrometheusInline() bool {
	port := s.AppConfig.Observability.Prometheus.Port
	return port == "" || port == s.Port
}

// requestIDMiddleware propagates X-Request-ID, generating one when absent.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := extractAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

// extractAPIKey reads X-API-Key, falling back to a Bearer token.
func extractAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware(limit int64) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next(w, r)
		}
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
