package caseapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"casefinder/internal/casestore"
	"casefinder/internal/domain"
	"casefinder/internal/selector"
)

// CaseGetter is the storage the service reads from
type CaseGetter interface {
	Get(ctx context.Context, searchType domain.SearchType, identifier string) (*domain.CaseRecord, error)
}

// exemptPaths bypass authentication
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// Server is the development case lookup service
type Server struct {
	store   CaseGetter
	apiKeys map[string]struct{}
	logger  *zap.Logger
}

// NewServer creates a lookup service. Authentication is disabled when apiKeys is empty.
func NewServer(store CaseGetter, apiKeys []string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	return &Server{store: store, apiKeys: keys, logger: logger.Named("caseapi")}
}

// Router builds the HTTP handler
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)
	r.Use(s.requestLogger)
	r.Use(s.bearerAuth)

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/cases/{searchType}/{identifier}", s.getCase)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getCase handles GET /api/cases/{searchType}/{identifier}
func (s *Server) getCase(w http.ResponseWriter, r *http.Request) {
	searchType := domain.SearchType(chi.URLParam(r, "searchType"))
	identifier := chi.URLParam(r, "identifier")

	if err := selector.Validate(searchType, identifier); err != nil {
		lookupsTotal.WithLabelValues(string(searchType), "invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.store.Get(r.Context(), searchType, identifier)
	switch {
	case errors.Is(err, casestore.ErrNotFound):
		lookupsTotal.WithLabelValues(string(searchType), "not_found").Inc()
		writeError(w, http.StatusNotFound, fmt.Sprintf("No case found for %s %s", searchType, identifier))
		return
	case err != nil:
		lookupsTotal.WithLabelValues(string(searchType), "error").Inc()
		s.logger.Error("case lookup failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	lookupsTotal.WithLabelValues(string(searchType), "found").Inc()
	writeJSON(w, http.StatusOK, rec)
}

// bearerAuth validates Bearer tokens when API keys are configured
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	if len(s.apiKeys) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := exemptPaths[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		const bearerPrefix = "Bearer "
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, bearerPrefix) {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, ok := s.apiKeys[auth[len(bearerPrefix):]]; !ok {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("client_request_id", r.Header.Get("X-Request-ID")))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the {"message": ...} envelope the lookup client decodes
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
