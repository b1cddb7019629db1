// Package api exposes the credit-ledger engine over HTTP. Every screen of
// the front end (client list, client detail, dashboard, notification feed,
// exports) reads from these endpoints; none of them re-derive figures on
// their own.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/finanzaspro/credit-ledger/internal/interfaces"
	"github.com/finanzaspro/credit-ledger/internal/ledger"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creditledger_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "status"})

	computeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "creditledger_report_duration_seconds",
		Help:    "Time spent deriving portfolio reports.",
		Buckets: prometheus.DefBuckets,
	})
)

// Server is the HTTP API server.
type Server struct {
	engine    *ledger.Engine
	publisher interfaces.EventPublisher // nil when event publishing is disabled
	log       *logrus.Logger
	validate  *validator.Validate
}

// NewServer wires the API to the analytics engine. publisher may be nil.
func NewServer(engine *ledger.Engine, publisher interfaces.EventPublisher, log *logrus.Logger) *Server {
	return &Server{
		engine:    engine,
		publisher: publisher,
		log:       log,
		validate:  validator.New(),
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/clients", s.handleListClients)
		r.Post("/clients", s.handleCreateClient)
		r.Get("/clients/export", s.handleExportClients)
		r.Get("/clients/{id}", s.handleClientStatement)
		r.Post("/clients/{id}/reminder", s.handleReminder)

		r.Get("/transactions", s.handleRecentActivity)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Get("/transactions/export", s.handleExportTransactions)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/alerts", s.handleAlerts)
	})

	return r
}

// publish sends an event without blocking the request outcome: delivery
// failures are logged, never surfaced to the caller.
func (s *Server) publish(topic string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(topic, event); err != nil {
		s.log.WithError(err).WithField("topic", topic).Warn("event publish failed")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("encode response")
	}
	requestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(status)).Inc()
}

// writeError maps engine and store failures onto status codes. A store
// fetch failure is a 503 "data unavailable", never an empty 200: a client
// must not be misreported as debt-free because the database was down.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusServiceUnavailable
	switch {
	case errors.Is(err, interfaces.ErrClientNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrCorruptAmount),
		errors.Is(err, ledger.ErrUnknownKind),
		errors.Is(err, ledger.ErrClientNameRequired),
		errors.Is(err, ledger.ErrNegativeLimit):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrNoPhone):
		status = http.StatusConflict
	}
	if status >= 500 {
		s.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	s.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func (s *Server) decodeAndValidate(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return s.validate.Struct(v)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
