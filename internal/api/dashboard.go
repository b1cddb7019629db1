package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/finanzaspro/credit-ledger/internal/models"
)

type dashboardResponse struct {
	models.PortfolioReport
	Recent []models.TransactionView `json:"recent"`
}

// handleDashboard serves the overview screen: monthly figures, trend,
// per-client reports, and the five most recent movements.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(computeDuration)
	report, err := s.engine.Dashboard(r.Context())
	timer.ObserveDuration()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	feed, err := s.engine.RecentActivity(r.Context(), 5)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, dashboardResponse{
		PortfolioReport: report,
		Recent:          feed.Transactions,
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.engine.Alerts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	s.writeJSON(w, r, http.StatusOK, alerts)
}
