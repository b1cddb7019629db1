package api

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finanzaspro/credit-ledger/internal/models"
	"github.com/finanzaspro/credit-ledger/internal/models/events"
)

type createClientRequest struct {
	Name        string          `json:"name" validate:"required"`
	Phone       string          `json:"phone"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	UserID      string          `json:"user_id"`
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	client, err := s.engine.CreateClient(r.Context(), models.Client{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Phone:       req.Phone,
		CreditLimit: req.CreditLimit,
		UserID:      req.UserID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, client)
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	reports, err := s.engine.ClientReports(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, reports)
}

func (s *Server) handleClientStatement(w http.ResponseWriter, r *http.Request) {
	statement, err := s.engine.ClientStatement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, statement)
}

func (s *Server) handleReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := s.engine.BuildReminder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.publish(events.TopicReminderRequested, events.ReminderRequested{
		ClientID:   reminder.ClientID,
		ClientName: reminder.ClientName,
		Phone:      reminder.Phone,
		Balance:    reminder.Balance,
		Message:    reminder.Message,
		Link:       reminder.Link,
		OccurredAt: time.Now(),
	})
	s.writeJSON(w, r, http.StatusAccepted, reminder)
}

// handleExportClients streams the client directory as CSV, one row per
// client with its derived figures.
func (s *Server) handleExportClients(w http.ResponseWriter, r *http.Request) {
	reports, err := s.engine.ClientReports(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="clients.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"name", "phone", "credit_limit", "balance", "days_in_arrears", "classification"})
	for _, c := range reports {
		cw.Write([]string{
			c.Name,
			c.Phone,
			c.CreditLimit.StringFixed(2),
			c.Balance.StringFixed(2),
			intString(c.DaysInArrears),
			string(c.Classification),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.log.WithError(err).Error("write clients csv")
	}
}
