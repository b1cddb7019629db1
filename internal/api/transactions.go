package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finanzaspro/credit-ledger/internal/models"
	"github.com/finanzaspro/credit-ledger/internal/models/events"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

type createTransactionRequest struct {
	ClientID    string          `json:"client_id" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=credit payment"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description"`
	UserID      string          `json:"user_id"`
}

type createTransactionResponse struct {
	Transaction  models.Transaction `json:"transaction"`
	NewBalance   decimal.Decimal    `json:"new_balance"`
	LimitWarning string             `json:"limit_warning,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	date, _ := time.Parse("2006-01-02", req.Date) // format already validated

	tx, newBalance, limitExceeded, err := s.engine.RecordTransaction(r.Context(), models.Transaction{
		ID:          uuid.New().String(),
		ClientID:    req.ClientID,
		Kind:        models.TransactionKind(req.Type),
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		UserID:      req.UserID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.publish(events.TopicTransactionRecorded, events.TransactionRecorded{
		TransactionID: tx.ID,
		ClientID:      tx.ClientID,
		Kind:          string(tx.Kind),
		Amount:        tx.Amount,
		Date:          tx.Date,
		NewBalance:    newBalance,
		OccurredAt:    time.Now(),
	})

	resp := createTransactionResponse{Transaction: tx, NewBalance: newBalance}
	if limitExceeded {
		resp.LimitWarning = fmt.Sprintf("balance %s exceeds the client's credit limit", newBalance.StringFixed(2))
		s.publish(events.TopicAlertTriggered, events.AlertTriggered{
			ClientID:   tx.ClientID,
			Kind:       string(models.AlertLimit),
			Message:    resp.LimitWarning,
			OccurredAt: time.Now(),
		})
	}
	s.writeJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	feed, err := s.engine.RecentActivity(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, feed)
}

// handleExportTransactions streams the full movement history as CSV.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	feed, err := s.engine.RecentActivity(r.Context(), 0) // 0 = no limit
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"date", "client", "type", "amount", "reference", "description"})
	for _, tx := range feed.Transactions {
		cw.Write([]string{
			tx.Date.Format("2006-01-02"),
			tx.ClientName,
			string(tx.Kind),
			tx.Amount.StringFixed(2),
			transactionRef(tx.ID),
			tx.Description,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.log.WithError(err).Error("write transactions csv")
	}
}

// transactionRef is the short human-facing reference shown on statements
// and exports, derived from the first id characters.
func transactionRef(id string) string {
	short := id
	if len(short) > 6 {
		short = short[:6]
	}
	return "#TRX-" + strings.ToUpper(short)
}

func intString(n int) string {
	return strconv.Itoa(n)
}
