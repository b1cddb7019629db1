package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topic names used by the Kafka publisher.
const (
	TopicTransactionRecorded = "transaction_recorded"
	TopicAlertTriggered      = "alert_triggered"
	TopicReminderRequested   = "reminder_requested"
)

// TransactionRecorded is emitted after a ledger entry is persisted.
type TransactionRecorded struct {
	TransactionID string          `json:"transaction_id"`
	ClientID      string          `json:"client_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// AlertTriggered is emitted for each alert produced by the portfolio scan.
type AlertTriggered struct {
	ClientID   string    `json:"client_id"`
	ClientName string    `json:"client_name"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReminderRequested is emitted when a payment reminder is queued for a
// client. Link is a ready-to-open wa.me URL with the message prefilled.
type ReminderRequested struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Phone      string          `json:"phone"`
	Balance    decimal.Decimal `json:"balance"`
	Message    string          `json:"message"`
	Link       string          `json:"link"`
	OccurredAt time.Time       `json:"occurred_at"`
}
