package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Classification is the arrears severity tier for a client.
type Classification string

const (
	StatusCurrent  Classification = "current"  // al día: balance <= 0 or within grace
	StatusOverdue  Classification = "overdue"  // en mora: > ArrearsGraceDays with balance
	StatusCritical Classification = "critical" // mora crítica: > CriticalArrearsDays
)

// ClientReport is the read-optimised projection of a client with every
// derived figure attached. It is recomputed on each read, never stored.
type ClientReport struct {
	Client
	Balance        decimal.Decimal  `json:"balance"`
	DaysInArrears  int              `json:"days_in_arrears"`
	Classification Classification   `json:"classification"`
	UtilizationPct *decimal.Decimal `json:"utilization_pct,omitempty"` // nil when no credit limit is set
}

// Statement is a client report plus the full movement history,
// ordered by date descending (creation time as tie-break).
type Statement struct {
	ClientReport
	Transactions []Transaction `json:"transactions"`
}

// TransactionView is a transaction joined with its client's name,
// used by the recent-activity feed and exports.
type TransactionView struct {
	Transaction
	ClientName string `json:"client_name"`
}

// TrendPoint is one calendar-month bucket of the dashboard trend series.
type TrendPoint struct {
	Period      string          `json:"period"` // "2006-01" bucket key
	Label       string          `json:"label"`  // short month name for charts
	Credit      decimal.Decimal `json:"credit"`
	Collections decimal.Decimal `json:"collections"`
}

// PortfolioReport is the dashboard aggregate over the whole roster.
type PortfolioReport struct {
	MonthlyCredit        decimal.Decimal `json:"monthly_credit"`
	MonthlyCollections   decimal.Decimal `json:"monthly_collections"`
	TotalActivePortfolio decimal.Decimal `json:"total_active_portfolio"`
	CreditChangePct      decimal.Decimal `json:"credit_change_pct"`      // vs previous calendar month
	CollectionsChangePct decimal.Decimal `json:"collections_change_pct"` // vs previous calendar month
	Trend                []TrendPoint    `json:"trend"`                  // oldest bucket first
	Clients              []ClientReport  `json:"clients"`
}

// ActivityFeed is the recent-movements view: the latest transactions with
// client names, plus credit/collection totals over that window.
type ActivityFeed struct {
	Transactions     []TransactionView `json:"transactions"`
	TotalCredit      decimal.Decimal   `json:"total_credit"`
	TotalCollections decimal.Decimal   `json:"total_collections"`
}

// Reminder is a queued WhatsApp payment reminder for one client.
type Reminder struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Phone      string          `json:"phone"`
	Balance    decimal.Decimal `json:"balance"`
	Message    string          `json:"message"`
	Link       string          `json:"link"` // wa.me URL with the message prefilled
}

// AlertKind identifies which portfolio condition fired.
type AlertKind string

const (
	AlertLimit      AlertKind = "limite" // credit-limit utilization at or above threshold
	AlertInactivity AlertKind = "mora"   // outstanding balance with no movements for too long
)

// Alert is one triggered condition for one client.
type Alert struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	ClientName  string    `json:"client_name"`
	Kind        AlertKind `json:"kind"`
	Message     string    `json:"message"`
	GeneratedAt time.Time `json:"generated_at"`
}
