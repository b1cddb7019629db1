package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tells which direction a ledger event moves the balance.
// The stored amount is always positive; the sign lives here.
type TransactionKind string

const (
	KindCredit  TransactionKind = "credit"  // purchase/loan extended, balance goes up
	KindPayment TransactionKind = "payment" // money collected, balance goes down
)

// Valid reports whether k is one of the two known kinds.
func (k TransactionKind) Valid() bool {
	return k == KindCredit || k == KindPayment
}

// Transaction is a single append-only entry in a client's ledger.
// Date is a calendar date (midnight UTC, no time component); CreatedAt is
// only used as a tie-break when ordering same-day entries.
type Transaction struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	Kind        TransactionKind `json:"type"`
	Amount      decimal.Decimal `json:"amount"` // always > 0
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
