package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is one account holder in the credit book.
type Client struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"` // optional, used for WhatsApp reminders
	CreditLimit decimal.Decimal `json:"credit_limit"`    // >= 0; zero means no limit enforced
	UserID      string          `json:"user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// HasCreditLimit reports whether a limit is enforced for this client.
// A zero limit means "unlimited": utilization is undefined for it.
func (c Client) HasCreditLimit() bool {
	return c.CreditLimit.IsPositive()
}
