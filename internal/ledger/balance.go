package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finanzaspro/credit-ledger/internal/models"
)

// Integrity errors surfaced by the fold. Bad data is reported, never
// silently coerced to zero.
var (
	ErrCorruptAmount = errors.New("transaction amount must be positive")
	ErrUnknownKind   = errors.New("unknown transaction kind")
)

var hundred = decimal.NewFromInt(100)

// Balance reduces a single client's transactions to one signed figure:
// credits add, payments subtract. Positive means the client owes money.
// The fold is commutative, so input ordering does not matter and callers
// never need to sort first. An empty set yields zero.
func Balance(transactions []models.Transaction) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, tx := range transactions {
		if tx.Amount.Cmp(decimal.Zero) <= 0 {
			return decimal.Zero, fmt.Errorf("%w: transaction %s has amount %s", ErrCorruptAmount, tx.ID, tx.Amount)
		}
		switch tx.Kind {
		case models.KindCredit:
			balance = balance.Add(tx.Amount)
		case models.KindPayment:
			balance = balance.Sub(tx.Amount)
		default:
			return decimal.Zero, fmt.Errorf("%w: transaction %s has kind %q", ErrUnknownKind, tx.ID, tx.Kind)
		}
	}
	return balance, nil
}

// UtilizationPct returns the balance as a percentage of the credit limit.
// It is undefined (ok = false) when no limit is enforced; this is the only
// guard against dividing by a zero limit, so callers must check ok.
func UtilizationPct(balance, creditLimit decimal.Decimal) (decimal.Decimal, bool) {
	if !creditLimit.IsPositive() {
		return decimal.Zero, false
	}
	return balance.Div(creditLimit).Mul(hundred), true
}
