package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finanzaspro/credit-ledger/internal/models"
)

// Business thresholds, in days. These are fixed rules of the credit book,
// named here so every screen applies the same numbers.
const (
	// ArrearsGraceDays: with a positive balance, up to this many days since
	// the reference event still counts as "current".
	ArrearsGraceDays = 5

	// CriticalArrearsDays: beyond this the client-detail badge and the
	// portfolio alerting treat the debt as critical.
	CriticalArrearsDays = 30

	// InactivityAlertDays: a client with an outstanding balance and no
	// movement of any kind for more than this many days triggers a "mora"
	// alert. Note the reference event differs from the arrears clock: it is
	// the last transaction of ANY kind, not the last payment.
	InactivityAlertDays = 30
)

// daysBetween counts whole days from one instant to a later one, rounding
// partial days UP. Ceiling is the uniform policy for every day figure in
// this package: a debt must never be under-reported by a partial day.
// Returns 0 when to is not after from.
func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// lastOfKind returns the most recent transaction of the given kind,
// by date with creation time as the same-day tie-break.
func lastOfKind(transactions []models.Transaction, kind models.TransactionKind) (models.Transaction, bool) {
	var last models.Transaction
	found := false
	for _, tx := range transactions {
		if tx.Kind != kind {
			continue
		}
		if !found || tx.Date.After(last.Date) ||
			(tx.Date.Equal(last.Date) && tx.CreatedAt.After(last.CreatedAt)) {
			last = tx
			found = true
		}
	}
	return last, found
}

// lastTransaction returns the most recent transaction of any kind.
func lastTransaction(transactions []models.Transaction) (models.Transaction, bool) {
	var last models.Transaction
	found := false
	for _, tx := range transactions {
		if !found || tx.Date.After(last.Date) ||
			(tx.Date.Equal(last.Date) && tx.CreatedAt.After(last.CreatedAt)) {
			last = tx
			found = true
		}
	}
	return last, found
}

// DaysInArrears derives how many whole days a client has been unpaid.
//
// The clock measures from the last payment when one exists, otherwise from
// the last credit. A partial payment therefore resets the clock (fresh
// grace period) even though it does not clear the balance; that is
// intentional business policy, not an accident.
//
// Zero is returned while the balance is settled (<= 0), and also in the
// defensive case of a positive balance with no credit event on record.
func DaysInArrears(transactions []models.Transaction, balance decimal.Decimal, now time.Time) int {
	if balance.Cmp(decimal.Zero) <= 0 {
		return 0
	}

	lastCredit, ok := lastOfKind(transactions, models.KindCredit)
	if !ok {
		// Cannot be in arrears on a balance with no credit event.
		return 0
	}

	reference := lastCredit.Date
	if lastPayment, ok := lastOfKind(transactions, models.KindPayment); ok {
		reference = lastPayment.Date
	}
	return daysBetween(reference, now)
}

// Classify maps a balance and day count onto the severity tiers.
func Classify(balance decimal.Decimal, daysInArrears int) models.Classification {
	switch {
	case balance.Cmp(decimal.Zero) <= 0:
		return models.StatusCurrent
	case daysInArrears <= ArrearsGraceDays:
		return models.StatusCurrent
	case daysInArrears > CriticalArrearsDays:
		return models.StatusCritical
	default:
		return models.StatusOverdue
	}
}
