package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finanzaspro/credit-ledger/internal/models"
)

// day parses a calendar date used throughout these tests.
func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func tx(kind models.TransactionKind, amount, date string) models.Transaction {
	return models.Transaction{
		ID:     string(kind) + "-" + date + "-" + amount,
		Kind:   kind,
		Amount: decimal.RequireFromString(amount),
		Date:   day(date),
	}
}

func TestBalance_EmptySet(t *testing.T) {
	balance, err := Balance(nil)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestBalance_CreditsAddPaymentsSubtract(t *testing.T) {
	balance, err := Balance([]models.Transaction{
		tx(models.KindCredit, "200", "2024-01-01"),
		tx(models.KindPayment, "50", "2024-01-15"),
		tx(models.KindCredit, "100", "2024-02-01"),
	})
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("250")), "got %s", balance)
}

func TestBalance_Commutative(t *testing.T) {
	transactions := []models.Transaction{
		tx(models.KindCredit, "120.50", "2024-03-01"),
		tx(models.KindPayment, "20.25", "2024-03-10"),
		tx(models.KindCredit, "9.99", "2024-03-12"),
		tx(models.KindPayment, "60", "2024-04-02"),
	}

	want, err := Balance(transactions)
	require.NoError(t, err)

	// Every permutation of the input must produce the identical value;
	// callers never sort before folding.
	var permute func(prefix, rest []models.Transaction)
	permute = func(prefix, rest []models.Transaction) {
		if len(rest) == 0 {
			got, err := Balance(prefix)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "permutation changed the balance: %s vs %s", got, want)
			return
		}
		for i := range rest {
			next := make([]models.Transaction, 0, len(rest)-1)
			next = append(next, rest[:i]...)
			next = append(next, rest[i+1:]...)
			permute(append(prefix, rest[i]), next)
		}
	}
	permute(nil, transactions)
}

func TestBalance_RejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-10"} {
		bad := tx(models.KindCredit, amount, "2024-01-01")
		_, err := Balance([]models.Transaction{bad})
		assert.ErrorIs(t, err, ErrCorruptAmount, "amount %s", amount)
	}
}

func TestBalance_RejectsUnknownKind(t *testing.T) {
	bad := tx(models.KindCredit, "10", "2024-01-01")
	bad.Kind = "refund"
	_, err := Balance([]models.Transaction{bad})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestUtilizationPct_UndefinedAtZeroLimit(t *testing.T) {
	_, ok := UtilizationPct(decimal.RequireFromString("500"), decimal.Zero)
	assert.False(t, ok)
}

func TestUtilizationPct_Defined(t *testing.T) {
	pct, ok := UtilizationPct(decimal.RequireFromString("950"), decimal.RequireFromString("1000"))
	require.True(t, ok)
	assert.True(t, pct.Equal(decimal.RequireFromString("95")), "got %s", pct)
}
