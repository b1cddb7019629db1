package ledger

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finanzaspro/credit-ledger/internal/interfaces"
	"github.com/finanzaspro/credit-ledger/internal/models"
	"github.com/finanzaspro/credit-ledger/internal/storage/memory"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEngine(t *testing.T, now string) (*Engine, *memory.MemoryLedgerStore) {
	t.Helper()
	store := memory.NewMemoryLedgerStore()
	engine := NewEngine(store, quietLogger(), "FinanzasPro").
		WithClock(func() time.Time { return day(now) })
	return engine, store
}

func seedClient(t *testing.T, store *memory.MemoryLedgerStore, c models.Client) {
	t.Helper()
	require.NoError(t, store.SaveClient(context.Background(), c))
}

func seedTx(t *testing.T, store *memory.MemoryLedgerStore, clientID string, transaction models.Transaction) {
	t.Helper()
	transaction.ClientID = clientID
	require.NoError(t, store.SaveTransaction(context.Background(), transaction))
}

func TestEngine_CreateClient_Validation(t *testing.T) {
	engine, _ := newTestEngine(t, "2024-06-15")

	_, err := engine.CreateClient(context.Background(), models.Client{ID: "c1", Name: "   "})
	assert.ErrorIs(t, err, ErrClientNameRequired)

	_, err = engine.CreateClient(context.Background(), models.Client{
		ID: "c1", Name: "Ana", CreditLimit: decimal.RequireFromString("-5"),
	})
	assert.ErrorIs(t, err, ErrNegativeLimit)
}

func TestEngine_RecordTransaction_UnknownClient(t *testing.T) {
	engine, _ := newTestEngine(t, "2024-06-15")

	_, _, _, err := engine.RecordTransaction(context.Background(), models.Transaction{
		ID: "t1", ClientID: "missing", Kind: models.KindCredit,
		Amount: decimal.RequireFromString("10"), Date: day("2024-06-15"),
	})
	assert.ErrorIs(t, err, interfaces.ErrClientNotFound)
}

func TestEngine_RecordTransaction_LimitWarning(t *testing.T) {
	engine, store := newTestEngine(t, "2024-06-15")
	seedClient(t, store, client("c1", "Ana", "500"))
	seedTx(t, store, "c1", tx(models.KindCredit, "400", "2024-06-01"))

	// Pushes the balance to 550 against a 500 limit: saved, but flagged.
	saved, newBalance, warned, err := engine.RecordTransaction(context.Background(), models.Transaction{
		ID: "t2", ClientID: "c1", Kind: models.KindCredit,
		Amount: decimal.RequireFromString("150"), Date: day("2024-06-10"),
	})
	require.NoError(t, err)
	assert.True(t, warned)
	assert.True(t, newBalance.Equal(decimal.RequireFromString("550")))
	assert.False(t, saved.CreatedAt.IsZero())

	// Payments never warn, whatever the balance.
	_, newBalance, warned, err = engine.RecordTransaction(context.Background(), models.Transaction{
		ID: "t3", ClientID: "c1", Kind: models.KindPayment,
		Amount: decimal.RequireFromString("25"), Date: day("2024-06-11"),
	})
	require.NoError(t, err)
	assert.False(t, warned)
	assert.True(t, newBalance.Equal(decimal.RequireFromString("525")))
}

func TestEngine_ClientStatement_OrderedNewestFirst(t *testing.T) {
	engine, store := newTestEngine(t, "2024-06-15")
	seedClient(t, store, client("c1", "Ana", "0"))

	early := tx(models.KindCredit, "10", "2024-06-01")
	early.ID, early.CreatedAt = "first", day("2024-06-01").Add(9*time.Hour)
	late := tx(models.KindCredit, "20", "2024-06-01")
	late.ID, late.CreatedAt = "second", day("2024-06-01").Add(17*time.Hour)
	old := tx(models.KindPayment, "5", "2024-05-20")
	old.ID = "old"

	seedTx(t, store, "c1", early)
	seedTx(t, store, "c1", old)
	seedTx(t, store, "c1", late)

	statement, err := engine.ClientStatement(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, statement.Transactions, 3)

	// Same-day entries fall back to creation time.
	assert.Equal(t, "second", statement.Transactions[0].ID)
	assert.Equal(t, "first", statement.Transactions[1].ID)
	assert.Equal(t, "old", statement.Transactions[2].ID)
	assert.True(t, statement.Balance.Equal(decimal.RequireFromString("25")))
}

func TestEngine_RecentActivity_LimitAndTotals(t *testing.T) {
	engine, store := newTestEngine(t, "2024-06-15")
	seedClient(t, store, client("c1", "Ana", "0"))
	seedTx(t, store, "c1", tx(models.KindCredit, "100", "2024-06-01"))
	seedTx(t, store, "c1", tx(models.KindPayment, "40", "2024-06-02"))
	seedTx(t, store, "c1", tx(models.KindCredit, "60", "2024-06-03"))

	feed, err := engine.RecentActivity(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, feed.Transactions, 2)

	assert.Equal(t, "Ana", feed.Transactions[0].ClientName)
	assert.Equal(t, day("2024-06-03"), feed.Transactions[0].Date)
	// Totals cover the returned window only.
	assert.True(t, feed.TotalCredit.Equal(decimal.RequireFromString("60")))
	assert.True(t, feed.TotalCollections.Equal(decimal.RequireFromString("40")))
}

func TestEngine_BuildReminder(t *testing.T) {
	engine, store := newTestEngine(t, "2024-06-15")
	ana := client("c1", "Ana", "0")
	ana.Phone = "+52 (55) 1234-5678"
	seedClient(t, store, ana)
	seedTx(t, store, "c1", tx(models.KindCredit, "250", "2024-06-01"))

	reminder, err := engine.BuildReminder(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "525512345678", reminder.Phone)
	assert.Contains(t, reminder.Message, "Ana")
	assert.Contains(t, reminder.Message, "250.00")
	assert.Contains(t, reminder.Message, "FinanzasPro")
	assert.Contains(t, reminder.Link, "https://wa.me/525512345678?text=")
}

func TestEngine_BuildReminder_NoPhone(t *testing.T) {
	engine, store := newTestEngine(t, "2024-06-15")
	seedClient(t, store, client("c1", "Ana", "0"))

	_, err := engine.BuildReminder(context.Background(), "c1")
	assert.ErrorIs(t, err, ErrNoPhone)
}

// failingStore simulates an unavailable backend for every fetch.
type failingStore struct{ err error }

func (f failingStore) SaveClient(context.Context, models.Client) error { return f.err }
func (f failingStore) GetClient(context.Context, string) (models.Client, error) {
	return models.Client{}, f.err
}
func (f failingStore) ListClients(context.Context) ([]models.Client, error) { return nil, f.err }
func (f failingStore) SaveTransaction(context.Context, models.Transaction) error {
	return f.err
}
func (f failingStore) GetTransactionsByClient(context.Context, string) ([]models.Transaction, error) {
	return nil, f.err
}
func (f failingStore) GetTransactions(context.Context) ([]models.Transaction, error) {
	return nil, f.err
}

// A fetch failure must propagate; it is never substituted with an empty
// snapshot that would report every client as debt-free.
func TestEngine_StoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	engine := NewEngine(failingStore{err: storeErr}, quietLogger(), "FinanzasPro")

	_, err := engine.Dashboard(context.Background())
	assert.ErrorIs(t, err, storeErr)

	_, err = engine.ClientStatement(context.Background(), "c1")
	assert.ErrorIs(t, err, storeErr)

	_, err = engine.Alerts(context.Background())
	assert.ErrorIs(t, err, storeErr)

	_, err = engine.ClientReports(context.Background())
	assert.ErrorIs(t, err, storeErr)
}
