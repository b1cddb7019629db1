package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finanzaspro/credit-ledger/internal/interfaces"
	"github.com/finanzaspro/credit-ledger/internal/models"
)

func TestMemoryLedgerStore_ClientRoundTrip(t *testing.T) {
	store := NewMemoryLedgerStore()
	ctx := context.Background()

	_, err := store.GetClient(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrClientNotFound)

	require.NoError(t, store.SaveClient(ctx, models.Client{ID: "c1", Name: "Ana", CreatedAt: time.Now()}))
	require.NoError(t, store.SaveClient(ctx, models.Client{ID: "c2", Name: "Luis", CreatedAt: time.Now()}))

	got, err := store.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	clients, err := store.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "c1", clients[0].ID, "listing preserves insertion order")
}

func TestMemoryLedgerStore_TransactionsRequireClient(t *testing.T) {
	store := NewMemoryLedgerStore()
	ctx := context.Background()

	err := store.SaveTransaction(ctx, models.Transaction{ID: "t1", ClientID: "nobody"})
	assert.ErrorIs(t, err, interfaces.ErrClientNotFound)
}

func TestMemoryLedgerStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryLedgerStore()
	ctx := context.Background()

	require.NoError(t, store.SaveClient(ctx, models.Client{ID: "c1", Name: "Ana"}))
	require.NoError(t, store.SaveTransaction(ctx, models.Transaction{
		ID: "t1", ClientID: "c1", Kind: models.KindCredit, Amount: decimal.NewFromInt(10),
	}))

	first, err := store.GetTransactions(ctx)
	require.NoError(t, err)
	first[0].ID = "mutated"

	second, err := store.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", second[0].ID, "internal state must not be reachable through results")
}

func TestMemoryLedgerStore_FiltersByClient(t *testing.T) {
	store := NewMemoryLedgerStore()
	ctx := context.Background()

	require.NoError(t, store.SaveClient(ctx, models.Client{ID: "c1", Name: "Ana"}))
	require.NoError(t, store.SaveClient(ctx, models.Client{ID: "c2", Name: "Luis"}))
	require.NoError(t, store.SaveTransaction(ctx, models.Transaction{ID: "t1", ClientID: "c1"}))
	require.NoError(t, store.SaveTransaction(ctx, models.Transaction{ID: "t2", ClientID: "c2"}))
	require.NoError(t, store.SaveTransaction(ctx, models.Transaction{ID: "t3", ClientID: "c1"}))

	mine, err := store.GetTransactionsByClient(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, tx := range mine {
		assert.Equal(t, "c1", tx.ClientID)
	}
}
