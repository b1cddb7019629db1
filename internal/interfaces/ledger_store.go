package interfaces

import (
	"context"
	"errors"

	"github.com/finanzaspro/credit-ledger/internal/models"
)

// ErrClientNotFound is returned by store lookups for an unknown client id.
// It is distinct from a fetch failure: callers must never treat a store
// error as "no data yet".
var ErrClientNotFound = errors.New("client not found")

// LedgerStore is the persistence contract the analytics engine consumes.
// The ledger is append-only: there are no update or delete operations.
type LedgerStore interface {
	SaveClient(ctx context.Context, client models.Client) error
	GetClient(ctx context.Context, clientID string) (models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)

	SaveTransaction(ctx context.Context, tx models.Transaction) error
	GetTransactionsByClient(ctx context.Context, clientID string) ([]models.Transaction, error)
	GetTransactions(ctx context.Context) ([]models.Transaction, error)
}
