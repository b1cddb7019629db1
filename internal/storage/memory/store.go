package memory

import (
	"context"
	"sync"

	"github.com/finanzaspro/credit-ledger/internal/interfaces"
	"github.com/finanzaspro/credit-ledger/internal/models"
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It is thread-safe and hands out copies so callers can never mutate
// internal state. Used for tests and for running without a database.
type MemoryLedgerStore struct {
	mu           sync.Mutex
	clients      map[string]models.Client
	clientOrder  []string // insertion order, so listings are deterministic
	transactions []models.Transaction
}

// NewMemoryLedgerStore creates an empty in-memory store.
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		clients:      make(map[string]models.Client),
		transactions: make([]models.Transaction, 0),
	}
}

func (m *MemoryLedgerStore) SaveClient(ctx context.Context, client models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[client.ID]; !exists {
		m.clientOrder = append(m.clientOrder, client.ID)
	}
	m.clients[client.ID] = client
	return nil
}

func (m *MemoryLedgerStore) GetClient(ctx context.Context, clientID string) (models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	client, exists := m.clients[clientID]
	if !exists {
		return models.Client{}, interfaces.ErrClientNotFound
	}
	return client, nil
}

func (m *MemoryLedgerStore) ListClients(ctx context.Context) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clients := make([]models.Client, 0, len(m.clientOrder))
	for _, id := range m.clientOrder {
		clients = append(clients, m.clients[id])
	}
	return clients, nil
}

// SaveTransaction appends an entry. The ledger is append-only: entries are
// never updated or removed once written.
func (m *MemoryLedgerStore) SaveTransaction(ctx context.Context, tx models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[tx.ClientID]; !exists {
		return interfaces.ErrClientNotFound
	}
	m.transactions = append(m.transactions, tx)
	return nil
}

func (m *MemoryLedgerStore) GetTransactionsByClient(ctx context.Context, clientID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Transaction
	for _, tx := range m.transactions {
		if tx.ClientID == clientID {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (m *MemoryLedgerStore) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Transaction, len(m.transactions))
	copy(copied, m.transactions)
	return copied, nil
}

// Compile-time check: MemoryLedgerStore implements LedgerStore.
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
