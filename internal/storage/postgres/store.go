package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finanzaspro/credit-ledger/internal/interfaces"
	"github.com/finanzaspro/credit-ledger/internal/models"
)

// Schema is the reference DDL for the two tables this store reads and
// writes. Amount positivity and the non-negative credit limit are enforced
// at the database as well as at the write boundary, and client deletion is
// RESTRICTed so the append-only ledger can never lose history.
const Schema = `
CREATE TABLE IF NOT EXISTS clients (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	phone        TEXT NOT NULL DEFAULT '',
	credit_limit NUMERIC NOT NULL DEFAULT 0 CHECK (credit_limit >= 0),
	user_id      TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	client_id   TEXT NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
	type        TEXT NOT NULL CHECK (type IN ('credit', 'payment')),
	amount      NUMERIC NOT NULL CHECK (amount > 0),
	date        DATE NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	user_id     TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_client ON transactions (client_id);
`

// PostgresLedgerStore is the lib/pq implementation of interfaces.LedgerStore.
type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{db: db}
}

// Migrate applies the reference schema.
func (p *PostgresLedgerStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (p *PostgresLedgerStore) SaveClient(ctx context.Context, client models.Client) error {
	const query = `INSERT INTO clients (id, name, phone, credit_limit, user_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := p.db.ExecContext(ctx, query,
		client.ID, client.Name, client.Phone, client.CreditLimit, client.UserID, client.CreatedAt)
	return err
}

func (p *PostgresLedgerStore) GetClient(ctx context.Context, clientID string) (models.Client, error) {
	const query = `SELECT id, name, phone, credit_limit, user_id, created_at
	FROM clients WHERE id = $1`

	var client models.Client
	err := p.db.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID, &client.Name, &client.Phone, &client.CreditLimit, &client.UserID, &client.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Client{}, interfaces.ErrClientNotFound
	}
	if err != nil {
		return models.Client{}, err
	}
	return client, nil
}

func (p *PostgresLedgerStore) ListClients(ctx context.Context) ([]models.Client, error) {
	const query = `SELECT id, name, phone, credit_limit, user_id, created_at
	FROM clients ORDER BY name`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var client models.Client
		if err := rows.Scan(
			&client.ID, &client.Name, &client.Phone, &client.CreditLimit, &client.UserID, &client.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clients, nil
}

func (p *PostgresLedgerStore) SaveTransaction(ctx context.Context, tx models.Transaction) error {
	const query = `INSERT INTO transactions (id, client_id, type, amount, date, description, user_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := p.db.ExecContext(ctx, query,
		tx.ID, tx.ClientID, tx.Kind, tx.Amount, tx.Date, tx.Description, tx.UserID, tx.CreatedAt)
	return err
}

func (p *PostgresLedgerStore) GetTransactionsByClient(ctx context.Context, clientID string) ([]models.Transaction, error) {
	const query = `SELECT id, client_id, type, amount, date, description, user_id, created_at
	FROM transactions WHERE client_id = $1`

	rows, err := p.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (p *PostgresLedgerStore) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	const query = `SELECT id, client_id, type, amount, date, description, user_id, created_at
	FROM transactions`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.ClientID, &tx.Kind, &tx.Amount, &tx.Date, &tx.Description, &tx.UserID, &tx.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
