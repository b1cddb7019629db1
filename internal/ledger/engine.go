package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finanzaspro/credit-ledger/internal/interfaces"
	"github.com/finanzaspro/credit-ledger/internal/models"
)

// Write-boundary validation errors.
var (
	ErrClientNameRequired = errors.New("client name is required")
	ErrNegativeLimit      = errors.New("credit limit cannot be negative")
	ErrNoPhone            = errors.New("client has no phone on record")
)

// Engine is the single shared place every screen derives its figures from:
// client list, client detail, dashboard, notification feed and exports all
// go through it instead of re-implementing the fold. It holds no state
// between calls; every result is recomputed from the store snapshot.
type Engine struct {
	store        interfaces.LedgerStore
	log          *logrus.Logger
	businessName string
	now          func() time.Time
}

// NewEngine wires the engine to its transaction store. The store handle is
// injected, never reached for as ambient global state. businessName is used
// in reminder messages.
func NewEngine(store interfaces.LedgerStore, log *logrus.Logger, businessName string) *Engine {
	return &Engine{
		store:        store,
		log:          log,
		businessName: businessName,
		now:          time.Now,
	}
}

// WithClock overrides the engine's time source. Used by tests to pin "now".
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CreateClient validates and persists a new client.
func (e *Engine) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	if strings.TrimSpace(client.Name) == "" {
		return models.Client{}, ErrClientNameRequired
	}
	if client.CreditLimit.IsNegative() {
		return models.Client{}, ErrNegativeLimit
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = e.now()
	}
	if err := e.store.SaveClient(ctx, client); err != nil {
		return models.Client{}, fmt.Errorf("save client: %w", err)
	}
	e.log.WithFields(logrus.Fields{"client_id": client.ID, "name": client.Name}).Info("client created")
	return client, nil
}

// RecordTransaction validates and appends a ledger entry, returning the
// stored transaction, the client's new balance, and whether the entry
// pushed the balance past the client's credit limit. The write still
// succeeds on a limit breach; the flag lets the caller warn, matching the
// confirm-and-continue behaviour of the capture form.
func (e *Engine) RecordTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, decimal.Decimal, bool, error) {
	if !tx.Kind.Valid() {
		return models.Transaction{}, decimal.Zero, false, fmt.Errorf("%w: %q", ErrUnknownKind, tx.Kind)
	}
	if tx.Amount.Cmp(decimal.Zero) <= 0 {
		return models.Transaction{}, decimal.Zero, false, ErrCorruptAmount
	}

	client, err := e.store.GetClient(ctx, tx.ClientID)
	if err != nil {
		return models.Transaction{}, decimal.Zero, false, fmt.Errorf("fetch client: %w", err)
	}

	history, err := e.store.GetTransactionsByClient(ctx, tx.ClientID)
	if err != nil {
		return models.Transaction{}, decimal.Zero, false, fmt.Errorf("fetch transactions: %w", err)
	}
	balance, err := Balance(history)
	if err != nil {
		return models.Transaction{}, decimal.Zero, false, err
	}

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = e.now()
	}
	if err := e.store.SaveTransaction(ctx, tx); err != nil {
		return models.Transaction{}, decimal.Zero, false, fmt.Errorf("save transaction: %w", err)
	}

	newBalance := balance
	if tx.Kind == models.KindCredit {
		newBalance = newBalance.Add(tx.Amount)
	} else {
		newBalance = newBalance.Sub(tx.Amount)
	}
	limitExceeded := tx.Kind == models.KindCredit &&
		client.HasCreditLimit() &&
		newBalance.Cmp(client.CreditLimit) > 0

	e.log.WithFields(logrus.Fields{
		"transaction_id": tx.ID,
		"client_id":      tx.ClientID,
		"kind":           tx.Kind,
		"amount":         tx.Amount.String(),
		"new_balance":    newBalance.String(),
	}).Info("transaction recorded")

	return tx, newBalance, limitExceeded, nil
}

// ClientStatement is the client-detail view: metadata, derived figures and
// the full movement history, newest first (creation time breaks same-day
// ties).
func (e *Engine) ClientStatement(ctx context.Context, clientID string) (models.Statement, error) {
	client, err := e.store.GetClient(ctx, clientID)
	if err != nil {
		return models.Statement{}, fmt.Errorf("fetch client: %w", err)
	}
	transactions, err := e.store.GetTransactionsByClient(ctx, clientID)
	if err != nil {
		return models.Statement{}, fmt.Errorf("fetch transactions: %w", err)
	}

	report, err := Report(client, transactions, e.now())
	if err != nil {
		return models.Statement{}, err
	}

	sortNewestFirst(transactions)
	return models.Statement{ClientReport: report, Transactions: transactions}, nil
}

// ClientReports fans the per-client derivation out over the whole roster,
// ordered by client name. This backs the client list and the exports.
func (e *Engine) ClientReports(ctx context.Context) ([]models.ClientReport, error) {
	roster, err := e.roster(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]models.ClientReport, 0, len(roster))
	now := e.now()
	for _, entry := range roster {
		report, err := Report(entry.Client, entry.Transactions, now)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })
	return reports, nil
}

// Dashboard produces the portfolio aggregate consumed by the overview
// screen.
func (e *Engine) Dashboard(ctx context.Context) (models.PortfolioReport, error) {
	roster, err := e.roster(ctx)
	if err != nil {
		return models.PortfolioReport{}, err
	}
	return Portfolio(roster, e.now())
}

// Alerts produces the notification feed.
func (e *Engine) Alerts(ctx context.Context) ([]models.Alert, error) {
	roster, err := e.roster(ctx)
	if err != nil {
		return nil, err
	}
	return Alerts(roster, e.now())
}

// RecentActivity returns the latest limit transactions across all clients,
// newest first, joined with client names, plus credit/collection totals
// over that window.
func (e *Engine) RecentActivity(ctx context.Context, limit int) (models.ActivityFeed, error) {
	transactions, err := e.store.GetTransactions(ctx)
	if err != nil {
		return models.ActivityFeed{}, fmt.Errorf("fetch transactions: %w", err)
	}
	clients, err := e.store.ListClients(ctx)
	if err != nil {
		return models.ActivityFeed{}, fmt.Errorf("fetch clients: %w", err)
	}

	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	sortNewestFirst(transactions)
	if limit > 0 && len(transactions) > limit {
		transactions = transactions[:limit]
	}

	feed := models.ActivityFeed{
		Transactions:     make([]models.TransactionView, 0, len(transactions)),
		TotalCredit:      decimal.Zero,
		TotalCollections: decimal.Zero,
	}
	for _, tx := range transactions {
		feed.Transactions = append(feed.Transactions, models.TransactionView{
			Transaction: tx,
			ClientName:  names[tx.ClientID],
		})
		if tx.Kind == models.KindCredit {
			feed.TotalCredit = feed.TotalCredit.Add(tx.Amount)
		} else {
			feed.TotalCollections = feed.TotalCollections.Add(tx.Amount)
		}
	}
	return feed, nil
}

// BuildReminder assembles a WhatsApp payment reminder for a client with an
// outstanding balance: the message text plus a wa.me link built from the
// digits of the stored phone.
func (e *Engine) BuildReminder(ctx context.Context, clientID string) (models.Reminder, error) {
	statement, err := e.ClientStatement(ctx, clientID)
	if err != nil {
		return models.Reminder{}, err
	}
	phone := digitsOnly(statement.Phone)
	if phone == "" {
		return models.Reminder{}, ErrNoPhone
	}

	message := fmt.Sprintf(
		"Hola %s, te saludamos de %s. Te recordamos que tu saldo deudor actual es de $%s. ¿Podríamos coordinar tu próximo abono?",
		statement.Name, e.businessName, statement.Balance.StringFixed(2),
	)
	return models.Reminder{
		ClientID:   statement.Client.ID,
		ClientName: statement.Name,
		Phone:      phone,
		Balance:    statement.Balance,
		Message:    message,
		Link:       "https://wa.me/" + phone + "?text=" + url.QueryEscape(message),
	}, nil
}

// roster fetches every client and groups the full transaction history by
// owner. One global fetch instead of a query per client keeps the store
// round-trips flat.
func (e *Engine) roster(ctx context.Context) ([]ClientLedger, error) {
	clients, err := e.store.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch clients: %w", err)
	}
	transactions, err := e.store.GetTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	byClient := make(map[string][]models.Transaction, len(clients))
	for _, tx := range transactions {
		byClient[tx.ClientID] = append(byClient[tx.ClientID], tx)
	}

	roster := make([]ClientLedger, 0, len(clients))
	for _, client := range clients {
		roster = append(roster, ClientLedger{Client: client, Transactions: byClient[client.ID]})
	}
	return roster, nil
}

func sortNewestFirst(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.After(transactions[j].Date)
		}
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
