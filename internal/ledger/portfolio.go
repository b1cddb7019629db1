package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finanzaspro/credit-ledger/internal/models"
)

// TrendMonths is the length of the dashboard trend series, current
// calendar month included.
const TrendMonths = 6

// LimitAlertPct is the utilization percentage at which the credit-limit
// alert fires.
var LimitAlertPct = decimal.NewFromInt(90)

// ClientLedger pairs a client with its fetched transaction history. The
// aggregator works over a roster of these so it stays pure: all I/O has
// already happened by the time it runs.
type ClientLedger struct {
	Client       models.Client
	Transactions []models.Transaction
}

// Report derives every per-client figure from one transaction set.
func Report(client models.Client, transactions []models.Transaction, now time.Time) (models.ClientReport, error) {
	balance, err := Balance(transactions)
	if err != nil {
		return models.ClientReport{}, fmt.Errorf("client %s: %w", client.ID, err)
	}

	days := DaysInArrears(transactions, balance, now)
	report := models.ClientReport{
		Client:         client,
		Balance:        balance,
		DaysInArrears:  days,
		Classification: Classify(balance, days),
	}
	if pct, ok := UtilizationPct(balance, client.CreditLimit); ok {
		report.UtilizationPct = &pct
	}
	return report, nil
}

// monthKey buckets a date by calendar month.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// startOfMonth returns midnight UTC on the first day of t's month.
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyTotals sums credit and collections for transactions dated within
// the calendar month containing ref.
func MonthlyTotals(transactions []models.Transaction, ref time.Time) (credit, collections decimal.Decimal) {
	credit, collections = decimal.Zero, decimal.Zero
	key := monthKey(ref)
	for _, tx := range transactions {
		if monthKey(tx.Date) != key {
			continue
		}
		if tx.Kind == models.KindCredit {
			credit = credit.Add(tx.Amount)
		} else {
			collections = collections.Add(tx.Amount)
		}
	}
	return credit, collections
}

// PercentChange is (current − previous) / previous × 100, with the
// explicit convention that a zero previous period reports 0 rather than
// blowing up or producing an unusable value.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// Trend buckets the trailing months (current included) by calendar month,
// oldest bucket first. Empty months are present with zero totals so charts
// keep a continuous axis.
func Trend(transactions []models.Transaction, now time.Time, months int) []models.TrendPoint {
	totals := make(map[string]*models.TrendPoint, months)
	points := make([]models.TrendPoint, 0, months)

	first := startOfMonth(now).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		month := first.AddDate(0, i, 0)
		points = append(points, models.TrendPoint{
			Period:      monthKey(month),
			Label:       month.Format("Jan"),
			Credit:      decimal.Zero,
			Collections: decimal.Zero,
		})
	}
	for i := range points {
		totals[points[i].Period] = &points[i]
	}

	for _, tx := range transactions {
		point, ok := totals[monthKey(tx.Date)]
		if !ok {
			continue // outside the window
		}
		if tx.Kind == models.KindCredit {
			point.Credit = point.Credit.Add(tx.Amount)
		} else {
			point.Collections = point.Collections.Add(tx.Amount)
		}
	}
	return points
}

// Portfolio composes the full dashboard aggregate over the roster.
// Monthly figures and the trend are window-limited; the active portfolio
// total is lifetime credit minus lifetime collections.
func Portfolio(roster []ClientLedger, now time.Time) (models.PortfolioReport, error) {
	var all []models.Transaction
	clients := make([]models.ClientReport, 0, len(roster))
	for _, entry := range roster {
		report, err := Report(entry.Client, entry.Transactions, now)
		if err != nil {
			return models.PortfolioReport{}, err
		}
		clients = append(clients, report)
		all = append(all, entry.Transactions...)
	}

	monthCredit, monthCollections := MonthlyTotals(all, now)
	prevCredit, prevCollections := MonthlyTotals(all, startOfMonth(now).AddDate(0, -1, 0))

	total, err := Balance(all)
	if err != nil {
		return models.PortfolioReport{}, err
	}

	return models.PortfolioReport{
		MonthlyCredit:        monthCredit,
		MonthlyCollections:   monthCollections,
		TotalActivePortfolio: total,
		CreditChangePct:      PercentChange(monthCredit, prevCredit),
		CollectionsChangePct: PercentChange(monthCollections, prevCollections),
		Trend:                Trend(all, now, TrendMonths),
		Clients:              clients,
	}, nil
}

// Alerts scans the roster and emits one alert per client per triggered
// condition. Clients with a settled balance never alert.
func Alerts(roster []ClientLedger, now time.Time) ([]models.Alert, error) {
	var alerts []models.Alert
	for _, entry := range roster {
		balance, err := Balance(entry.Transactions)
		if err != nil {
			return nil, fmt.Errorf("client %s: %w", entry.Client.ID, err)
		}
		if balance.Cmp(decimal.Zero) <= 0 {
			continue
		}

		if pct, ok := UtilizationPct(balance, entry.Client.CreditLimit); ok && pct.Cmp(LimitAlertPct) >= 0 {
			alerts = append(alerts, models.Alert{
				ID:          fmt.Sprintf("%s-%s", models.AlertLimit, entry.Client.ID),
				ClientID:    entry.Client.ID,
				ClientName:  entry.Client.Name,
				Kind:        models.AlertLimit,
				Message:     fmt.Sprintf("Credit limit usage at %s%%.", pct.Round(0)),
				GeneratedAt: now,
			})
		}

		if last, ok := lastTransaction(entry.Transactions); ok {
			if days := daysBetween(last.Date, now); days > InactivityAlertDays {
				alerts = append(alerts, models.Alert{
					ID:          fmt.Sprintf("%s-%s", models.AlertInactivity, entry.Client.ID),
					ClientID:    entry.Client.ID,
					ClientName:  entry.Client.Name,
					Kind:        models.AlertInactivity,
					Message:     fmt.Sprintf("No movements for %d days with an outstanding balance.", days),
					GeneratedAt: now,
				})
			}
		}
	}
	return alerts, nil
}
