// Package export renders portfolio snapshots and transaction logs as CSV
// downloads and plain-text reports.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

// PortfolioCSV renders the valued holdings as CSV with a trailing totals row.
func PortfolioCSV(snapshot domain.PortfolioSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Coin", "Amount", "Current Price (USD)", "Current Value (USD)",
		"Cost Basis (USD)", "Avg Cost Per Coin", "Profit/Loss (USD)",
		"Profit/Loss (%)", "24h Change (%)",
	}
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "write header")
	}

	for _, a := range snapshot.Assets {
		name := a.Name
		if name == "" {
			name = a.AssetID
		}
		row := []string{
			name,
			a.Amount.StringFixed(4),
			a.Price.StringFixed(2),
			a.MarketValue.StringFixed(2),
			a.CostBasis.StringFixed(2),
			a.AverageCost.StringFixed(2),
			a.UnrealizedPL.StringFixed(2),
			fmt.Sprintf("%.2f", a.UnrealizedPLPercent),
			fmt.Sprintf("%.2f", a.Change24h),
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "write row")
		}
	}

	totals := []string{
		"TOTAL", "", "",
		snapshot.TotalValue.StringFixed(2),
		snapshot.TotalCost.StringFixed(2),
		"",
		snapshot.TotalPL.StringFixed(2),
		fmt.Sprintf("%.2f", snapshot.TotalPLPercent),
		"",
	}
	if err := w.Write(totals); err != nil {
		return nil, errors.Wrap(err, "write totals")
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// TransactionsCSV renders the transaction history as CSV.
func TransactionsCSV(txs []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"ID", "Date", "Type", "Coin", "Amount", "Price Per Coin (USD)", "Total (USD)"}
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "write header")
	}

	for _, tx := range txs {
		name := tx.AssetID
		if asset, ok := domain.AssetByID(tx.AssetID); ok {
			name = asset.Name
		}
		row := []string{
			tx.ID.String(),
			tx.Timestamp.Format("2006-01-02 15:04:05"),
			strings.ToUpper(string(tx.Side)),
			name,
			tx.Amount.StringFixed(4),
			tx.UnitPrice.StringFixed(2),
			tx.Total().StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "write row")
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// Report renders a plain-text portfolio summary.
func Report(record domain.ValuationRecord, generatedAt time.Time) string {
	var b strings.Builder
	divider := strings.Repeat("=", 50)

	fmt.Fprintln(&b, divider)
	fmt.Fprintln(&b, "CRYPTO PORTFOLIO REPORT")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, divider)
	fmt.Fprintln(&b)

	snap := record.Snapshot
	fmt.Fprintf(&b, "Total Portfolio Value: $%s\n", snap.TotalValue.StringFixed(2))
	fmt.Fprintf(&b, "Total Cost Basis: $%s\n", snap.TotalCost.StringFixed(2))
	fmt.Fprintf(&b, "Total Profit/Loss: $%s\n", snap.TotalPL.StringFixed(2))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Risk Score: %.1f/100 (%s)\n", record.Risk.RiskScore, record.Risk.Level)
	fmt.Fprintf(&b, "Value at Risk (95%%): $%s\n", record.Risk.ValueAtRisk95.StringFixed(2))
	fmt.Fprintf(&b, "Diversification Score: %.1f/100\n", record.Risk.DiversificationScore)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "HOLDINGS:")
	fmt.Fprintln(&b, strings.Repeat("-", 50))

	for _, a := range snap.Assets {
		name := a.Name
		if name == "" {
			name = a.AssetID
		}
		fmt.Fprintf(&b, "  %s: %s coins\n", name, a.Amount.StringFixed(4))
		fmt.Fprintf(&b, "    Value: $%s | P/L: $%s\n",
			a.MarketValue.StringFixed(2), a.UnrealizedPL.StringFixed(2))
	}

	return b.String()
}
