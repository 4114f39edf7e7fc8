// Package renderer turns engine views into markdown for the CLI.
package renderer

import (
	"fmt"
	"strings"

	"github.com/lfmartins/cryptofolio"
	"github.com/lfmartins/cryptofolio/advisor"
)

// Market renders the current market snapshot.
func Market(reg cryptofolio.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Market\n\n")
	fmt.Fprintln(&b, "| Symbol | Name | Price | 24h |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for c := range reg.Coins() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			c.Symbol, c.Name, c.Price, c.Change24h.SignedString())
	}
	return b.String()
}

// Positions renders the valuated portfolio with a total row.
func Positions(positions []cryptofolio.Position, reg cryptofolio.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio\n\n")
	if len(positions) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Coin | Amount | Avg Price | Invested | Value | Profit | Profit % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, p := range positions {
		name := p.CoinID
		if coin, ok := reg.Coin(p.CoinID); ok {
			name = coin.Symbol
		}
		if p.Unpriced {
			name += " (no price)"
		}
		fmt.Fprintf(&b, "| %s | %.6f | %s | %s | %s | %s | %s |\n",
			name,
			p.TotalAmount.AsFloat(),
			p.AverageBuyPrice,
			p.TotalInvested,
			p.CurrentValue,
			p.Profit.SignedString(),
			p.ProfitPercent.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | %s | %s | %s | %s |\n",
		cryptofolio.TotalInvested(positions),
		cryptofolio.TotalValue(positions),
		cryptofolio.TotalProfit(positions).SignedString(),
		cryptofolio.TotalProfit(positions).PercentOf(cryptofolio.TotalInvested(positions)).SignedString(),
	)
	return b.String()
}

// Watchlist renders the evaluated watchlist.
func Watchlist(alerts []cryptofolio.Alert, reg cryptofolio.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Watchlist\n\n")
	if len(alerts) == 0 {
		fmt.Fprintln(&b, "No watchlist entries.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Coin | Condition | Target | Current | Hit |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|:---:|")
	for _, a := range alerts {
		name := a.Entry.CoinID
		current := "?"
		if coin, ok := reg.Coin(a.Entry.CoinID); ok {
			name = coin.Symbol
			current = coin.Price.String()
		}
		hit := " "
		if a.Hit {
			hit = "X"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			name, a.Entry.Condition, a.Entry.TargetPrice, current, hit)
	}
	return b.String()
}

// Transaction renders a transaction to a one-line string.
func Transaction(tx cryptofolio.Transaction) string {
	switch tx.Type {
	case cryptofolio.Buy:
		return fmt.Sprintf("Bought %s of %s at %s (fee %s) on %s",
			tx.Amount, tx.CoinID, tx.PricePerCoin, tx.Fee, tx.Exchange)
	case cryptofolio.Sell:
		return fmt.Sprintf("Sold %s of %s at %s on %s",
			tx.Amount, tx.CoinID, tx.PricePerCoin, tx.Exchange)
	default:
		return string(tx.Type)
	}
}

// Transactions renders the ledger history.
func Transactions(ledger *cryptofolio.Ledger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	if ledger.Len() == 0 {
		fmt.Fprintln(&b, "No transactions yet.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Type | Coin | Amount | Price | Fee | Exchange |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|:---|")
	for _, tx := range ledger.Transactions() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Date.Format("2006-01-02 15:04"),
			tx.Type, tx.CoinID, tx.Amount, tx.PricePerCoin, tx.Fee, tx.Exchange)
	}
	return b.String()
}

// Opinion renders an advisory opinion.
func Opinion(op advisor.Opinion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Advisory\n\n")
	fmt.Fprintf(&b, "**Sentiment**: %s\n\n", op.Sentiment)
	fmt.Fprintf(&b, "**Risk level**: %s\n\n", op.RiskLevel)
	fmt.Fprintf(&b, "%s\n\n", op.MainInsight)
	for _, tip := range op.Tips {
		fmt.Fprintf(&b, "- %s\n", tip)
	}
	return b.String()
}
