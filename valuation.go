package cryptofolio

import "sort"

// Position is the derived state of a single coin holding. It is a view, not
// an entity: it is recomputed from scratch on every ledger or market change
// and never stored.
type Position struct {
	CoinID          string
	TotalAmount     Quantity // quantity currently held
	TotalInvested   Money    // cost basis still attributed to the open quantity
	AverageBuyPrice Money    // TotalInvested / TotalAmount
	CurrentValue    Money
	Profit          Money
	ProfitPercent   Percent
	Unpriced        bool // the coin is missing from the registry; valued at 0
}

// Valuate folds the ledger into per-coin positions and values them against
// the registry. It is pure and deterministic: the same ledger and registry
// always yield the identical result.
//
// Cost accounting is weighted-average. A buy adds amount×price+fee to the
// cost basis; a sell removes the share of the basis proportional to the
// quantity sold, with the pre-sale quantity as denominator, so the average
// cost of the remaining position is unchanged by the sale.
//
// Positions whose remaining quantity is dust are dropped. The result is
// sorted by descending current value, ties keeping first-buy order.
func Valuate(ledger *Ledger, reg Registry) []Position {
	type accumulator struct {
		amount   Quantity
		invested Money
	}
	accs := make(map[string]*accumulator)
	var order []string // first-seen order, for deterministic ties

	for _, tx := range ledger.Transactions() {
		acc, ok := accs[tx.CoinID]
		if !ok {
			acc = &accumulator{invested: BRL(0)}
			accs[tx.CoinID] = acc
			order = append(order, tx.CoinID)
		}
		switch tx.Type {
		case Buy:
			acc.invested = acc.invested.Add(tx.Cost())
			acc.amount = acc.amount.Add(tx.Amount)
		case Sell:
			// The ledger rejects oversells, but a hand-built ledger could
			// still contain one; never divide by a non-positive position.
			if !acc.amount.IsPositive() {
				continue
			}
			ratio := tx.Amount.Div(acc.amount)
			acc.invested = acc.invested.Sub(acc.invested.Mul(ratio))
			acc.amount = acc.amount.Sub(tx.Amount)
		}
	}

	positions := make([]Position, 0, len(order))
	for _, coinID := range order {
		acc := accs[coinID]
		if acc.amount.IsDust() {
			continue
		}

		pos := Position{
			CoinID:          coinID,
			TotalAmount:     acc.amount,
			TotalInvested:   acc.invested,
			AverageBuyPrice: acc.invested.Div(acc.amount),
		}

		price := BRL(0)
		if coin, ok := reg.Coin(coinID); ok {
			price = coin.Price
		} else {
			pos.Unpriced = true
		}
		pos.CurrentValue = price.Mul(acc.amount)
		pos.Profit = pos.CurrentValue.Sub(acc.invested)
		pos.ProfitPercent = pos.Profit.PercentOf(acc.invested)

		positions = append(positions, pos)
	}

	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].CurrentValue.GreaterThan(positions[j].CurrentValue)
	})
	return positions
}

// TotalValue sums the current value of all positions.
func TotalValue(positions []Position) Money {
	total := BRL(0)
	for _, p := range positions {
		total = total.Add(p.CurrentValue)
	}
	return total
}

// TotalInvested sums the cost basis of all positions.
func TotalInvested(positions []Position) Money {
	total := BRL(0)
	for _, p := range positions {
		total = total.Add(p.TotalInvested)
	}
	return total
}

// TotalProfit sums the unrealized profit of all positions.
func TotalProfit(positions []Position) Money {
	total := BRL(0)
	for _, p := range positions {
		total = total.Add(p.Profit)
	}
	return total
}
