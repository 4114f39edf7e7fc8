package cryptofolio

import (
	"iter"
	"time"

	"github.com/google/uuid"
)

// Ledger is an append-only list of transactions.
//
// Transactions are kept in insertion order, which is the chronological order
// of entry. Valuation depends on that order, not on the Date field.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make([]Transaction, 0)}
}

// Submit validates the input, assigns a unique identifier and appends the
// resulting transaction. On error the ledger is left unchanged.
func (l *Ledger) Submit(in TransactionInput) (Transaction, error) {
	if err := in.validate(l.Position(in.CoinID)); err != nil {
		return Transaction{}, err
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	tx := Transaction{
		ID:           uuid.New(),
		CoinID:       in.CoinID,
		Exchange:     in.Exchange,
		Type:         in.Type,
		Amount:       in.Amount,
		PricePerCoin: in.PricePerCoin,
		Fee:          in.Fee,
		Date:         in.Date,
		Notes:        in.Notes,
	}
	l.transactions = append(l.transactions, tx)
	return tx, nil
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator that yields each transaction in insertion order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Position computes the quantity of a coin currently held by replaying the
// ledger.
func (l *Ledger) Position(coinID string) Quantity {
	var position Quantity
	for _, tx := range l.transactions {
		if tx.CoinID != coinID {
			continue
		}
		switch tx.Type {
		case Buy:
			position = position.Add(tx.Amount)
		case Sell:
			position = position.Sub(tx.Amount)
		}
	}
	return position
}

// Holdings computes the quantity held of every coin the ledger mentions.
// Coins whose net position is dust are omitted.
func (l *Ledger) Holdings() map[string]Quantity {
	holdings := make(map[string]Quantity)
	for _, tx := range l.transactions {
		switch tx.Type {
		case Buy:
			holdings[tx.CoinID] = holdings[tx.CoinID].Add(tx.Amount)
		case Sell:
			holdings[tx.CoinID] = holdings[tx.CoinID].Sub(tx.Amount)
		}
	}
	for coinID, held := range holdings {
		if held.IsDust() {
			delete(holdings, coinID)
		}
	}
	return holdings
}

// Clone returns an independent copy of the ledger. The session uses it to
// build the next state snapshot without mutating the current one.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{transactions: make([]Transaction, len(l.transactions))}
	copy(c.transactions, l.transactions)
	return c
}
