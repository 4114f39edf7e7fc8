package cryptofolio

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType identifies the side of a transaction.
type TransactionType string

const (
	Buy  TransactionType = "BUY"
	Sell TransactionType = "SELL"
)

// ParseTransactionType parses a string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
}

// Exchanges lists the venues a transaction can be labelled with.
var Exchanges = []string{
	"Binance",
	"Coinbase",
	"Kraken",
	"KuCoin",
	"Mercado Bitcoin",
	"Foxbit",
	"NovaDAX",
	"DeFi Wallet",
}

// Transaction is a single buy or sell record. Once appended to a ledger it is
// never edited or deleted; replaying the ledger is the only source of truth
// for portfolio state.
type Transaction struct {
	ID           uuid.UUID
	CoinID       string
	Exchange     string
	Type         TransactionType
	Amount       Quantity // quantity of coins, always positive
	PricePerCoin Money
	Fee          Money // buy-side cost, never negative
	Date         time.Time
	Notes        string
}

// Cost returns the total capital a BUY moved into the position
// (amount × price + fee), or the proceeds of a SELL (amount × price).
func (t Transaction) Cost() Money {
	cost := t.PricePerCoin.Mul(t.Amount)
	if t.Type == Buy {
		cost = cost.Add(t.Fee)
	}
	return cost
}

// TransactionInput carries the user-supplied fields of a transaction. The
// ledger assigns the identifier on submission.
type TransactionInput struct {
	CoinID       string
	Exchange     string
	Type         TransactionType
	Amount       Quantity
	PricePerCoin Money
	Fee          Money
	Date         time.Time
	Notes        string
}

// ErrOversell is returned when a SELL exceeds the currently held quantity.
var ErrOversell = errors.New("sell amount exceeds held quantity")

// validate checks the input against the quantity currently held of the coin.
// It must pass before the ledger is mutated.
func (in TransactionInput) validate(held Quantity) error {
	if in.CoinID == "" {
		return errors.New("transaction coin is missing")
	}
	if in.Type != Buy && in.Type != Sell {
		return fmt.Errorf("unknown transaction type: %q", in.Type)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", in.Amount)
	}
	if !in.PricePerCoin.IsPositive() {
		return fmt.Errorf("transaction price must be positive, got %s", in.PricePerCoin)
	}
	if in.Fee.IsNegative() {
		return fmt.Errorf("transaction fee must not be negative, got %s", in.Fee)
	}
	if in.Type == Sell && in.Amount.GreaterThan(held) {
		return fmt.Errorf("cannot sell %s of %s, position is only %s: %w",
			in.Amount, in.CoinID, held, ErrOversell)
	}
	return nil
}
