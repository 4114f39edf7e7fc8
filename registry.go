package cryptofolio

import "iter"

// Coin is a tradable asset quoted in the reference currency.
type Coin struct {
	ID        string  // stable identifier, e.g. "bitcoin"
	Symbol    string  // ticker symbol, e.g. "BTC"
	Name      string  // display name
	Price     Money   // current price per coin
	Change24h Percent // accumulated 24h change
}

// Registry is an ordered, immutable snapshot of tradable coins.
//
// Only the market simulator produces new registries; everything else reads
// them. A Registry value is never mutated in place: updates replace the whole
// snapshot, so concurrent readers cannot observe a torn state.
type Registry struct {
	coins []Coin
	index map[string]int // coin ID to position in coins
}

// NewRegistry creates a registry from a list of coins, preserving their order.
func NewRegistry(coins ...Coin) Registry {
	r := Registry{
		coins: make([]Coin, len(coins)),
		index: make(map[string]int, len(coins)),
	}
	copy(r.coins, coins)
	for i, c := range r.coins {
		r.index[c.ID] = i
	}
	return r
}

// Coin returns the coin with this ID, or false if unknown.
func (r Registry) Coin(id string) (Coin, bool) {
	i, ok := r.index[id]
	if !ok {
		return Coin{}, false
	}
	return r.coins[i], true
}

// Price returns the current price of a coin, or a zero price for a coin
// missing from the registry.
func (r Registry) Price(id string) Money {
	c, ok := r.Coin(id)
	if !ok {
		return BRL(0)
	}
	return c.Price
}

// Len returns the number of coins in the registry.
func (r Registry) Len() int { return len(r.coins) }

// Coins iterates over the coins in registry order.
func (r Registry) Coins() iter.Seq[Coin] {
	return func(yield func(Coin) bool) {
		for _, c := range r.coins {
			if !yield(c) {
				return
			}
		}
	}
}

// DefaultRegistry returns the seed market: the coins every session starts
// with, priced in the reference currency.
func DefaultRegistry() Registry {
	return NewRegistry(
		Coin{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Price: BRL(350000), Change24h: 2.5},
		Coin{ID: "ethereum", Symbol: "ETH", Name: "Ethereum", Price: BRL(18500), Change24h: -1.2},
		Coin{ID: "solana", Symbol: "SOL", Name: "Solana", Price: BRL(850), Change24h: 5.8},
		Coin{ID: "cardano", Symbol: "ADA", Name: "Cardano", Price: BRL(2.50), Change24h: 0.5},
		Coin{ID: "polkadot", Symbol: "DOT", Name: "Polkadot", Price: BRL(35.00), Change24h: -3.4},
		Coin{ID: "chainlink", Symbol: "LINK", Name: "Chainlink", Price: BRL(85.00), Change24h: 1.1},
		Coin{ID: "matic", Symbol: "MATIC", Name: "Polygon", Price: BRL(4.20), Change24h: -0.8},
		Coin{ID: "dogecoin", Symbol: "DOGE", Name: "Dogecoin", Price: BRL(0.65), Change24h: 12.5},
	)
}
