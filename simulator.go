package cryptofolio

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultVolatility bounds the per-tick price move to ±0.5%.
const DefaultVolatility = 0.005

// Simulator perturbs market prices to mimic live exchange data.
//
// Advance is a total function from registry to registry: it never fails, and
// with volatility < 1 a price can drift toward, but never reach, zero.
type Simulator struct {
	volatility float64
	rng        *rand.Rand
}

// NewSimulator creates a simulator with the given volatility. A non-positive
// volatility falls back to DefaultVolatility. A nil rng gets a time-seeded
// source; tests pass a seeded one for reproducible runs.
func NewSimulator(volatility float64, rng *rand.Rand) *Simulator {
	if volatility <= 0 {
		volatility = DefaultVolatility
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{volatility: volatility, rng: rng}
}

// Volatility returns the per-tick volatility bound.
func (s *Simulator) Volatility() float64 { return s.volatility }

// Advance produces a new registry where every coin's price is multiplied by
// 1+δ, with δ drawn uniformly from [-volatility, +volatility], and its 24h
// change is incremented by δ×100, kept at two-decimal precision.
//
// The input registry is left untouched.
func (s *Simulator) Advance(reg Registry) Registry {
	next := make([]Coin, 0, reg.Len())
	for c := range reg.Coins() {
		delta := (s.rng.Float64()*2 - 1) * s.volatility

		c.Price = c.Price.Mul(Q(1 + delta))
		change := decimal.NewFromFloat(float64(c.Change24h) + delta*100)
		c.Change24h = Percent(change.Round(2).InexactFloat64())

		next = append(next, c)
	}
	return NewRegistry(next...)
}
