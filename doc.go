// Package cryptofolio provides the core engine of a cryptocurrency portfolio
// tracker. It records buy and sell transactions, maintains a simulated live
// market, and derives a consolidated valuation of the holdings in real time.
//
// The core functionalities include:
//   - Transaction Ledger: an append-only, insertion-ordered record of BUY and
//     SELL transactions, the only way portfolio state changes.
//   - Market Simulation: a pure price simulator that perturbs every coin's
//     price by a small random factor on each tick.
//   - Valuation Engine: a pure function of (ledger, registry) that computes
//     per-coin positions with weighted-average cost basis, current value and
//     unrealized profit.
//   - Watchlist: price-target alerts evaluated fresh against every market
//     snapshot.
//   - Session: a host that owns the live state and serializes ticks and user
//     events, so every reader observes a consistent, non-torn snapshot.
//
// All state lives in process memory for the lifetime of a session; positions
// are a derived view and are never stored. This package serves as the
// foundational logic for the `cfol` command-line tool.
package cryptofolio
