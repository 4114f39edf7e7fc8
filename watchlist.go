package cryptofolio

import (
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
)

// Condition tells on which side of the target price an alert fires.
type Condition string

const (
	Above Condition = "ABOVE"
	Below Condition = "BELOW"
)

// ParseCondition parses a string into a Condition.
func ParseCondition(s string) (Condition, error) {
	switch Condition(s) {
	case Above:
		return Above, nil
	case Below:
		return Below, nil
	default:
		return "", fmt.Errorf("unknown watchlist condition: %q", s)
	}
}

// WatchlistEntry is a price-target alert on a single coin. Entries are
// created and removed directly by the user and are independent of the ledger.
type WatchlistEntry struct {
	ID          uuid.UUID
	CoinID      string
	TargetPrice Money
	Condition   Condition
	Notes       string
}

// WatchlistInput carries the user-supplied fields of a watchlist entry.
type WatchlistInput struct {
	CoinID      string
	TargetPrice Money
	Condition   Condition
	Notes       string
}

// ErrEntryNotFound is returned when removing an unknown watchlist entry.
var ErrEntryNotFound = errors.New("watchlist entry not found")

// Watchlist is an ordered list of price-target alerts.
type Watchlist struct {
	entries []WatchlistEntry
}

// NewWatchlist creates an empty watchlist.
func NewWatchlist() *Watchlist {
	return &Watchlist{entries: make([]WatchlistEntry, 0)}
}

// Add validates the input, assigns a unique identifier and appends the entry.
func (w *Watchlist) Add(in WatchlistInput) (WatchlistEntry, error) {
	if in.CoinID == "" {
		return WatchlistEntry{}, errors.New("watchlist coin is missing")
	}
	if _, err := ParseCondition(string(in.Condition)); err != nil {
		return WatchlistEntry{}, err
	}
	if !in.TargetPrice.IsPositive() {
		return WatchlistEntry{}, fmt.Errorf("watchlist target price must be positive, got %s", in.TargetPrice)
	}
	entry := WatchlistEntry{
		ID:          uuid.New(),
		CoinID:      in.CoinID,
		TargetPrice: in.TargetPrice,
		Condition:   in.Condition,
		Notes:       in.Notes,
	}
	w.entries = append(w.entries, entry)
	return entry, nil
}

// Remove deletes the entry with this ID. Removal is the only way to silence a
// recurring hit.
func (w *Watchlist) Remove(id uuid.UUID) error {
	for i, e := range w.entries {
		if e.ID == id {
			w.entries = append(w.entries[:i], w.entries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// Len returns the number of entries.
func (w *Watchlist) Len() int { return len(w.entries) }

// Entries iterates over the entries in insertion order.
func (w *Watchlist) Entries() iter.Seq[WatchlistEntry] {
	return func(yield func(WatchlistEntry) bool) {
		for _, e := range w.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the watchlist.
func (w *Watchlist) Clone() *Watchlist {
	c := &Watchlist{entries: make([]WatchlistEntry, len(w.entries))}
	copy(c.entries, w.entries)
	return c
}

// Alert is the evaluation of one watchlist entry against a market snapshot.
type Alert struct {
	Entry WatchlistEntry
	Hit   bool
}

// EvaluateWatchlist checks every entry against the registry. It is pure and
// keeps no state between calls: a hit is recomputed fresh on every tick, it
// is never latched or acknowledged. An entry on a coin missing from the
// registry is never a hit.
func EvaluateWatchlist(w *Watchlist, reg Registry) []Alert {
	alerts := make([]Alert, 0, w.Len())
	for e := range w.Entries() {
		alert := Alert{Entry: e}
		if coin, ok := reg.Coin(e.CoinID); ok {
			switch e.Condition {
			case Above:
				alert.Hit = coin.Price.GreaterThanOrEqual(e.TargetPrice)
			case Below:
				alert.Hit = coin.Price.LessThanOrEqual(e.TargetPrice)
			}
		}
		alerts = append(alerts, alert)
	}
	return alerts
}
