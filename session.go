package cryptofolio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultTickInterval is the cadence of the market simulator.
const DefaultTickInterval = 3 * time.Second

// State is one consistent snapshot of everything a session tracks. A state
// is immutable once published: updates build a new State and replace the
// whole snapshot, so readers never observe a torn view.
type State struct {
	Registry  Registry
	Ledger    *Ledger
	Watchlist *Watchlist
}

// ErrSessionClosed is returned by operations on a session whose update loop
// has stopped.
var ErrSessionClosed = errors.New("session is closed")

// Session hosts the live state for the lifetime of one user session.
//
// Two trigger sources mutate the state: the periodic simulator tick and
// discrete user events (transactions, watchlist edits). Both serialize
// through a single update goroutine, so no two updates ever run
// concurrently and no locking of the state itself is needed.
type Session struct {
	sim      *Simulator
	interval time.Duration

	current atomic.Pointer[State]
	updates chan func(*State) *State

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}
}

// NewSession creates a session seeded with the given state. A nil simulator
// gets the default volatility; a non-positive interval falls back to
// DefaultTickInterval.
func NewSession(initial State, sim *Simulator, interval time.Duration) *Session {
	if sim == nil {
		sim = NewSimulator(DefaultVolatility, nil)
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if initial.Ledger == nil {
		initial.Ledger = NewLedger()
	}
	if initial.Watchlist == nil {
		initial.Watchlist = NewWatchlist()
	}
	s := &Session{
		sim:      sim,
		interval: interval,
		updates:  make(chan func(*State) *State),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	s.current.Store(&initial)
	return s
}

// Start launches the update loop and the periodic simulator tick. The session
// stops when ctx is cancelled or Close is called; after that no tick runs
// against released state.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
}

func (s *Session) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.close()
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.apply(s.advance)
		case update := <-s.updates:
			s.apply(update)
		}
	}
}

// apply runs one update against the current snapshot and publishes the
// replacement. Updates run one at a time, on the loop goroutine only.
func (s *Session) apply(update func(*State) *State) {
	prev := s.current.Load()
	if next := update(prev); next != nil {
		s.current.Store(next)
	}
}

// advance is the tick update: it replaces the registry with the simulator's
// next market snapshot.
func (s *Session) advance(prev *State) *State {
	return &State{
		Registry:  s.sim.Advance(prev.Registry),
		Ledger:    prev.Ledger,
		Watchlist: prev.Watchlist,
	}
}

// Close stops the tick and the update loop. It is safe to call more than
// once and it blocks until the loop has exited.
func (s *Session) Close() {
	s.close()
	<-s.stopped
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Snapshot returns the current consistent state. The returned state is
// immutable; it stays valid even as newer snapshots replace it.
func (s *Session) Snapshot() *State {
	return s.current.Load()
}

// submit queues an update and waits for the loop to run it, returning
// ErrSessionClosed when the loop is gone.
func (s *Session) submit(update func(*State) *State) error {
	ran := make(chan struct{})
	wrapped := func(prev *State) *State {
		defer close(ran)
		return update(prev)
	}
	select {
	case s.updates <- wrapped:
		<-ran
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-s.stopped:
		return ErrSessionClosed
	}
}

// Tick advances the market once, outside the periodic cadence. Tests and the
// hosting loop use it to drive the simulator deterministically.
func (s *Session) Tick() error {
	return s.submit(s.advance)
}

// SubmitTransaction validates and appends a transaction. On validation error
// the published state is unchanged.
func (s *Session) SubmitTransaction(in TransactionInput) (Transaction, error) {
	var tx Transaction
	var txErr error
	err := s.submit(func(prev *State) *State {
		ledger := prev.Ledger.Clone()
		tx, txErr = ledger.Submit(in)
		if txErr != nil {
			return nil
		}
		return &State{Registry: prev.Registry, Ledger: ledger, Watchlist: prev.Watchlist}
	})
	if err != nil {
		return Transaction{}, err
	}
	return tx, txErr
}

// Watch adds a watchlist entry.
func (s *Session) Watch(in WatchlistInput) (WatchlistEntry, error) {
	var entry WatchlistEntry
	var addErr error
	err := s.submit(func(prev *State) *State {
		watchlist := prev.Watchlist.Clone()
		entry, addErr = watchlist.Add(in)
		if addErr != nil {
			return nil
		}
		return &State{Registry: prev.Registry, Ledger: prev.Ledger, Watchlist: watchlist}
	})
	if err != nil {
		return WatchlistEntry{}, err
	}
	return entry, addErr
}

// Unwatch removes a watchlist entry by ID.
func (s *Session) Unwatch(id uuid.UUID) error {
	var rmErr error
	err := s.submit(func(prev *State) *State {
		watchlist := prev.Watchlist.Clone()
		if rmErr = watchlist.Remove(id); rmErr != nil {
			return nil
		}
		return &State{Registry: prev.Registry, Ledger: prev.Ledger, Watchlist: watchlist}
	})
	if err != nil {
		return err
	}
	return rmErr
}

// Positions valuates the current snapshot.
func (s *Session) Positions() []Position {
	state := s.Snapshot()
	return Valuate(state.Ledger, state.Registry)
}

// Alerts evaluates the watchlist against the current snapshot.
func (s *Session) Alerts() []Alert {
	state := s.Snapshot()
	return EvaluateWatchlist(state.Watchlist, state.Registry)
}
