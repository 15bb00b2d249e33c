package storefront

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/storefront/backend/internal/domain/cart"
	"go.uber.org/zap"
)

// Phase is the hydration phase of the Store
type Phase int32

const (
	PhaseUninitialized Phase = iota
	PhaseHydrating
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseHydrating:
		return "hydrating"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// Listener is notified with the new state after every change
type Listener func(state cart.State)

// Store is the single writer of the shopper's client state.
// Nothing is written to storage until the persisted snapshot has been read.
type Store struct {
	mu        sync.Mutex
	storage   LocalStorage
	logger    *zap.Logger
	state     cart.State
	phase     Phase
	once      sync.Once
	listeners []Listener
}

// NewStore creates a Store over storage. Call Hydrate before relying on the
// persisted cart.
func NewStore(storage LocalStorage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage: storage,
		logger:  logger,
		state:   cart.NewState(),
		phase:   PhaseUninitialized,
	}
}

// Hydrate loads the persisted snapshot and moves the store to Ready.
// It runs once; later calls return immediately. A missing, unreadable or
// corrupt snapshot leaves the cart empty.
func (s *Store) Hydrate(ctx context.Context) {
	s.once.Do(func() {
		s.setPhase(PhaseHydrating)

		snapshot, ok := s.readSnapshot(ctx)

		s.mu.Lock()
		if ok {
			s.state = cart.Reduce(s.state, cart.Hydrate{Snapshot: snapshot})
		}
		s.phase = PhaseReady
		state := s.state.Clone()
		listeners := append([]Listener(nil), s.listeners...)
		s.mu.Unlock()

		s.logger.Debug("Cart state hydrated",
			zap.Bool("restored", ok),
			zap.Int("items", len(state.Items)),
			zap.Int("wishlist", len(state.Wishlist)),
		)
		notify(listeners, state)
	})
}

func (s *Store) readSnapshot(ctx context.Context) (cart.Snapshot, bool) {
	raw, found, err := s.storage.GetItem(ctx, StateKey)
	if err != nil {
		s.logger.Warn("Failed to read cart state", zap.Error(err))
		return cart.Snapshot{}, false
	}
	if !found || raw == "" {
		return cart.Snapshot{}, false
	}
	var snapshot cart.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.logger.Warn("Discarding corrupt cart state", zap.Error(err))
		return cart.Snapshot{}, false
	}
	return snapshot, true
}

// Dispatch applies action and returns the new state. Once the store is Ready
// the durable snapshot is rewritten; storage failures are logged only.
func (s *Store) Dispatch(ctx context.Context, action cart.Action) cart.State {
	s.mu.Lock()
	s.state = cart.Reduce(s.state, action)
	state := s.state.Clone()
	ready := s.phase == PhaseReady
	if ready {
		s.persist(ctx, state.Snapshot())
	}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.logger.Debug("Cart action dispatched",
		zap.String("action", action.Name()),
		zap.Bool("persisted", ready),
	)
	notify(listeners, state)
	return state
}

// persist must be called with mu held so snapshots reach storage in dispatch order
func (s *Store) persist(ctx context.Context, snapshot cart.Snapshot) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("Failed to encode cart state", zap.Error(err))
		return
	}
	if err := s.storage.SetItem(ctx, StateKey, string(raw)); err != nil {
		s.logger.Warn("Failed to write cart state", zap.Error(err))
	}
}

// State returns a copy of the current state
func (s *Store) State() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Phase returns the hydration phase
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Subscribe registers fn for state changes
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

func notify(listeners []Listener, state cart.State) {
	for _, fn := range listeners {
		fn(state)
	}
}
