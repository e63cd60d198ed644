package store

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-reducer/internal/entity"
)

// initAction - dispatched once to derive the starting state when none is given.
const initAction = "@@INIT"

type reducer interface {
	Reduce(state *entity.GameState, action entity.Action) entity.GameState
}

// Listener - receives the state produced by each dispatch.
type Listener func(state entity.GameState)

type subscription struct {
	id       uint64
	listener Listener
}

// Store - owns the game state and replaces it on every dispatched action.
type Store struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	reducer reducer

	mu     sync.Mutex
	state  entity.GameState
	nextID uint64
	subs   []subscription

	// states waiting for delivery, in reduction order
	pending   []entity.GameState
	notifying bool
}

type Option func(*Store)

func WithInitialState(state entity.GameState) Option {
	return func(that *Store) {
		that.state = state.Clone()
	}
}

func New(logger *slog.Logger, reducer reducer, tracer trace.Tracer, opts ...Option) *Store {
	store := &Store{
		logger:  logger.With("component", "store"),
		tracer:  tracer,
		reducer: reducer,
	}

	store.state = reducer.Reduce(nil, entity.Unknown{Tag: initAction})

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// State - a copy of the current state; callers may mutate it freely.
func (that *Store) State() entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Clone()
}

// Dispatch - reduces action into the current state and notifies subscribers.
// Listeners see states in the order they were reduced. A Dispatch made while another
// one is delivering (from a listener or another goroutine) returns once its state is
// queued, and the delivering call notifies on its behalf. A nil action is ignored.
func (that *Store) Dispatch(ctx context.Context, action entity.Action) entity.GameState {
	if action == nil {
		that.logger.Warn("ignoring nil action", "method", "Dispatch")
		return that.State()
	}

	log := that.logger.With("method", "Dispatch", "action", action.Type())

	_, span := that.tracer.Start(ctx, "store.dispatch")
	span.SetAttributes(attribute.String("action.type", action.Type()))
	defer span.End()

	that.mu.Lock()
	next := that.reducer.Reduce(&that.state, action)
	that.state = next
	that.pending = append(that.pending, next)

	span.SetAttributes(
		attribute.Bool("state.gameover", next.GameOver),
		attribute.Int("state.player", next.Player),
		attribute.Int("state.winner", next.Winner),
	)

	log.Debug("action dispatched", "gameover", next.GameOver, "player", next.Player, "winner", next.Winner)

	if !that.notifying {
		that.deliverLocked()
	}
	that.mu.Unlock()

	return next.Clone()
}

// deliverLocked - drains pending states to subscribers. Called with mu held; releases it
// around each listener call.
func (that *Store) deliverLocked() {
	that.notifying = true

	for len(that.pending) > 0 {
		state := that.pending[0]
		that.pending = that.pending[1:]
		subs := append([]subscription(nil), that.subs...)

		that.mu.Unlock()
		for _, sub := range subs {
			sub.listener(state.Clone())
		}
		that.mu.Lock()
	}

	that.notifying = false
}

// Subscribe - registers listener; the returned func removes it.
func (that *Store) Subscribe(listener Listener) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.nextID++
	id := that.nextID
	that.subs = append(that.subs, subscription{id: id, listener: listener})

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		for i, sub := range that.subs {
			if sub.id == id {
				that.subs = append(that.subs[:i:i], that.subs[i+1:]...)
				return
			}
		}
	}
}
