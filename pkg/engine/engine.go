package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gignova/escrow/pkg/core"
)

// Engine is the escrow state machine.
type Engine struct {
	store  core.Store
	logger *slog.Logger

	mu sync.Mutex // serializes operation admission

	subMu     sync.RWMutex
	eventSubs []chan core.Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for operation logging.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine backed by the given store.
func New(store core.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init seeds the platform configuration on first run. It is idempotent:
// once an owner is recorded, later calls leave the configuration untouched.
func (e *Engine) Init(ctx context.Context, owner, treasury string, feeBasisPoints int64) error {
	if owner == "" {
		return fmt.Errorf("escrow: owner identity must not be empty")
	}
	if feeBasisPoints < 0 || feeBasisPoints > core.MaxFeeBasisPoints {
		return core.ErrFeeExceedsMax
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.Atomically(ctx, func(tx core.Store) error {
		_, err := tx.GetPlatformConfig(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return err
		}
		return tx.SavePlatformConfig(ctx, &core.PlatformConfig{
			Owner:          owner,
			Treasury:       treasury,
			FeeBasisPoints: feeBasisPoints,
		})
	})
}

// Events returns a channel receiving events for committed transitions.
// The caller must call Unsubscribe when done to prevent resource leaks.
func (e *Engine) Events() <-chan core.Event {
	ch := make(chan core.Event, 100)
	e.subMu.Lock()
	e.eventSubs = append(e.eventSubs, ch)
	e.subMu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel created by Events().
// The channel is not closed; callers must stop reading before calling
// Unsubscribe. After it returns, no further events are sent to the channel.
func (e *Engine) Unsubscribe(ch <-chan core.Event) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for i, sub := range e.eventSubs {
		if sub == ch {
			e.eventSubs = append(e.eventSubs[:i], e.eventSubs[i+1:]...)
			return
		}
	}
}

// broadcast delivers a committed event to all subscribers.
func (e *Engine) broadcast(ev core.Event) {
	e.subMu.RLock()
	// Copy the slice so a concurrent Events() call can't race the iteration
	subs := make([]chan core.Event, len(e.eventSubs))
	copy(subs, e.eventSubs)
	e.subMu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			// Drop if full - never block a committed operation on a slow consumer
		}
	}
}

// GetContract returns the full contract record.
func (e *Engine) GetContract(ctx context.Context, contractID string) (*core.JobContract, error) {
	return e.store.GetContract(ctx, contractID)
}

// Contracts returns every contract, oldest first.
func (e *Engine) Contracts(ctx context.Context) ([]*core.JobContract, error) {
	return e.store.ListContracts(ctx)
}

// PlatformConfig returns the current platform configuration.
func (e *Engine) PlatformConfig(ctx context.Context) (*core.PlatformConfig, error) {
	return e.store.GetPlatformConfig(ctx)
}

// CustodyBalance returns the undisbursed balance held for a contract.
func (e *Engine) CustodyBalance(ctx context.Context, contractID string) (int64, error) {
	return e.store.CustodyBalance(ctx, contractID)
}

// Transfers returns the fund movement journal for a contract.
func (e *Engine) Transfers(ctx context.Context, contractID string) ([]core.Transfer, error) {
	return e.store.ListTransfers(ctx, contractID)
}

// EventLog returns committed events in emission order. An empty contractID
// selects across all contracts; limit <= 0 means no limit.
func (e *Engine) EventLog(ctx context.Context, contractID string, limit int) ([]core.EventRecord, error) {
	return e.store.ListEvents(ctx, contractID, limit)
}
