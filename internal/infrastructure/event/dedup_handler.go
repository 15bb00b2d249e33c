package event

import (
	"context"
	"sync/atomic"

	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// eventKeyPrefix separates event ids from request idempotency keys in a shared store
const eventKeyPrefix = "event:"

// DedupStats is a snapshot of a DedupHandler's counters
type DedupStats struct {
	Processed  int64 `json:"processed"`
	Duplicates int64 `json:"duplicates"`
	Failed     int64 `json:"failed"`
}

// DedupHandler wraps a handler so each event id is handled at most once per TTL.
// Handlers with side effects that must not double count (metrics, notifications)
// are wrapped with it.
type DedupHandler struct {
	next   shared.EventHandler
	store  shared.IdempotencyStore
	cfg    shared.IdempotencyConfig
	logger *zap.Logger

	processed  atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64
}

// DedupOption configures a DedupHandler
type DedupOption func(*DedupHandler)

// WithDedupConfig overrides the default TTL and enablement
func WithDedupConfig(cfg shared.IdempotencyConfig) DedupOption {
	return func(h *DedupHandler) {
		h.cfg = cfg
	}
}

// NewDedupHandler wraps next with event-id deduplication backed by store
func NewDedupHandler(next shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts ...DedupOption) *DedupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &DedupHandler{
		next:   next,
		store:  store,
		cfg:    shared.DefaultIdempotencyConfig(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes delegates to the wrapped handler
func (h *DedupHandler) EventTypes() []string {
	return h.next.EventTypes()
}

// Handle forwards the event unless its id was already seen.
// When the store is unavailable the event is processed anyway.
func (h *DedupHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if !h.cfg.Enabled || h.store == nil {
		return h.forward(ctx, evt)
	}

	key := eventKeyPrefix + evt.EventID().String()
	fresh, err := h.store.MarkProcessed(ctx, key, h.cfg.TTL)
	switch {
	case err != nil:
		h.logger.Warn("event dedup check failed, processing anyway",
			zap.String("event_id", evt.EventID().String()),
			zap.String("event_type", evt.EventType()),
			zap.Error(err),
		)
	case !fresh:
		h.duplicates.Add(1)
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", evt.EventID().String()),
			zap.String("event_type", evt.EventType()),
		)
		return nil
	}

	return h.forward(ctx, evt)
}

func (h *DedupHandler) forward(ctx context.Context, evt shared.DomainEvent) error {
	if err := h.next.Handle(ctx, evt); err != nil {
		h.failed.Add(1)
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns the current counters
func (h *DedupHandler) Stats() DedupStats {
	return DedupStats{
		Processed:  h.processed.Load(),
		Duplicates: h.duplicates.Load(),
		Failed:     h.failed.Load(),
	}
}

var _ shared.EventHandler = (*DedupHandler)(nil)
