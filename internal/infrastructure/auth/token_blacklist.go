package auth

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// TokenBlacklist invalidates session tokens before they expire, e.g. on logout
type TokenBlacklist interface {
	// Revoke blacklists a token ID until ttl passes
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a token ID has been blacklisted
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "token:revoked:"

// StoreTokenBlacklist keeps revoked token IDs in an IdempotencyStore,
// so it shares the Redis (or in-memory) backend with request deduplication.
type StoreTokenBlacklist struct {
	store shared.IdempotencyStore
}

// NewStoreTokenBlacklist creates a blacklist on top of store
func NewStoreTokenBlacklist(store shared.IdempotencyStore) *StoreTokenBlacklist {
	return &StoreTokenBlacklist{store: store}
}

// Revoke blacklists jti. Tokens that are already expired are ignored.
func (b *StoreTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	_, err := b.store.MarkProcessed(ctx, revokedKeyPrefix+jti, ttl)
	return err
}

// IsRevoked reports whether jti was revoked
func (b *StoreTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return b.store.IsProcessed(ctx, revokedKeyPrefix+jti)
}

var _ TokenBlacklist = (*StoreTokenBlacklist)(nil)
