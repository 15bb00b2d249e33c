package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmailRequired is returned when no local identity exists and no email was given
	ErrEmailRequired = errors.New("an email is required to link your orders")

	// ErrIdentityUnresolved wraps directory failures during identity resolution
	ErrIdentityUnresolved = errors.New("could not resolve customer identity")
)

// IdentityResolver produces one stable userOrderId per customer email.
// A locally stored id is trusted without asking the server.
type IdentityResolver struct {
	storage   LocalStorage
	directory CustomerDirectory
	logger    *zap.Logger
	newID     func() string
}

// NewIdentityResolver creates a resolver
func NewIdentityResolver(storage LocalStorage, directory CustomerDirectory, logger *zap.Logger) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityResolver{
		storage:   storage,
		directory: directory,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Current returns the locally stored userOrderId
func (r *IdentityResolver) Current(ctx context.Context) (string, bool) {
	id, found, err := r.storage.GetItem(ctx, UserOrderIDKey)
	if err != nil {
		r.logger.Warn("Failed to read local identity", zap.Error(err))
		return "", false
	}
	id = strings.TrimSpace(id)
	return id, found && id != ""
}

// Forget removes the locally stored userOrderId
func (r *IdentityResolver) Forget(ctx context.Context) error {
	return r.storage.RemoveItem(ctx, UserOrderIDKey)
}

// Resolve returns the userOrderId for this device, linking it to email
// through the customer directory when none is stored yet.
func (r *IdentityResolver) Resolve(ctx context.Context, email string) (string, error) {
	if id, ok := r.Current(ctx); ok {
		return id, nil
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}

	existing, found, err := r.directory.LookupCustomer(ctx, email)
	if err != nil {
		r.logger.Error("Customer lookup failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrIdentityUnresolved, err)
	}
	if found && existing != "" {
		r.remember(ctx, existing)
		r.logger.Info("Linked existing customer identity")
		return existing, nil
	}

	minted := r.newID()
	r.remember(ctx, minted)

	canonical, created, err := r.directory.RegisterCustomer(ctx, email, minted)
	if err != nil {
		if rmErr := r.storage.RemoveItem(ctx, UserOrderIDKey); rmErr != nil {
			r.logger.Warn("Failed to discard unregistered identity", zap.Error(rmErr))
		}
		r.logger.Error("Customer registration failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrIdentityUnresolved, err)
	}
	if canonical == "" {
		canonical = minted
	}
	if canonical != minted {
		r.remember(ctx, canonical)
	}

	r.logger.Info("Customer identity registered", zap.Bool("created", created))
	return canonical, nil
}

func (r *IdentityResolver) remember(ctx context.Context, id string) {
	if err := r.storage.SetItem(ctx, UserOrderIDKey, id); err != nil {
		r.logger.Warn("Failed to store local identity", zap.Error(err))
	}
}
