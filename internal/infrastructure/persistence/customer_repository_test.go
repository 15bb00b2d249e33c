package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository_CreateAndFind(t *testing.T) {
	repo := NewGormCustomerRepository(setupTestDB(t))
	ctx := context.Background()

	customer, err := partner.NewCustomer("Ayesha@Example.com", "uo-123")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, customer))

	t.Run("finds by email case-insensitively", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  AYESHA@example.COM ")
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
		assert.Equal(t, "uo-123", found.UserOrderID)
	})

	t.Run("finds by user order id", func(t *testing.T) {
		found, err := repo.FindByUserOrderID(ctx, "uo-123")
		require.NoError(t, err)
		assert.Equal(t, "ayesha@example.com", found.Email)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("blank email is rejected", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "   ")
		assert.ErrorIs(t, err, partner.ErrInvalidEmail)
	})
}

func TestGormCustomerRepository_DuplicateEmail(t *testing.T) {
	repo := NewGormCustomerRepository(setupTestDB(t))
	ctx := context.Background()

	first, err := partner.NewCustomer("dup@example.com", "uo-1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := partner.NewCustomer("DUP@example.com", "uo-2")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, second), shared.ErrAlreadyExists)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGormCustomerRepository_FindAll(t *testing.T) {
	repo := NewGormCustomerRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, email := range []string{"a@example.com", "b@example.com", "c@shop.pk"} {
		c, err := partner.NewCustomer(email, "uo-"+email)
		require.NoError(t, err)
		c.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		c.UpdatedAt = c.CreatedAt
		require.NoError(t, repo.Create(ctx, c))
	}

	customers, total, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, customers, 2)
	assert.Equal(t, "c@shop.pk", customers[0].Email)

	matched, total, err := repo.FindAll(ctx, shared.Filter{Search: "EXAMPLE"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, matched, 2)
}
