package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, userOrderID string, createdAt time.Time) *trade.Order {
	t.Helper()
	discount := decimal.NewFromInt(700)
	order, err := trade.NewOrder(trade.NewOrderParams{
		ID:          uuid.New(),
		UserOrderID: userOrderID,
		Items: []trade.OrderLine{
			{ProductID: "p1", Name: "Basic Tee", Price: decimal.NewFromInt(500), Quantity: 2, Size: "M", Color: "black"},
			{ProductID: "p2", Name: "Graphic Tee", Price: decimal.NewFromInt(1000), DiscountPrice: &discount, Quantity: 1, Size: "L"},
		},
		Form: trade.ShippingDetails{
			Name:    "Ayesha",
			Email:   "ayesha@example.com",
			Address: "12 Mall Road",
			Phone:   "03001234567",
		},
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return order
}

func TestGormOrderRepository_CreateAndFindByID(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, "uo-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, "uo-1", found.UserOrderID)
	assert.Equal(t, "ayesha@example.com", found.Email)
	assert.Equal(t, trade.OrderStatusPending, found.Status)
	assert.Equal(t, trade.PaymentMethodCOD, found.PaymentMethod)
	assert.Equal(t, order.Form, found.Form)
	assert.True(t, decimal.NewFromInt(1700).Equal(found.Subtotal))
	assert.True(t, decimal.NewFromInt(250).Equal(found.Shipping))
	assert.True(t, decimal.NewFromInt(1950).Equal(found.Total))
	assert.Empty(t, found.GetDomainEvents())

	require.Len(t, found.Items, 2)
	assert.Equal(t, "p1", found.Items[0].ProductID)
	assert.Nil(t, found.Items[0].DiscountPrice)
	assert.Equal(t, 2, found.Items[0].Quantity)
	assert.Equal(t, "p2", found.Items[1].ProductID)
	require.NotNil(t, found.Items[1].DiscountPrice)
	assert.True(t, decimal.NewFromInt(700).Equal(*found.Items[1].DiscountPrice))
}

func TestGormOrderRepository_CreateDuplicateID(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, "uo-1", time.Now())
	require.NoError(t, repo.Create(ctx, order))

	err := repo.Create(ctx, order)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormOrderRepository_FindByIDNotFound(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_FindByUserOrderID(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	older := newTestOrder(t, "uo-1", base)
	newer := newTestOrder(t, "uo-1", base.Add(time.Hour))
	other := newTestOrder(t, "uo-2", base.Add(2*time.Hour))
	for _, o := range []*trade.Order{older, newer, other} {
		require.NoError(t, repo.Create(ctx, o))
	}

	orders, err := repo.FindByUserOrderID(ctx, "uo-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
	assert.Len(t, orders[0].Items, 2)

	none, err := repo.FindByUserOrderID(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormOrderRepository_UpdateStatus(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, "uo-1", time.Now())
	require.NoError(t, repo.Create(ctx, order))

	before, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	// only the status column may be written
	require.NoError(t, order.SetStatus(trade.OrderStatusDispatch))
	order.Subtotal = decimal.NewFromInt(1)
	order.Total = decimal.NewFromInt(1)
	order.Items = order.Items[:1]
	order.Form.Address = "changed"
	require.NoError(t, repo.UpdateStatus(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusDispatch, found.Status)
	assert.Equal(t, 2, found.Version)
	assert.True(t, decimal.NewFromInt(1700).Equal(found.Subtotal))
	assert.True(t, decimal.NewFromInt(250).Equal(found.Shipping))
	assert.True(t, decimal.NewFromInt(1950).Equal(found.Total))
	assert.Equal(t, before.Items, found.Items)
	assert.Equal(t, "12 Mall Road", found.Form.Address)

	missing := newTestOrder(t, "uo-1", time.Now())
	assert.ErrorIs(t, repo.UpdateStatus(ctx, missing), shared.ErrNotFound)
}

func TestGormOrderRepository_FindAll(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var created []*trade.Order
	for i := 0; i < 5; i++ {
		o := newTestOrder(t, fmt.Sprintf("uo-%d", i), base.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			require.NoError(t, o.SetStatus(trade.OrderStatusDelivered))
		}
		require.NoError(t, repo.Create(ctx, o))
		created = append(created, o)
	}

	t.Run("paginates newest first", func(t *testing.T) {
		filter := trade.OrderFilter{Filter: shared.Filter{Page: 1, PageSize: 2}}
		orders, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		require.Len(t, orders, 2)
		assert.Equal(t, created[4].ID, orders[0].ID)
		assert.Equal(t, created[3].ID, orders[1].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		delivered := trade.OrderStatusDelivered
		orders, total, err := repo.FindAll(ctx, trade.OrderFilter{Status: &delivered})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, orders, 3)
	})

	t.Run("ignores unknown sort column", func(t *testing.T) {
		filter := trade.OrderFilter{Filter: shared.Filter{OrderBy: "id; DROP TABLE orders", OrderDir: "asc"}}
		orders, _, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, orders, 5)
	})
}

func TestGormOrderRepository_Aggregates(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()

	statuses := []trade.OrderStatus{trade.OrderStatusPending, trade.OrderStatusDelivered, trade.OrderStatusDelivered}
	for _, s := range statuses {
		o := newTestOrder(t, "uo-1", time.Now())
		require.NoError(t, o.SetStatus(s))
		require.NoError(t, repo.Create(ctx, o))
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[trade.OrderStatusPending])
	assert.EqualValues(t, 0, counts[trade.OrderStatusDispatch])
	assert.EqualValues(t, 2, counts[trade.OrderStatusDelivered])

	delivered, err := repo.SumTotals(ctx, trade.OrderStatusDelivered)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3900).Equal(delivered), delivered.String())

	all, err := repo.SumTotals(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5850).Equal(all), all.String())

	none, err := repo.SumTotals(ctx, trade.OrderStatusDispatch)
	require.NoError(t, err)
	assert.True(t, none.IsZero())
}
