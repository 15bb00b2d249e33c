package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserOrderID(ctx context.Context, userOrderID string) ([]trade.Order, error) {
	args := m.Called(ctx, userOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context) (map[trade.OrderStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[trade.OrderStatus]int64), args.Error(1)
}

func (m *MockOrderRepository) SumTotals(ctx context.Context, statuses ...trade.OrderStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type recordedRejections struct {
	reasons []string
}

func (r *recordedRejections) RecordCheckoutRejected(_ context.Context, reason string) {
	r.reasons = append(r.reasons, reason)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// validRequest is the scenario cart: p1 at 1200 discounted to 950, two units
func validRequest(id uuid.UUID) PlaceOrderRequest {
	discount := dec(950)
	return PlaceOrderRequest{
		ID:          id.String(),
		UserOrderID: "U1",
		Email:       "a@x.com",
		Items: []OrderItemRequest{{
			ID: "p1", Name: "Tee", Price: dec(1200), DiscountPrice: &discount,
			Size: "M", Color: "Black", Quantity: 2,
		}},
		Subtotal:      dec(1900),
		Shipping:      dec(250),
		Total:         dec(2150),
		Status:        "pending",
		Form:          ShippingForm{Name: "Asha", Email: "a@x.com", Address: "1 Road", Phone: "0300"},
		PaymentMethod: "cod",
	}
}

func storedOrder(t *testing.T, id uuid.UUID, userOrderID string) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(trade.NewOrderParams{
		ID:          id,
		UserOrderID: userOrderID,
		Items:       []trade.OrderLine{{ProductID: "p1", Price: dec(1000), Quantity: 1}},
		Form:        trade.ShippingDetails{Name: "n", Email: "e@x.com", Address: "a", Phone: "p"},
	})
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func newTestOrderService() (*OrderService, *MockOrderRepository, *MockEventPublisher) {
	repo := new(MockOrderRepository)
	publisher := new(MockEventPublisher)
	svc := NewOrderService(repo, zap.NewNop())
	svc.SetEventPublisher(publisher)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, publisher
}

func TestOrderService_PlaceOrder(t *testing.T) {
	svc, repo, publisher := newTestOrderService()
	id := uuid.New()

	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(o *trade.Order) bool {
		return o.ID == id && o.Total.Equal(dec(2150)) && o.Status == trade.OrderStatusPending
	})).Return(nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == trade.EventTypeOrderPlaced
	})).Return(nil)

	result, err := svc.PlaceOrder(context.Background(), validRequest(id))
	require.NoError(t, err)
	assert.False(t, result.Replayed)
	assert.Equal(t, "U1", result.Order.UserOrderID)
	assert.True(t, result.Order.Subtotal.Equal(dec(1900)))
	assert.Equal(t, "cod", result.Order.PaymentMethod)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), result.Order.CreatedAt)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_Rejections(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name    string
		mutate  func(*PlaceOrderRequest)
		wantErr error
		code    string
	}{
		{"bad id", func(r *PlaceOrderRequest) { r.ID = "not-a-uuid" }, trade.ErrMissingOrderID, "INVALID_ORDER_ID"},
		{"not pending", func(r *PlaceOrderRequest) { r.Status = "delivered" }, ErrNewOrderNotPending, "INVALID_STATUS"},
		{"unknown status", func(r *PlaceOrderRequest) { r.Status = "shipped" }, trade.ErrInvalidStatus, "INVALID_STATUS"},
		{"totals mismatch", func(r *PlaceOrderRequest) { r.Total = dec(2400) }, trade.ErrInvalidTotals, "INVALID_TOTALS"},
		{"list price claimed", func(r *PlaceOrderRequest) { r.Subtotal = dec(2400); r.Total = dec(2650) }, trade.ErrInvalidTotals, "INVALID_TOTALS"},
		{"blank form field", func(r *PlaceOrderRequest) { r.Form.Phone = "   " }, trade.ErrIncompleteShipping, "INVALID_SHIPPING_DETAILS"},
		{"no items", func(r *PlaceOrderRequest) { r.Items = nil }, trade.ErrEmptyOrder, "INVALID_ITEMS"},
		{"card payment", func(r *PlaceOrderRequest) { r.PaymentMethod = "card" }, trade.ErrPaymentUnavailable, "INVALID_PAYMENT_METHOD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestOrderService()
			rejections := &recordedRejections{}
			svc.SetRejectionRecorder(rejections)
			repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Maybe()

			req := validRequest(id)
			tt.mutate(&req)

			_, err := svc.PlaceOrder(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []string{tt.code}, rejections.reasons)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_PlaceOrder_RejectionsReachBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: provider.Meter("test"), Logger: zap.NewNop()})
	require.NoError(t, err)

	svc, repo, _ := newTestOrderService()
	svc.SetRejectionRecorder(bm)
	req := validRequest(uuid.New())
	repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound).Maybe()
	req.Total = dec(2400)

	_, err = svc.PlaceOrder(context.Background(), req)
	require.ErrorIs(t, err, trade.ErrInvalidTotals)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var points []metricdata.DataPoint[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "storefront_checkout_rejections_total" {
				points = m.Data.(metricdata.Sum[int64]).DataPoints
			}
		}
	}
	require.Len(t, points, 1)
	assert.Equal(t, int64(1), points[0].Value)
	reason, ok := points[0].Attributes.Value(telemetry.AttrRejectReason)
	require.True(t, ok)
	assert.Equal(t, "INVALID_TOTALS", reason.AsString())
}

func TestOrderService_PlaceOrder_ReplayReturnsStoredOrder(t *testing.T) {
	svc, repo, publisher := newTestOrderService()
	id := uuid.New()

	repo.On("FindByID", mock.Anything, id).Return(storedOrder(t, id, "U1"), nil)

	result, err := svc.PlaceOrder(context.Background(), validRequest(id))
	require.NoError(t, err)
	assert.True(t, result.Replayed)
	assert.Equal(t, id, result.Order.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_IDOwnedByAnotherIdentity(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	id := uuid.New()

	repo.On("FindByID", mock.Anything, id).Return(storedOrder(t, id, "someone-else"), nil)

	_, err := svc.PlaceOrder(context.Background(), validRequest(id))
	assert.ErrorIs(t, err, trade.ErrOrderAlreadyAssigned)
}

func TestOrderService_PlaceOrder_ConcurrentInsertRace(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	id := uuid.New()

	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)
	repo.On("FindByID", mock.Anything, id).Return(storedOrder(t, id, "U1"), nil).Once()

	result, err := svc.PlaceOrder(context.Background(), validRequest(id))
	require.NoError(t, err)
	assert.True(t, result.Replayed)
	repo.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_PersistenceFailure(t *testing.T) {
	svc, repo, publisher := newTestOrderService()
	id := uuid.New()
	dbErr := errors.New("connection reset")

	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	_, err := svc.PlaceOrder(context.Background(), validRequest(id))
	assert.ErrorIs(t, err, dbErr)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_ListForIdentity(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	ctx := context.Background()

	_, err := svc.ListForIdentity(ctx, "  ")
	assert.ErrorIs(t, err, trade.ErrMissingUserOrderID)

	repo.On("FindByUserOrderID", mock.Anything, "nobody").Return([]trade.Order{}, nil)
	_, err = svc.ListForIdentity(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	newer, older := storedOrder(t, uuid.New(), "U1"), storedOrder(t, uuid.New(), "U1")
	repo.On("FindByUserOrderID", mock.Anything, "U1").Return([]trade.Order{*newer, *older}, nil)
	orders, err := svc.ListForIdentity(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
}

func TestOrderService_ListAll(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	status := trade.OrderStatusPending
	filter := trade.OrderFilter{Filter: shared.DefaultFilter(), Status: &status}

	repo.On("FindAll", mock.Anything, filter).Return([]trade.Order{*storedOrder(t, uuid.New(), "U1")}, int64(7), nil)

	orders, total, err := svc.ListAll(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int64(7), total)
}

func TestOrderService_SetStatus(t *testing.T) {
	svc, repo, publisher := newTestOrderService()
	id := uuid.New()
	order := storedOrder(t, id, "U1")
	originalTotal := order.Total

	repo.On("FindByID", mock.Anything, id).Return(order, nil)
	repo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(o *trade.Order) bool {
		return o.Status == trade.OrderStatusDelivered
	})).Return(nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		e, ok := events[0].(*trade.OrderStatusChangedEvent)
		return ok && e.FromStatus == trade.OrderStatusPending && e.ToStatus == trade.OrderStatusDelivered
	})).Return(nil)

	resp, err := svc.SetStatus(context.Background(), UpdateStatusRequest{ID: id.String(), Status: "Delivered"})
	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.Status)
	assert.True(t, resp.Total.Equal(originalTotal))
	publisher.AssertExpectations(t)
}

func TestOrderService_SetStatus_BackwardsAllowed(t *testing.T) {
	svc, repo, publisher := newTestOrderService()
	id := uuid.New()
	order := storedOrder(t, id, "U1")
	require.NoError(t, order.SetStatus(trade.OrderStatusDelivered))
	order.ClearDomainEvents()

	repo.On("FindByID", mock.Anything, id).Return(order, nil)
	repo.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.SetStatus(context.Background(), UpdateStatusRequest{ID: id.String(), Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestOrderService_SetStatus_Errors(t *testing.T) {
	id := uuid.New()

	t.Run("invalid status", func(t *testing.T) {
		svc, repo, _ := newTestOrderService()
		_, err := svc.SetStatus(context.Background(), UpdateStatusRequest{ID: id.String(), Status: "cancelled"})
		assert.ErrorIs(t, err, trade.ErrInvalidStatus)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing order", func(t *testing.T) {
		svc, repo, _ := newTestOrderService()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)
		_, err := svc.SetStatus(context.Background(), UpdateStatusRequest{ID: id.String(), Status: "dispatch"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("write failure is reported", func(t *testing.T) {
		svc, repo, publisher := newTestOrderService()
		dbErr := errors.New("deadlock")
		repo.On("FindByID", mock.Anything, id).Return(storedOrder(t, id, "U1"), nil)
		repo.On("UpdateStatus", mock.Anything, mock.Anything).Return(dbErr)
		_, err := svc.SetStatus(context.Background(), UpdateStatusRequest{ID: id.String(), Status: "dispatch"})
		assert.ErrorIs(t, err, dbErr)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestOrderService_Get(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(storedOrder(t, id, "U1"), nil)

	resp, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
}
