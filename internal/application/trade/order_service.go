package trade

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrNoOrdersForIdentity is returned when a userOrderId owns no orders
var ErrNoOrdersForIdentity = shared.NewDomainError("NOT_FOUND", "No orders found for this userOrderId")

// ErrNewOrderNotPending is returned when a submitted order claims a later status
var ErrNewOrderNotPending = shared.NewDomainError("INVALID_STATUS", "New orders must be pending")

// RejectionRecorder counts refused order submissions by error code
type RejectionRecorder interface {
	RecordCheckoutRejected(ctx context.Context, reason string)
}

// OrderService handles order placement, tracking and status changes
type OrderService struct {
	orderRepo      trade.OrderRepository
	eventPublisher shared.EventPublisher
	rejections     RejectionRecorder
	logger         *zap.Logger
	now            func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the publisher for order events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRejectionRecorder sets the recorder for refused submissions
func (s *OrderService) SetRejectionRecorder(recorder RejectionRecorder) {
	s.rejections = recorder
}

// PlaceOrder validates and persists a checkout submission.
// The items, form and totals are re-checked here; the client's totals must
// equal the ones recomputed from the items. Submitting an order id that is
// already stored for the same identity returns the stored order.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place",
		telemetry.SpanAttrOrderID, req.ID,
		telemetry.SpanAttrItemCount, len(req.Items),
	)
	defer span.End()

	result, err := s.placeOrder(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		if de, ok := shared.IsDomainError(err); ok && s.rejections != nil {
			s.rejections.RecordCheckoutRejected(ctx, de.Code)
		}
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderTotal, result.Order.Total.String())
	return result, nil
}

func (s *OrderService) placeOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil || id == uuid.Nil {
		return nil, trade.ErrMissingOrderID
	}
	if req.Status != "" {
		status, err := trade.ParseOrderStatus(req.Status)
		if err != nil {
			return nil, err
		}
		if status != trade.OrderStatusPending {
			return nil, ErrNewOrderNotPending
		}
	}

	if existing, err := s.findReplay(ctx, id, req.UserOrderID); existing != nil || err != nil {
		return existing, err
	}

	createdAt := s.now()
	if req.CreatedAt != nil && !req.CreatedAt.IsZero() {
		createdAt = *req.CreatedAt
	}

	order, err := trade.NewOrder(trade.NewOrderParams{
		ID:          id,
		UserOrderID: req.UserOrderID,
		Email:       req.Email,
		Items:       req.lines(),
		Form: trade.ShippingDetails{
			Name:    strings.TrimSpace(req.Form.Name),
			Email:   strings.TrimSpace(req.Form.Email),
			Address: strings.TrimSpace(req.Form.Address),
			Phone:   strings.TrimSpace(req.Form.Phone),
		},
		PaymentMethod: trade.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		CreatedAt:     createdAt,
	})
	if err != nil {
		return nil, err
	}
	if err := order.VerifyTotals(req.claimedTotals()); err != nil {
		s.logger.Warn("Order totals mismatch",
			zap.String("order_id", id.String()),
			zap.String("claimed_total", req.Total.String()),
			zap.String("computed_total", order.Total.String()),
		)
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// a concurrent submission with the same id won the insert
			if existing, findErr := s.findReplay(ctx, id, req.UserOrderID); existing != nil || findErr != nil {
				return existing, findErr
			}
		}
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int("item_count", order.ItemCount()),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return &PlaceOrderResult{Order: ToOrderResponse(order)}, nil
}

// findReplay returns the stored order when id was already persisted for userOrderID.
// It returns (nil, nil) when id is unused.
func (s *OrderService) findReplay(ctx context.Context, id uuid.UUID, userOrderID string) (*PlaceOrderResult, error) {
	existing, err := s.orderRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if existing.UserOrderID != strings.TrimSpace(userOrderID) {
		return nil, trade.ErrOrderAlreadyAssigned
	}
	s.logger.Info("Order submission replayed", zap.String("order_id", id.String()))
	return &PlaceOrderResult{Order: ToOrderResponse(existing), Replayed: true}, nil
}

// ListForIdentity returns the orders owned by a userOrderId, newest first
func (s *OrderService) ListForIdentity(ctx context.Context, userOrderID string) ([]OrderResponse, error) {
	userOrderID = strings.TrimSpace(userOrderID)
	if userOrderID == "" {
		return nil, trade.ErrMissingUserOrderID
	}
	orders, err := s.orderRepo.FindByUserOrderID(ctx, userOrderID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNoOrdersForIdentity
	}
	return ToOrderResponses(orders), nil
}

// ListAll returns every order newest first, with the total match count
func (s *OrderService) ListAll(ctx context.Context, filter trade.OrderFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// Get returns a single order by its per-order id
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// SetStatus overwrites the status of an order. Any status may follow any
// other; only the status and its timestamp are written.
func (s *OrderService) SetStatus(ctx context.Context, req UpdateStatusRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "set_status",
		telemetry.SpanAttrOrderID, req.ID,
		telemetry.SpanAttrOrderStatus, req.Status,
	)
	defer span.End()

	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, trade.ErrMissingOrderID
	}
	status, err := trade.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	previous := order.Status
	if err := order.SetStatus(status); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to update order status",
			zap.String("order_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.logger.Info("Order status changed",
		zap.String("order_id", id.String()),
		zap.String("from", previous.String()),
		zap.String("to", status.String()),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	defer order.ClearDomainEvents()
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
