package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/storefrontapi"
	"go.uber.org/zap"
)

var (
	ErrCheckoutInProgress = errors.New("a checkout is already in progress")
	ErrEmptyCart          = errors.New("your cart is empty")
	ErrOrderNotPlaced     = errors.New("your order could not be placed, your cart has been kept")
)

// BearerTokenWarning accompanies every confirmation
const BearerTokenWarning = "Keep your user ID and order ID private. Anyone who has them can view your orders."

// ValidationError lists the checkout form fields left blank
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "please fill in: " + strings.Join(e.Missing, ", ")
}

// Confirmation is shown to the shopper after a successful checkout
type Confirmation struct {
	UserOrderID string
	OrderID     string
	Totals      trade.Totals
	ItemCount   int
	PlacedAt    time.Time
	Warning     string
}

// CheckoutService turns the cart into a persisted order, once per confirmation
type CheckoutService struct {
	store    *Store
	identity *IdentityResolver
	orders   OrderGateway
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	inFlight atomic.Bool
}

// NewCheckoutService creates a CheckoutService
func NewCheckoutService(store *Store, identity *IdentityResolver, orders OrderGateway, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		store:    store,
		identity: identity,
		orders:   orders,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Checkout validates the cart and form, resolves the shopper's identity and
// submits the order. The submitted lines leave the cart only after the
// server has stored the order; on any failure cart and form are left as they were.
func (s *CheckoutService) Checkout(ctx context.Context) (*Confirmation, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInProgress
	}
	defer s.inFlight.Store(false)

	state := s.store.State()
	if state.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if missing := state.CheckoutForm.Missing(); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	totals := state.Totals()
	details := state.CheckoutForm.ShippingDetails()

	userOrderID, err := s.identity.Resolve(ctx, details.Email)
	if err != nil {
		return nil, err
	}

	order := storefrontapi.Order{
		ID:            s.newID(),
		UserOrderID:   userOrderID,
		Email:         details.Email,
		Items:         toOrderItems(state.Items),
		Subtotal:      totals.Subtotal,
		Shipping:      totals.Shipping,
		Total:         totals.Total,
		Status:        trade.OrderStatusPending.String(),
		Form:          storefrontapi.OrderForm(details),
		PaymentMethod: string(trade.DefaultPaymentMethod),
		CreatedAt:     s.now().UTC(),
	}

	placed, err := s.orders.PlaceOrder(ctx, order)
	if err != nil {
		s.logger.Error("Order submission failed", zap.String("order_id", order.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrOrderNotPlaced, err)
	}

	s.store.Dispatch(ctx, cart.RemoveOrdered{Lines: state.Items})

	orderID := order.ID
	if placed != nil && placed.ID != "" {
		orderID = placed.ID
	}
	s.logger.Info("Order placed",
		zap.String("order_id", orderID),
		zap.String("total", totals.Total.String()),
	)

	return &Confirmation{
		UserOrderID: userOrderID,
		OrderID:     orderID,
		Totals:      totals,
		ItemCount:   state.ItemCount(),
		PlacedAt:    order.CreatedAt,
		Warning:     BearerTokenWarning,
	}, nil
}

// InProgress reports whether a checkout is running
func (s *CheckoutService) InProgress() bool {
	return s.inFlight.Load()
}

func toOrderItems(items []cart.Item) []storefrontapi.OrderItem {
	out := make([]storefrontapi.OrderItem, len(items))
	for i, item := range items {
		out[i] = storefrontapi.OrderItem{
			ID:            item.ID,
			Name:          item.Name,
			Price:         item.Price,
			DiscountPrice: item.DiscountPrice,
			Image:         item.Image,
			Size:          item.Size,
			Color:         item.Color,
			Quantity:      item.Quantity,
		}
	}
	return out
}
