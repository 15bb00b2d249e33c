package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

// Counter is satisfied by repositories that can count their rows
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// DashboardSummary is the admin overview of the store
type DashboardSummary struct {
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	TotalOrders    int64            `json:"totalOrders"`
	Customers      int64            `json:"customers"`
	Products       int64            `json:"products"`
	Revenue        decimal.Decimal  `json:"revenue"`
	PendingRevenue decimal.Decimal  `json:"pendingRevenue"`
	GeneratedAt    time.Time        `json:"generatedAt"`
}

// DashboardService aggregates store-wide figures for the admin dashboard
type DashboardService struct {
	orderRepo    trade.OrderRepository
	customerRepo Counter
	productRepo  Counter
	logger       *zap.Logger
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	orderRepo trade.OrderRepository,
	customerRepo Counter,
	productRepo Counter,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Summary gathers order counts per status, customer and product counts,
// delivered revenue and the value of orders still open.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	var (
		counts         map[trade.OrderStatus]int64
		customers      int64
		products       int64
		revenue        decimal.Decimal
		pendingRevenue decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.orderRepo.CountByStatus(gctx)
		return wrap("count orders", err)
	})
	g.Go(func() (err error) {
		customers, err = s.customerRepo.Count(gctx)
		return wrap("count customers", err)
	})
	g.Go(func() (err error) {
		products, err = s.productRepo.Count(gctx)
		return wrap("count products", err)
	})
	g.Go(func() (err error) {
		revenue, err = s.orderRepo.SumTotals(gctx, trade.OrderStatusDelivered)
		return wrap("sum delivered revenue", err)
	})
	g.Go(func() (err error) {
		pendingRevenue, err = s.orderRepo.SumTotals(gctx, trade.OrderStatusPending, trade.OrderStatusDispatch)
		return wrap("sum open revenue", err)
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to build dashboard summary", zap.Error(err))
		return nil, err
	}

	summary := &DashboardSummary{
		OrdersByStatus: make(map[string]int64, len(trade.AllOrderStatuses)),
		Customers:      customers,
		Products:       products,
		Revenue:        revenue,
		PendingRevenue: pendingRevenue,
		GeneratedAt:    s.now(),
	}
	for _, status := range trade.AllOrderStatuses {
		n := counts[status]
		summary.OrdersByStatus[status.String()] = n
		summary.TotalOrders += n
	}
	return summary, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
