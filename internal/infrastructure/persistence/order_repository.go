package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var orderSortColumns = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"total":      "total",
	"status":     "status",
	"email":      "email",
}

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// FindByID finds an order and its lines by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserOrderID returns every order placed under the identity, newest first
func (r *GormOrderRepository) FindByUserOrderID(ctx context.Context, userOrderID string) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).
		Where("user_order_id = ?", userOrderID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// FindAll returns a page of orders plus the total matching count
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orderModels []models.OrderModel
	query := r.applyFilter(preloadItems(r.db.WithContext(ctx)), filter)
	query = applyOrder(query, filter.Filter, orderSortColumns, "created_at DESC")
	if err := applyPage(query, filter.Filter).Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainOrders(orderModels), total, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter trade.OrderFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(ship_name) LIKE ? OR user_order_id = ?",
			pattern, pattern, search)
	}
	return query
}

// Create inserts the order together with its lines
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// UpdateStatus persists the order's current status. Nothing else on an order is mutable.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":     order.Status,
			"version":    order.Version,
			"updated_at": order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type statusCount struct {
	Status trade.OrderStatus
	Count  int64
}

// CountByStatus returns the number of orders per status. Every known
// status is present in the result, with zero when no order has it.
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[trade.OrderStatus]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[trade.OrderStatus]int64, len(trade.AllOrderStatuses))
	for _, s := range trade.AllOrderStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SumTotals sums order totals, optionally restricted to the given statuses
func (r *GormOrderRepository) SumTotals(ctx context.Context, statuses ...trade.OrderStatus) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Select("COALESCE(SUM(total), 0)")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var sum decimal.Decimal
	if err := query.Row().Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func toDomainOrders(orderModels []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements trade.OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
