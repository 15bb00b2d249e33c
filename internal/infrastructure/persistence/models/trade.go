package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	AggregateModel
	UserOrderID   string              `gorm:"type:varchar(100);not null;index"`
	Email         string              `gorm:"type:varchar(200);not null;index"`
	Subtotal      decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Shipping      decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Status        trade.OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod trade.PaymentMethod `gorm:"type:varchar(20);not null;default:'cod'"`
	ShipName      string              `gorm:"type:varchar(200);not null"`
	ShipEmail     string              `gorm:"type:varchar(200);not null"`
	ShipAddress   string              `gorm:"type:text;not null"`
	ShipPhone     string              `gorm:"type:varchar(50);not null"`
	Items         []OrderItemModel    `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one purchased line of an order
type OrderItemModel struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position      int                 `gorm:"not null"`
	ProductID     string              `gorm:"type:varchar(100);not null"`
	Name          string              `gorm:"type:varchar(200);not null"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	DiscountPrice decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Quantity      int                 `gorm:"not null"`
	Size          string              `gorm:"type:varchar(20)"`
	Color         string              `gorm:"type:varchar(50)"`
	Image         string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderModelFromDomain converts a domain Order into its persistence model
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		UserOrderID:   o.UserOrderID,
		Email:         o.Email,
		Subtotal:      o.Subtotal,
		Shipping:      o.Shipping,
		Total:         o.Total,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		ShipName:      o.Form.Name,
		ShipEmail:     o.Form.Email,
		ShipAddress:   o.Form.Address,
		ShipPhone:     o.Form.Phone,
		Items:         make([]OrderItemModel, len(o.Items)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)

	for i, line := range o.Items {
		item := OrderItemModel{
			ID:        uuid.New(),
			OrderID:   o.ID,
			Position:  i,
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
			Image:     line.Image,
		}
		if line.DiscountPrice != nil {
			item.DiscountPrice = decimal.NewNullDecimal(*line.DiscountPrice)
		}
		m.Items[i] = item
	}
	return m
}

// ToDomain converts the persistence model to a domain Order.
// Items are expected to be loaded in position order.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserOrderID:       m.UserOrderID,
		Email:             m.Email,
		Items:             make([]trade.OrderLine, len(m.Items)),
		Subtotal:          m.Subtotal,
		Shipping:          m.Shipping,
		Total:             m.Total,
		Status:            m.Status,
		PaymentMethod:     m.PaymentMethod,
		Form: trade.ShippingDetails{
			Name:    m.ShipName,
			Email:   m.ShipEmail,
			Address: m.ShipAddress,
			Phone:   m.ShipPhone,
		},
	}
	for i, item := range m.Items {
		line := trade.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			Image:     item.Image,
		}
		if item.DiscountPrice.Valid {
			d := item.DiscountPrice.Decimal
			line.DiscountPrice = &d
		}
		order.Items[i] = line
	}
	return order
}
