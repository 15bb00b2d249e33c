package models

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate.
// List columns are Postgres text arrays.
type ProductModel struct {
	AggregateModel
	Name          string              `gorm:"type:varchar(200);not null;index"`
	Description   string              `gorm:"type:text"`
	Sizes         pq.StringArray      `gorm:"type:text[]"`
	Gender        pq.StringArray      `gorm:"type:text[]"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	DiscountPrice decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Fabric        string              `gorm:"type:varchar(100)"`
	Category      string              `gorm:"type:varchar(100);index"`
	Images        pq.StringArray      `gorm:"type:text[]"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Sizes:             nonNil(m.Sizes),
		Gender:            nonNil(m.Gender),
		Price:             m.Price,
		Fabric:            m.Fabric,
		Category:          m.Category,
		Images:            nonNil(m.Images),
	}
	if m.DiscountPrice.Valid {
		d := m.DiscountPrice.Decimal
		p.DiscountPrice = &d
	}
	return p
}

// ProductModelFromDomain converts a domain Product into its persistence model
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:        p.Name,
		Description: p.Description,
		Sizes:       pq.StringArray(p.Sizes),
		Gender:      pq.StringArray(p.Gender),
		Price:       p.Price,
		Fabric:      p.Fabric,
		Category:    p.Category,
		Images:      pq.StringArray(p.Images),
	}
	if p.DiscountPrice != nil {
		m.DiscountPrice = decimal.NewNullDecimal(*p.DiscountPrice)
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// ReviewModel is the persistence model for a Review
type ReviewModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(100);not null"`
	Review string `gorm:"type:text;not null"`
	Rating int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review
func (m *ReviewModel) ToDomain() *catalog.Review {
	return &catalog.Review{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Review:     m.Review,
		Rating:     m.Rating,
	}
}

// ReviewModelFromDomain converts a domain Review into its persistence model
func ReviewModelFromDomain(r *catalog.Review) *ReviewModel {
	m := &ReviewModel{
		Name:   r.Name,
		Review: r.Review,
		Rating: r.Rating,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return []string(values)
}
