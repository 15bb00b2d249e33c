package models

import (
	"github.com/storefront/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate.
// The unique email index is what makes concurrent first checkouts safe.
type CustomerModel struct {
	AggregateModel
	Email       string `gorm:"type:varchar(200);not null;uniqueIndex:idx_customers_email"`
	UserOrderID string `gorm:"type:varchar(100);not null;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		UserOrderID:       m.UserOrderID,
	}
}

// CustomerModelFromDomain converts a domain Customer into its persistence model
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Email:       c.Email,
		UserOrderID: c.UserOrderID,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
