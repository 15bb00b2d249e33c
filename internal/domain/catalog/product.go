package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product is a t-shirt listed in the storefront catalog
type Product struct {
	shared.BaseAggregateRoot
	Name          string
	Description   string
	Sizes         []string
	Gender        []string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Fabric        string
	Category      string
	Images        []string
}

// NewProductParams holds the fields accepted when listing a product
type NewProductParams struct {
	Name          string
	Description   string
	Sizes         []string
	Gender        []string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Fabric        string
	Category      string
	Images        []string
}

// NewProduct creates a new catalog product
func NewProduct(p NewProductParams) (*Product, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if !p.Price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price must be positive")
	}

	discount := normalizeDiscount(p.DiscountPrice)
	if discount != nil {
		if discount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Discount price cannot be negative")
		}
		if discount.GreaterThan(p.Price) {
			return nil, shared.NewDomainError("INVALID_PRICE", "Discount price cannot exceed price")
		}
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(p.Description),
		Sizes:             cleanList(p.Sizes),
		Gender:            cleanList(p.Gender),
		Price:             p.Price,
		DiscountPrice:     discount,
		Fabric:            strings.TrimSpace(p.Fabric),
		Category:          strings.TrimSpace(p.Category),
		Images:            cleanList(p.Images),
	}

	product.AddDomainEvent(NewProductListedEvent(product))

	return product, nil
}

// HasDiscount reports whether a discount price applies
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice != nil
}

// Touch records a modification
func (p *Product) Touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// A zero discount means "no discount" in catalog input
func normalizeDiscount(d *decimal.Decimal) *decimal.Decimal {
	if d == nil || d.IsZero() {
		return nil
	}
	v := *d
	return &v
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
