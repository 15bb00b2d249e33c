package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/trade"
)

var (
	fixtureSizes      = []string{"XS", "S", "M", "L", "XL", "XXL"}
	fixtureCategories = []string{"basics", "graphic", "oversized", "polo"}
	fixtureFabrics    = []string{"cotton", "linen", "polyester", "cotton blend"}
)

// Fixtures builds realistic storefront data from a seeded faker.
// The same seed always yields the same sequence.
type Fixtures struct {
	faker *gofakeit.Faker
}

// NewFixtures creates fixtures seeded with seed
func NewFixtures(seed uint64) *Fixtures {
	return &Fixtures{faker: gofakeit.New(seed)}
}

func (f *Fixtures) Email() string {
	return strings.ToLower(f.faker.Email())
}

func (f *Fixtures) Shipping() trade.ShippingDetails {
	return trade.ShippingDetails{
		Name:    f.faker.Name(),
		Email:   f.Email(),
		Address: f.faker.Address().Address,
		Phone:   f.faker.Phone(),
	}
}

// Price returns a whole-rupee price within [min, max]
func (f *Fixtures) Price(min, max int) decimal.Decimal {
	return decimal.NewFromInt(int64(f.faker.Number(min, max)))
}

// OrderLine returns a line for a random product. Every other line carries a discount.
func (f *Fixtures) OrderLine() trade.OrderLine {
	price := f.Price(300, 2500)
	line := trade.OrderLine{
		ProductID: f.faker.UUID(),
		Name:      f.faker.ProductName(),
		Price:     price,
		Quantity:  f.faker.Number(1, 3),
		Size:      f.faker.RandomString(fixtureSizes),
		Color:     f.faker.Color(),
		Image:     fmt.Sprintf("https://cdn.example.com/%s.png", f.faker.Word()),
	}
	if f.faker.Bool() {
		discount := price.Sub(decimal.NewFromInt(int64(f.faker.Number(1, 200))))
		line.DiscountPrice = &discount
	}
	return line
}

// OrderParams returns params for an order of one to three lines
func (f *Fixtures) OrderParams(userOrderID string) trade.NewOrderParams {
	shipping := f.Shipping()
	lines := make([]trade.OrderLine, f.faker.Number(1, 3))
	for i := range lines {
		lines[i] = f.OrderLine()
	}
	return trade.NewOrderParams{
		ID:          uuid.New(),
		UserOrderID: userOrderID,
		Email:       shipping.Email,
		Items:       lines,
		Form:        shipping,
		CreatedAt:   time.Now().UTC(),
	}
}

func (f *Fixtures) ProductParams() catalog.NewProductParams {
	sizes := make([]string, 0, 3)
	for _, s := range fixtureSizes {
		if f.faker.Bool() {
			sizes = append(sizes, s)
		}
	}
	if len(sizes) == 0 {
		sizes = append(sizes, "M")
	}
	return catalog.NewProductParams{
		Name:        f.faker.ProductName(),
		Description: f.faker.Sentence(8),
		Sizes:       sizes,
		Gender:      []string{f.faker.RandomString([]string{"men", "women", "unisex"})},
		Price:       f.Price(300, 2500),
		Fabric:      f.faker.RandomString(fixtureFabrics),
		Category:    f.faker.RandomString(fixtureCategories),
		Images:      []string{fmt.Sprintf("https://cdn.example.com/%s.png", f.faker.Word())},
	}
}
