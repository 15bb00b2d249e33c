package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func productRouter(svc *MockProductService) *gin.Engine {
	h := NewProductHandler(svc)
	router := gin.New()
	router.GET("/api/products", h.List)
	router.GET("/api/products/:id", h.GetByID)
	router.POST("/api/products", h.Create)
	router.DELETE("/api/products/:id", h.Delete)
	return router
}

func sampleProduct() appcatalog.ProductResponse {
	return appcatalog.ProductResponse{
		ID:        uuid.New(),
		Name:      "Classic Tee",
		Sizes:     []string{"S", "M"},
		Gender:    []string{"unisex"},
		Price:     decimal.NewFromInt(1500),
		Category:  "tees",
		Images:    []string{},
		CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestProductHandler_List(t *testing.T) {
	svc := new(MockProductService)
	svc.On("List", mock.Anything, appcatalog.ProductListFilter{Category: "tees"}).
		Return([]appcatalog.ProductResponse{sampleProduct()}, int64(1), nil)

	w := testutil.Serve(productRouter(svc), http.MethodGet, "/api/products?category=tees", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := testutil.DecodeBody(t, w)
	products := body["products"].([]any)
	assert.Len(t, products, 1)
	assert.Equal(t, []any{}, products[0].(map[string]any)["images"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(20), meta["pageSize"])
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockProductService)
		product := sampleProduct()
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req appcatalog.CreateProductRequest) bool {
			return req.Name == "Classic Tee" && req.Price.Equal(decimal.NewFromInt(1500))
		})).Return(&product, nil)

		w := testutil.Serve(productRouter(svc), http.MethodPost, "/api/products", map[string]any{
			"name": "Classic Tee", "price": 1500, "sizes": []string{"S", "M"},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, product.ID.String(), testutil.DecodeBody(t, w)["product"].(map[string]any)["id"])
	})

	t.Run("missing name", func(t *testing.T) {
		svc := new(MockProductService)
		w := testutil.Serve(productRouter(svc), http.MethodPost, "/api/products", map[string]any{"price": 1500})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("discount above price", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, shared.NewDomainError("INVALID_PRICE", "Discount price cannot exceed price"))

		w := testutil.Serve(productRouter(svc), http.MethodPost, "/api/products", map[string]any{
			"name": "Classic Tee", "price": 1500, "discountPrice": 1800,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_PRICE", testutil.ErrorCode(t, w))
	})
}

func TestProductHandler_GetAndDelete(t *testing.T) {
	svc := new(MockProductService)
	product := sampleProduct()
	svc.On("GetByID", mock.Anything, product.ID).Return(&product, nil)
	svc.On("Delete", mock.Anything, product.ID).Return(nil)
	missing := uuid.New()
	svc.On("Delete", mock.Anything, missing).Return(shared.ErrNotFound)
	router := productRouter(svc)

	assert.Equal(t, http.StatusOK, testutil.Serve(router, http.MethodGet, "/api/products/"+product.ID.String(), nil).Code)
	assert.Equal(t, http.StatusOK, testutil.Serve(router, http.MethodDelete, "/api/products/"+product.ID.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, testutil.Serve(router, http.MethodDelete, "/api/products/"+missing.String(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, testutil.Serve(router, http.MethodDelete, "/api/products/42", nil).Code)
}
