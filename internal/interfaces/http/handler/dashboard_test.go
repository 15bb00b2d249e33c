package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	appadmin "github.com/storefront/backend/internal/application/admin"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDashboardHandler_Summary(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("Summary", mock.Anything).Return(&appadmin.DashboardSummary{
			OrdersByStatus: map[string]int64{"pending": 2, "dispatch": 1, "delivered": 4},
			TotalOrders:    7,
			Customers:      5,
			Products:       12,
			Revenue:        decimal.NewFromInt(10600),
			PendingRevenue: decimal.NewFromInt(3975),
			GeneratedAt:    time.Now(),
		}, nil)

		router := gin.New()
		router.GET("/api/admin/dashboard", NewDashboardHandler(svc).Summary)
		w := testutil.Serve(router, http.MethodGet, "/api/admin/dashboard", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		summary := testutil.DecodeBody(t, w)["summary"].(map[string]any)
		assert.Equal(t, float64(7), summary["totalOrders"])
		assert.Equal(t, float64(4), summary["ordersByStatus"].(map[string]any)["delivered"])
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("Summary", mock.Anything).Return(nil, errors.New("count orders: timeout"))

		router := gin.New()
		router.GET("/api/admin/dashboard", NewDashboardHandler(svc).Summary)
		w := testutil.Serve(router, http.MethodGet, "/api/admin/dashboard", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{name: "up", wantCode: http.StatusOK, wantStatus: "healthy"},
		{name: "down", err: errors.New("dial tcp: refused"), wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthHandler(stubPinger{err: tt.err}).Check)
			w := testutil.Serve(router, http.MethodGet, "/health", nil)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantStatus, testutil.DecodeBody(t, w)["status"])
		})
	}
}
