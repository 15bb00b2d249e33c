// Package testutil provides shared helpers for storefront tests: sqlmock
// backed gorm handles, gin test contexts, request helpers, a recording event
// handler and fake domain fixtures.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewMockGorm opens a postgres dialect gorm handle on top of sqlmock. Pings
// are expectations too, so Ping tests must call mock.ExpectPing. The mock is
// closed when the test ends and any expectation left unmet fails it.
func NewMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})
	return db, mock
}

// TestContext is a gin context with its recorder, for calling handler
// helpers directly without routing.
type TestContext struct {
	*gin.Context
	Recorder *httptest.ResponseRecorder
}

// NewTestContext returns a context for a bodiless GET to path
func NewTestContext(path string) *TestContext {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	return &TestContext{Context: c, Recorder: w}
}

// WithRequestID stores id where the logging middleware would
func (tc *TestContext) WithRequestID(id string) *TestContext {
	tc.Set(logger.RequestIDContextKey, id)
	return tc
}

// WithHeader sets a request header
func (tc *TestContext) WithHeader(key, value string) *TestContext {
	tc.Request.Header.Set(key, value)
	return tc
}

// WithAdmin stores userID the way the JWT middleware does after a valid token
func (tc *TestContext) WithAdmin(userID string) *TestContext {
	tc.Set(middleware.JWTUserIDKey, userID)
	return tc
}
