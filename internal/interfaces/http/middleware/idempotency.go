package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client's submission key. The checkout
// client sends the order id.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// DuplicateRecorder counts rejected duplicate submissions
type DuplicateRecorder interface {
	RecordCheckoutRejected(ctx context.Context, reason string)
}

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store     shared.IdempotencyStore
	TTL       time.Duration
	KeyPrefix string
	// RequireHeader rejects requests without an Idempotency-Key with 400
	RequireHeader bool
	Recorder      DuplicateRecorder
	Logger        *zap.Logger
}

// Idempotency claims the request's Idempotency-Key before the handler runs.
// A key that is already claimed, by an in-flight or a completed request,
// answers 409 DUPLICATE_REQUEST. The claim is released when the handler
// does not answer 2xx so the client can submit again.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			if cfg.RequireHeader {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, IdempotencyKeyHeader+" header is required")
				return
			}
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, IdempotencyKeyHeader+" is too long")
			return
		}

		storeKey := cfg.KeyPrefix + c.Request.Method + ":" + c.FullPath() + ":" + key
		ctx := c.Request.Context()

		claimed, err := cfg.Store.MarkProcessed(ctx, storeKey, cfg.TTL)
		if err != nil {
			// without the store, the order id replay check still guards persistence
			cfg.Logger.Error("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			cfg.Logger.Info("Duplicate submission rejected",
				zap.String("idempotency_key", key),
				zap.String("path", c.FullPath()))
			if cfg.Recorder != nil {
				cfg.Recorder.RecordCheckoutRejected(ctx, dto.ErrCodeDuplicateRequest)
			}
			abortWithError(c, http.StatusConflict, dto.ErrCodeDuplicateRequest, "Request has already been submitted")
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < 200 || status > 299 {
			if err := cfg.Store.Release(context.WithoutCancel(ctx), storeKey); err != nil {
				cfg.Logger.Warn("Failed to release idempotency key",
					zap.String("idempotency_key", key),
					zap.Error(err))
			}
		}
	}
}
