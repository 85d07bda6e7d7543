package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/logger"
	"github.com/imperialbinding/billing/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader lets clients retry a POST without creating a
	// second invoice or payment.
	IdempotencyKeyHeader = "Idempotency-Key"
	// MaxIdempotencyKeyLength bounds client-supplied keys
	MaxIdempotencyKeyLength = 255
	// DefaultIdempotencyTTL is how long a claimed key blocks replays
	DefaultIdempotencyTTL = 24 * time.Hour
)

// ErrorCodeContextKey holds the error code a handler responded with
const ErrorCodeContextKey = "error_code"

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store shared.IdempotencyStore
	TTL   time.Duration
}

// Idempotency claims the Idempotency-Key of a request before the handler
// runs. A second request with the same key is rejected with 409 while the
// claim lives. Claims are released when the handler fails (status >= 400)
// or panics, so the client may retry.
// Requests without the header, and a nil store, pass straight through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		// Keys are scoped to the route so one key cannot collide across
		// invoices and payments.
		scoped := c.Request.Method + " " + routePattern(c) + " " + key
		ctx := c.Request.Context()
		log := logger.GetGinLogger(c)

		claimed, err := cfg.Store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			log.Error("idempotency store unavailable", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeServiceUnavailable, "Idempotency check is temporarily unavailable", GetRequestID(c)))
			return
		}
		if !claimed {
			c.Set(ErrorCodeContextKey, dto.ErrCodeDuplicateRequest)
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest, "A request with this Idempotency-Key was already processed", GetRequestID(c)))
			return
		}

		release := func() {
			// The request context may already be cancelled
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := cfg.Store.Release(releaseCtx, scoped); err != nil {
				log.Warn("failed to release idempotency key", zap.Error(err))
			}
		}

		defer func() {
			if r := recover(); r != nil {
				release()
				panic(r)
			}
		}()

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			release()
		}
	}
}
