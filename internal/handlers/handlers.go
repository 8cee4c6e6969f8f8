// Package handlers exposes the storefront over HTTP.
package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/bakery-storefront/internal/apperror"
	"github.com/imrishuroy/bakery-storefront/internal/cart"
	"github.com/imrishuroy/bakery-storefront/internal/enquiries"
	"github.com/imrishuroy/bakery-storefront/internal/idempotency"
	"github.com/imrishuroy/bakery-storefront/internal/logger"
	"github.com/imrishuroy/bakery-storefront/internal/orders"
	"github.com/imrishuroy/bakery-storefront/internal/products"
	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

// HandlerConfig groups dependencies for the HTTP handlers.
// Idempotency is optional; without it Idempotency-Key headers are ignored.
type HandlerConfig struct {
	Orders      *orders.Manager
	Enquiries   *enquiries.Manager
	Products    *products.Manager
	Cart        *cart.Holder
	Validator   *validation.Validator
	Idempotency *idempotency.Store
	AdminAPIKey string
}

// RegisterRoutes registers every storefront route on r.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	admin := RequireAdmin(cfg.AdminAPIKey)

	registerOrderRoutes(r, admin, cfg)
	registerCartRoutes(r, cfg)
	registerEnquiryRoutes(r, admin, cfg)
	registerProductRoutes(r, admin, cfg)
}

// RequireAdmin rejects requests whose X-API-Key does not match key.
// With no key configured every admin request is refused.
func RequireAdmin(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin_disabled"})
			return
		}
		got := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}
		c.Next()
	}
}

// respondError writes err as JSON. Application errors keep their status and message;
// anything else becomes a generic 500. Server-side causes are logged, never returned.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		logger.Error(c, "unhandled error", err, zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error(c, appErr.Message, appErr.Err, zap.String("path", c.FullPath()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(appErr.Code, appErr)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperror.BadRequest("invalid_id"))
		return uuid.Nil, false
	}
	return id, true
}
