package middleware

import (
	"net/http"

	"github.com/dukahub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantIDHeader identifies the tenant a request operates on
const TenantIDHeader = "X-Tenant-ID"

// tenantIDKey is the gin context key holding the parsed tenant ID
const tenantIDKey = "tenant_id"

// RequireTenant extracts and validates the tenant ID header. Requests
// without a valid tenant UUID are rejected before reaching the handler.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(TenantIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeValidation, "X-Tenant-ID header is required"))
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeValidation, "X-Tenant-ID must be a valid UUID"))
			return
		}

		c.Set(tenantIDKey, tenantID)
		c.Next()
	}
}

// TenantID returns the tenant ID set by RequireTenant
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(tenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
