package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/menucloud/menucloud/services"
	"github.com/menucloud/menucloud/utils"
)

// TenantMiddleware resolves the tenant for admin routes and stores it in
// the request context. The X-Tenant-ID header is trusted here because the
// caller already passed AuthMiddleware; authenticated users without the
// header fall back to the tenant id in their token, then to host-based
// resolution.
func TenantMiddleware(resolver *services.TenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-Tenant-ID")
		if header == "" {
			if tenantID, ok := c.Get("tenant_id"); ok {
				header = fmt.Sprint(tenantID)
			}
		}

		tenant, err := resolver.Resolve(c.Request.Host, header, true)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, services.ErrTenantNotFound):
				status = http.StatusNotFound
			case errors.Is(err, services.ErrTenantInactive):
				status = http.StatusForbidden
			}
			utils.RespondError(c, status, err)
			c.Abort()
			return
		}

		c.Set("tenant", tenant)
		c.Next()
	}
}
