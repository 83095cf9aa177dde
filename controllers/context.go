package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/utils"
)

// tenantFrom pulls the tenant resolved by the tenant middleware out of the
// request context. Admin handlers never trust ids from the request body.
func tenantFrom(c *gin.Context) (*models.Tenant, bool) {
	value, exists := c.Get("tenant")
	if !exists {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("tenant not resolved"))
		return nil, false
	}
	tenant, ok := value.(*models.Tenant)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("tenant not resolved"))
		return nil, false
	}
	return tenant, true
}
