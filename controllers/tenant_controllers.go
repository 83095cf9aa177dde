package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/services"
	"github.com/menucloud/menucloud/utils"
)

type TenantController struct {
	DB       *gorm.DB
	Resolver *services.TenantResolver
	Warmer   *services.CacheWarmer
}

func NewTenantController(db *gorm.DB, resolver *services.TenantResolver, warmer *services.CacheWarmer) *TenantController {
	return &TenantController{DB: db, Resolver: resolver, Warmer: warmer}
}

// CreateTenant provisions a tenant with its default settings row.
// Subdomains are stored lowercase so resolution stays case-insensitive.
func (tc *TenantController) CreateTenant(c *gin.Context) {
	var body struct {
		Name      string  `json:"name" binding:"required"`
		Subdomain string  `json:"subdomain" binding:"required"`
		Domain    *string `json:"domain"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	subdomain := strings.ToLower(strings.TrimSpace(body.Subdomain))
	if subdomain == "" || strings.Contains(subdomain, ".") {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid subdomain"))
		return
	}

	tenant := models.Tenant{
		Name:      body.Name,
		Subdomain: subdomain,
		Domain:    body.Domain,
		Status:    models.TenantStatusActive,
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		settings := models.DefaultSettings(tenant.ID)
		return tx.Create(&settings).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	// A public request probing this subdomain before it existed may have
	// left a cached not-found lookup behind; drop it so the tenant is
	// reachable immediately.
	tc.Resolver.Forget(&tenant)

	utils.RespondJSON(c, http.StatusCreated, "Tenant created", tenant)
}

// UpdateTenantStatus activates or suspends a tenant. The resolver's
// lookup cache is dropped so the new status takes effect immediately, and
// a suspended tenant's public cache is invalidated outright.
func (tc *TenantController) UpdateTenantStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tenant_id"))

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Status != models.TenantStatusActive && body.Status != models.TenantStatusInactive {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown status"))
		return
	}

	var tenant models.Tenant
	if err := tc.DB.First(&tenant, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	tenant.Status = body.Status
	if err := tc.DB.Save(&tenant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.Resolver.Forget(&tenant)
	if !tenant.IsActive() {
		tc.Warmer.Invalidate(c.Request.Context(), &tenant)
	}

	utils.RespondJSON(c, http.StatusOK, "Tenant updated", tenant)
}
