package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/services"
	"github.com/menucloud/menucloud/utils"
)

type SettingsController struct {
	DB     *gorm.DB
	Warmer *services.CacheWarmer
}

func NewSettingsController(db *gorm.DB, warmer *services.CacheWarmer) *SettingsController {
	return &SettingsController{DB: db, Warmer: warmer}
}

// GetSettings returns the tenant's settings row, or the defaults when it
// hasn't been written yet.
func (sc *SettingsController) GetSettings(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	var settings models.Settings
	if err := sc.DB.Where("tenant_id = ?", tenant.ID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondJSON(c, http.StatusOK, "Default settings", models.DefaultSettings(tenant.ID))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings", settings)
}

// UpsertSettings creates or updates the tenant's settings row.
func (sc *SettingsController) UpsertSettings(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	var body struct {
		Currency            *string `json:"currency"`
		DefaultLanguage     *string `json:"default_language"`
		ShowPriceWithoutVat *bool   `json:"show_price_without_vat"`
		ShowCalories        *bool   `json:"show_calories"`
		BrandName           *string `json:"brand_name"`
		BrandColor          *string `json:"brand_color"`
		LogoUrl             *string `json:"logo_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var settings models.Settings
	err := sc.DB.Where("tenant_id = ?", tenant.ID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.DefaultSettings(tenant.ID)
	} else if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if body.Currency != nil {
		settings.Currency = *body.Currency
	}
	if body.DefaultLanguage != nil {
		settings.DefaultLanguage = *body.DefaultLanguage
	}
	if body.ShowPriceWithoutVat != nil {
		settings.ShowPriceWithoutVat = *body.ShowPriceWithoutVat
	}
	if body.ShowCalories != nil {
		settings.ShowCalories = *body.ShowCalories
	}
	if body.BrandName != nil {
		settings.BrandName = *body.BrandName
	}
	if body.BrandColor != nil {
		settings.BrandColor = *body.BrandColor
	}
	if body.LogoUrl != nil {
		settings.LogoUrl = *body.LogoUrl
	}

	if err := sc.DB.Save(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sc.Warmer.InvalidateAndWarm(c.Request.Context(), tenant)
	utils.RespondJSON(c, http.StatusOK, "Settings saved", settings)
}
