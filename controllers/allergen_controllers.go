package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/services"
	"github.com/menucloud/menucloud/utils"
)

type AllergenController struct {
	DB     *gorm.DB
	Warmer *services.CacheWarmer
}

func NewAllergenController(db *gorm.DB, warmer *services.CacheWarmer) *AllergenController {
	return &AllergenController{DB: db, Warmer: warmer}
}

// GetAllAllergens
func (ac *AllergenController) GetAllAllergens(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	var allergens []models.AllergenIcon
	if err := ac.DB.Where("tenant_id = ?", tenant.ID).Order("id ASC").Find(&allergens).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All allergen icons", allergens)
}

// CreateAllergen
func (ac *AllergenController) CreateAllergen(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	var body struct {
		Name   string `json:"name" binding:"required"`
		NameAr string `json:"name_ar"`
		Icon   string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	allergen := models.AllergenIcon{
		TenantID: tenant.ID,
		Name:     body.Name,
		NameAr:   body.NameAr,
		Icon:     body.Icon,
	}
	if err := ac.DB.Create(&allergen).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ac.Warmer.InvalidateAndWarm(c.Request.Context(), tenant)
	utils.RespondJSON(c, http.StatusCreated, "Allergen icon created", allergen)
}

// DeleteAllergen
func (ac *AllergenController) DeleteAllergen(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	id, _ := strconv.Atoi(c.Param("allergen_id"))

	var allergen models.AllergenIcon
	if err := ac.DB.Where("tenant_id = ?", tenant.ID).First(&allergen, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM menu_item_allergens WHERE allergen_icon_id = ?", allergen.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&allergen).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ac.Warmer.InvalidateAndWarm(c.Request.Context(), tenant)
	utils.RespondJSON(c, http.StatusOK, "Allergen icon deleted", gin.H{"allergen_id": allergen.ID})
}
