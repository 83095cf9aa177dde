package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/services"
	"github.com/menucloud/menucloud/utils"
)

type CategoryController struct {
	DB     *gorm.DB
	Warmer *services.CacheWarmer
}

func NewCategoryController(db *gorm.DB, warmer *services.CacheWarmer) *CategoryController {
	return &CategoryController{DB: db, Warmer: warmer}
}

// GetAllCategories returns every category of the tenant, including
// inactive ones the public endpoint hides.
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	var categories []models.Category
	if err := cc.DB.Where("tenant_id = ?", tenant.ID).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All categories", categories)
}

// CreateCategory
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	var body struct {
		Value     string `json:"value" binding:"required"`
		Label     string `json:"label" binding:"required"`
		LabelAr   string `json:"label_ar"`
		SortOrder int    `json:"sort_order"`
		IsActive  *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.Category{
		TenantID:  tenant.ID,
		Value:     body.Value,
		Label:     body.Label,
		LabelAr:   body.LabelAr,
		SortOrder: body.SortOrder,
		IsActive:  true,
	}
	if body.IsActive != nil {
		category.IsActive = *body.IsActive
	}

	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.Warmer.InvalidateAndWarm(c.Request.Context(), tenant)
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	id, _ := strconv.Atoi(c.Param("cat_id"))

	var category models.Category
	if err := cc.DB.Where("tenant_id = ?", tenant.ID).First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		Value     *string `json:"value"`
		Label     *string `json:"label"`
		LabelAr   *string `json:"label_ar"`
		SortOrder *int    `json:"sort_order"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Value != nil {
		category.Value = *body.Value
	}
	if body.Label != nil {
		category.Label = *body.Label
	}
	if body.LabelAr != nil {
		category.LabelAr = *body.LabelAr
	}
	if body.SortOrder != nil {
		category.SortOrder = *body.SortOrder
	}
	if body.IsActive != nil {
		category.IsActive = *body.IsActive
	}

	if err := cc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.Warmer.InvalidateAndWarm(c.Request.Context(), tenant)
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory refuses to delete a category that still has menu items.
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	id, _ := strconv.Atoi(c.Param("cat_id"))

	var category models.Category
	if err := cc.DB.Where("tenant_id = ?", tenant.ID).First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var itemCount int64
	if err := cc.DB.Model(&models.MenuItem{}).
		Where("tenant_id = ? AND category_id = ?", tenant.ID, category.ID).
		Count(&itemCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if itemCount > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("category still has menu items"))
		return
	}

	if err := cc.DB.Delete(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.Warmer.InvalidateAndWarm(c.Request.Context(), tenant)
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": category.ID})
}
