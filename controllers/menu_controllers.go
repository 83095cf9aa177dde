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

type MenuItemController struct {
	DB     *gorm.DB
	Warmer *services.CacheWarmer
}

func NewMenuItemController(db *gorm.DB, warmer *services.CacheWarmer) *MenuItemController {
	return &MenuItemController{DB: db, Warmer: warmer}
}

type menuItemRequest struct {
	Name          *string  `json:"name"`
	NameAr        *string  `json:"name_ar"`
	Description   *string  `json:"description"`
	DescriptionAr *string  `json:"description_ar"`
	Price         *float64 `json:"price"`
	Calories      *int     `json:"calories"`
	ImageUrl      *string  `json:"image_url"`
	CategoryID    *uint    `json:"category_id"`
	IsAvailable   *bool    `json:"is_available"`
	SortOrder     *int     `json:"sort_order"`
	IsMultiItem   *bool    `json:"is_multi_item"`
	ParentItemID  *uint    `json:"parent_item_id"`
	SubItemOrder  *int     `json:"sub_item_order"`
	AllergenIDs   *[]uint  `json:"allergen_ids"`

	// A null parent_item_id is indistinguishable from an absent field
	// after decoding, so detaching a sub-item from its combo goes
	// through this flag instead.
	DetachParent *bool `json:"detach_parent"`
}

// GetAllMenuItems returns the tenant's full item list, sub-items included,
// for the admin editing view.
func (mc *MenuItemController) GetAllMenuItems(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	var items []models.MenuItem
	if err := mc.DB.Where("tenant_id = ?", tenant.ID).
		Preload("Category").
		Preload("Allergens").
		Order("sort_order ASC, id ASC").
		Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu items", items)
}

// GetMenuItemByID
func (mc *MenuItemController) GetMenuItemByID(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.Where("tenant_id = ?", tenant.ID).
		Preload("Category").
		Preload("Allergens").
		First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// CreateMenuItem creates a plain item, a combo container, or a sub-item.
// A sub-item write recomputes the parent's price range in the same
// transaction, so the persisted range never lags the membership change.
func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	var body menuItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Name == nil || *body.Name == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}
	if body.IsMultiItem != nil && *body.IsMultiItem && body.ParentItemID != nil {
		utils.RespondError(c, http.StatusBadRequest, models.ErrComboSubItemConflict)
		return
	}

	item := models.MenuItem{
		TenantID:    tenant.ID,
		Name:        *body.Name,
		IsAvailable: true,
	}
	applyMenuItemRequest(&item, &body)

	if item.ParentItemID != nil {
		if _, err := mc.comboOf(tenant, *item.ParentItemID); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	allergens, err := mc.allergensOf(tenant, body.AllergenIDs)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if allergens != nil {
		item.Allergens = allergens
	}

	err = mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		if item.ParentItemID != nil {
			return services.RecomputePriceRange(tx, *item.ParentItemID)
		}
		return nil
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrComboSubItemConflict) {
			status = http.StatusBadRequest
		}
		utils.RespondError(c, status, err)
		return
	}

	mc.Warmer.InvalidateAndWarm(c.Request.Context(), tenant)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem applies a partial update. Price changes and parent
// reassignments recompute the affected combos (old and new parent)
// transactionally with the update itself.
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.Where("tenant_id = ?", tenant.ID).First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body menuItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	oldParentID := item.ParentItemID
	applyMenuItemRequest(&item, &body)

	if item.IsMultiItem && item.ParentItemID != nil {
		utils.RespondError(c, http.StatusBadRequest, models.ErrComboSubItemConflict)
		return
	}
	if item.ParentItemID != nil && *item.ParentItemID == item.ID {
		utils.RespondError(c, http.StatusBadRequest, errors.New("item cannot be its own parent"))
		return
	}
	if item.ParentItemID != nil {
		if _, err := mc.comboOf(tenant, *item.ParentItemID); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	allergens, err := mc.allergensOf(tenant, body.AllergenIDs)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err = mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if allergens != nil {
			if err := tx.Model(&item).Association("Allergens").Replace(allergens); err != nil {
				return err
			}
		}
		if oldParentID != nil && (item.ParentItemID == nil || *oldParentID != *item.ParentItemID) {
			if err := services.RecomputePriceRange(tx, *oldParentID); err != nil {
				return err
			}
		}
		if item.ParentItemID != nil {
			return services.RecomputePriceRange(tx, *item.ParentItemID)
		}
		return nil
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrComboSubItemConflict) {
			status = http.StatusBadRequest
		}
		utils.RespondError(c, status, err)
		return
	}

	mc.Warmer.InvalidateAndWarm(c.Request.Context(), tenant)
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem removes an item. Deleting a combo removes its sub-items
// with it; deleting a sub-item recomputes the parent's range from the
// remaining members.
func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	tenant, ok := tenantFrom(c)
	if !ok {
		return
	}

	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.Where("tenant_id = ?", tenant.ID).First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if item.IsMultiItem {
			if err := tx.Where("parent_item_id = ?", item.ID).Delete(&models.MenuItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		if item.ParentItemID != nil {
			return services.RecomputePriceRange(tx, *item.ParentItemID)
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.Warmer.InvalidateAndWarm(c.Request.Context(), tenant)
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": item.ID})
}

func applyMenuItemRequest(item *models.MenuItem, body *menuItemRequest) {
	if body.Name != nil {
		item.Name = *body.Name
	}
	if body.NameAr != nil {
		item.NameAr = *body.NameAr
	}
	if body.Description != nil {
		item.Description = *body.Description
	}
	if body.DescriptionAr != nil {
		item.DescriptionAr = *body.DescriptionAr
	}
	if body.Price != nil {
		item.Price = body.Price
	}
	if body.Calories != nil {
		item.Calories = body.Calories
	}
	if body.ImageUrl != nil {
		item.ImageUrl = body.ImageUrl
	}
	if body.CategoryID != nil {
		item.CategoryID = body.CategoryID
	}
	if body.IsAvailable != nil {
		item.IsAvailable = *body.IsAvailable
	}
	if body.SortOrder != nil {
		item.SortOrder = *body.SortOrder
	}
	if body.IsMultiItem != nil {
		item.IsMultiItem = *body.IsMultiItem
	}
	if body.ParentItemID != nil {
		item.ParentItemID = body.ParentItemID
	}
	if body.DetachParent != nil && *body.DetachParent {
		item.ParentItemID = nil
	}
	if body.SubItemOrder != nil {
		item.SubItemOrder = *body.SubItemOrder
	}
}

// comboOf validates that a parent reference points at a multi-item of the
// same tenant.
func (mc *MenuItemController) comboOf(tenant *models.Tenant, parentID uint) (*models.MenuItem, error) {
	var parent models.MenuItem
	if err := mc.DB.Where("tenant_id = ?", tenant.ID).First(&parent, parentID).Error; err != nil {
		return nil, errors.New("parent item not found")
	}
	if !parent.IsMultiItem {
		return nil, errors.New("parent item is not a multi-item")
	}
	return &parent, nil
}

// allergensOf loads the referenced allergen icons, tenant-scoped. A nil
// AllergenIDs means "leave associations untouched"; an empty list clears
// them.
func (mc *MenuItemController) allergensOf(tenant *models.Tenant, ids *[]uint) ([]models.AllergenIcon, error) {
	if ids == nil {
		return nil, nil
	}
	allergens := make([]models.AllergenIcon, 0, len(*ids))
	if len(*ids) == 0 {
		return allergens, nil
	}
	if err := mc.DB.Where("tenant_id = ? AND id IN ?", tenant.ID, *ids).Find(&allergens).Error; err != nil {
		return nil, err
	}
	if len(allergens) != len(*ids) {
		return nil, errors.New("unknown allergen icon id")
	}
	return allergens, nil
}
