package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/cache"
	"github.com/menucloud/menucloud/models"
)

type menuPage struct {
	Items []map[string]interface{} `json:"items"`
	Total int                      `json:"total"`
	Skip  int                      `json:"skip"`
	Limit int                      `json:"limit"`
}

func seedMenu(t *testing.T, db *gorm.DB, tenant *models.Tenant) (*models.Category, *models.MenuItem) {
	t.Helper()

	require.NoError(t, db.Create(&models.Settings{TenantID: tenant.ID, Currency: "SAR", DefaultLanguage: "en", ShowCalories: true}).Error)

	category := models.Category{TenantID: tenant.ID, Value: "mains", Label: "Mains", LabelAr: "الأطباق الرئيسية", SortOrder: 1, IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	nuts := models.AllergenIcon{TenantID: tenant.ID, Name: "Nuts", NameAr: "مكسرات", Icon: "nuts.svg"}
	require.NoError(t, db.Create(&nuts).Error)

	burger := models.MenuItem{
		TenantID:    tenant.ID,
		CategoryID:  &category.ID,
		Name:        "Burger",
		Description: "Plain good burger",
		Price:       floatPtr(25),
		Calories:    intPtr(850),
		IsAvailable: true,
		SortOrder:   1,
		Allergens:   []models.AllergenIcon{nuts},
	}
	require.NoError(t, db.Create(&burger).Error)

	return &category, &burger
}

func assembleMenuPage(t *testing.T, a *MenuAssembler, tenant *models.Tenant, skip, limit int, fields []string) menuPage {
	t.Helper()
	doc, err := a.MenuItems(context.Background(), tenant, skip, limit, fields, "")
	require.NoError(t, err)
	var page menuPage
	require.NoError(t, json.Unmarshal(doc, &page))
	return page
}

func TestMenuItemsAllFields(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "allfields", models.TenantStatusActive)
	seedMenu(t, db, tenant)

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	page := assembleMenuPage(t, a, tenant, 0, 50, nil)

	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Total)
	item := page.Items[0]

	assert.Equal(t, "Burger", item["name"])
	assert.Equal(t, "25.00 SAR", item["price"])
	assert.Equal(t, float64(850), item["calories"])

	category, ok := item["category"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "mains", category["value"])

	allergens, ok := item["allergens"].([]interface{})
	require.True(t, ok)
	require.Len(t, allergens, 1)
	allergen := allergens[0].(map[string]interface{})
	assert.Equal(t, "Nuts", allergen["name"])
	assert.Equal(t, "nuts.svg", allergen["icon"])
}

func TestMenuItemsFieldProjection(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "projection", models.TenantStatusActive)
	seedMenu(t, db, tenant)

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	page := assembleMenuPage(t, a, tenant, 0, 50, []string{"id", "name", "price"})

	require.Len(t, page.Items, 1)
	item := page.Items[0]

	// Only the requested keys, nothing else.
	assert.Len(t, item, 3)
	assert.Contains(t, item, "id")
	assert.Equal(t, "Burger", item["name"])
	assert.Equal(t, "25.00 SAR", item["price"])
	assert.NotContains(t, item, "allergens")
	assert.NotContains(t, item, "calories")
}

func TestMenuItemsIdAlwaysIncluded(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "idalways", models.TenantStatusActive)
	seedMenu(t, db, tenant)

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	page := assembleMenuPage(t, a, tenant, 0, 50, []string{"name"})

	require.Len(t, page.Items, 1)
	assert.Contains(t, page.Items[0], "id")
}

func TestMenuItemsNilPriceStaysNull(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "nilprice", models.TenantStatusActive)
	require.NoError(t, db.Create(&models.MenuItem{TenantID: tenant.ID, Name: "Market Fish", IsAvailable: true}).Error)

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	page := assembleMenuPage(t, a, tenant, 0, 50, nil)

	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0]["price"])
}

func TestMenuItemsComboSubItems(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "combo", models.TenantStatusActive)
	category, _ := seedMenu(t, db, tenant)

	combo := models.MenuItem{
		TenantID:    tenant.ID,
		CategoryID:  &category.ID,
		Name:        "Burger Meal",
		IsAvailable: true,
		IsMultiItem: true,
		SortOrder:   2,
	}
	require.NoError(t, db.Create(&combo).Error)

	sideCategory := models.Category{TenantID: tenant.ID, Value: "sides", Label: "Sides", IsActive: true}
	require.NoError(t, db.Create(&sideCategory).Error)

	second := models.MenuItem{
		TenantID: tenant.ID, Name: "Meal Large", Price: floatPtr(30),
		CategoryID: &sideCategory.ID, ParentItemID: &combo.ID, SubItemOrder: 2, IsAvailable: true,
	}
	first := models.MenuItem{
		TenantID: tenant.ID, Name: "Meal Regular", Price: floatPtr(25),
		ParentItemID: &combo.ID, SubItemOrder: 1, IsAvailable: true,
	}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, RecomputePriceRange(db, combo.ID))

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	page := assembleMenuPage(t, a, tenant, 0, 50, nil)

	// Sub-items are not listed at the top level.
	require.Len(t, page.Items, 2)

	var comboRecord map[string]interface{}
	for _, item := range page.Items {
		if item["name"] == "Burger Meal" {
			comboRecord = item
		}
	}
	require.NotNil(t, comboRecord)

	assert.Equal(t, true, comboRecord["isMultiItem"])
	assert.Equal(t, "25.00 SAR", comboRecord["priceMin"])
	assert.Equal(t, "30.00 SAR", comboRecord["priceMax"])

	subItems, ok := comboRecord["subItems"].([]interface{})
	require.True(t, ok)
	require.Len(t, subItems, 2)

	// Ordered by sub_item_order, not insertion or id order.
	firstSub := subItems[0].(map[string]interface{})
	secondSub := subItems[1].(map[string]interface{})
	assert.Equal(t, "Meal Regular", firstSub["name"])
	assert.Equal(t, "Meal Large", secondSub["name"])

	// A sub-item presents under the parent's category, never its own.
	subCategory, ok := secondSub["category"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "mains", subCategory["value"])

	// Sub-items never nest further.
	assert.NotContains(t, firstSub, "subItems")
}

func TestMenuItemsComboWithoutSubItems(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "emptycombo", models.TenantStatusActive)
	seedMenu(t, db, tenant)

	combo := models.MenuItem{TenantID: tenant.ID, Name: "Empty Meal", IsAvailable: true, IsMultiItem: true}
	require.NoError(t, db.Create(&combo).Error)

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	page := assembleMenuPage(t, a, tenant, 0, 50, nil)

	var comboRecord map[string]interface{}
	for _, item := range page.Items {
		if item["name"] == "Empty Meal" {
			comboRecord = item
		}
	}
	require.NotNil(t, comboRecord)

	// Empty list, never null or omitted.
	subItems, ok := comboRecord["subItems"].([]interface{})
	require.True(t, ok)
	assert.Len(t, subItems, 0)
	assert.Nil(t, comboRecord["priceMin"])
	assert.Nil(t, comboRecord["priceMax"])
}

func TestMenuItemsUnavailableHidden(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "unavailable", models.TenantStatusActive)
	seedMenu(t, db, tenant)
	require.NoError(t, db.Create(&models.MenuItem{TenantID: tenant.ID, Name: "Gone", IsAvailable: false}).Error)

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	page := assembleMenuPage(t, a, tenant, 0, 50, nil)

	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Burger", page.Items[0]["name"])
}

func TestMenuItemsSkipBeyondTotal(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "skiptest", models.TenantStatusActive)
	seedMenu(t, db, tenant)

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	page := assembleMenuPage(t, a, tenant, 500, 50, nil)

	assert.Len(t, page.Items, 0)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 500, page.Skip)
}

func TestMenuItemsServedFromCache(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "cached", models.TenantStatusActive)
	seedMenu(t, db, tenant)

	store := cache.NewMemoryStore()
	a := NewMenuAssembler(db, store)

	first := assembleMenuPage(t, a, tenant, 0, 50, nil)
	require.Len(t, first.Items, 1)

	// A write that skips invalidation is invisible until the TTL: the
	// cached document is returned unchanged.
	require.NoError(t, db.Create(&models.MenuItem{TenantID: tenant.ID, Name: "New Dish", IsAvailable: true}).Error)
	second := assembleMenuPage(t, a, tenant, 0, 50, nil)
	assert.Len(t, second.Items, 1)

	// After invalidation the next read recomputes.
	store.DeletePrefix(context.Background(), cache.MenuKeyPrefix(tenant.Subdomain))
	third := assembleMenuPage(t, a, tenant, 0, 50, nil)
	assert.Len(t, third.Items, 2)
}

func TestCategoriesDocument(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "cats", models.TenantStatusActive)
	seedMenu(t, db, tenant)
	require.NoError(t, db.Create(&models.Category{TenantID: tenant.ID, Value: "drinks", Label: "Drinks", SortOrder: 0, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Category{TenantID: tenant.ID, Value: "secret", Label: "Secret", IsActive: false}).Error)

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	doc, err := a.Categories(context.Background(), tenant)
	require.NoError(t, err)

	var categories []map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &categories))

	// Inactive categories are hidden; active ones come sorted.
	require.Len(t, categories, 2)
	assert.Equal(t, "drinks", categories[0]["value"])
	assert.Equal(t, "mains", categories[1]["value"])
	assert.Contains(t, categories[0], "labelAr")
	assert.Contains(t, categories[0], "sortOrder")
}

func TestSettingsDocumentDefaults(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "nosettings", models.TenantStatusActive)

	a := NewMenuAssembler(db, cache.NewMemoryStore())
	doc, err := a.Settings(context.Background(), tenant)
	require.NoError(t, err)

	var settings map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &settings))

	// No row yet: the documented defaults, not an error.
	assert.Equal(t, "SAR", settings["currency"])
	assert.Equal(t, "en", settings["defaultLanguage"])
	assert.Equal(t, true, settings["showCalories"])
	assert.Equal(t, "nosettings", settings["brandName"])
}

func intPtr(v int) *int { return &v }
