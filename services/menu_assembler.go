package services

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/gorm"

	"github.com/menucloud/menucloud/cache"
	"github.com/menucloud/menucloud/metrics"
	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/utils"
)

// projectionContext carries the per-request bits every field extractor
// may need: the tenant's display settings and the requested language.
type projectionContext struct {
	settings *models.Settings
	lang     string
}

type fieldExtractor func(item *models.MenuItem, pc *projectionContext) interface{}

type menuField struct {
	name    string
	extract fieldExtractor
}

// menuFields is the single source of truth for what the public API can
// project. Both the all-fields and the fields= paths walk this list, so a
// new output field is one new entry here. "id" is always included
// regardless of the selector; "subItems" is resolved separately in
// MenuItems because it needs its own query.
var menuFields = []menuField{
	{"id", func(m *models.MenuItem, _ *projectionContext) interface{} { return m.ID }},
	{"name", func(m *models.MenuItem, pc *projectionContext) interface{} {
		if pc.lang == "ar" && m.NameAr != "" {
			return m.NameAr
		}
		return m.Name
	}},
	{"nameAr", func(m *models.MenuItem, _ *projectionContext) interface{} { return m.NameAr }},
	{"description", func(m *models.MenuItem, pc *projectionContext) interface{} {
		if pc.lang == "ar" && m.DescriptionAr != "" {
			return m.DescriptionAr
		}
		return m.Description
	}},
	{"descriptionAr", func(m *models.MenuItem, _ *projectionContext) interface{} { return m.DescriptionAr }},
	{"price", func(m *models.MenuItem, pc *projectionContext) interface{} {
		return utils.FormatPrice(m.Price, pc.settings.Currency)
	}},
	{"priceWithoutVat", func(m *models.MenuItem, pc *projectionContext) interface{} {
		if !pc.settings.ShowPriceWithoutVat || m.Price == nil {
			return nil
		}
		excl := *m.Price / (1 + vatRate)
		return utils.FormatPrice(&excl, pc.settings.Currency)
	}},
	{"calories", func(m *models.MenuItem, pc *projectionContext) interface{} {
		if !pc.settings.ShowCalories {
			return nil
		}
		return m.Calories
	}},
	{"imageUrl", func(m *models.MenuItem, _ *projectionContext) interface{} { return m.ImageUrl }},
	{"category", func(m *models.MenuItem, pc *projectionContext) interface{} {
		if m.Category == nil {
			return nil
		}
		label := m.Category.Label
		if pc.lang == "ar" && m.Category.LabelAr != "" {
			label = m.Category.LabelAr
		}
		return map[string]interface{}{
			"id":      m.Category.ID,
			"value":   m.Category.Value,
			"label":   label,
			"labelAr": m.Category.LabelAr,
		}
	}},
	{"allergens", func(m *models.MenuItem, _ *projectionContext) interface{} {
		allergens := make([]map[string]interface{}, 0, len(m.Allergens))
		for i := range m.Allergens {
			a := &m.Allergens[i]
			allergens = append(allergens, map[string]interface{}{
				"id":     a.ID,
				"name":   a.Name,
				"nameAr": a.NameAr,
				"icon":   a.Icon,
			})
		}
		return allergens
	}},
	{"isMultiItem", func(m *models.MenuItem, _ *projectionContext) interface{} { return m.IsMultiItem }},
	{"priceMin", func(m *models.MenuItem, pc *projectionContext) interface{} {
		return utils.FormatPrice(m.PriceMin, pc.settings.Currency)
	}},
	{"priceMax", func(m *models.MenuItem, pc *projectionContext) interface{} {
		return utils.FormatPrice(m.PriceMax, pc.settings.Currency)
	}},
	{"sortOrder", func(m *models.MenuItem, _ *projectionContext) interface{} { return m.SortOrder }},
}

// vatRate is the Saudi standard VAT used for the VAT-exclusive price toggle.
const vatRate = 0.15

// MenuAssembler builds the public-facing documents and owns their cache
// entries. The cache stores the final marshalled response shape, so a hit
// is returned byte for byte without touching the database.
type MenuAssembler struct {
	DB    *gorm.DB
	Cache cache.Store
}

func NewMenuAssembler(db *gorm.DB, store cache.Store) *MenuAssembler {
	return &MenuAssembler{DB: db, Cache: store}
}

// MenuItems assembles one page of the public menu: top-level available
// items, ordered by sort order then id, with combos carrying their
// sub-items. skip/limit arrive pre-clamped by the boundary; a skip past
// the total simply yields an empty page with the correct total.
func (a *MenuAssembler) MenuItems(ctx context.Context, tenant *models.Tenant, skip, limit int, fields []string, lang string) ([]byte, error) {
	key := cache.MenuItemsKey(tenant.Subdomain, skip, limit, fields, lang)
	if doc, ok := a.Cache.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("menu_items").Inc()
		return doc, nil
	}
	metrics.CacheMisses.WithLabelValues("menu_items").Inc()

	pc := &projectionContext{settings: a.settingsFor(tenant), lang: lang}
	selected := selectedFields(fields)

	const topLevel = "tenant_id = ? AND parent_item_id IS NULL AND is_available = ?"

	var total int64
	if err := a.DB.Model(&models.MenuItem{}).
		Where(topLevel, tenant.ID, true).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.MenuItem
	if err := a.DB.
		Where(topLevel, tenant.ID, true).
		Preload("Category").
		Preload("Allergens").
		Order("sort_order ASC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}

	records := make([]map[string]interface{}, 0, len(items))
	for i := range items {
		item := &items[i]
		record := projectItem(item, pc, selected)
		if item.IsMultiItem && fieldWanted(selected, "subItems") {
			record["subItems"] = a.subItemsOf(item, pc, selected)
		}
		records = append(records, record)
	}

	doc, err := json.Marshal(map[string]interface{}{
		"items": records,
		"total": total,
		"skip":  skip,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	a.Cache.Set(ctx, key, doc, cache.TTLMenuItems)
	return doc, nil
}

// subItemsOf fetches and serializes a combo's members with the same field
// set as top-level items, category force-inherited from the parent. A
// combo with no members gets an empty list, never null. A failed sub-item
// fetch degrades to an empty list instead of failing the page.
func (a *MenuAssembler) subItemsOf(parent *models.MenuItem, pc *projectionContext, selected map[string]bool) []map[string]interface{} {
	records := make([]map[string]interface{}, 0)

	var subItems []models.MenuItem
	err := a.DB.
		Preload("Allergens").
		Where("parent_item_id = ? AND is_available = ?", parent.ID, true).
		Order("sub_item_order ASC, id ASC").
		Find(&subItems).Error
	if err != nil {
		utils.ErrorLogger.Printf("Failed to load sub-items for combo %d: %v", parent.ID, err)
		return records
	}

	for i := range subItems {
		sub := &subItems[i]
		// A sub-item never surfaces its own category publicly; it
		// presents under the parent's.
		sub.Category = parent.Category
		sub.CategoryID = parent.CategoryID
		records = append(records, projectItem(sub, pc, selected))
	}
	return records
}

// Categories assembles the ordered public category list for a tenant.
func (a *MenuAssembler) Categories(ctx context.Context, tenant *models.Tenant) ([]byte, error) {
	key := cache.CategoriesKey(tenant.Subdomain)
	if doc, ok := a.Cache.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("categories").Inc()
		return doc, nil
	}
	metrics.CacheMisses.WithLabelValues("categories").Inc()

	var categories []models.Category
	if err := a.DB.
		Where("tenant_id = ? AND is_active = ?", tenant.ID, true).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}

	records := make([]map[string]interface{}, 0, len(categories))
	for i := range categories {
		c := &categories[i]
		records = append(records, map[string]interface{}{
			"id":        c.ID,
			"value":     c.Value,
			"label":     c.Label,
			"labelAr":   c.LabelAr,
			"sortOrder": c.SortOrder,
		})
	}

	doc, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}

	a.Cache.Set(ctx, key, doc, cache.TTLCategories)
	return doc, nil
}

// Settings assembles the flattened public settings document. A tenant
// without a settings row gets the documented defaults instead of an error.
func (a *MenuAssembler) Settings(ctx context.Context, tenant *models.Tenant) ([]byte, error) {
	key := cache.SettingsKey(tenant.Subdomain)
	if doc, ok := a.Cache.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("settings").Inc()
		return doc, nil
	}
	metrics.CacheMisses.WithLabelValues("settings").Inc()

	settings := a.settingsFor(tenant)
	brandName := settings.BrandName
	if brandName == "" {
		brandName = tenant.Name
	}

	doc, err := json.Marshal(map[string]interface{}{
		"subdomain":           tenant.Subdomain,
		"currency":            settings.Currency,
		"defaultLanguage":     settings.DefaultLanguage,
		"showPriceWithoutVat": settings.ShowPriceWithoutVat,
		"showCalories":        settings.ShowCalories,
		"brandName":           brandName,
		"brandColor":          settings.BrandColor,
		"logoUrl":             settings.LogoUrl,
	})
	if err != nil {
		return nil, err
	}

	a.Cache.Set(ctx, key, doc, cache.TTLSettings)
	return doc, nil
}

func (a *MenuAssembler) settingsFor(tenant *models.Tenant) *models.Settings {
	var settings models.Settings
	if err := a.DB.Where("tenant_id = ?", tenant.ID).First(&settings).Error; err != nil {
		defaults := models.DefaultSettings(tenant.ID)
		return &defaults
	}
	return &settings
}

func projectItem(item *models.MenuItem, pc *projectionContext, selected map[string]bool) map[string]interface{} {
	record := make(map[string]interface{}, len(menuFields))
	for _, f := range menuFields {
		if f.name != "id" && !fieldWanted(selected, f.name) {
			continue
		}
		record[f.name] = f.extract(item, pc)
	}
	return record
}

// selectedFields turns the fields= query value into a lookup set; an empty
// selection means all fields.
func selectedFields(fields []string) map[string]bool {
	selected := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			selected[f] = true
		}
	}
	if len(selected) == 0 {
		return nil
	}
	return selected
}

func fieldWanted(selected map[string]bool, name string) bool {
	return selected == nil || selected[name]
}
