package services

import (
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/models"
)

// PriceRangeOf derives a combo's advertised price range from its current
// sub-items. Sub-items without a price are ignored; an empty set means no
// range at all (both bounds nil). Always a pure function of state passed
// in — never computed incrementally from a previous min/max, which would
// drift when the sole holder of a bound is removed.
func PriceRangeOf(subItems []models.MenuItem) (*float64, *float64) {
	var min, max *float64
	for i := range subItems {
		price := subItems[i].Price
		if price == nil {
			continue
		}
		if min == nil || *price < *min {
			v := *price
			min = &v
		}
		if max == nil || *price > *max {
			v := *price
			max = &v
		}
	}
	return min, max
}

// RecomputePriceRange rewrites a combo's stored price_min/price_max from
// the live sub-item set. Callers run it inside the same transaction as the
// write that changed membership or a sub-item price, so the persisted
// range is always consistent with the sub-item set at commit time.
func RecomputePriceRange(tx *gorm.DB, comboID uint) error {
	var subItems []models.MenuItem
	if err := tx.Where("parent_item_id = ?", comboID).Find(&subItems).Error; err != nil {
		return err
	}

	min, max := PriceRangeOf(subItems)
	return tx.Model(&models.MenuItem{}).Where("id = ?", comboID).
		Updates(map[string]interface{}{
			"price_min": min,
			"price_max": max,
		}).Error
}
