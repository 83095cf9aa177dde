package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menucloud/menucloud/models"
)

func TestPriceRangeOf(t *testing.T) {
	subItems := []models.MenuItem{
		{Price: floatPtr(12.00)},
		{Price: floatPtr(8.50)},
		{Price: nil},
		{Price: floatPtr(20.00)},
	}

	min, max := PriceRangeOf(subItems)
	require.NotNil(t, min)
	require.NotNil(t, max)
	assert.Equal(t, 8.50, *min)
	assert.Equal(t, 20.00, *max)
}

func TestPriceRangeOfEmptySet(t *testing.T) {
	min, max := PriceRangeOf(nil)
	assert.Nil(t, min)
	assert.Nil(t, max)

	// All-nil prices count as an empty set too.
	min, max = PriceRangeOf([]models.MenuItem{{Price: nil}})
	assert.Nil(t, min)
	assert.Nil(t, max)
}

func TestRecomputePriceRange(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTenant(t, db, "pricerange", models.TenantStatusActive)

	combo := models.MenuItem{TenantID: tenant.ID, Name: "Combo", IsMultiItem: true}
	require.NoError(t, db.Create(&combo).Error)

	cheap := models.MenuItem{TenantID: tenant.ID, Name: "Cheap", Price: floatPtr(8.50), ParentItemID: uintPtr(combo.ID)}
	mid := models.MenuItem{TenantID: tenant.ID, Name: "Mid", Price: floatPtr(12.00), ParentItemID: uintPtr(combo.ID)}
	pricey := models.MenuItem{TenantID: tenant.ID, Name: "Pricey", Price: floatPtr(20.00), ParentItemID: uintPtr(combo.ID)}
	require.NoError(t, db.Create(&cheap).Error)
	require.NoError(t, db.Create(&mid).Error)
	require.NoError(t, db.Create(&pricey).Error)

	require.NoError(t, RecomputePriceRange(db, combo.ID))

	var got models.MenuItem
	require.NoError(t, db.First(&got, combo.ID).Error)
	require.NotNil(t, got.PriceMin)
	require.NotNil(t, got.PriceMax)
	assert.Equal(t, 8.50, *got.PriceMin)
	assert.Equal(t, 20.00, *got.PriceMax)

	// Removing the holder of the minimum must yield the new minimum from
	// the remaining set, not the stale cached bound.
	require.NoError(t, db.Delete(&cheap).Error)
	require.NoError(t, RecomputePriceRange(db, combo.ID))

	require.NoError(t, db.First(&got, combo.ID).Error)
	require.NotNil(t, got.PriceMin)
	assert.Equal(t, 12.00, *got.PriceMin)
	assert.Equal(t, 20.00, *got.PriceMax)

	// Removing everything clears both bounds.
	require.NoError(t, db.Delete(&mid).Error)
	require.NoError(t, db.Delete(&pricey).Error)
	require.NoError(t, RecomputePriceRange(db, combo.ID))

	require.NoError(t, db.First(&got, combo.ID).Error)
	assert.Nil(t, got.PriceMin)
	assert.Nil(t, got.PriceMax)
}
