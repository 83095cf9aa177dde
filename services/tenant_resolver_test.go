package services

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menucloud/menucloud/models"
)

func TestResolveBySubdomainCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	createTenant(t, db, "acme", models.TenantStatusActive)

	r := NewTenantResolver(db, "menucloud.local", "production", "")
	defer r.Stop()

	tenant, err := r.BySubdomain("AcMe")
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant.Subdomain)
}

func TestResolveByHostSubdomain(t *testing.T) {
	db := setupTestDB(t)
	createTenant(t, db, "acme", models.TenantStatusActive)

	r := NewTenantResolver(db, "menucloud.local", "production", "")
	defer r.Stop()

	tenant, err := r.Resolve("acme.menucloud.local:8080", "", false)
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant.Subdomain)
}

func TestResolveHeaderTakesPrecedence(t *testing.T) {
	db := setupTestDB(t)
	createTenant(t, db, "acme", models.TenantStatusActive)
	other := createTenant(t, db, "other", models.TenantStatusActive)

	r := NewTenantResolver(db, "menucloud.local", "production", "")
	defer r.Stop()

	otherID := strconv.FormatUint(uint64(other.ID), 10)

	// Header wins over the host subdomain when trusted.
	tenant, err := r.Resolve("acme.menucloud.local", otherID, true)
	require.NoError(t, err)
	assert.Equal(t, other.ID, tenant.ID)

	// Untrusted callers fall through to the host.
	tenant, err = r.Resolve("acme.menucloud.local", otherID, false)
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant.Subdomain)
}

func TestResolveByCustomDomain(t *testing.T) {
	db := setupTestDB(t)
	domain := "menu.burgerjoint.com"
	tenant := models.Tenant{Name: "Burger Joint", Subdomain: "burgerjoint", Domain: &domain, Status: models.TenantStatusActive}
	require.NoError(t, db.Create(&tenant).Error)

	r := NewTenantResolver(db, "menucloud.local", "production", "")
	defer r.Stop()

	got, err := r.Resolve("menu.burgerjoint.com", "", false)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)
}

func TestResolveFallbackOutsideProduction(t *testing.T) {
	db := setupTestDB(t)
	createTenant(t, db, "demo", models.TenantStatusActive)

	dev := NewTenantResolver(db, "menucloud.local", "development", "demo")
	defer dev.Stop()

	tenant, err := dev.Resolve("localhost", "", false)
	require.NoError(t, err)
	assert.Equal(t, "demo", tenant.Subdomain)

	prod := NewTenantResolver(db, "menucloud.local", "production", "demo")
	defer prod.Stop()

	_, err = prod.Resolve("localhost", "", false)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveInactiveTenant(t *testing.T) {
	db := setupTestDB(t)
	createTenant(t, db, "suspended", models.TenantStatusInactive)

	r := NewTenantResolver(db, "menucloud.local", "production", "")
	defer r.Stop()

	_, err := r.BySubdomain("suspended")
	assert.ErrorIs(t, err, ErrTenantInactive)
}

func TestResolveUnknownTenant(t *testing.T) {
	db := setupTestDB(t)

	r := NewTenantResolver(db, "menucloud.local", "production", "")
	defer r.Stop()

	_, err := r.BySubdomain("nope")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestStripPort(t *testing.T) {
	cases := map[string]string{
		"acme.menucloud.local:8080": "acme.menucloud.local",
		"acme.menucloud.local":      "acme.menucloud.local",
		"[::1]:8080":                "::1",
		"::1":                       "::1",
	}
	for host, want := range cases {
		assert.Equal(t, want, stripPort(host), "host %q", host)
	}
}
