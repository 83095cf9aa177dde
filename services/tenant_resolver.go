package services

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/models"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrTenantInactive = errors.New("tenant is not active")
)

// tenantLookup carries both the row and the lookup error through the
// ttl cache so negative results are cached the same way as hits.
type tenantLookup struct {
	tenant models.Tenant
	err    error
}

// TenantResolver maps an inbound request to an active tenant. Precedence,
// first match wins:
//  1. explicit X-Tenant-ID header (trusted for admin callers only)
//  2. subdomain of the platform base domain, case-insensitive
//  3. registered custom domain, exact match
//  4. fallback subdomain outside production
//
// Resolution has no side effects; lookups go through a short-lived
// ttlcache so hot tenants don't hit the database on every request.
type TenantResolver struct {
	DB                *gorm.DB
	BaseDomain        string
	Environment       string
	FallbackSubdomain string

	lookups *ttlcache.Cache[string, tenantLookup]
}

func NewTenantResolver(db *gorm.DB, baseDomain, environment, fallbackSubdomain string) *TenantResolver {
	lookups := ttlcache.New[string, tenantLookup](
		ttlcache.WithTTL[string, tenantLookup](30*time.Second),
		ttlcache.WithDisableTouchOnHit[string, tenantLookup](),
	)
	go lookups.Start()

	return &TenantResolver{
		DB:                db,
		BaseDomain:        baseDomain,
		Environment:       environment,
		FallbackSubdomain: fallbackSubdomain,
		lookups:           lookups,
	}
}

// Resolve applies the full precedence order. host is the request Host
// header (port allowed); tenantHeader is the X-Tenant-ID value, only
// honored when trustHeader is set by an authenticated admin boundary.
func (r *TenantResolver) Resolve(host, tenantHeader string, trustHeader bool) (*models.Tenant, error) {
	if trustHeader && tenantHeader != "" {
		if id, err := strconv.ParseUint(tenantHeader, 10, 32); err == nil {
			return r.byID(uint(id))
		}
		return r.BySubdomain(tenantHeader)
	}

	host = stripPort(host)

	if sub, ok := r.subdomainOf(host); ok {
		tenant, err := r.BySubdomain(sub)
		if err == nil || !errors.Is(err, ErrTenantNotFound) {
			return tenant, err
		}
	}

	if host != "" {
		tenant, err := r.byDomain(host)
		if err == nil || !errors.Is(err, ErrTenantNotFound) {
			return tenant, err
		}
	}

	if r.Environment != "production" && r.FallbackSubdomain != "" {
		return r.BySubdomain(r.FallbackSubdomain)
	}

	return nil, ErrTenantNotFound
}

// BySubdomain looks a tenant up by its subdomain, case-insensitively, and
// enforces the status check. This is the entry point for the public
// /public/:subdomain/* routes.
func (r *TenantResolver) BySubdomain(subdomain string) (*models.Tenant, error) {
	return r.cached("sub:"+strings.ToLower(subdomain), func() (models.Tenant, error) {
		var tenant models.Tenant
		err := r.DB.Where("LOWER(subdomain) = ?", strings.ToLower(subdomain)).First(&tenant).Error
		return tenant, err
	})
}

func (r *TenantResolver) byDomain(domain string) (*models.Tenant, error) {
	return r.cached("dom:"+strings.ToLower(domain), func() (models.Tenant, error) {
		var tenant models.Tenant
		err := r.DB.Where("domain = ?", strings.ToLower(domain)).First(&tenant).Error
		return tenant, err
	})
}

func (r *TenantResolver) byID(id uint) (*models.Tenant, error) {
	return r.cached("id:"+strconv.FormatUint(uint64(id), 10), func() (models.Tenant, error) {
		var tenant models.Tenant
		err := r.DB.First(&tenant, id).Error
		return tenant, err
	})
}

func (r *TenantResolver) cached(key string, fetch func() (models.Tenant, error)) (*models.Tenant, error) {
	loader := ttlcache.LoaderFunc[string, tenantLookup](
		func(cache *ttlcache.Cache[string, tenantLookup], key string) *ttlcache.Item[string, tenantLookup] {
			tenant, err := fetch()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = ErrTenantNotFound
			}
			return cache.Set(key, tenantLookup{tenant: tenant, err: err}, ttlcache.DefaultTTL)
		},
	)

	item := r.lookups.Get(key, ttlcache.WithLoader[string, tenantLookup](loader))
	if item == nil {
		return nil, ErrTenantNotFound
	}
	lookup := item.Value()
	if lookup.err != nil {
		return nil, lookup.err
	}

	tenant := lookup.tenant
	if !tenant.IsActive() {
		return nil, ErrTenantInactive
	}
	return &tenant, nil
}

// Forget drops cached lookups for one tenant, used after a tenant row
// changes (status flip, domain update).
func (r *TenantResolver) Forget(tenant *models.Tenant) {
	r.lookups.Delete("sub:" + strings.ToLower(tenant.Subdomain))
	r.lookups.Delete("id:" + strconv.FormatUint(uint64(tenant.ID), 10))
	if tenant.Domain != nil {
		r.lookups.Delete("dom:" + strings.ToLower(*tenant.Domain))
	}
}

func (r *TenantResolver) Stop() {
	r.lookups.Stop()
}

func (r *TenantResolver) subdomainOf(host string) (string, bool) {
	if r.BaseDomain == "" {
		return "", false
	}
	suffix := "." + strings.ToLower(r.BaseDomain)
	host = strings.ToLower(host)
	if !strings.HasSuffix(host, suffix) {
		return "", false
	}
	sub := strings.TrimSuffix(host, suffix)
	if sub == "" || strings.Contains(sub, ".") {
		return "", false
	}
	return sub, true
}

// stripPort drops an optional port from a Host header value. IPv6
// literals keep their meaning: "[::1]:8080" becomes "::1", a bare "::1"
// passes through unchanged.
func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
