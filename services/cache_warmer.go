package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/menucloud/menucloud/cache"
	"github.com/menucloud/menucloud/metrics"
	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/utils"
)

// Hot combinations re-populated after every invalidation: the common
// pagination sizes crossed with the common field presets, plus the
// categories and settings documents.
var (
	warmPages = []struct {
		skip  int
		limit int
	}{
		{0, 20},
		{0, 50},
		{0, 100},
	}

	warmFieldPresets = [][]string{
		nil,
		{"id", "name", "price", "imageUrl"},
		{"id", "name", "price", "category", "isMultiItem", "priceMin", "priceMax", "subItems"},
	}
)

// CacheWarmer owns invalidation and the best-effort re-population that
// follows it. Warming is a latency optimization only: if it loses the race
// against the next real request, that request recomputes on miss.
type CacheWarmer struct {
	Assembler *MenuAssembler
	Cache     cache.Store

	// generations counts invalidations per tenant subdomain. A warm
	// cycle pins the generation it started under; a mismatch at the end
	// means another invalidation landed mid-cycle and the entries the
	// cycle wrote may predate it.
	mu          sync.Mutex
	generations map[string]uint64
}

func NewCacheWarmer(assembler *MenuAssembler, store cache.Store) *CacheWarmer {
	return &CacheWarmer{
		Assembler:   assembler,
		Cache:       store,
		generations: make(map[string]uint64),
	}
}

func (w *CacheWarmer) generation(subdomain string) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generations[subdomain]
}

// Invalidate drops every public cache entry of one tenant: all menu pages
// by prefix, plus the categories and settings documents. Keys of other
// tenants are untouched. Called synchronously inside every admin write,
// before the write's response is returned. The generation bump comes
// first so an in-flight warm cycle started before this write detects it.
func (w *CacheWarmer) Invalidate(ctx context.Context, tenant *models.Tenant) {
	w.mu.Lock()
	w.generations[tenant.Subdomain]++
	w.mu.Unlock()

	w.dropEntries(ctx, tenant)
}

func (w *CacheWarmer) dropEntries(ctx context.Context, tenant *models.Tenant) {
	w.Cache.DeletePrefix(ctx, cache.MenuKeyPrefix(tenant.Subdomain))
	w.Cache.Delete(ctx, cache.CategoriesKey(tenant.Subdomain))
	w.Cache.Delete(ctx, cache.SettingsKey(tenant.Subdomain))
}

// InvalidateAndWarm is the admin-write hook: synchronous invalidation,
// then fire-and-forget warming. The warm goroutine deliberately gets a
// fresh context so a finished admin request cannot cancel it.
func (w *CacheWarmer) InvalidateAndWarm(ctx context.Context, tenant *models.Tenant) {
	w.Invalidate(ctx, tenant)
	go w.Warm(context.Background(), tenant)
}

// Warm recomputes the hot cache entries for a tenant concurrently. Every
// combination runs as its own task; one failing task never aborts its
// siblings — errors are logged, counted and dropped.
func (w *CacheWarmer) Warm(ctx context.Context, tenant *models.Tenant) {
	w.warmAt(ctx, tenant, w.generation(tenant.Subdomain))
}

// warmAt runs one warm cycle pinned to the generation observed at start.
// If the generation moved while the cycle ran, an invalidation overlapped
// it and the documents written here may carry pre-invalidation state, so
// they are dropped again; the next read repopulates from the database.
func (w *CacheWarmer) warmAt(ctx context.Context, tenant *models.Tenant, gen uint64) {
	var g errgroup.Group

	for _, page := range warmPages {
		for _, preset := range warmFieldPresets {
			page, preset := page, preset
			g.Go(func() error {
				_, err := w.Assembler.MenuItems(ctx, tenant, page.skip, page.limit, preset, "")
				w.report(tenant, "menu_items", err)
				return nil
			})
		}
	}

	g.Go(func() error {
		_, err := w.Assembler.Categories(ctx, tenant)
		w.report(tenant, "categories", err)
		return nil
	})

	g.Go(func() error {
		_, err := w.Assembler.Settings(ctx, tenant)
		w.report(tenant, "settings", err)
		return nil
	})

	g.Wait()

	if w.generation(tenant.Subdomain) != gen {
		w.dropEntries(ctx, tenant)
	}
}

func (w *CacheWarmer) report(tenant *models.Tenant, resource string, err error) {
	if err != nil {
		metrics.WarmTasksTotal.WithLabelValues("error").Inc()
		utils.ErrorLogger.Printf("Cache warm %s failed for tenant %s: %v", resource, tenant.Subdomain, err)
		return
	}
	metrics.WarmTasksTotal.WithLabelValues("ok").Inc()
}
