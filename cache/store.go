package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TTL classes for public-facing entries. Every public entry carries one of
// these so staleness stays bounded even without an explicit invalidation.
const (
	TTLMenuItems  = 5 * time.Minute
	TTLCategories = 5 * time.Minute
	TTLSettings   = 10 * time.Minute
)

const (
	PrefixPublicMenu = "public_menu"
	PrefixCategories = "categories"
	PrefixSettings   = "settings"
)

// Store is the cache contract shared by the memory and redis backends.
// All operations are non-throwing from the caller's perspective: a backend
// failure degrades to a miss on reads and a no-op on writes, it never
// reaches the request path as an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
	DeletePrefix(ctx context.Context, prefix string) bool
}

// BuildKey joins prefix with name:value pairs sorted by name, dropping nil
// values, so two logically identical requests always collide on the same
// key regardless of parameter order. The tenant subdomain is baked into the
// prefix by the key helpers below, keeping prefix invalidation per-tenant.
func BuildKey(prefix string, params map[string]any) string {
	names := make([]string, 0, len(params))
	for name, v := range params {
		if v == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(prefix)
	for _, name := range names {
		b.WriteString(":")
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(fmt.Sprint(params[name]))
	}
	return b.String()
}

// MenuKeyPrefix is the per-tenant prefix used for menu page invalidation:
// deleting it drops every pagination/projection combination for the tenant
// and nothing else.
func MenuKeyPrefix(subdomain string) string {
	return PrefixPublicMenu + ":subdomain:" + subdomain + ":"
}

// MenuItemsKey builds the cache key for one public menu page. An empty
// field selection is normalized to "all"; an explicit one is sorted and
// deduplicated so field order in the query string does not matter. An
// empty language is dropped from the key entirely.
func MenuItemsKey(subdomain string, skip, limit int, fields []string, lang string) string {
	params := map[string]any{
		"skip":   skip,
		"limit":  limit,
		"fields": NormalizeFields(fields),
	}
	if lang != "" {
		params["lang"] = lang
	}
	return BuildKey(PrefixPublicMenu+":subdomain:"+subdomain, params)
}

func CategoriesKey(subdomain string) string {
	return BuildKey(PrefixCategories, map[string]any{"subdomain": subdomain})
}

func SettingsKey(subdomain string) string {
	return BuildKey(PrefixSettings, map[string]any{"subdomain": subdomain})
}

// NormalizeFields canonicalizes a requested field set for key construction:
// trimmed, lower-sorted, deduplicated, empty set meaning "all".
func NormalizeFields(fields []string) string {
	seen := make(map[string]bool, len(fields))
	clean := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		clean = append(clean, f)
	}
	if len(clean) == 0 {
		return "all"
	}
	sort.Strings(clean)
	return strings.Join(clean, ",")
}
