package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/cache"
)

type Config struct {
	Port        string
	Environment string

	// Tenant resolution
	BaseDomain        string
	FallbackSubdomain string

	// Cache backend: "memory" or "redis"
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		BaseDomain:        getEnv("BASE_DOMAIN", "menucloud.local"),
		FallbackSubdomain: getEnv("FALLBACK_SUBDOMAIN", "demo"),
		CacheBackend:      getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
	}
}

// InitDB opens the mysql connection from the usual DB_* variables.
func InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		getEnv("DB_USER", "root"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "3306"),
		getEnv("DB_NAME", "menucloud"),
	)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// InitCache picks the cache backend. Anything but "redis" falls back to
// the in-process store.
func InitCache(cfg *Config) cache.Store {
	if cfg.CacheBackend == "redis" {
		return cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	return cache.NewMemoryStore()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}
