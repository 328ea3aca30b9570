package cache

import (
	"context"
	"os"
)

// Environment variables selecting a shared cache backend. When none is set
// the metadata cache falls back to per-user files.
const (
	EnvRedisAddr = "MARMOT_CACHE_REDIS_ADDR"
	EnvMongoURI  = "MARMOT_CACHE_MONGO_URI"
)

// FromEnv selects the metadata cache backend from the environment: a Redis
// address or Mongo URI picks the matching shared backend, otherwise a file
// cache rooted at dir. Shared backends let a team reuse one metadata cache
// across machines.
func FromEnv(ctx context.Context, dir string) (Cache, error) {
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		return NewRedisCache(ctx, RedisConfig{
			Addr:     addr,
			Password: os.Getenv("MARMOT_CACHE_REDIS_PASSWORD"),
		})
	}
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		return NewMongoCache(ctx, MongoConfig{URI: uri})
	}
	return NewFileCache(dir)
}
