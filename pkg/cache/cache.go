// Package cache stores serialized query results in Redis with a fixed TTL.
// Entries live in namespaces whose generation advances on every
// invalidation, so a value computed before a write can be stored but is
// never read back. A disabled cache is a no-op that always misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/masteryhub/pkg/lifecycle"
)

const scanBatch = 100

// System is a keyed JSON cache with generational namespace invalidation.
type System interface {
	// Get decodes the cached value for key into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores v under key for the configured TTL.
	Set(ctx context.Context, key string, v any) error
	// Generation returns the current generation of namespace ns, 0 until
	// the first invalidation. Callers read it before loading the value they
	// cache and embed it in the key.
	Generation(ctx context.Context, ns string) (int64, error)
	// Invalidate advances the generation of ns and removes every key that
	// begins with ns.
	Invalidate(ctx context.Context, ns string) error
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

// New returns a Redis-backed cache when cfg.Enabled, otherwise a no-op cache.
func New(cfg *Config, logger *slog.Logger) System {
	logger = logger.With("system", "cache")
	if !cfg.Enabled {
		return Noop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return NewRedis(client, cfg.Prefix, cfg.TTLDuration(), logger)
}

// NewRedis wraps an existing client. Keys are namespaced under prefix.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) System {
	return &redisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func (c *redisCache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *redisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) generationKey(ns string) string {
	return c.prefix + ":gen:" + ns
}

func (c *redisCache) Generation(ctx context.Context, ns string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(ns)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation %s: %w", ns, err)
	}
	return gen, nil
}

func (c *redisCache) Invalidate(ctx context.Context, ns string) error {
	if err := c.client.Incr(ctx, c.generationKey(ns)).Err(); err != nil {
		return fmt.Errorf("cache advance %s: %w", ns, err)
	}

	pattern := c.key(escapeGlob(ns)) + "*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("cache scan %s: %w", ns, err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache delete %s: %w", ns, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache connection")

	// An unreachable cache degrades to misses; it does not block readiness.
	lc.OnStartup(func() error {
		if err := c.client.Ping(lc.Context()).Err(); err != nil {
			c.logger.Warn("cache ping failed", "error", err)
			return nil
		}
		c.logger.Info("cache connection established")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := c.client.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
			return
		}
		c.logger.Info("cache connection closed")
	})

	return nil
}

var globReplacer = strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}

// Noop returns a cache that stores nothing and always misses.
func Noop() System {
	return noop{}
}

type noop struct{}

func (noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noop) Set(context.Context, string, any) error { return nil }
func (noop) Generation(context.Context, string) (int64, error) { return 0, nil }
func (noop) Invalidate(context.Context, string) error { return nil }
func (noop) Start(*lifecycle.Coordinator) error { return nil }
