package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/honeyshop-backend/internal/domain/catalog"
	"github.com/yungbote/honeyshop-backend/internal/platform/dbctx"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
)

const productKeyPrefix = "honeyshop:product:"

// ProductSource is the authoritative catalog behind the cache.
type ProductSource interface {
	GetBySlugs(dbc dbctx.Context, slugs []string) (map[string]*catalog.Product, error)
}

// ProductCache is a read-through cache of products keyed by slug.
type ProductCache interface {
	GetBySlugs(dbc dbctx.Context, slugs []string) (map[string]*catalog.Product, error)
	Invalidate(ctx context.Context, slugs ...string) error
}

type productCache struct {
	log    *logger.Logger
	rdb    goredis.Cmdable
	source ProductSource
	ttl    time.Duration
}

func NewProductCache(log *logger.Logger, rdb goredis.Cmdable, source ProductSource, ttl time.Duration) ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &productCache{
		log:    log.With("service", "ProductCache"),
		rdb:    rdb,
		source: source,
		ttl:    ttl,
	}
}

func ProductKey(slug string) string {
	return productKeyPrefix + strings.TrimSpace(slug)
}

// GetBySlugs serves hits from the cache and loads misses from the source,
// writing them back. A cache failure falls through to the source; only
// source errors are returned.
func (c *productCache) GetBySlugs(dbc dbctx.Context, slugs []string) (map[string]*catalog.Product, error) {
	out := make(map[string]*catalog.Product, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	keys := make([]string, len(slugs))
	for i, s := range slugs {
		keys[i] = ProductKey(s)
	}

	misses := slugs
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn("product cache read failed, using catalog", "error", err)
	} else {
		misses = make([]string, 0, len(slugs))
		for i, v := range vals {
			raw, ok := v.(string)
			if !ok {
				misses = append(misses, slugs[i])
				continue
			}
			p, err := decodeProduct(raw)
			if err != nil {
				c.log.Warn("bad cached product payload", "slug", slugs[i], "error", err)
				misses = append(misses, slugs[i])
				continue
			}
			out[slugs[i]] = p
		}
	}
	if len(misses) == 0 {
		return out, nil
	}

	loaded, err := c.source.GetBySlugs(dbc, misses)
	if err != nil {
		return nil, err
	}
	c.store(ctx, loaded)
	for slug, p := range loaded {
		out[slug] = p
	}
	return out, nil
}

func (c *productCache) store(ctx context.Context, products map[string]*catalog.Product) {
	if len(products) == 0 {
		return
	}
	pipe := c.rdb.Pipeline()
	for slug, p := range products {
		raw, err := encodeProduct(p)
		if err != nil {
			c.log.Warn("product cache encode failed", "slug", slug, "error", err)
			continue
		}
		pipe.Set(ctx, ProductKey(slug), raw, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		c.log.Warn("product cache write failed", "error", err)
	}
}

func encodeProduct(p *catalog.Product) ([]byte, error) {
	return json.Marshal(p)
}

func decodeProduct(raw string) (*catalog.Product, error) {
	var p catalog.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Invalidate drops cached entries after a catalog write.
func (c *productCache) Invalidate(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, len(slugs))
	for i, s := range slugs {
		keys[i] = ProductKey(s)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate products: %w", err)
	}
	return nil
}
