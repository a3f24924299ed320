package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix      = "user:%d"
	ObraKeyPrefix      = "obra:%d"
	GalleryKeyPrefix   = "gallery:page:%d:%d"
	TomoKeyPrefix      = "tomo:%s"
	TomoListKey        = "tomos:published"
	ContenidoKeyPrefix = "contenido:%d"
)

const (
	UserTTL      = 5 * time.Minute
	ObraTTL      = 10 * time.Minute
	GalleryTTL   = 2 * time.Minute
	TomoTTL      = 30 * time.Minute
	ContenidoTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ObraKey(obraID uint) string {
	return fmt.Sprintf(ObraKeyPrefix, obraID)
}

func GalleryKey(limit, offset int) string {
	return fmt.Sprintf(GalleryKeyPrefix, limit, offset)
}

func TomoKey(slug string) string {
	return fmt.Sprintf(TomoKeyPrefix, slug)
}

func ContenidoKey(id uint) string {
	return fmt.Sprintf(ContenidoKeyPrefix, id)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateObra(ctx context.Context, obraID uint) {
	Invalidate(ctx, ObraKey(obraID))
	InvalidateGallery(ctx)
}

// InvalidateGallery drops every cached gallery page. Pages are keyed by
// pagination params so a SCAN over the prefix is needed.
func InvalidateGallery(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "gallery:page:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateTomo(ctx context.Context, slug string) {
	Invalidate(ctx, TomoKey(slug))
	Invalidate(ctx, TomoListKey)
}

// Aside implements the cache-aside pattern: fill dest from the cached value
// under key if present, otherwise call load (which must populate dest) and
// cache dest for ttl. A nil or unreachable Redis client degrades to calling
// load directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if client == nil {
		return load()
	}

	raw, err := client.Get(ctx, key).Result()
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), dest); jsonErr == nil {
			return nil
		}
		// Corrupt entry, drop it and fall through to load.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		return load()
	}

	if err := load(); err != nil {
		return err
	}
	if data, jsonErr := json.Marshal(dest); jsonErr == nil {
		client.Set(ctx, key, data, ttl)
	}
	return nil
}
