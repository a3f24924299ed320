package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_CachesLoadResult(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	calls := 0
	var v string
	load := func() error {
		calls++
		v = "hola"
		return nil
	}

	require.NoError(t, Aside(ctx, "obra:1", &v, time.Minute, load))
	assert.Equal(t, "hola", v)
	assert.Equal(t, 1, calls)

	v = ""
	require.NoError(t, Aside(ctx, "obra:1", &v, time.Minute, load))
	assert.Equal(t, "hola", v)
	assert.Equal(t, 1, calls, "second read should hit the cache")
}

func TestAside_LoadErrorNotCached(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	var v int
	err := Aside(ctx, "obra:2", &v, time.Minute, func() error {
		return errors.New("boom")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("obra:2"))
}

func TestAside_NilClientDegradesToLoad(t *testing.T) {
	SetClient(nil)

	var v int
	err := Aside(context.Background(), "obra:3", &v, time.Minute, func() error {
		v = 42
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestInvalidateGallery(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	mr.Set(GalleryKey(1, 20), "a")
	mr.Set(GalleryKey(2, 20), "b")
	mr.Set(ObraKey(7), "keep")

	InvalidateGallery(ctx)

	assert.False(t, mr.Exists(GalleryKey(1, 20)))
	assert.False(t, mr.Exists(GalleryKey(2, 20)))
	assert.True(t, mr.Exists(ObraKey(7)))
}
