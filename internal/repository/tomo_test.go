package repository

import (
	"context"
	"testing"
	"time"

	"aura/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTomo(t *testing.T, repo TomoRepository, slug string, borrador bool) *models.Tomo {
	t.Helper()
	tomo := &models.Tomo{
		Titulo:           "Tomo " + slug,
		Slug:             slug,
		ContenidoHTML:    "<p>hola</p>",
		Autor:            "Carpanta",
		Borrador:         borrador,
		FechaPublicacion: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), tomo))
	if !borrador {
		require.NoError(t, repo.SetBorrador(context.Background(), tomo.ID, false))
	}
	return tomo
}

func TestTomoRepository_PublishedVisibility(t *testing.T) {
	repo := NewTomoRepository(setupTestDB(t))
	ctx := context.Background()

	createTomo(t, repo, "borrador-secreto", true)
	published := createTomo(t, repo, "tomo-uno", false)

	got, err := repo.GetPublishedBySlug(ctx, "tomo-uno")
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)

	_, err = repo.GetPublishedBySlug(ctx, "borrador-secreto")
	assert.Error(t, err, "drafts are invisible to the public reader")

	list, err := repo.ListPublished(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "tomo-uno", list[0].Slug)

	all, err := repo.ListAll(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTomoRepository_SlugExists(t *testing.T) {
	repo := NewTomoRepository(setupTestDB(t))
	ctx := context.Background()

	createTomo(t, repo, "la-sirena-negra", true)

	exists, err := repo.SlugExists(ctx, "la-sirena-negra")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "otro-slug")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTomoRepository_StringListRoundTrip(t *testing.T) {
	repo := NewTomoRepository(setupTestDB(t))
	ctx := context.Background()

	tomo := &models.Tomo{
		Titulo:       "Galería",
		Slug:         "galeria",
		ImagenesURLs: models.StringList{"/media/a.webp", "/media/b.webp"},
		StorageKeys:  models.StringList{"a.webp", "b.webp"},
	}
	require.NoError(t, repo.Create(ctx, tomo))

	got, err := repo.GetByID(ctx, tomo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"/media/a.webp", "/media/b.webp"}, got.ImagenesURLs)
	assert.Equal(t, models.StringList{"a.webp", "b.webp"}, got.StorageKeys)
}

func TestTomoRepository_Delete(t *testing.T) {
	repo := NewTomoRepository(setupTestDB(t))
	ctx := context.Background()

	tomo := createTomo(t, repo, "efimero", true)
	require.NoError(t, repo.Delete(ctx, tomo.ID))

	_, err := repo.GetByID(ctx, tomo.ID)
	assert.Error(t, err)
}
