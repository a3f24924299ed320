package service

import (
	"context"
	"errors"
	"testing"

	"aura/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveObra(t *testing.T) {
	repo := noopObraRepo()
	var gotID uint
	var gotAprobada bool
	repo.setAprobadaFn = func(_ context.Context, id uint, aprobada bool) error {
		gotID, gotAprobada = id, aprobada
		return nil
	}

	svc := NewModerationService(repo, noopContenidoRepo(), newMemStore())
	require.NoError(t, svc.ApproveObra(context.Background(), 3))
	assert.EqualValues(t, 3, gotID)
	assert.True(t, gotAprobada)
}

func TestDeleteObra_RemovesStoredObject(t *testing.T) {
	store := newMemStore()
	repo := noopObraRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Obra, error) {
		return &models.Obra{ID: id, StorageKey: "123_obra.png"}, nil
	}
	deleted := false
	repo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}

	svc := NewModerationService(repo, noopContenidoRepo(), store)
	require.NoError(t, svc.DeleteObra(context.Background(), 3))
	assert.True(t, deleted)
	assert.Equal(t, []string{"obras-archivos/123_obra.png"}, store.removed)
}

func TestDeleteObra_DerivesKeyFromLegacyURL(t *testing.T) {
	store := newMemStore()
	repo := noopObraRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Obra, error) {
		return &models.Obra{
			ID:      id,
			FileURL: "https://cdn.example.com/storage/v1/object/public/obras-archivos/999_vieja.png",
		}, nil
	}

	svc := NewModerationService(repo, noopContenidoRepo(), store)
	require.NoError(t, svc.DeleteObra(context.Background(), 3))
	assert.Equal(t, []string{"obras-archivos/999_vieja.png"}, store.removed)
}

func TestDeleteObra_StorageFailureStillDeletesRow(t *testing.T) {
	store := newMemStore()
	store.removeErr = errors.New("bucket unreachable")
	repo := noopObraRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Obra, error) {
		return &models.Obra{ID: id, StorageKey: "k.png"}, nil
	}
	deleted := false
	repo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}

	svc := NewModerationService(repo, noopContenidoRepo(), store)
	require.NoError(t, svc.DeleteObra(context.Background(), 3))
	assert.True(t, deleted, "storage failures never block the row delete")
}

func TestDeleteObra_MissingRow(t *testing.T) {
	repo := noopObraRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Obra, error) {
		return nil, models.NewNotFoundError("Obra", id)
	}

	svc := NewModerationService(repo, noopContenidoRepo(), newMemStore())
	assert.Error(t, svc.DeleteObra(context.Background(), 99))
}

func TestListPendingObras(t *testing.T) {
	repo := noopObraRepo()
	repo.listByAprobadaFn = func(_ context.Context, aprobada bool, _, _ int) ([]*models.Obra, error) {
		assert.False(t, aprobada, "the review queue lists unapproved rows")
		return []*models.Obra{{ID: 1}}, nil
	}

	svc := NewModerationService(repo, noopContenidoRepo(), newMemStore())
	obras, err := svc.ListPendingObras(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Len(t, obras, 1)
}

func TestDeleteContenido_RemovesStoredObject(t *testing.T) {
	store := newMemStore()
	repo := noopContenidoRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.ContenidoExclusivo, error) {
		return &models.ContenidoExclusivo{ID: id, StorageKey: "55_doc.pdf"}, nil
	}

	svc := NewModerationService(noopObraRepo(), repo, store)
	require.NoError(t, svc.DeleteContenido(context.Background(), 7))
	assert.Equal(t, []string{"obras-archivos/55_doc.pdf"}, store.removed)
}
