package repository

import (
	"context"
	"testing"

	"aura/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository_CreateAndLookup(t *testing.T) {
	repo := NewAdminRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Administrador{Usuario: "carpanta", ContrasenaHash: "$2a$10$hash"}))

	exists, err := repo.UsuarioExists(ctx, "carpanta")
	require.NoError(t, err)
	assert.True(t, exists)

	admin, err := repo.GetByUsuario(ctx, "carpanta")
	require.NoError(t, err)
	assert.Equal(t, "carpanta", admin.Usuario)

	_, err = repo.GetByUsuario(ctx, "intruso")
	assert.Error(t, err)
}

func TestAdminRepository_DuplicateUsuario(t *testing.T) {
	repo := NewAdminRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Administrador{Usuario: "carpanta", ContrasenaHash: "h"}))
	err := repo.Create(ctx, &models.Administrador{Usuario: "carpanta", ContrasenaHash: "h2"})
	assert.Error(t, err, "usuario column is unique")
}
