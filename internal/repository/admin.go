package repository

import (
	"context"
	"errors"

	"aura/internal/models"

	"gorm.io/gorm"
)

// AdminRepository persists rows of the legacy administradores table.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Administrador) error
	GetByUsuario(ctx context.Context, usuario string) (*models.Administrador, error)
	UsuarioExists(ctx context.Context, usuario string) (bool, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository returns a new AdminRepository implementation.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Administrador) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) GetByUsuario(ctx context.Context, usuario string) (*models.Administrador, error) {
	var admin models.Administrador
	if err := r.db.WithContext(ctx).Where("usuario = ?", usuario).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Administrador", usuario)
		}
		return nil, models.NewInternalError(err)
	}
	return &admin, nil
}

func (r *adminRepository) UsuarioExists(ctx context.Context, usuario string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Administrador{}).
		Where("usuario = ?", usuario).
		Count(&count).Error
	return count > 0, err
}
