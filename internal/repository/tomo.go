package repository

import (
	"context"

	"aura/internal/cache"
	"aura/internal/models"

	"gorm.io/gorm"
)

// TomoRepository defines the interface for tomo data operations
type TomoRepository interface {
	Create(ctx context.Context, tomo *models.Tomo) error
	GetByID(ctx context.Context, id uint) (*models.Tomo, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tomo, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Tomo, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*models.Tomo, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Tomo, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, tomo *models.Tomo) error
	SetBorrador(ctx context.Context, id uint, borrador bool) error
	Delete(ctx context.Context, id uint) error
}

type tomoRepository struct {
	db *gorm.DB
}

// NewTomoRepository creates a new tomo repository
func NewTomoRepository(db *gorm.DB) TomoRepository {
	return &tomoRepository{db: db}
}

func (r *tomoRepository) Create(ctx context.Context, tomo *models.Tomo) error {
	err := r.db.WithContext(ctx).Create(tomo).Error
	if err == nil {
		cache.Invalidate(ctx, cache.TomoListKey)
	}
	return err
}

func (r *tomoRepository) GetByID(ctx context.Context, id uint) (*models.Tomo, error) {
	var tomo models.Tomo
	if err := r.db.WithContext(ctx).First(&tomo, id).Error; err != nil {
		return nil, err
	}
	return &tomo, nil
}

func (r *tomoRepository) GetBySlug(ctx context.Context, slug string) (*models.Tomo, error) {
	var tomo models.Tomo
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tomo).Error; err != nil {
		return nil, err
	}
	return &tomo, nil
}

// GetPublishedBySlug serves the public reader view and is the hot path,
// so published tomos go through the cache.
func (r *tomoRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Tomo, error) {
	var tomo models.Tomo
	err := cache.Aside(ctx, cache.TomoKey(slug), &tomo, cache.TomoTTL, func() error {
		return r.db.WithContext(ctx).
			Where("slug = ? AND borrador = ?", slug, false).
			First(&tomo).Error
	})
	if err != nil {
		return nil, err
	}
	return &tomo, nil
}

func (r *tomoRepository) ListPublished(ctx context.Context, limit, offset int) ([]*models.Tomo, error) {
	var tomos []*models.Tomo
	err := r.db.WithContext(ctx).
		Where("borrador = ?", false).
		Order("fecha_publicacion DESC").
		Limit(limit).
		Offset(offset).
		Find(&tomos).Error
	return tomos, err
}

func (r *tomoRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Tomo, error) {
	var tomos []*models.Tomo
	err := r.db.WithContext(ctx).
		Order("fecha_publicacion DESC").
		Limit(limit).
		Offset(offset).
		Find(&tomos).Error
	return tomos, err
}

func (r *tomoRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Tomo{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *tomoRepository) Update(ctx context.Context, tomo *models.Tomo) error {
	if err := r.db.WithContext(ctx).Save(tomo).Error; err != nil {
		return err
	}
	cache.InvalidateTomo(ctx, tomo.Slug)
	return nil
}

func (r *tomoRepository) SetBorrador(ctx context.Context, id uint, borrador bool) error {
	var tomo models.Tomo
	if err := r.db.WithContext(ctx).First(&tomo, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Tomo{}).
		Where("id = ?", id).
		Update("borrador", borrador).Error; err != nil {
		return err
	}
	cache.InvalidateTomo(ctx, tomo.Slug)
	return nil
}

func (r *tomoRepository) Delete(ctx context.Context, id uint) error {
	var tomo models.Tomo
	if err := r.db.WithContext(ctx).First(&tomo, id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Tomo{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateTomo(ctx, tomo.Slug)
	return nil
}
