package repository

import (
	"context"

	"aura/internal/cache"
	"aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContenidoRepository defines the interface for exclusive-content data operations
type ContenidoRepository interface {
	Create(ctx context.Context, contenido *models.ContenidoExclusivo) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.ContenidoExclusivo, error)
	ListAprobados(ctx context.Context, tipo string, limit, offset int, currentUserID uint) ([]*models.ContenidoExclusivo, error)
	ListByAprobada(ctx context.Context, aprobada bool, limit, offset int) ([]*models.ContenidoExclusivo, error)
	SetAprobada(ctx context.Context, id uint, aprobada bool) error
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, contenidoID uint) (bool, error)
	Unlike(ctx context.Context, userID, contenidoID uint) (bool, error)
	IncrementLikes(ctx context.Context, contenidoID uint) error
	DecrementLikes(ctx context.Context, contenidoID uint) error
	RecountLikes(ctx context.Context, contenidoID uint) (int, error)
}

type contenidoRepository struct {
	db *gorm.DB
}

// NewContenidoRepository creates a new exclusive-content repository
func NewContenidoRepository(db *gorm.DB) ContenidoRepository {
	return &contenidoRepository{db: db}
}

func (r *contenidoRepository) Create(ctx context.Context, contenido *models.ContenidoExclusivo) error {
	return r.db.WithContext(ctx).Create(contenido).Error
}

func (r *contenidoRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.ContenidoExclusivo, error) {
	var contenido models.ContenidoExclusivo
	err := r.applyDetails(r.db.WithContext(ctx), currentUserID).
		First(&contenido, id).Error
	if err != nil {
		return nil, err
	}
	return &contenido, nil
}

func (r *contenidoRepository) ListAprobados(ctx context.Context, tipo string, limit, offset int, currentUserID uint) ([]*models.ContenidoExclusivo, error) {
	var items []*models.ContenidoExclusivo
	q := r.applyDetails(r.db.WithContext(ctx), currentUserID).
		Where("aprobada = ?", true)
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *contenidoRepository) ListByAprobada(ctx context.Context, aprobada bool, limit, offset int) ([]*models.ContenidoExclusivo, error) {
	var items []*models.ContenidoExclusivo
	err := r.db.WithContext(ctx).
		Where("aprobada = ?", aprobada).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *contenidoRepository) SetAprobada(ctx context.Context, id uint, aprobada bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ContenidoExclusivo{}).
		Where("id = ?", id).
		Update("aprobada", aprobada)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.Invalidate(ctx, cache.ContenidoKey(id))
	return nil
}

func (r *contenidoRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contenido_id = ?", id).Delete(&models.ContenidoLike{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ContenidoExclusivo{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == nil {
		cache.Invalidate(ctx, cache.ContenidoKey(id))
	}
	return err
}

func (r *contenidoRepository) Like(ctx context.Context, userID, contenidoID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "contenido_id"}},
			DoNothing: true,
		}).
		Create(&models.ContenidoLike{UserID: userID, ContenidoID: contenidoID})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.ContenidoKey(contenidoID))
	}
	return result.RowsAffected > 0, nil
}

func (r *contenidoRepository) Unlike(ctx context.Context, userID, contenidoID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND contenido_id = ?", userID, contenidoID).
		Delete(&models.ContenidoLike{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.ContenidoKey(contenidoID))
	}
	return result.RowsAffected > 0, nil
}

func (r *contenidoRepository) IncrementLikes(ctx context.Context, contenidoID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.ContenidoExclusivo{}).
		Where("id = ?", contenidoID).
		Update("likes_count", gorm.Expr("likes_count + 1")).Error
}

func (r *contenidoRepository) DecrementLikes(ctx context.Context, contenidoID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.ContenidoExclusivo{}).
		Where("id = ? AND likes_count > 0", contenidoID).
		Update("likes_count", gorm.Expr("likes_count - 1")).Error
}

func (r *contenidoRepository) RecountLikes(ctx context.Context, contenidoID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ContenidoLike{}).
		Where("contenido_id = ?", contenidoID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ContenidoExclusivo{}).
		Where("id = ?", contenidoID).
		Update("likes_count", count).Error; err != nil {
		return 0, err
	}
	cache.Invalidate(ctx, cache.ContenidoKey(contenidoID))
	return int(count), nil
}

func (r *contenidoRepository) applyDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(
			"contenido_exclusivo.*, EXISTS(SELECT 1 FROM contenido_likes WHERE contenido_likes.contenido_id = contenido_exclusivo.id AND contenido_likes.user_id = ?) as has_liked",
			currentUserID,
		)
	}
	return db.Select("contenido_exclusivo.*, false as has_liked")
}
