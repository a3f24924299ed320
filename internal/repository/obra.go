// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"aura/internal/cache"
	"aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ObraRepository defines the interface for obra data operations
type ObraRepository interface {
	Create(ctx context.Context, obra *models.Obra) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Obra, error)
	ListAprobadas(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Obra, error)
	ListByAprobada(ctx context.Context, aprobada bool, limit, offset int) ([]*models.Obra, error)
	CountByAprobada(ctx context.Context, aprobada bool) (int64, error)
	SetAprobada(ctx context.Context, id uint, aprobada bool) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, obraID uint) (bool, error)
	GetLikedObraIDs(ctx context.Context, userID uint, obraIDs []uint) ([]uint, error)
	Like(ctx context.Context, userID, obraID uint) (bool, error)
	Unlike(ctx context.Context, userID, obraID uint) (bool, error)
	IncrementLikes(ctx context.Context, obraID uint) error
	DecrementLikes(ctx context.Context, obraID uint) error
	RecountLikes(ctx context.Context, obraID uint) (int, error)
}

// obraRepository implements ObraRepository
type obraRepository struct {
	db *gorm.DB
}

// NewObraRepository creates a new obra repository
func NewObraRepository(db *gorm.DB) ObraRepository {
	return &obraRepository{db: db}
}

func (r *obraRepository) Create(ctx context.Context, obra *models.Obra) error {
	err := r.db.WithContext(ctx).Create(obra).Error
	if err == nil {
		cache.InvalidateGallery(ctx)
	}
	return err
}

func (r *obraRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Obra, error) {
	var obra models.Obra
	err := r.applyObraDetails(r.db.WithContext(ctx), currentUserID).
		First(&obra, id).Error
	if err != nil {
		return nil, err
	}
	return &obra, nil
}

func (r *obraRepository) ListAprobadas(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Obra, error) {
	var obras []*models.Obra
	err := r.applyObraDetails(r.db.WithContext(ctx), currentUserID).
		Where("aprobada = ?", true).
		Order("fecha DESC").
		Limit(limit).
		Offset(offset).
		Find(&obras).Error
	if err != nil {
		return nil, err
	}
	return obras, nil
}

func (r *obraRepository) ListByAprobada(ctx context.Context, aprobada bool, limit, offset int) ([]*models.Obra, error) {
	var obras []*models.Obra
	err := r.db.WithContext(ctx).
		Where("aprobada = ?", aprobada).
		Order("fecha DESC").
		Limit(limit).
		Offset(offset).
		Find(&obras).Error
	return obras, err
}

func (r *obraRepository) CountByAprobada(ctx context.Context, aprobada bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Obra{}).
		Where("aprobada = ?", aprobada).
		Count(&count).Error
	return count, err
}

func (r *obraRepository) SetAprobada(ctx context.Context, id uint, aprobada bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Obra{}).
		Where("id = ?", id).
		Update("aprobada", aprobada)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateObra(ctx, id)
	return nil
}

func (r *obraRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("obra_id = ?", id).Delete(&models.ObraLike{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Obra{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == nil {
		cache.InvalidateObra(ctx, id)
	}
	return err
}

func (r *obraRepository) IsLiked(ctx context.Context, userID, obraID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ObraLike{}).
		Where("user_id = ? AND obra_id = ?", userID, obraID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *obraRepository) GetLikedObraIDs(ctx context.Context, userID uint, obraIDs []uint) ([]uint, error) {
	if len(obraIDs) == 0 {
		return nil, nil
	}
	var likedIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.ObraLike{}).
		Where("user_id = ? AND obra_id IN ?", userID, obraIDs).
		Pluck("obra_id", &likedIDs).Error
	return likedIDs, err
}

// Like inserts the like row, reporting whether a new row was created.
// ON CONFLICT DO NOTHING makes concurrent double-taps race-safe.
func (r *obraRepository) Like(ctx context.Context, userID, obraID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "obra_id"}},
			DoNothing: true,
		}).
		Create(&models.ObraLike{UserID: userID, ObraID: obraID})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateObra(ctx, obraID)
	}
	return result.RowsAffected > 0, nil
}

// Unlike hard-deletes the like row, reporting whether a row existed.
func (r *obraRepository) Unlike(ctx context.Context, userID, obraID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND obra_id = ?", userID, obraID).
		Delete(&models.ObraLike{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateObra(ctx, obraID)
	}
	return result.RowsAffected > 0, nil
}

func (r *obraRepository) IncrementLikes(ctx context.Context, obraID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Obra{}).
		Where("id = ?", obraID).
		Update("likes", gorm.Expr("likes + 1")).Error
}

// DecrementLikes floors the counter at zero so reconciliation drift can
// never push it negative.
func (r *obraRepository) DecrementLikes(ctx context.Context, obraID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Obra{}).
		Where("id = ? AND likes > 0", obraID).
		Update("likes", gorm.Expr("likes - 1")).Error
}

// RecountLikes resets the denormalized counter from the obra_likes rows and
// returns the authoritative count.
func (r *obraRepository) RecountLikes(ctx context.Context, obraID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ObraLike{}).
		Where("obra_id = ?", obraID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Obra{}).
		Where("id = ?", obraID).
		Update("likes", count).Error; err != nil {
		return 0, err
	}
	cache.InvalidateObra(ctx, obraID)
	return int(count), nil
}

// applyObraDetails adds a subquery to fetch liked status in a single query.
func (r *obraRepository) applyObraDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(
			"obras.*, EXISTS(SELECT 1 FROM obra_likes WHERE obra_likes.obra_id = obras.id AND obra_likes.user_id = ?) as has_liked",
			currentUserID,
		)
	}
	return db.Select("obras.*, false as has_liked")
}
