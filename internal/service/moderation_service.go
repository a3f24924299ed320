package service

import (
	"context"
	"log/slog"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/observability"
	"aura/internal/repository"
	"aura/internal/storage"
)

// ModerationService drives the obra and contenido review queues. Approval
// flips the visibility flag; rejection removes the stored object best-effort
// and then the row. There is no way back from a deletion.
type ModerationService struct {
	obraRepo      repository.ObraRepository
	contenidoRepo repository.ContenidoRepository
	store         storage.ObjectStore
}

// NewModerationService creates a new moderation service
func NewModerationService(obraRepo repository.ObraRepository, contenidoRepo repository.ContenidoRepository, store storage.ObjectStore) *ModerationService {
	return &ModerationService{
		obraRepo:      obraRepo,
		contenidoRepo: contenidoRepo,
		store:         store,
	}
}

func (s *ModerationService) ListPendingObras(ctx context.Context, limit, offset int) ([]*models.Obra, error) {
	return s.obraRepo.ListByAprobada(ctx, false, limit, offset)
}

func (s *ModerationService) CountPendingObras(ctx context.Context) (int64, error) {
	return s.obraRepo.CountByAprobada(ctx, false)
}

func (s *ModerationService) ApproveObra(ctx context.Context, id uint) error {
	if err := s.obraRepo.SetAprobada(ctx, id, true); err != nil {
		return err
	}
	observability.ModerationTransitions.WithLabelValues("obra", "approve").Inc()
	return nil
}

// RevokeObra sends an approved obra back to the pending queue.
func (s *ModerationService) RevokeObra(ctx context.Context, id uint) error {
	if err := s.obraRepo.SetAprobada(ctx, id, false); err != nil {
		return err
	}
	observability.ModerationTransitions.WithLabelValues("obra", "revoke").Inc()
	return nil
}

// DeleteObra removes the stored object and then the row. Storage failures
// are logged but never block the row deletion; a stale object is preferable
// to a ghost row the admin cannot get rid of.
func (s *ModerationService) DeleteObra(ctx context.Context, id uint) error {
	obra, err := s.obraRepo.GetByID(ctx, id, 0)
	if err != nil {
		return err
	}

	key := obra.StorageKey
	if key == "" {
		// Rows written before storage_key existed only carry the URL.
		key = storage.KeyFromURL(obra.FileURL, storage.BucketObras)
	}
	if key != "" {
		if err := s.store.Remove(ctx, storage.BucketObras, key); err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to remove obra object, continuing with row delete",
				slog.Uint64("obra_id", uint64(id)),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.obraRepo.Delete(ctx, id); err != nil {
		return err
	}
	observability.ModerationTransitions.WithLabelValues("obra", "delete").Inc()
	return nil
}

func (s *ModerationService) ListPendingContenido(ctx context.Context, limit, offset int) ([]*models.ContenidoExclusivo, error) {
	return s.contenidoRepo.ListByAprobada(ctx, false, limit, offset)
}

func (s *ModerationService) ApproveContenido(ctx context.Context, id uint) error {
	if err := s.contenidoRepo.SetAprobada(ctx, id, true); err != nil {
		return err
	}
	observability.ModerationTransitions.WithLabelValues("contenido", "approve").Inc()
	return nil
}

func (s *ModerationService) DeleteContenido(ctx context.Context, id uint) error {
	contenido, err := s.contenidoRepo.GetByID(ctx, id, 0)
	if err != nil {
		return err
	}

	key := contenido.StorageKey
	if key == "" {
		key = storage.KeyFromURL(contenido.FileURL, storage.BucketObras)
	}
	if key != "" {
		if err := s.store.Remove(ctx, storage.BucketObras, key); err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to remove contenido object, continuing with row delete",
				slog.Uint64("contenido_id", uint64(id)),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.contenidoRepo.Delete(ctx, id); err != nil {
		return err
	}
	observability.ModerationTransitions.WithLabelValues("contenido", "delete").Inc()
	return nil
}
