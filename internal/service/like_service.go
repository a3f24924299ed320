package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/observability"
	"aura/internal/repository"
)

// LikeService implements the like protocol for obras and exclusive content.
//
// The join row is the source of truth; the denormalized counter on the
// parent row exists so lists never pay a COUNT per item. On any write the
// row changes first and the counter follows; if the counter update fails
// the count is rebuilt from the rows, so drift never survives a toggle.
//
// A per-(user, item) in-flight guard rejects overlapping toggles from the
// same user instead of letting them interleave.
type LikeService struct {
	obraRepo      repository.ObraRepository
	contenidoRepo repository.ContenidoRepository

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewLikeService creates a new like service
func NewLikeService(obraRepo repository.ObraRepository, contenidoRepo repository.ContenidoRepository) *LikeService {
	return &LikeService{
		obraRepo:      obraRepo,
		contenidoRepo: contenidoRepo,
		inFlight:      make(map[string]struct{}),
	}
}

func (s *LikeService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *LikeService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// ToggleObraLike flips the user's like on an approved obra and returns the
// obra with the fresh counter and has_liked flag.
func (s *LikeService) ToggleObraLike(ctx context.Context, userID, obraID uint) (*models.Obra, error) {
	key := fmt.Sprintf("obra:%d:%d", userID, obraID)
	if !s.acquire(key) {
		return nil, models.NewConflictError("Ya hay un like en curso para esta obra")
	}
	defer s.release(key)

	obra, err := s.obraRepo.GetByID(ctx, obraID, userID)
	if err != nil {
		return nil, err
	}
	if !obra.Aprobada {
		return nil, models.NewNotFoundError("Obra", obraID)
	}

	isLiked, err := s.obraRepo.IsLiked(ctx, userID, obraID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		removed, err := s.obraRepo.Unlike(ctx, userID, obraID)
		if err != nil {
			return nil, err
		}
		if removed {
			if err := s.obraRepo.DecrementLikes(ctx, obraID); err != nil {
				s.reconcileObra(ctx, obraID, err)
			}
		}
		observability.LikeToggles.WithLabelValues("obra", "unlike").Inc()
	} else {
		inserted, err := s.obraRepo.Like(ctx, userID, obraID)
		if err != nil {
			return nil, err
		}
		if inserted {
			if err := s.obraRepo.IncrementLikes(ctx, obraID); err != nil {
				s.reconcileObra(ctx, obraID, err)
			}
		}
		observability.LikeToggles.WithLabelValues("obra", "like").Inc()
	}

	return s.obraRepo.GetByID(ctx, obraID, userID)
}

func (s *LikeService) reconcileObra(ctx context.Context, obraID uint, cause error) {
	middleware.Logger.WarnContext(ctx, "Obra like counter update failed, recounting",
		slog.Uint64("obra_id", uint64(obraID)),
		slog.String("error", cause.Error()),
	)
	if _, err := s.obraRepo.RecountLikes(ctx, obraID); err != nil {
		middleware.Logger.ErrorContext(ctx, "Obra like recount failed, counter left stale",
			slog.Uint64("obra_id", uint64(obraID)),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.CounterReconciliations.WithLabelValues("obra").Inc()
}

// ToggleContenidoLike is the exclusive-content twin of ToggleObraLike.
func (s *LikeService) ToggleContenidoLike(ctx context.Context, userID, contenidoID uint) (*models.ContenidoExclusivo, error) {
	key := fmt.Sprintf("contenido:%d:%d", userID, contenidoID)
	if !s.acquire(key) {
		return nil, models.NewConflictError("Ya hay un like en curso para este contenido")
	}
	defer s.release(key)

	contenido, err := s.contenidoRepo.GetByID(ctx, contenidoID, userID)
	if err != nil {
		return nil, err
	}
	if !contenido.Aprobada {
		return nil, models.NewNotFoundError("Contenido", contenidoID)
	}

	if contenido.HasLiked {
		removed, err := s.contenidoRepo.Unlike(ctx, userID, contenidoID)
		if err != nil {
			return nil, err
		}
		if removed {
			if err := s.contenidoRepo.DecrementLikes(ctx, contenidoID); err != nil {
				s.reconcileContenido(ctx, contenidoID, err)
			}
		}
		observability.LikeToggles.WithLabelValues("contenido", "unlike").Inc()
	} else {
		inserted, err := s.contenidoRepo.Like(ctx, userID, contenidoID)
		if err != nil {
			return nil, err
		}
		if inserted {
			if err := s.contenidoRepo.IncrementLikes(ctx, contenidoID); err != nil {
				s.reconcileContenido(ctx, contenidoID, err)
			}
		}
		observability.LikeToggles.WithLabelValues("contenido", "like").Inc()
	}

	return s.contenidoRepo.GetByID(ctx, contenidoID, userID)
}

func (s *LikeService) reconcileContenido(ctx context.Context, contenidoID uint, cause error) {
	middleware.Logger.WarnContext(ctx, "Contenido like counter update failed, recounting",
		slog.Uint64("contenido_id", uint64(contenidoID)),
		slog.String("error", cause.Error()),
	)
	if _, err := s.contenidoRepo.RecountLikes(ctx, contenidoID); err != nil {
		middleware.Logger.ErrorContext(ctx, "Contenido like recount failed, counter left stale",
			slog.Uint64("contenido_id", uint64(contenidoID)),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.CounterReconciliations.WithLabelValues("contenido").Inc()
}
