package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"aura/internal/models"
	"aura/internal/repository"
	"aura/internal/storage"
	"aura/internal/validation"

	"gorm.io/gorm"
)

// ContenidoService manages exclusive content. The media kind is sniffed from
// the uploaded bytes rather than trusted from the client.
type ContenidoService struct {
	contenidoRepo repository.ContenidoRepository
	store         storage.ObjectStore
	media         *MediaService
	maxBytes      int64
	now           func() time.Time
}

type CreateContenidoInput struct {
	Titulo      string
	Descripcion string
	File        *multipart.FileHeader
}

// NewContenidoService creates a new exclusive-content service
func NewContenidoService(contenidoRepo repository.ContenidoRepository, store storage.ObjectStore, media *MediaService, maxUploadSizeMB int) *ContenidoService {
	return &ContenidoService{
		contenidoRepo: contenidoRepo,
		store:         store,
		media:         media,
		maxBytes:      int64(maxUploadSizeMB) << 20,
		now:           time.Now,
	}
}

func (s *ContenidoService) CreateContenido(ctx context.Context, in CreateContenidoInput) (*models.ContenidoExclusivo, error) {
	titulo := strings.TrimSpace(in.Titulo)
	if titulo == "" {
		return nil, models.NewValidationError("El título es obligatorio")
	}
	if in.File == nil || in.File.Size <= 0 {
		return nil, models.NewValidationError("El archivo es obligatorio")
	}
	if s.maxBytes > 0 && in.File.Size > s.maxBytes {
		return nil, models.NewValidationError("El archivo supera el tamaño máximo permitido")
	}

	f, err := in.File.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return nil, models.NewInternalError(err)
	}
	contentType, tipo := s.media.Sniff(head[:n])
	if err := validation.ValidateTipoContenido(tipo); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, models.NewInternalError(err)
	}

	key := fmt.Sprintf("%d_%s", s.now().UnixMilli(), sanitizeFilename(in.File.Filename))
	url, err := s.store.Put(ctx, storage.BucketObras, key, f, contentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	contenido := &models.ContenidoExclusivo{
		Titulo:      titulo,
		Descripcion: strings.TrimSpace(in.Descripcion),
		Tipo:        tipo,
		FileURL:     url,
		StorageKey:  key,
		Aprobada:    false,
	}
	if err := s.contenidoRepo.Create(ctx, contenido); err != nil {
		return nil, models.NewInternalError(err)
	}
	return contenido, nil
}

func (s *ContenidoService) GetContenido(ctx context.Context, id uint, currentUserID uint) (*models.ContenidoExclusivo, error) {
	contenido, err := s.contenidoRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Contenido", id)
		}
		return nil, err
	}
	return contenido, nil
}

// ListContenido returns approved items, optionally filtered by tipo.
func (s *ContenidoService) ListContenido(ctx context.Context, tipo string, limit, offset int, currentUserID uint) ([]*models.ContenidoExclusivo, error) {
	if tipo != "" {
		if err := validation.ValidateTipoContenido(tipo); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	return s.contenidoRepo.ListAprobados(ctx, tipo, limit, offset, currentUserID)
}
