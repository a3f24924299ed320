package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/repository"
	"aura/internal/storage"
	"aura/internal/validation"
)

// SubmissionService handles public obra submissions: upload to the object
// store, then record the row in Pending state for moderation.
type SubmissionService struct {
	obraRepo repository.ObraRepository
	store    storage.ObjectStore
	maxBytes int64
	now      func() time.Time
}

type SubmitObraInput struct {
	Titulo      string
	Autor       string
	Descripcion string
	Contacto    string
	Anonimo     bool
	File        *multipart.FileHeader
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(obraRepo repository.ObraRepository, store storage.ObjectStore, maxUploadSizeMB int) *SubmissionService {
	return &SubmissionService{
		obraRepo: obraRepo,
		store:    store,
		maxBytes: int64(maxUploadSizeMB) << 20,
		now:      time.Now,
	}
}

// SubmitObra validates the submission, stores the file, and creates the row.
// New obras always start unapproved regardless of what the client sent.
//
// If the row insert fails after the upload succeeded the stored object is
// left behind and logged; moderation cleanup can collect orphans later.
func (s *SubmissionService) SubmitObra(ctx context.Context, in SubmitObraInput) (*models.Obra, error) {
	if err := validation.ValidateObraSubmission(in.Titulo, in.Autor, in.Contacto, in.Anonimo, in.File, s.maxBytes); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	autor := strings.TrimSpace(in.Autor)
	contacto := strings.TrimSpace(in.Contacto)
	if in.Anonimo {
		autor = models.Anonimo
		contacto = models.Anonimo
	}

	key := fmt.Sprintf("%d_%s", s.now().UnixMilli(), sanitizeFilename(in.File.Filename))

	f, err := in.File.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer f.Close()

	url, err := s.store.Put(ctx, storage.BucketObras, key, f, in.File.Header.Get("Content-Type"))
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to store submission file: %w", err))
	}

	obra := &models.Obra{
		Titulo:      strings.TrimSpace(in.Titulo),
		Autor:       autor,
		Descripcion: strings.TrimSpace(in.Descripcion),
		Contacto:    contacto,
		FileURL:     url,
		StorageKey:  key,
		Aprobada:    false,
	}
	if err := s.obraRepo.Create(ctx, obra); err != nil {
		middleware.Logger.WarnContext(ctx, "Obra row insert failed after upload, object orphaned",
			slog.String("bucket", storage.BucketObras),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, models.NewInternalError(err)
	}

	return obra, nil
}

// sanitizeFilename strips any path component and collapses whitespace so the
// storage key stays a single clean segment.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Join(strings.Fields(base), "_")
	if base == "" || base == "." || base == ".." {
		return "archivo"
	}
	return base
}
