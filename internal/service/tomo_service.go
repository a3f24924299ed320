package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/repository"
	"aura/internal/slug"
	"aura/internal/storage"

	"gorm.io/gorm"
)

// TomoService manages tomos: slugging, cover uploads, and the draft flag.
type TomoService struct {
	tomoRepo repository.TomoRepository
	store    storage.ObjectStore
	media    *MediaService
	now      func() time.Time
}

type CreateTomoInput struct {
	Titulo        string
	ContenidoHTML string
	Autor         string
	Link          *string
	Borrador      bool
	Portada       *multipart.FileHeader
	Imagenes      []*multipart.FileHeader
}

type UpdateTomoInput struct {
	ID            uint
	Titulo        string
	ContenidoHTML string
	Autor         string
	Link          *string
	Portada       *multipart.FileHeader
}

// NewTomoService creates a new tomo service
func NewTomoService(tomoRepo repository.TomoRepository, store storage.ObjectStore, media *MediaService) *TomoService {
	return &TomoService{
		tomoRepo: tomoRepo,
		store:    store,
		media:    media,
		now:      time.Now,
	}
}

// CreateTomo slugs the title, uploads the cover and gallery images, and
// creates the tomo. New tomos start as drafts unless explicitly published.
func (s *TomoService) CreateTomo(ctx context.Context, in CreateTomoInput) (*models.Tomo, error) {
	titulo := strings.TrimSpace(in.Titulo)
	if titulo == "" {
		return nil, models.NewValidationError("El título es obligatorio")
	}

	tomoSlug, err := s.uniqueSlug(ctx, titulo)
	if err != nil {
		return nil, err
	}

	tomo := &models.Tomo{
		Titulo:           titulo,
		Slug:             tomoSlug,
		ContenidoHTML:    in.ContenidoHTML,
		Autor:            strings.TrimSpace(in.Autor),
		Link:             in.Link,
		Borrador:         in.Borrador,
		FechaPublicacion: s.now(),
	}

	if in.Portada != nil {
		url, key, err := s.uploadCover(ctx, tomoSlug, in.Portada)
		if err != nil {
			return nil, err
		}
		tomo.ImagenURL = url
		tomo.StorageKeys = append(tomo.StorageKeys, key)
	}

	for _, fh := range in.Imagenes {
		url, key, err := s.uploadImage(ctx, tomoSlug, fh)
		if err != nil {
			return nil, err
		}
		tomo.ImagenesURLs = append(tomo.ImagenesURLs, url)
		tomo.StorageKeys = append(tomo.StorageKeys, key)
	}

	// Single-cover clients read imagen_url only, so without a portada the
	// first gallery image doubles as the cover.
	if tomo.ImagenURL == "" && len(tomo.ImagenesURLs) > 0 {
		tomo.ImagenURL = tomo.ImagenesURLs[0]
	}

	if err := s.tomoRepo.Create(ctx, tomo); err != nil {
		middleware.Logger.WarnContext(ctx, "Tomo row insert failed after uploads, objects orphaned",
			slog.String("slug", tomoSlug),
			slog.String("error", err.Error()),
		)
		return nil, models.NewInternalError(err)
	}
	return tomo, nil
}

func (s *TomoService) UpdateTomo(ctx context.Context, in UpdateTomoInput) (*models.Tomo, error) {
	tomo, err := s.tomoRepo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tomo", in.ID)
		}
		return nil, err
	}

	if titulo := strings.TrimSpace(in.Titulo); titulo != "" && titulo != tomo.Titulo {
		tomo.Titulo = titulo
		// The slug is part of published URLs, it never changes after creation.
	}
	if in.ContenidoHTML != "" {
		tomo.ContenidoHTML = in.ContenidoHTML
	}
	if autor := strings.TrimSpace(in.Autor); autor != "" {
		tomo.Autor = autor
	}
	if in.Link != nil {
		tomo.Link = in.Link
	}
	if in.Portada != nil {
		url, key, err := s.uploadCover(ctx, tomo.Slug, in.Portada)
		if err != nil {
			return nil, err
		}
		tomo.ImagenURL = url
		tomo.StorageKeys = append(tomo.StorageKeys, key)
	}
	if tomo.ImagenURL == "" && len(tomo.ImagenesURLs) > 0 {
		tomo.ImagenURL = tomo.ImagenesURLs[0]
	}

	if err := s.tomoRepo.Update(ctx, tomo); err != nil {
		return nil, err
	}
	return tomo, nil
}

// PublishTomo flips the draft flag off and stamps the publication date.
func (s *TomoService) PublishTomo(ctx context.Context, id uint) error {
	tomo, err := s.tomoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Tomo", id)
		}
		return err
	}
	if tomo.Borrador {
		tomo.Borrador = false
		tomo.FechaPublicacion = s.now()
		return s.tomoRepo.Update(ctx, tomo)
	}
	return nil
}

func (s *TomoService) UnpublishTomo(ctx context.Context, id uint) error {
	if err := s.tomoRepo.SetBorrador(ctx, id, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Tomo", id)
		}
		return err
	}
	return nil
}

// DeleteTomo removes every stored object best-effort and then the row.
func (s *TomoService) DeleteTomo(ctx context.Context, id uint) error {
	tomo, err := s.tomoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Tomo", id)
		}
		return err
	}

	keys := tomo.StorageKeys
	if len(keys) == 0 {
		// Legacy rows carry URLs only.
		if tomo.ImagenURL != "" {
			keys = append(keys, storage.KeyFromURL(tomo.ImagenURL, storage.BucketTomos))
		}
		for _, u := range tomo.ImagenesURLs {
			keys = append(keys, storage.KeyFromURL(u, storage.BucketTomos))
		}
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Remove(ctx, storage.BucketTomos, key); err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to remove tomo object, continuing",
				slog.Uint64("tomo_id", uint64(id)),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	return s.tomoRepo.Delete(ctx, id)
}

// uniqueSlug derives the slug from the title and suffixes a counter when a
// tomo already claimed it.
func (s *TomoService) uniqueSlug(ctx context.Context, titulo string) (string, error) {
	base := slug.From(titulo)
	if base == "" {
		return "", models.NewValidationError("El título no produce un slug válido")
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.tomoRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// uploadCover re-encodes the cover as a bounded WebP before storing it.
func (s *TomoService) uploadCover(ctx context.Context, tomoSlug string, fh *multipart.FileHeader) (url, key string, err error) {
	data, err := readFileHeader(fh)
	if err != nil {
		return "", "", models.NewInternalError(err)
	}
	thumb, err := s.media.CoverThumbnail(data)
	if err != nil {
		return "", "", err
	}

	key = fmt.Sprintf("%s-%d.webp", tomoSlug, s.now().UnixMilli())
	url, err = s.store.Put(ctx, storage.BucketTomos, key, bytes.NewReader(thumb), "image/webp")
	if err != nil {
		return "", "", models.NewInternalError(err)
	}
	return url, key, nil
}

func (s *TomoService) uploadImage(ctx context.Context, tomoSlug string, fh *multipart.FileHeader) (url, key string, err error) {
	f, err := fh.Open()
	if err != nil {
		return "", "", models.NewInternalError(err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".img"
	}
	key = fmt.Sprintf("%s-%d%s", tomoSlug, s.now().UnixMilli(), ext)
	url, err = s.store.Put(ctx, storage.BucketTomos, key, f, fh.Header.Get("Content-Type"))
	if err != nil {
		return "", "", models.NewInternalError(err)
	}
	return url, key, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := bytes.NewBuffer(make([]byte, 0, fh.Size))
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
