package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
	"testing"

	"aura/internal/models"

	"github.com/stretchr/testify/require"
)

// makeFileHeader builds a real multipart.FileHeader backed by data.
func makeFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename)}
	if contentType != "" {
		h["Content-Type"] = []string{contentType}
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

// memStore is an in-memory ObjectStore for tests.
type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	removed   []string
	putErr    error
	removeErr error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, bucket, key string, r io.Reader, _ string) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	return m.PublicURL(bucket, key), nil
}

func (m *memStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("/media/public/%s/%s", bucket, key)
}

func (m *memStore) Remove(_ context.Context, bucket, key string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	m.removed = append(m.removed, bucket+"/"+key)
	return nil
}

// obraRepoStub is a stub for repository.ObraRepository.
type obraRepoStub struct {
	createFn          func(context.Context, *models.Obra) error
	getByIDFn         func(context.Context, uint, uint) (*models.Obra, error)
	listAprobadasFn   func(context.Context, int, int, uint) ([]*models.Obra, error)
	listByAprobadaFn  func(context.Context, bool, int, int) ([]*models.Obra, error)
	countByAprobadaFn func(context.Context, bool) (int64, error)
	setAprobadaFn     func(context.Context, uint, bool) error
	deleteFn          func(context.Context, uint) error
	isLikedFn         func(context.Context, uint, uint) (bool, error)
	getLikedObraIDsFn func(context.Context, uint, []uint) ([]uint, error)
	likeFn            func(context.Context, uint, uint) (bool, error)
	unlikeFn          func(context.Context, uint, uint) (bool, error)
	incrementLikesFn  func(context.Context, uint) error
	decrementLikesFn  func(context.Context, uint) error
	recountLikesFn    func(context.Context, uint) (int, error)
}

func (s *obraRepoStub) Create(ctx context.Context, obra *models.Obra) error {
	return s.createFn(ctx, obra)
}
func (s *obraRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Obra, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *obraRepoStub) ListAprobadas(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Obra, error) {
	return s.listAprobadasFn(ctx, limit, offset, currentUserID)
}
func (s *obraRepoStub) ListByAprobada(ctx context.Context, aprobada bool, limit, offset int) ([]*models.Obra, error) {
	return s.listByAprobadaFn(ctx, aprobada, limit, offset)
}
func (s *obraRepoStub) CountByAprobada(ctx context.Context, aprobada bool) (int64, error) {
	return s.countByAprobadaFn(ctx, aprobada)
}
func (s *obraRepoStub) SetAprobada(ctx context.Context, id uint, aprobada bool) error {
	return s.setAprobadaFn(ctx, id, aprobada)
}
func (s *obraRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *obraRepoStub) IsLiked(ctx context.Context, userID, obraID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, obraID)
}
func (s *obraRepoStub) GetLikedObraIDs(ctx context.Context, userID uint, obraIDs []uint) ([]uint, error) {
	return s.getLikedObraIDsFn(ctx, userID, obraIDs)
}
func (s *obraRepoStub) Like(ctx context.Context, userID, obraID uint) (bool, error) {
	return s.likeFn(ctx, userID, obraID)
}
func (s *obraRepoStub) Unlike(ctx context.Context, userID, obraID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, obraID)
}
func (s *obraRepoStub) IncrementLikes(ctx context.Context, obraID uint) error {
	return s.incrementLikesFn(ctx, obraID)
}
func (s *obraRepoStub) DecrementLikes(ctx context.Context, obraID uint) error {
	return s.decrementLikesFn(ctx, obraID)
}
func (s *obraRepoStub) RecountLikes(ctx context.Context, obraID uint) (int, error) {
	return s.recountLikesFn(ctx, obraID)
}

func noopObraRepo() *obraRepoStub {
	return &obraRepoStub{
		createFn:          func(_ context.Context, _ *models.Obra) error { return nil },
		getByIDFn:         func(_ context.Context, _, _ uint) (*models.Obra, error) { return &models.Obra{}, nil },
		listAprobadasFn:   func(_ context.Context, _, _ int, _ uint) ([]*models.Obra, error) { return nil, nil },
		listByAprobadaFn:  func(_ context.Context, _ bool, _, _ int) ([]*models.Obra, error) { return nil, nil },
		countByAprobadaFn: func(_ context.Context, _ bool) (int64, error) { return 0, nil },
		setAprobadaFn:     func(_ context.Context, _ uint, _ bool) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		isLikedFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		getLikedObraIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		likeFn:            func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeFn:          func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		incrementLikesFn:  func(_ context.Context, _ uint) error { return nil },
		decrementLikesFn:  func(_ context.Context, _ uint) error { return nil },
		recountLikesFn:    func(_ context.Context, _ uint) (int, error) { return 0, nil },
	}
}

// contenidoRepoStub is a stub for repository.ContenidoRepository.
type contenidoRepoStub struct {
	createFn         func(context.Context, *models.ContenidoExclusivo) error
	getByIDFn        func(context.Context, uint, uint) (*models.ContenidoExclusivo, error)
	listAprobadosFn  func(context.Context, string, int, int, uint) ([]*models.ContenidoExclusivo, error)
	listByAprobadaFn func(context.Context, bool, int, int) ([]*models.ContenidoExclusivo, error)
	setAprobadaFn    func(context.Context, uint, bool) error
	deleteFn         func(context.Context, uint) error
	likeFn           func(context.Context, uint, uint) (bool, error)
	unlikeFn         func(context.Context, uint, uint) (bool, error)
	incrementLikesFn func(context.Context, uint) error
	decrementLikesFn func(context.Context, uint) error
	recountLikesFn   func(context.Context, uint) (int, error)
}

func (s *contenidoRepoStub) Create(ctx context.Context, c *models.ContenidoExclusivo) error {
	return s.createFn(ctx, c)
}
func (s *contenidoRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.ContenidoExclusivo, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *contenidoRepoStub) ListAprobados(ctx context.Context, tipo string, limit, offset int, currentUserID uint) ([]*models.ContenidoExclusivo, error) {
	return s.listAprobadosFn(ctx, tipo, limit, offset, currentUserID)
}
func (s *contenidoRepoStub) ListByAprobada(ctx context.Context, aprobada bool, limit, offset int) ([]*models.ContenidoExclusivo, error) {
	return s.listByAprobadaFn(ctx, aprobada, limit, offset)
}
func (s *contenidoRepoStub) SetAprobada(ctx context.Context, id uint, aprobada bool) error {
	return s.setAprobadaFn(ctx, id, aprobada)
}
func (s *contenidoRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *contenidoRepoStub) Like(ctx context.Context, userID, contenidoID uint) (bool, error) {
	return s.likeFn(ctx, userID, contenidoID)
}
func (s *contenidoRepoStub) Unlike(ctx context.Context, userID, contenidoID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, contenidoID)
}
func (s *contenidoRepoStub) IncrementLikes(ctx context.Context, contenidoID uint) error {
	return s.incrementLikesFn(ctx, contenidoID)
}
func (s *contenidoRepoStub) DecrementLikes(ctx context.Context, contenidoID uint) error {
	return s.decrementLikesFn(ctx, contenidoID)
}
func (s *contenidoRepoStub) RecountLikes(ctx context.Context, contenidoID uint) (int, error) {
	return s.recountLikesFn(ctx, contenidoID)
}

func noopContenidoRepo() *contenidoRepoStub {
	return &contenidoRepoStub{
		createFn: func(_ context.Context, _ *models.ContenidoExclusivo) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.ContenidoExclusivo, error) {
			return &models.ContenidoExclusivo{}, nil
		},
		listAprobadosFn: func(_ context.Context, _ string, _, _ int, _ uint) ([]*models.ContenidoExclusivo, error) {
			return nil, nil
		},
		listByAprobadaFn: func(_ context.Context, _ bool, _, _ int) ([]*models.ContenidoExclusivo, error) {
			return nil, nil
		},
		setAprobadaFn:    func(_ context.Context, _ uint, _ bool) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		likeFn:           func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unlikeFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		incrementLikesFn: func(_ context.Context, _ uint) error { return nil },
		decrementLikesFn: func(_ context.Context, _ uint) error { return nil },
		recountLikesFn:   func(_ context.Context, _ uint) (int, error) { return 0, nil },
	}
}

// tomoRepoStub is a stub for repository.TomoRepository.
type tomoRepoStub struct {
	createFn             func(context.Context, *models.Tomo) error
	getByIDFn            func(context.Context, uint) (*models.Tomo, error)
	getBySlugFn          func(context.Context, string) (*models.Tomo, error)
	getPublishedBySlugFn func(context.Context, string) (*models.Tomo, error)
	listPublishedFn      func(context.Context, int, int) ([]*models.Tomo, error)
	listAllFn            func(context.Context, int, int) ([]*models.Tomo, error)
	slugExistsFn         func(context.Context, string) (bool, error)
	updateFn             func(context.Context, *models.Tomo) error
	setBorradorFn        func(context.Context, uint, bool) error
	deleteFn             func(context.Context, uint) error
}

func (s *tomoRepoStub) Create(ctx context.Context, tomo *models.Tomo) error {
	return s.createFn(ctx, tomo)
}
func (s *tomoRepoStub) GetByID(ctx context.Context, id uint) (*models.Tomo, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tomoRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Tomo, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *tomoRepoStub) GetPublishedBySlug(ctx context.Context, slug string) (*models.Tomo, error) {
	return s.getPublishedBySlugFn(ctx, slug)
}
func (s *tomoRepoStub) ListPublished(ctx context.Context, limit, offset int) ([]*models.Tomo, error) {
	return s.listPublishedFn(ctx, limit, offset)
}
func (s *tomoRepoStub) ListAll(ctx context.Context, limit, offset int) ([]*models.Tomo, error) {
	return s.listAllFn(ctx, limit, offset)
}
func (s *tomoRepoStub) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.slugExistsFn(ctx, slug)
}
func (s *tomoRepoStub) Update(ctx context.Context, tomo *models.Tomo) error {
	return s.updateFn(ctx, tomo)
}
func (s *tomoRepoStub) SetBorrador(ctx context.Context, id uint, borrador bool) error {
	return s.setBorradorFn(ctx, id, borrador)
}
func (s *tomoRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopTomoRepo() *tomoRepoStub {
	return &tomoRepoStub{
		createFn:             func(_ context.Context, _ *models.Tomo) error { return nil },
		getByIDFn:            func(_ context.Context, _ uint) (*models.Tomo, error) { return &models.Tomo{}, nil },
		getBySlugFn:          func(_ context.Context, _ string) (*models.Tomo, error) { return &models.Tomo{}, nil },
		getPublishedBySlugFn: func(_ context.Context, _ string) (*models.Tomo, error) { return &models.Tomo{}, nil },
		listPublishedFn:      func(_ context.Context, _, _ int) ([]*models.Tomo, error) { return nil, nil },
		listAllFn:            func(_ context.Context, _, _ int) ([]*models.Tomo, error) { return nil, nil },
		slugExistsFn:         func(_ context.Context, _ string) (bool, error) { return false, nil },
		updateFn:             func(_ context.Context, _ *models.Tomo) error { return nil },
		setBorradorFn:        func(_ context.Context, _ uint, _ bool) error { return nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
	}
}
