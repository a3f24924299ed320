package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"aura/internal/middleware"
	"aura/internal/observability"
)

// DiskStore is an ObjectStore backed by a local directory. Objects live at
// <root>/<bucket>/<key> and are served under baseURL by the HTTP server.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates the root directory if needed and returns a DiskStore.
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %q: %w", root, err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Root returns the directory objects are stored under.
func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) path(bucket, key string) (string, error) {
	p := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	// Keys come from user-supplied filenames; refuse anything escaping the root.
	if !strings.HasPrefix(filepath.Clean(p), filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return p, nil
}

func (s *DiskStore) Put(ctx context.Context, bucket, key string, r io.Reader, contentType string) (string, error) {
	p, err := s.path(bucket, key)
	if err != nil {
		observability.StorageOperations.WithLabelValues("put", "error").Inc()
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		observability.StorageOperations.WithLabelValues("put", "error").Inc()
		return "", fmt.Errorf("failed to create bucket dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		observability.StorageOperations.WithLabelValues("put", "error").Inc()
		return "", fmt.Errorf("failed to create object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(p)
		observability.StorageOperations.WithLabelValues("put", "error").Inc()
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	observability.StorageOperations.WithLabelValues("put", "ok").Inc()
	middleware.Logger.Debug("Stored object",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.String("content_type", contentType),
	)
	return s.PublicURL(bucket, key), nil
}

func (s *DiskStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/public/%s/%s", s.baseURL, bucket, url.PathEscape(key))
}

func (s *DiskStore) Remove(ctx context.Context, bucket, key string) error {
	p, err := s.path(bucket, key)
	if err != nil {
		observability.StorageOperations.WithLabelValues("remove", "error").Inc()
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		observability.StorageOperations.WithLabelValues("remove", "error").Inc()
		return fmt.Errorf("failed to remove object: %w", err)
	}
	observability.StorageOperations.WithLabelValues("remove", "ok").Inc()
	return nil
}
