// Package storage abstracts the object store that holds uploaded media.
package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
)

// Bucket names for uploaded media. Submissions and tomo covers live in
// separate buckets so their retention policies can diverge.
const (
	BucketObras = "obras-archivos"
	BucketTomos = "imagenestomos"
)

// ObjectStore stores and serves uploaded files grouped into buckets.
type ObjectStore interface {
	// Put writes the object under bucket/key and returns its public URL.
	Put(ctx context.Context, bucket, key string, r io.Reader, contentType string) (string, error)
	// PublicURL returns the URL an anonymous visitor can fetch the object at.
	PublicURL(bucket, key string) string
	// Remove deletes the object. Removing a missing object is not an error.
	Remove(ctx context.Context, bucket, key string) error
}

// KeyFromURL derives a storage key from a public URL for rows that predate
// the storage_key column. It takes everything after the "/public/<bucket>/"
// marker when present, otherwise the last path segment.
func KeyFromURL(rawURL, bucket string) string {
	if rawURL == "" {
		return ""
	}
	key := lastSegmentAfterPublic(rawURL, bucket)
	if unescaped, err := url.PathUnescape(key); err == nil {
		return unescaped
	}
	return key
}

func lastSegmentAfterPublic(rawURL, bucket string) string {
	marker := "/public/" + bucket + "/"
	if idx := strings.Index(rawURL, marker); idx >= 0 {
		return rawURL[idx+len(marker):]
	}
	if idx := strings.Index(rawURL, "/public/"); idx >= 0 {
		rest := rawURL[idx+len("/public/"):]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			return rest[slash+1:]
		}
		return rest
	}
	parts := strings.Split(rawURL, "/")
	return parts[len(parts)-1]
}
