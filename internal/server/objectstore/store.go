// Package objectstore stores opaque ciphertext blobs and hands out
// time-limited download links for them.
package objectstore

import (
	"context"
	"io"
	"time"
)

// Store is the object storage collaborator. Blobs are opaque to it; keys are
// chosen by the caller and never reused.
type Store interface {
	// Put durably stores body under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// PresignGet returns a URL that allows an unauthenticated GET of key
	// until ttl elapses.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
