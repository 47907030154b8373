package storage

import (
	"context"
	"io"
)

// Storage abstracts where uploaded media (blog and testimonial images)
// physically lives. The local filesystem implementation can be swapped
// for S3 / Cloudflare R2 without touching the handlers.
type Storage interface {
	// Save stores a file and returns its public URL.
	// key is a unique path within the store (e.g. "blog/<uuid>.jpg").
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete removes the file under key.
	Delete(ctx context.Context, key string) error
}
