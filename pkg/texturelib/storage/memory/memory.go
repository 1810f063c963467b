// Package memory provides an in-memory blob storage backend.
package memory

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

// Backend is an in-memory implementation of the texturelib.BlobStore
// interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
	updated map[string]time.Time
}

// New creates a new in-memory storage backend
func New() texturelib.BlobStore {
	return &Backend{
		objects: make(map[string][]byte),
		updated: make(map[string]time.Time),
	}
}

// Upload stores content directly
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = data
	b.updated[key] = time.Now().UTC()
	return nil
}

// Download returns a reader over stored content
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, texturelib.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Exists reports whether content is stored under key
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[key]
	return exists, nil
}

// Delete removes stored content
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; !exists {
		return texturelib.ErrBlobNotFound
	}
	delete(b.objects, key)
	delete(b.updated, key)
	return nil
}

// GetObjectMeta retrieves metadata for stored content
func (b *Backend) GetObjectMeta(ctx context.Context, key string) (*texturelib.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, texturelib.ErrBlobNotFound
	}
	return &texturelib.ObjectMeta{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: "image/png",
		UpdatedAt:   b.updated[key],
	}, nil
}
