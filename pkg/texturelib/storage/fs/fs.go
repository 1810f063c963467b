// Package fs provides a filesystem blob storage backend.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

// Backend is a filesystem implementation of the texturelib.BlobStore
// interface. Blobs are sharded into subdirectories by the first two
// characters of the key to keep directory fan-out bounded.
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing blobs
}

// New creates a new filesystem storage backend
func New(config Config) (texturelib.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Backend{baseDir: config.BaseDir}, nil
}

func (b *Backend) blobPath(key string) string {
	if len(key) < 2 {
		return filepath.Join(b.baseDir, key)
	}
	return filepath.Join(b.baseDir, key[:2], key)
}

// Upload stores content directly on the filesystem. The write goes through
// a temp file and a rename so a concurrent reader never sees a partial
// blob and concurrent writers of identical bytes are safe.
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	path := b.blobPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+key+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to finalize blob: %w", err)
	}
	return nil
}

// Download returns a reader over a stored blob
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(b.blobPath(key))
	if os.IsNotExist(err) {
		return nil, texturelib.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return file, nil
}

// Exists reports whether a blob is stored under key
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(b.blobPath(key))
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to stat blob: %w", err)
	}
	return true, nil
}

// Delete removes a blob from the filesystem
func (b *Backend) Delete(ctx context.Context, key string) error {
	path := b.blobPath(key)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return texturelib.ErrBlobNotFound
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	b.cleanupEmptyDirectories(filepath.Dir(path))
	return nil
}

// GetObjectMeta retrieves metadata for a stored blob
func (b *Backend) GetObjectMeta(ctx context.Context, key string) (*texturelib.ObjectMeta, error) {
	path := b.blobPath(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, texturelib.ErrBlobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat blob: %w", err)
	}

	contentType := "application/octet-stream"
	if file, err := os.Open(path); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	return &texturelib.ObjectMeta{
		Key:         key,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
	}, nil
}

// cleanupEmptyDirectories removes empty shard directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir {
		return
	}
	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
