package texturelib

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// HashBytes returns the hex-encoded SHA-256 digest of data. Identical
// content always yields the identical key.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ContentStore content-addresses blobs on top of a BlobStore backend.
// Blobs are keyed by the hex SHA-256 of their bytes, so identical uploads
// occupy a single blob regardless of how many textures reference them.
type ContentStore struct {
	backend BlobStore
}

// NewContentStore creates a content store over the given backend.
func NewContentStore(backend BlobStore) *ContentStore {
	return &ContentStore{backend: backend}
}

// Put stores data and returns its hash. Writing already-present content is
// a no-op that still returns the correct hash; concurrent writers of
// identical bytes are safe because either write produces the same blob.
func (cs *ContentStore) Put(ctx context.Context, data []byte) (string, error) {
	hash := HashBytes(data)

	exists, err := cs.backend.Exists(ctx, hash)
	if err != nil {
		return "", &StorageError{Hash: hash, Op: "put", Err: err}
	}
	if exists {
		return hash, nil
	}

	if err := cs.backend.Upload(ctx, hash, bytes.NewReader(data)); err != nil {
		return "", &StorageError{Hash: hash, Op: "put", Err: err}
	}
	return hash, nil
}

// Has reports whether a blob is stored under hash.
func (cs *ContentStore) Has(ctx context.Context, hash string) (bool, error) {
	exists, err := cs.backend.Exists(ctx, hash)
	if err != nil {
		return false, &StorageError{Hash: hash, Op: "has", Err: err}
	}
	return exists, nil
}

// Get returns the blob stored under hash, or ErrBlobNotFound.
func (cs *ContentStore) Get(ctx context.Context, hash string) ([]byte, error) {
	exists, err := cs.backend.Exists(ctx, hash)
	if err != nil {
		return nil, &StorageError{Hash: hash, Op: "get", Err: err}
	}
	if !exists {
		return nil, ErrBlobNotFound
	}

	rc, err := cs.backend.Download(ctx, hash)
	if err != nil {
		return nil, &StorageError{Hash: hash, Op: "get", Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &StorageError{Hash: hash, Op: "get", Err: err}
	}
	return data, nil
}

// Delete removes the blob stored under hash, or returns ErrBlobNotFound.
// Callers must first confirm the catalog holds zero records with this hash;
// the service only invokes it from the post-cascade garbage-collection
// step.
func (cs *ContentStore) Delete(ctx context.Context, hash string) error {
	exists, err := cs.backend.Exists(ctx, hash)
	if err != nil {
		return &StorageError{Hash: hash, Op: "delete", Err: err}
	}
	if !exists {
		return ErrBlobNotFound
	}

	if err := cs.backend.Delete(ctx, hash); err != nil {
		return &StorageError{Hash: hash, Op: "delete", Err: err}
	}
	return nil
}
