package texturelib

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrTextureNotFound indicates a texture record was not found
	ErrTextureNotFound = errors.New("texture not found")

	// ErrUserNotFound indicates a user record was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrPlayerNotFound indicates a player record was not found
	ErrPlayerNotFound = errors.New("player not found")

	// ErrBlobNotFound indicates no blob is stored under a hash
	ErrBlobNotFound = errors.New("blob not found")

	// ErrClosetEntryNotFound indicates a user has no closet entry for a texture
	ErrClosetEntryNotFound = errors.New("closet entry not found")

	// ErrPermissionDenied indicates the actor may not perform the operation
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInsufficientScore indicates a debit would drive a score negative
	ErrInsufficientScore = errors.New("insufficient score")

	// ErrInvalidInput indicates a request failed domain validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a concurrent-mutation retry was exhausted
	ErrConflict = errors.New("conflict with a concurrent operation")
)

// TextureError represents an error related to texture operations
type TextureError struct {
	TextureID uuid.UUID
	Op        string
	Err       error
}

func (e *TextureError) Error() string {
	return fmt.Sprintf("texture operation %s failed for texture %s: %v", e.Op, e.TextureID, e.Err)
}

func (e *TextureError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Hash string
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for hash %s: %v", e.Op, e.Hash, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
