package texturelib

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore defines the interface for storage backends. Keys are opaque
// strings; the ContentStore above this interface always uses hex-encoded
// SHA-256 hashes.
type BlobStore interface {
	// Upload stores content under the given key, replacing any existing
	// content. Concurrent writers of identical bytes are safe.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download returns a reader over the content stored under key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether content is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the content stored under key.
	Delete(ctx context.Context, key string) error

	// GetObjectMeta retrieves metadata for stored content.
	GetObjectMeta(ctx context.Context, key string) (*ObjectMeta, error)
}

// ObjectMeta contains metadata about a stored blob
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// Repository defines the interface for catalog, user, closet and player
// persistence.
//
// Individual methods are atomic. Multi-step mutations (upload debit plus
// catalog insert, visibility-toggle cascades) run inside InTx, which scopes
// them to a single transaction on backends that support one.
type Repository interface {
	// Texture catalog operations
	CreateTexture(ctx context.Context, texture *Texture) error
	GetTexture(ctx context.Context, id uuid.UUID) (*Texture, error)
	// GetTextureForUpdate behaves like GetTexture but, inside a
	// transaction, additionally takes a row-level lock so concurrent
	// toggles and deletes of the same texture serialize.
	GetTextureForUpdate(ctx context.Context, id uuid.UUID) (*Texture, error)
	UpdateTexture(ctx context.Context, texture *Texture) error
	DeleteTexture(ctx context.Context, id uuid.UUID) error
	FindPublicTextureByHash(ctx context.Context, hash string) (*Texture, error)
	CountTexturesByHash(ctx context.Context, hash string) (int64, error)
	SearchTextures(ctx context.Context, q SearchQuery) (*TexturePage, error)

	// User score operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	// AdjustScore atomically applies delta to the user's score. It fails
	// with ErrInsufficientScore, mutating nothing, when the result would
	// be negative.
	AdjustScore(ctx context.Context, userID uuid.UUID, delta int64) error

	// Closet operations
	UpsertClosetEntry(ctx context.Context, entry *ClosetEntry) error
	GetClosetEntry(ctx context.Context, userID, textureID uuid.UUID) (*ClosetEntry, error)
	// DeleteClosetEntry removes the entry and reports whether one existed.
	// Deleting an absent entry is not an error.
	DeleteClosetEntry(ctx context.Context, userID, textureID uuid.UUID) (bool, error)
	ListClosetEntries(ctx context.Context, userID uuid.UUID) ([]*ClosetEntry, error)
	CountClosetEntries(ctx context.Context, userID uuid.UUID) (int64, error)
	// ListCollectors returns the user ids holding a closet entry for the
	// texture.
	ListCollectors(ctx context.Context, textureID uuid.UUID) ([]uuid.UUID, error)

	// Player operations
	CreatePlayer(ctx context.Context, player *Player) error
	GetPlayer(ctx context.Context, id uuid.UUID) (*Player, error)
	UpdatePlayer(ctx context.Context, player *Player) error
	ListPlayersByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Player, error)
	// ClearEquipRefs zeroes the given slot on every player referencing the
	// texture, skipping players owned by exceptOwner when it is not
	// uuid.Nil. It returns the number of players updated.
	ClearEquipRefs(ctx context.Context, textureID uuid.UUID, slot EquipSlot, exceptOwner uuid.UUID) (int64, error)

	// InTx runs fn against a repository view scoped to a single
	// transaction. If fn returns an error the transaction rolls back and
	// no mutation is visible. Nested InTx calls join the enclosing
	// transaction.
	InTx(ctx context.Context, fn func(Repository) error) error
}

// EventSink defines the interface for observing texture lifecycle events.
// Sinks must not mutate domain state; errors are logged and do not fail the
// originating operation.
type EventSink interface {
	// TextureUploaded is fired when a new texture record is created
	TextureUploaded(ctx context.Context, texture *Texture) error

	// TextureDeleted is fired after a texture and its references are gone
	TextureDeleted(ctx context.Context, textureID uuid.UUID) error

	// VisibilityChanged is fired after a privacy toggle commits
	VisibilityChanged(ctx context.Context, texture *Texture) error

	// ClosetAttached is fired when a user collects a texture
	ClosetAttached(ctx context.Context, userID, textureID uuid.UUID) error

	// ClosetDetached is fired when a closet entry is removed
	ClosetDetached(ctx context.Context, userID, textureID uuid.UUID) error
}
