package texturelib

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the texture library
type Service interface {
	// Texture library operations
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
	GetTexture(ctx context.Context, actor Actor, id uuid.UUID) (*Texture, error)
	DownloadTexture(ctx context.Context, actor Actor, id uuid.UUID) ([]byte, error)
	SearchTextures(ctx context.Context, req SearchRequest) (*TexturePage, error)
	RenameTexture(ctx context.Context, actor Actor, id uuid.UUID, newName string) error
	SetTextureKind(ctx context.Context, actor Actor, id uuid.UUID, kind TextureKind) error
	ToggleVisibility(ctx context.Context, actor Actor, id uuid.UUID) (*Texture, error)
	DeleteTexture(ctx context.Context, actor Actor, id uuid.UUID) error

	// Closet operations
	AddToCloset(ctx context.Context, actor Actor, textureID uuid.UUID, label string) error
	RemoveFromCloset(ctx context.Context, actor Actor, textureID uuid.UUID) error
	RenameClosetItem(ctx context.Context, actor Actor, textureID uuid.UUID, label string) error
	ListCloset(ctx context.Context, actor Actor) ([]*ClosetEntry, error)

	// User operations
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserBadges(ctx context.Context, id uuid.UUID) ([]Badge, error)

	// Player operations
	CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*Player, error)
	GetPlayer(ctx context.Context, actor Actor, id uuid.UUID) (*Player, error)
	ListPlayers(ctx context.Context, actor Actor) ([]*Player, error)
	SetEquippedTexture(ctx context.Context, actor Actor, playerID, textureID uuid.UUID) error
	ClearEquippedTexture(ctx context.Context, actor Actor, playerID uuid.UUID, slot EquipSlot) error
}
