package texturelib

import (
	"time"

	"github.com/google/uuid"
)

// TextureKind is the domain type for texture categories.
type TextureKind string

// Texture kind constants (typed).
const (
	KindSteve TextureKind = "steve"
	KindAlex  TextureKind = "alex"
	KindCape  TextureKind = "cape"
)

// Valid reports whether k is one of the known texture kinds.
func (k TextureKind) Valid() bool {
	switch k {
	case KindSteve, KindAlex, KindCape:
		return true
	}
	return false
}

// Slot returns the equip slot a texture of this kind occupies on a player.
func (k TextureKind) Slot() EquipSlot {
	if k == KindCape {
		return SlotCape
	}
	return SlotSkin
}

// EquipSlot identifies which of a player's texture references is addressed.
type EquipSlot string

// Equip slot constants (typed).
const (
	SlotSkin EquipSlot = "skin"
	SlotCape EquipSlot = "cape"
)

// Texture represents a logical texture record in the catalog.
//
// Two textures may share the same Hash; deduplication happens at the blob
// layer. A blob is deleted only when the last texture referencing its hash
// is deleted.
type Texture struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Kind       TextureKind `json:"kind"`
	Hash       string      `json:"hash"`
	SizeUnits  int64       `json:"size_units"`
	Public     bool        `json:"public"`
	UploaderID uuid.UUID   `json:"uploader_id"`
	Likes      int64       `json:"likes"`
	UploadedAt time.Time   `json:"uploaded_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// User is the slice of the external user entity the library touches: the
// score balance and a display name surfaced in search results.
type User struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// ClosetEntry associates a user with a texture they collected. The label is
// chosen by the collector and independent of the texture's own name.
type ClosetEntry struct {
	UserID    uuid.UUID `json:"user_id"`
	TextureID uuid.UUID `json:"texture_id"`
	Label     string    `json:"label"`
	AddedAt   time.Time `json:"added_at"`
}

// Player is the external entity holding equip references to textures.
// uuid.Nil in a slot means nothing is equipped.
type Player struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Name          string    `json:"name"`
	SkinTextureID uuid.UUID `json:"skin_texture_id"`
	CapeTextureID uuid.UUID `json:"cape_texture_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// EquippedTexture returns the texture reference in the given slot.
func (p *Player) EquippedTexture(slot EquipSlot) uuid.UUID {
	if slot == SlotCape {
		return p.CapeTextureID
	}
	return p.SkinTextureID
}

// SetEquipSlot sets the texture reference in the given slot.
func (p *Player) SetEquipSlot(slot EquipSlot, textureID uuid.UUID) {
	if slot == SlotCape {
		p.CapeTextureID = textureID
		return
	}
	p.SkinTextureID = textureID
}

// SizeUnits converts a byte count to storage units: the ceiling of the size
// divided by 1024. The minimum billable size for non-empty content is one
// unit.
func SizeUnits(byteLen int) int64 {
	return (int64(byteLen) + 1023) / 1024
}

// SortByTime and SortByLikes are the sort keys accepted by texture search.
const (
	SortByTime  = "time"
	SortByLikes = "likes"
)

// SearchPageSize is the fixed page size for texture search results.
const SearchPageSize = 20

// VisibilityScope controls which textures a search may return.
type VisibilityScope int

const (
	// ScopePublicOnly returns public textures only (anonymous callers).
	ScopePublicOnly VisibilityScope = iota
	// ScopeViewer returns public textures plus the viewer's own.
	ScopeViewer
	// ScopeAll returns everything (admin callers).
	ScopeAll
)

// SearchQuery is the repository-level filter for texture search.
type SearchQuery struct {
	Kinds    []TextureKind
	Keyword  string
	Uploader *uuid.UUID
	Scope    VisibilityScope
	ViewerID uuid.UUID
	SortBy   string
	Page     int
	PageSize int
}

// TexturePage is one page of search results.
type TexturePage struct {
	Items      []*Texture `json:"items"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
