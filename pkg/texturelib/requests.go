package texturelib

import "github.com/google/uuid"

// UploadRequest contains parameters for uploading a texture. The caller is
// expected to have validated the image format and dimensions already; the
// library treats Data as opaque bytes.
type UploadRequest struct {
	Actor  Actor
	Name   string
	Kind   TextureKind
	Public bool
	Data   []byte
}

// UploadResult is the outcome of an upload.
//
// Repeated is the deduplication signal: an identical public texture already
// exists, Texture points at it, and nothing was stored or debited. It is
// not an error.
type UploadResult struct {
	Texture  *Texture
	Repeated bool
	Cost     int64
}

// SearchRequest contains parameters for searching the texture library.
//
// Filter accepts a kind class: "skin" matches steve and alex, "cape"
// matches capes, and an exact kind name matches that kind alone. An empty
// filter defaults to "skin".
type SearchRequest struct {
	Actor    Actor
	Filter   string
	Keyword  string
	Uploader *uuid.UUID
	SortBy   string
	Page     int
}

// RegisterUserRequest contains parameters for registering a user with the
// library's score ledger.
type RegisterUserRequest struct {
	Nickname string
}

// CreatePlayerRequest contains parameters for creating a player.
type CreatePlayerRequest struct {
	Actor Actor
	Name  string
}
