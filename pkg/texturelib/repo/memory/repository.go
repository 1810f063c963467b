// Package memory provides an in-memory implementation of
// texturelib.Repository, used for tests and single-process deployments.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/skinloft/texture-library/pkg/texturelib"
)

type closetKey struct {
	userID    uuid.UUID
	textureID uuid.UUID
}

// state holds all records. Methods on state do not lock; the Repository
// wrapper serializes access.
type state struct {
	textures map[uuid.UUID]*texturelib.Texture
	users    map[uuid.UUID]*texturelib.User
	closet   map[closetKey]*texturelib.ClosetEntry
	players  map[uuid.UUID]*texturelib.Player
}

func newState() *state {
	return &state{
		textures: make(map[uuid.UUID]*texturelib.Texture),
		users:    make(map[uuid.UUID]*texturelib.User),
		closet:   make(map[closetKey]*texturelib.ClosetEntry),
		players:  make(map[uuid.UUID]*texturelib.Player),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, t := range s.textures {
		tc := *t
		c.textures[id] = &tc
	}
	for id, u := range s.users {
		uc := *u
		c.users[id] = &uc
	}
	for k, e := range s.closet {
		ec := *e
		c.closet[k] = &ec
	}
	for id, p := range s.players {
		pc := *p
		c.players[id] = &pc
	}
	return c
}

// Repository implements texturelib.Repository using in-memory storage.
//
// A single mutex serializes every operation. InTx snapshots the state and
// restores it when the transaction function fails, so multi-step mutations
// are atomic the same way they are on the postgres backend.
type Repository struct {
	mu sync.Mutex
	st *state
}

// New creates a new in-memory repository
func New() texturelib.Repository {
	return &Repository{st: newState()}
}

func (r *Repository) CreateTexture(ctx context.Context, texture *texturelib.Texture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.createTexture(texture)
}

func (r *Repository) GetTexture(ctx context.Context, id uuid.UUID) (*texturelib.Texture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.getTexture(id)
}

func (r *Repository) GetTextureForUpdate(ctx context.Context, id uuid.UUID) (*texturelib.Texture, error) {
	// The repository mutex already gives a transaction exclusive access.
	return r.GetTexture(ctx, id)
}

func (r *Repository) UpdateTexture(ctx context.Context, texture *texturelib.Texture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.updateTexture(texture)
}

func (r *Repository) DeleteTexture(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.deleteTexture(id)
}

func (r *Repository) FindPublicTextureByHash(ctx context.Context, hash string) (*texturelib.Texture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.findPublicTextureByHash(hash)
}

func (r *Repository) CountTexturesByHash(ctx context.Context, hash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.countTexturesByHash(hash)
}

func (r *Repository) SearchTextures(ctx context.Context, q texturelib.SearchQuery) (*texturelib.TexturePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.searchTextures(q)
}

func (r *Repository) CreateUser(ctx context.Context, user *texturelib.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.createUser(user)
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*texturelib.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.getUser(id)
}

func (r *Repository) AdjustScore(ctx context.Context, userID uuid.UUID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.adjustScore(userID, delta)
}

func (r *Repository) UpsertClosetEntry(ctx context.Context, entry *texturelib.ClosetEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.upsertClosetEntry(entry)
}

func (r *Repository) GetClosetEntry(ctx context.Context, userID, textureID uuid.UUID) (*texturelib.ClosetEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.getClosetEntry(userID, textureID)
}

func (r *Repository) DeleteClosetEntry(ctx context.Context, userID, textureID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.deleteClosetEntry(userID, textureID)
}

func (r *Repository) ListClosetEntries(ctx context.Context, userID uuid.UUID) ([]*texturelib.ClosetEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.listClosetEntries(userID)
}

func (r *Repository) CountClosetEntries(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.countClosetEntries(userID)
}

func (r *Repository) ListCollectors(ctx context.Context, textureID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.listCollectors(textureID)
}

func (r *Repository) CreatePlayer(ctx context.Context, player *texturelib.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.createPlayer(player)
}

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*texturelib.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.getPlayer(id)
}

func (r *Repository) UpdatePlayer(ctx context.Context, player *texturelib.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.updatePlayer(player)
}

func (r *Repository) ListPlayersByOwner(ctx context.Context, ownerID uuid.UUID) ([]*texturelib.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.listPlayersByOwner(ownerID)
}

func (r *Repository) ClearEquipRefs(ctx context.Context, textureID uuid.UUID, slot texturelib.EquipSlot, exceptOwner uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.clearEquipRefs(textureID, slot, exceptOwner)
}

func (r *Repository) InTx(ctx context.Context, fn func(texturelib.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.st.clone()
	if err := fn(&txRepository{st: r.st}); err != nil {
		r.st = snapshot
		return err
	}
	return nil
}

// txRepository is the repository view handed to an InTx function. It works
// on the live state without locking; the enclosing InTx holds the mutex.
type txRepository struct {
	st *state
}

func (t *txRepository) CreateTexture(ctx context.Context, texture *texturelib.Texture) error {
	return t.st.createTexture(texture)
}

func (t *txRepository) GetTexture(ctx context.Context, id uuid.UUID) (*texturelib.Texture, error) {
	return t.st.getTexture(id)
}

func (t *txRepository) GetTextureForUpdate(ctx context.Context, id uuid.UUID) (*texturelib.Texture, error) {
	return t.st.getTexture(id)
}

func (t *txRepository) UpdateTexture(ctx context.Context, texture *texturelib.Texture) error {
	return t.st.updateTexture(texture)
}

func (t *txRepository) DeleteTexture(ctx context.Context, id uuid.UUID) error {
	return t.st.deleteTexture(id)
}

func (t *txRepository) FindPublicTextureByHash(ctx context.Context, hash string) (*texturelib.Texture, error) {
	return t.st.findPublicTextureByHash(hash)
}

func (t *txRepository) CountTexturesByHash(ctx context.Context, hash string) (int64, error) {
	return t.st.countTexturesByHash(hash)
}

func (t *txRepository) SearchTextures(ctx context.Context, q texturelib.SearchQuery) (*texturelib.TexturePage, error) {
	return t.st.searchTextures(q)
}

func (t *txRepository) CreateUser(ctx context.Context, user *texturelib.User) error {
	return t.st.createUser(user)
}

func (t *txRepository) GetUser(ctx context.Context, id uuid.UUID) (*texturelib.User, error) {
	return t.st.getUser(id)
}

func (t *txRepository) AdjustScore(ctx context.Context, userID uuid.UUID, delta int64) error {
	return t.st.adjustScore(userID, delta)
}

func (t *txRepository) UpsertClosetEntry(ctx context.Context, entry *texturelib.ClosetEntry) error {
	return t.st.upsertClosetEntry(entry)
}

func (t *txRepository) GetClosetEntry(ctx context.Context, userID, textureID uuid.UUID) (*texturelib.ClosetEntry, error) {
	return t.st.getClosetEntry(userID, textureID)
}

func (t *txRepository) DeleteClosetEntry(ctx context.Context, userID, textureID uuid.UUID) (bool, error) {
	return t.st.deleteClosetEntry(userID, textureID)
}

func (t *txRepository) ListClosetEntries(ctx context.Context, userID uuid.UUID) ([]*texturelib.ClosetEntry, error) {
	return t.st.listClosetEntries(userID)
}

func (t *txRepository) CountClosetEntries(ctx context.Context, userID uuid.UUID) (int64, error) {
	return t.st.countClosetEntries(userID)
}

func (t *txRepository) ListCollectors(ctx context.Context, textureID uuid.UUID) ([]uuid.UUID, error) {
	return t.st.listCollectors(textureID)
}

func (t *txRepository) CreatePlayer(ctx context.Context, player *texturelib.Player) error {
	return t.st.createPlayer(player)
}

func (t *txRepository) GetPlayer(ctx context.Context, id uuid.UUID) (*texturelib.Player, error) {
	return t.st.getPlayer(id)
}

func (t *txRepository) UpdatePlayer(ctx context.Context, player *texturelib.Player) error {
	return t.st.updatePlayer(player)
}

func (t *txRepository) ListPlayersByOwner(ctx context.Context, ownerID uuid.UUID) ([]*texturelib.Player, error) {
	return t.st.listPlayersByOwner(ownerID)
}

func (t *txRepository) ClearEquipRefs(ctx context.Context, textureID uuid.UUID, slot texturelib.EquipSlot, exceptOwner uuid.UUID) (int64, error) {
	return t.st.clearEquipRefs(textureID, slot, exceptOwner)
}

func (t *txRepository) InTx(ctx context.Context, fn func(texturelib.Repository) error) error {
	// Already inside a transaction; join it.
	return fn(t)
}

// state operations

func (s *state) createTexture(texture *texturelib.Texture) error {
	// Copy to avoid external modifications
	textureCopy := *texture
	s.textures[texture.ID] = &textureCopy
	return nil
}

func (s *state) getTexture(id uuid.UUID) (*texturelib.Texture, error) {
	texture, exists := s.textures[id]
	if !exists {
		return nil, texturelib.ErrTextureNotFound
	}
	textureCopy := *texture
	return &textureCopy, nil
}

func (s *state) updateTexture(texture *texturelib.Texture) error {
	if _, exists := s.textures[texture.ID]; !exists {
		return texturelib.ErrTextureNotFound
	}
	textureCopy := *texture
	s.textures[texture.ID] = &textureCopy
	return nil
}

func (s *state) deleteTexture(id uuid.UUID) error {
	if _, exists := s.textures[id]; !exists {
		return texturelib.ErrTextureNotFound
	}
	delete(s.textures, id)
	return nil
}

func (s *state) findPublicTextureByHash(hash string) (*texturelib.Texture, error) {
	var found *texturelib.Texture
	for _, texture := range s.textures {
		if texture.Hash != hash || !texture.Public {
			continue
		}
		// Deterministic winner when several public textures share a
		// hash: the earliest upload.
		if found == nil || texture.UploadedAt.Before(found.UploadedAt) {
			found = texture
		}
	}
	if found == nil {
		return nil, texturelib.ErrTextureNotFound
	}
	foundCopy := *found
	return &foundCopy, nil
}

func (s *state) countTexturesByHash(hash string) (int64, error) {
	var count int64
	for _, texture := range s.textures {
		if texture.Hash == hash {
			count++
		}
	}
	return count, nil
}

func (s *state) searchTextures(q texturelib.SearchQuery) (*texturelib.TexturePage, error) {
	keyword := strings.ToLower(q.Keyword)

	var matches []*texturelib.Texture
	for _, texture := range s.textures {
		if len(q.Kinds) > 0 && !containsKind(q.Kinds, texture.Kind) {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(texture.Name), keyword) {
			continue
		}
		if q.Uploader != nil && texture.UploaderID != *q.Uploader {
			continue
		}
		switch q.Scope {
		case texturelib.ScopePublicOnly:
			if !texture.Public {
				continue
			}
		case texturelib.ScopeViewer:
			if !texture.Public && texture.UploaderID != q.ViewerID {
				continue
			}
		}
		textureCopy := *texture
		matches = append(matches, &textureCopy)
	}

	sort.Slice(matches, func(i, j int) bool {
		if q.SortBy == texturelib.SortByLikes && matches[i].Likes != matches[j].Likes {
			return matches[i].Likes > matches[j].Likes
		}
		return matches[i].UploadedAt.After(matches[j].UploadedAt)
	})

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = texturelib.SearchPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	total := int64(len(matches))
	totalPages := (len(matches) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > len(matches) {
		start = len(matches)
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}

	return &texturelib.TexturePage{
		Items:      matches[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func containsKind(kinds []texturelib.TextureKind, kind texturelib.TextureKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (s *state) createUser(user *texturelib.User) error {
	userCopy := *user
	s.users[user.ID] = &userCopy
	return nil
}

func (s *state) getUser(id uuid.UUID) (*texturelib.User, error) {
	user, exists := s.users[id]
	if !exists {
		return nil, texturelib.ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

func (s *state) adjustScore(userID uuid.UUID, delta int64) error {
	user, exists := s.users[userID]
	if !exists {
		return texturelib.ErrUserNotFound
	}
	if user.Score+delta < 0 {
		return texturelib.ErrInsufficientScore
	}
	user.Score += delta
	return nil
}

func (s *state) upsertClosetEntry(entry *texturelib.ClosetEntry) error {
	entryCopy := *entry
	s.closet[closetKey{entry.UserID, entry.TextureID}] = &entryCopy
	return nil
}

func (s *state) getClosetEntry(userID, textureID uuid.UUID) (*texturelib.ClosetEntry, error) {
	entry, exists := s.closet[closetKey{userID, textureID}]
	if !exists {
		return nil, texturelib.ErrClosetEntryNotFound
	}
	entryCopy := *entry
	return &entryCopy, nil
}

func (s *state) deleteClosetEntry(userID, textureID uuid.UUID) (bool, error) {
	key := closetKey{userID, textureID}
	if _, exists := s.closet[key]; !exists {
		return false, nil
	}
	delete(s.closet, key)
	return true, nil
}

func (s *state) listClosetEntries(userID uuid.UUID) ([]*texturelib.ClosetEntry, error) {
	var result []*texturelib.ClosetEntry
	for _, entry := range s.closet {
		if entry.UserID == userID {
			entryCopy := *entry
			result = append(result, &entryCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AddedAt.After(result[j].AddedAt)
	})
	return result, nil
}

func (s *state) countClosetEntries(userID uuid.UUID) (int64, error) {
	var count int64
	for _, entry := range s.closet {
		if entry.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *state) listCollectors(textureID uuid.UUID) ([]uuid.UUID, error) {
	var result []uuid.UUID
	for _, entry := range s.closet {
		if entry.TextureID == textureID {
			result = append(result, entry.UserID)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].String() < result[j].String()
	})
	return result, nil
}

func (s *state) createPlayer(player *texturelib.Player) error {
	playerCopy := *player
	s.players[player.ID] = &playerCopy
	return nil
}

func (s *state) getPlayer(id uuid.UUID) (*texturelib.Player, error) {
	player, exists := s.players[id]
	if !exists {
		return nil, texturelib.ErrPlayerNotFound
	}
	playerCopy := *player
	return &playerCopy, nil
}

func (s *state) updatePlayer(player *texturelib.Player) error {
	if _, exists := s.players[player.ID]; !exists {
		return texturelib.ErrPlayerNotFound
	}
	playerCopy := *player
	s.players[player.ID] = &playerCopy
	return nil
}

func (s *state) listPlayersByOwner(ownerID uuid.UUID) ([]*texturelib.Player, error) {
	var result []*texturelib.Player
	for _, player := range s.players {
		if player.OwnerID == ownerID {
			playerCopy := *player
			result = append(result, &playerCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *state) clearEquipRefs(textureID uuid.UUID, slot texturelib.EquipSlot, exceptOwner uuid.UUID) (int64, error) {
	var cleared int64
	for _, player := range s.players {
		if exceptOwner != uuid.Nil && player.OwnerID == exceptOwner {
			continue
		}
		if player.EquippedTexture(slot) != textureID {
			continue
		}
		player.SetEquipSlot(slot, uuid.Nil)
		cleared++
	}
	return cleared, nil
}
