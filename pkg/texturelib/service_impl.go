package texturelib

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	store      *ContentStore
	pricing    Pricing
	hooks      *Registry
	events     EventSink

	autoDeleteInvalid bool
	initialScore      int64
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend. Blobs are content-addressed
// by the service; the backend only sees hash keys.
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.store = NewContentStore(store)
	}
}

// WithPricing sets the economy constants and policies
func WithPricing(pricing Pricing) Option {
	return func(s *service) {
		s.pricing = pricing
	}
}

// WithHooks sets the extension-point registry
func WithHooks(registry *Registry) Option {
	return func(s *service) {
		s.hooks = registry
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithAutoDeleteInvalid makes GetTexture delete catalog records whose blob
// has gone missing instead of merely reporting them not found.
func WithAutoDeleteInvalid(enabled bool) Option {
	return func(s *service) {
		s.autoDeleteInvalid = enabled
	}
}

// WithInitialScore sets the score granted to newly registered users.
func WithInitialScore(score int64) Option {
	return func(s *service) {
		s.initialScore = score
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		pricing:      DefaultPricing(),
		hooks:        NewRegistry(),
		events:       NewNoopEventSink(),
		initialScore: 1000,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.store == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

// Texture library operations

func (s *service) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if req.Actor.Anonymous {
		return nil, ErrPermissionDenied
	}
	if req.Name == "" || len(req.Data) == 0 || !req.Kind.Valid() {
		return nil, ErrInvalidInput
	}
	if err := s.hooks.runBeforeUpload(&req); err != nil {
		return nil, err
	}

	hash := HashBytes(req.Data)
	sizeUnits := SizeUnits(len(req.Data))
	cost := s.pricing.UploadCost(sizeUnits, req.Public)

	// Fast-fail checks outside the transaction, in the same order the
	// transaction re-applies them: affordability first, then dedup.
	user, err := s.repository.GetUser(ctx, req.Actor.ID)
	if err != nil {
		return nil, err
	}
	if user.Score < cost {
		return nil, ErrInsufficientScore
	}
	if existing, err := s.findRepeated(ctx, s.repository, hash); err != nil {
		return nil, err
	} else if existing != nil {
		return &UploadResult{Texture: existing, Repeated: true}, nil
	}

	// The blob write precedes the catalog transaction so a committed
	// record never points at a missing blob. An orphaned blob from a
	// failed transaction is compensated below.
	if _, err := s.store.Put(ctx, req.Data); err != nil {
		return nil, err
	}

	var result *UploadResult
	err = s.repository.InTx(ctx, func(r Repository) error {
		existing, err := s.findRepeated(ctx, r, hash)
		if err != nil {
			return err
		}
		if existing != nil {
			result = &UploadResult{Texture: existing, Repeated: true}
			return nil
		}

		now := time.Now().UTC()
		texture := &Texture{
			ID:         uuid.New(),
			Name:       req.Name,
			Kind:       req.Kind,
			Hash:       hash,
			SizeUnits:  sizeUnits,
			Public:     req.Public,
			UploaderID: req.Actor.ID,
			Likes:      1,
			UploadedAt: now,
			UpdatedAt:  now,
		}
		if err := r.CreateTexture(ctx, texture); err != nil {
			return &TextureError{TextureID: texture.ID, Op: "upload", Err: err}
		}
		if err := r.AdjustScore(ctx, req.Actor.ID, -cost); err != nil {
			return err
		}
		entry := &ClosetEntry{
			UserID:    req.Actor.ID,
			TextureID: texture.ID,
			Label:     texture.Name,
			AddedAt:   now,
		}
		if err := r.UpsertClosetEntry(ctx, entry); err != nil {
			return err
		}

		result = &UploadResult{Texture: texture, Cost: cost}
		return nil
	})
	if err != nil {
		s.collectBlob(ctx, hash)
		return nil, err
	}

	if !result.Repeated {
		_ = s.events.TextureUploaded(ctx, result.Texture)
		_ = s.events.ClosetAttached(ctx, req.Actor.ID, result.Texture.ID)
	}
	return result, nil
}

// findRepeated returns the existing public texture holding hash, or nil.
// A hash held only privately does not block a new upload.
func (s *service) findRepeated(ctx context.Context, r Repository, hash string) (*Texture, error) {
	existing, err := r.FindPublicTextureByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrTextureNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

func (s *service) GetTexture(ctx context.Context, actor Actor, id uuid.UUID) (*Texture, error) {
	texture, err := s.repository.GetTexture(ctx, id)
	if err != nil {
		return nil, err
	}

	// A recorded hash with no blob behind it is a self-healing condition:
	// drop the orphaned record when the policy allows it.
	has, err := s.store.Has(ctx, texture.Hash)
	if err != nil {
		return nil, err
	}
	if !has {
		if s.autoDeleteInvalid {
			if derr := s.dropInvalidTexture(ctx, texture); derr != nil {
				return nil, derr
			}
		}
		return nil, ErrTextureNotFound
	}

	if !actor.CanView(texture) {
		return nil, ErrPermissionDenied
	}
	return texture, nil
}

// dropInvalidTexture removes a texture whose blob has gone missing,
// cascading references the same way a delete does. There is no blob to
// collect.
func (s *service) dropInvalidTexture(ctx context.Context, texture *Texture) error {
	return s.repository.InTx(ctx, func(r Repository) error {
		if _, err := r.ClearEquipRefs(ctx, texture.ID, texture.Kind.Slot(), uuid.Nil); err != nil {
			return err
		}
		collectors, err := r.ListCollectors(ctx, texture.ID)
		if err != nil {
			return err
		}
		for _, userID := range collectors {
			if _, err := r.DeleteClosetEntry(ctx, userID, texture.ID); err != nil {
				return err
			}
		}
		return r.DeleteTexture(ctx, texture.ID)
	})
}

func (s *service) DownloadTexture(ctx context.Context, actor Actor, id uuid.UUID) ([]byte, error) {
	texture, err := s.GetTexture(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, texture.Hash)
}

func (s *service) SearchTextures(ctx context.Context, req SearchRequest) (*TexturePage, error) {
	query := SearchQuery{
		Keyword:  req.Keyword,
		Uploader: req.Uploader,
		Scope:    req.Actor.SearchScope(),
		ViewerID: req.Actor.ID,
		SortBy:   req.SortBy,
		Page:     req.Page,
		PageSize: SearchPageSize,
	}
	if query.SortBy == "" {
		query.SortBy = SortByTime
	}
	if query.SortBy != SortByTime && query.SortBy != SortByLikes {
		return nil, ErrInvalidInput
	}
	if query.Page < 1 {
		query.Page = 1
	}

	switch req.Filter {
	case "", "skin":
		query.Kinds = []TextureKind{KindSteve, KindAlex}
	case "cape":
		query.Kinds = []TextureKind{KindCape}
	default:
		kind := TextureKind(req.Filter)
		if !kind.Valid() {
			return nil, ErrInvalidInput
		}
		query.Kinds = []TextureKind{kind}
	}

	return s.repository.SearchTextures(ctx, query)
}

func (s *service) RenameTexture(ctx context.Context, actor Actor, id uuid.UUID, newName string) error {
	if newName == "" {
		return ErrInvalidInput
	}
	return s.mutateTexture(ctx, actor, id, func(t *Texture) error {
		t.Name = newName
		return nil
	})
}

func (s *service) SetTextureKind(ctx context.Context, actor Actor, id uuid.UUID, kind TextureKind) error {
	if !kind.Valid() {
		return ErrInvalidInput
	}
	return s.mutateTexture(ctx, actor, id, func(t *Texture) error {
		t.Kind = kind
		return nil
	})
}

// mutateTexture applies an ownership-checked in-place update to a texture.
func (s *service) mutateTexture(ctx context.Context, actor Actor, id uuid.UUID, mutate func(*Texture) error) error {
	return s.repository.InTx(ctx, func(r Repository) error {
		texture, err := r.GetTextureForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanModify(texture) {
			return ErrPermissionDenied
		}
		if err := mutate(texture); err != nil {
			return err
		}
		texture.UpdatedAt = time.Now().UTC()
		return r.UpdateTexture(ctx, texture)
	})
}

func (s *service) ToggleVisibility(ctx context.Context, actor Actor, id uuid.UUID) (*Texture, error) {
	var toggled *Texture
	err := s.repository.InTx(ctx, func(r Repository) error {
		texture, err := r.GetTextureForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanModify(texture) {
			return ErrPermissionDenied
		}

		delta := s.pricing.TransitionDelta(texture)
		owner, err := r.GetUser(ctx, texture.UploaderID)
		if err != nil {
			return err
		}
		if owner.Score+delta < 0 {
			return ErrInsufficientScore
		}

		if texture.Public {
			// Going private: other players lose their equip reference
			// and other collectors lose their closet entries. The
			// acting user keeps both; they chose the transition and may
			// keep using what they already equipped.
			if _, err := r.ClearEquipRefs(ctx, texture.ID, texture.Kind.Slot(), actor.ID); err != nil {
				return err
			}
			collectors, err := r.ListCollectors(ctx, texture.ID)
			if err != nil {
				return err
			}
			for _, userID := range collectors {
				if userID == actor.ID {
					continue
				}
				removed, err := r.DeleteClosetEntry(ctx, userID, texture.ID)
				if err != nil {
					return err
				}
				if !removed {
					continue
				}
				if s.pricing.ReturnScoreOnRemoval {
					if err := r.AdjustScore(ctx, userID, s.pricing.ClosetItemCost); err != nil {
						return err
					}
				}
				texture.Likes--
			}
		}

		if delta != 0 {
			if err := r.AdjustScore(ctx, texture.UploaderID, delta); err != nil {
				return err
			}
		}

		texture.Public = !texture.Public
		texture.UpdatedAt = time.Now().UTC()
		if err := r.UpdateTexture(ctx, texture); err != nil {
			return err
		}
		toggled = texture
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.events.VisibilityChanged(ctx, toggled)
	return toggled, nil
}

func (s *service) DeleteTexture(ctx context.Context, actor Actor, id uuid.UUID) error {
	var (
		hash    string
		lastRef bool
	)
	err := s.repository.InTx(ctx, func(r Repository) error {
		texture, err := r.GetTextureForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanModify(texture) {
			return ErrPermissionDenied
		}
		if err := s.hooks.runBeforeDelete(texture); err != nil {
			return err
		}

		// Deletion is terminal: every equip reference goes, every closet
		// entry goes, and nobody is refunded.
		if _, err := r.ClearEquipRefs(ctx, texture.ID, texture.Kind.Slot(), uuid.Nil); err != nil {
			return err
		}
		collectors, err := r.ListCollectors(ctx, texture.ID)
		if err != nil {
			return err
		}
		for _, userID := range collectors {
			if _, err := r.DeleteClosetEntry(ctx, userID, texture.ID); err != nil {
				return err
			}
		}

		refs, err := r.CountTexturesByHash(ctx, texture.Hash)
		if err != nil {
			return err
		}
		hash = texture.Hash
		lastRef = refs == 1

		return r.DeleteTexture(ctx, texture.ID)
	})
	if err != nil {
		return err
	}

	if lastRef {
		if derr := s.store.Delete(ctx, hash); derr != nil && !errors.Is(derr, ErrBlobNotFound) {
			return derr
		}
	}
	_ = s.events.TextureDeleted(ctx, id)
	return nil
}

// Closet operations

func (s *service) AddToCloset(ctx context.Context, actor Actor, textureID uuid.UUID, label string) error {
	if actor.Anonymous {
		return ErrPermissionDenied
	}
	var attached bool
	err := s.repository.InTx(ctx, func(r Repository) error {
		texture, err := r.GetTextureForUpdate(ctx, textureID)
		if err != nil {
			return err
		}
		if !actor.CanView(texture) {
			return ErrPermissionDenied
		}

		if label == "" {
			label = texture.Name
		}
		now := time.Now().UTC()
		entry := &ClosetEntry{
			UserID:    actor.ID,
			TextureID: textureID,
			Label:     label,
			AddedAt:   now,
		}

		existing, err := r.GetClosetEntry(ctx, actor.ID, textureID)
		if err != nil && !errors.Is(err, ErrClosetEntryNotFound) {
			return err
		}
		if existing != nil {
			// Attaching an already-collected texture only updates the
			// label; no charge, no like.
			entry.AddedAt = existing.AddedAt
			return r.UpsertClosetEntry(ctx, entry)
		}

		if err := r.AdjustScore(ctx, actor.ID, -s.pricing.ClosetItemCost); err != nil {
			return err
		}
		if err := r.UpsertClosetEntry(ctx, entry); err != nil {
			return err
		}
		texture.Likes++
		texture.UpdatedAt = now
		if err := r.UpdateTexture(ctx, texture); err != nil {
			return err
		}
		attached = true
		return nil
	})
	if err != nil {
		return err
	}
	if attached {
		_ = s.events.ClosetAttached(ctx, actor.ID, textureID)
	}
	return nil
}

func (s *service) RemoveFromCloset(ctx context.Context, actor Actor, textureID uuid.UUID) error {
	if actor.Anonymous {
		return ErrPermissionDenied
	}
	var removed bool
	err := s.repository.InTx(ctx, func(r Repository) error {
		var err error
		removed, err = r.DeleteClosetEntry(ctx, actor.ID, textureID)
		if err != nil {
			return err
		}
		if !removed {
			// Removing an absent entry is a no-op, so retrying a
			// partially applied detach fan-out is safe.
			return nil
		}

		if s.pricing.ReturnScoreOnRemoval {
			if err := r.AdjustScore(ctx, actor.ID, s.pricing.ClosetItemCost); err != nil {
				return err
			}
		}

		texture, err := r.GetTextureForUpdate(ctx, textureID)
		if err != nil {
			if errors.Is(err, ErrTextureNotFound) {
				return nil
			}
			return err
		}
		texture.Likes--
		texture.UpdatedAt = time.Now().UTC()
		return r.UpdateTexture(ctx, texture)
	})
	if err != nil {
		return err
	}
	if removed {
		_ = s.events.ClosetDetached(ctx, actor.ID, textureID)
	}
	return nil
}

func (s *service) RenameClosetItem(ctx context.Context, actor Actor, textureID uuid.UUID, label string) error {
	if actor.Anonymous {
		return ErrPermissionDenied
	}
	if label == "" {
		return ErrInvalidInput
	}
	return s.repository.InTx(ctx, func(r Repository) error {
		entry, err := r.GetClosetEntry(ctx, actor.ID, textureID)
		if err != nil {
			return err
		}
		entry.Label = label
		return r.UpsertClosetEntry(ctx, entry)
	})
}

func (s *service) ListCloset(ctx context.Context, actor Actor) ([]*ClosetEntry, error) {
	if actor.Anonymous {
		return nil, ErrPermissionDenied
	}
	return s.repository.ListClosetEntries(ctx, actor.ID)
}

// User operations

func (s *service) RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error) {
	if req.Nickname == "" {
		return nil, ErrInvalidInput
	}
	user := &User{
		ID:        uuid.New(),
		Nickname:  req.Nickname,
		Score:     s.initialScore,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repository.GetUser(ctx, id)
}

func (s *service) GetUserBadges(ctx context.Context, id uuid.UUID) ([]Badge, error) {
	user, err := s.repository.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hooks.UserBadges(user), nil
}

// Player operations

func (s *service) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*Player, error) {
	if req.Actor.Anonymous {
		return nil, ErrPermissionDenied
	}
	if req.Name == "" {
		return nil, ErrInvalidInput
	}
	player := &Player{
		ID:        uuid.New(),
		OwnerID:   req.Actor.ID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repository.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *service) GetPlayer(ctx context.Context, actor Actor, id uuid.UUID) (*Player, error) {
	player, err := s.repository.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && actor.ID != player.OwnerID {
		return nil, ErrPermissionDenied
	}
	return player, nil
}

func (s *service) ListPlayers(ctx context.Context, actor Actor) ([]*Player, error) {
	if actor.Anonymous {
		return nil, ErrPermissionDenied
	}
	return s.repository.ListPlayersByOwner(ctx, actor.ID)
}

func (s *service) SetEquippedTexture(ctx context.Context, actor Actor, playerID, textureID uuid.UUID) error {
	return s.repository.InTx(ctx, func(r Repository) error {
		player, err := r.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if !actor.Admin && actor.ID != player.OwnerID {
			return ErrPermissionDenied
		}

		texture, err := r.GetTexture(ctx, textureID)
		if err != nil {
			return err
		}
		if !actor.CanView(texture) {
			return ErrPermissionDenied
		}

		player.SetEquipSlot(texture.Kind.Slot(), texture.ID)
		return r.UpdatePlayer(ctx, player)
	})
}

func (s *service) ClearEquippedTexture(ctx context.Context, actor Actor, playerID uuid.UUID, slot EquipSlot) error {
	return s.repository.InTx(ctx, func(r Repository) error {
		player, err := r.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if !actor.Admin && actor.ID != player.OwnerID {
			return ErrPermissionDenied
		}
		player.SetEquipSlot(slot, uuid.Nil)
		return r.UpdatePlayer(ctx, player)
	})
}

// collectBlob removes a blob written for a transaction that failed, unless
// another texture already references the hash.
func (s *service) collectBlob(ctx context.Context, hash string) {
	refs, err := s.repository.CountTexturesByHash(ctx, hash)
	if err != nil || refs > 0 {
		return
	}
	_ = s.store.Delete(ctx, hash)
}
