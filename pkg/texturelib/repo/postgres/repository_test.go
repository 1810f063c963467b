package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinloft/texture-library/pkg/texturelib"
	"golang.org/x/exp/slog"
)

func newTestUser(t *testing.T, repo texturelib.Repository, score int64) *texturelib.User {
	t.Helper()
	user := &texturelib.User{
		ID:        uuid.New(),
		Nickname:  "tester",
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func newTestTexture(t *testing.T, repo texturelib.Repository, uploader uuid.UUID, public bool) *texturelib.Texture {
	t.Helper()
	now := time.Now().UTC()
	texture := &texturelib.Texture{
		ID:         uuid.New(),
		Name:       "Test Texture",
		Kind:       texturelib.KindSteve,
		Hash:       "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		SizeUnits:  4,
		Public:     public,
		UploaderID: uploader,
		Likes:      1,
		UploadedAt: now,
		UpdatedAt:  now,
	}
	require.NoError(t, repo.CreateTexture(context.Background(), texture))
	return texture
}

func TestPostgresRepository_CreateAndGetTexture(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewWithPool(db.Pool)
		ctx := context.Background()

		user := newTestUser(t, repo, 100)
		texture := newTestTexture(t, repo, user.ID, true)

		retrieved, err := repo.GetTexture(ctx, texture.ID)
		require.NoError(t, err)
		assert.Equal(t, texture.ID, retrieved.ID)
		assert.Equal(t, texture.Name, retrieved.Name)
		assert.Equal(t, texture.Kind, retrieved.Kind)
		assert.Equal(t, texture.Hash, retrieved.Hash)
		assert.Equal(t, texture.SizeUnits, retrieved.SizeUnits)
		assert.Equal(t, texture.UploaderID, retrieved.UploaderID)
		slog.Info("retrieved texture", "id", retrieved.ID)
	})
}

func TestPostgresRepository_GetTexture_NotFound(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewWithPool(db.Pool)

		_, err := repo.GetTexture(context.Background(), uuid.New())
		assert.ErrorIs(t, err, texturelib.ErrTextureNotFound)
	})
}

func TestPostgresRepository_AdjustScore(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewWithPool(db.Pool)
		ctx := context.Background()

		user := newTestUser(t, repo, 50)

		require.NoError(t, repo.AdjustScore(ctx, user.ID, -30))

		got, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), got.Score)

		// Debit past zero is rejected without changing the balance
		err = repo.AdjustScore(ctx, user.ID, -21)
		assert.ErrorIs(t, err, texturelib.ErrInsufficientScore)

		got, err = repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), got.Score)

		err = repo.AdjustScore(ctx, uuid.New(), -1)
		assert.ErrorIs(t, err, texturelib.ErrUserNotFound)
	})
}

func TestPostgresRepository_UpsertClosetEntry(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewWithPool(db.Pool)
		ctx := context.Background()

		user := newTestUser(t, repo, 100)
		texture := newTestTexture(t, repo, user.ID, true)

		entry := &texturelib.ClosetEntry{
			UserID:    user.ID,
			TextureID: texture.ID,
			Label:     "first",
			AddedAt:   time.Now().UTC(),
		}
		require.NoError(t, repo.UpsertClosetEntry(ctx, entry))

		// Second upsert only relabels
		entry.Label = "second"
		require.NoError(t, repo.UpsertClosetEntry(ctx, entry))

		got, err := repo.GetClosetEntry(ctx, user.ID, texture.ID)
		require.NoError(t, err)
		assert.Equal(t, "second", got.Label)

		count, err := repo.CountClosetEntries(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		collectors, err := repo.ListCollectors(ctx, texture.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{user.ID}, collectors)
	})
}

func TestPostgresRepository_ClearEquipRefs(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewWithPool(db.Pool)
		ctx := context.Background()

		owner := newTestUser(t, repo, 100)
		other := newTestUser(t, repo, 100)
		texture := newTestTexture(t, repo, owner.ID, true)

		mkPlayer := func(ownerID uuid.UUID, name string) *texturelib.Player {
			p := &texturelib.Player{
				ID:            uuid.New(),
				OwnerID:       ownerID,
				Name:          name,
				SkinTextureID: texture.ID,
				CreatedAt:     time.Now().UTC(),
			}
			require.NoError(t, repo.CreatePlayer(ctx, p))
			return p
		}
		ownPlayer := mkPlayer(owner.ID, "own_player")
		otherPlayer := mkPlayer(other.ID, "other_player")

		cleared, err := repo.ClearEquipRefs(ctx, texture.ID, texturelib.SlotSkin, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cleared)

		got, err := repo.GetPlayer(ctx, ownPlayer.ID)
		require.NoError(t, err)
		assert.Equal(t, texture.ID, got.SkinTextureID)

		got, err = repo.GetPlayer(ctx, otherPlayer.ID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, got.SkinTextureID)
	})
}

func TestPostgresRepository_InTxRollback(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewWithPool(db.Pool)
		ctx := context.Background()

		user := newTestUser(t, repo, 100)

		boom := errors.New("boom")
		err := repo.InTx(ctx, func(tx texturelib.Repository) error {
			if err := tx.AdjustScore(ctx, user.ID, -40); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), got.Score)
	})
}
