package admin_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinloft/texture-library/pkg/texturelib"
	"github.com/skinloft/texture-library/pkg/texturelib/admin"
	memoryrepo "github.com/skinloft/texture-library/pkg/texturelib/repo/memory"
)

func seedLibrary(t *testing.T) (texturelib.Repository, uuid.UUID) {
	t.Helper()
	repo := memoryrepo.New()
	ctx := context.Background()

	uploader := uuid.New()
	require.NoError(t, repo.CreateUser(ctx, &texturelib.User{
		ID: uploader, Nickname: "seeder", Score: 0, CreatedAt: time.Now().UTC(),
	}))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seeds := []struct {
		kind   texturelib.TextureKind
		public bool
		units  int64
		likes  int64
	}{
		{texturelib.KindSteve, true, 2, 3},
		{texturelib.KindSteve, false, 1, 0},
		{texturelib.KindAlex, true, 4, 1},
		{texturelib.KindCape, true, 1, 5},
	}
	for i, seed := range seeds {
		require.NoError(t, repo.CreateTexture(ctx, &texturelib.Texture{
			ID:         uuid.New(),
			Name:       fmt.Sprintf("seed-%d", i),
			Kind:       seed.kind,
			Hash:       fmt.Sprintf("%064d", i),
			SizeUnits:  seed.units,
			Public:     seed.public,
			UploaderID: uploader,
			Likes:      seed.likes,
			UploadedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}
	return repo, uploader
}

func TestListAllTextures(t *testing.T) {
	repo, _ := seedLibrary(t)
	svc := admin.New(repo)
	ctx := context.Background()

	// Admin listing sees private textures too
	resp, err := svc.ListAllTextures(ctx, admin.ListTexturesRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Textures, 4)
	assert.Equal(t, int64(4), resp.TotalCount)
	assert.False(t, resp.HasMore)

	resp, err = svc.ListAllTextures(ctx, admin.ListTexturesRequest{
		Filters: admin.NewTextureFilters(admin.WithKind(texturelib.KindSteve)),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Textures, 2)

	resp, err = svc.ListAllTextures(ctx, admin.ListTexturesRequest{
		Filters: admin.NewTextureFilters(admin.WithPagination(1, 3)),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Textures, 3)
	assert.True(t, resp.HasMore)
}

func TestCountTextures(t *testing.T) {
	repo, uploader := seedLibrary(t)
	svc := admin.New(repo)
	ctx := context.Background()

	resp, err := svc.CountTextures(ctx, admin.CountRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Count)

	resp, err = svc.CountTextures(ctx, admin.CountRequest{
		Filters: admin.NewTextureFilters(admin.WithUploader(uploader), admin.WithKind(texturelib.KindCape)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Count)

	resp, err = svc.CountTextures(ctx, admin.CountRequest{
		Filters: admin.NewTextureFilters(admin.WithUploader(uuid.New())),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Count)
}

func TestGetStatistics(t *testing.T) {
	repo, _ := seedLibrary(t)
	svc := admin.New(repo)

	resp, err := svc.GetStatistics(context.Background(), admin.StatisticsRequest{
		Options: admin.DefaultStatisticsOptions(),
	})
	require.NoError(t, err)

	stats := resp.Statistics
	assert.Equal(t, int64(4), stats.TotalCount)
	assert.Equal(t, int64(8), stats.TotalStorageUnits)
	assert.Equal(t, int64(9), stats.TotalLikes)
	assert.Equal(t, int64(2), stats.ByKind["steve"])
	assert.Equal(t, int64(1), stats.ByKind["alex"])
	assert.Equal(t, int64(1), stats.ByKind["cape"])
	assert.Equal(t, int64(3), stats.ByVisibility["public"])
	assert.Equal(t, int64(1), stats.ByVisibility["private"])

	require.NotNil(t, stats.OldestUpload)
	require.NotNil(t, stats.NewestUpload)
	assert.True(t, stats.OldestUpload.Before(*stats.NewestUpload))
	assert.False(t, resp.ComputedAt.IsZero())
}

func TestGetStatistics_EmptyLibrary(t *testing.T) {
	svc := admin.New(memoryrepo.New())

	resp, err := svc.GetStatistics(context.Background(), admin.StatisticsRequest{
		Options: admin.DefaultStatisticsOptions(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Statistics.TotalCount)
	assert.Nil(t, resp.Statistics.OldestUpload)
}
