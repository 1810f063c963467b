package admin

import (
	"context"
	"time"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

// adminService implements the AdminService interface
type adminService struct {
	repo texturelib.Repository
}

var _ AdminService = (*adminService)(nil)

// ListAllTextures returns a paginated list of textures with optional filtering
func (s *adminService) ListAllTextures(ctx context.Context, req ListTexturesRequest) (*ListTexturesResponse, error) {
	page, err := s.repo.SearchTextures(ctx, s.toSearchQuery(req.Filters))
	if err != nil {
		return nil, err
	}

	return &ListTexturesResponse{
		Textures:   page.Items,
		TotalCount: page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		HasMore:    page.Page < page.TotalPages,
	}, nil
}

// CountTextures returns the count of textures matching the given filters
func (s *adminService) CountTextures(ctx context.Context, req CountRequest) (*CountResponse, error) {
	query := s.toSearchQuery(req.Filters)
	query.Page = 1
	query.PageSize = 1

	page, err := s.repo.SearchTextures(ctx, query)
	if err != nil {
		return nil, err
	}
	return &CountResponse{Count: page.Total}, nil
}

// GetStatistics returns aggregated statistics about the library. The
// breakdowns are folded from the full result set, page by page, so the
// cost is proportional to the library size.
func (s *adminService) GetStatistics(ctx context.Context, req StatisticsRequest) (*StatisticsResponse, error) {
	stats := TextureStatistics{}
	if req.Options.IncludeKindBreakdown {
		stats.ByKind = make(map[string]int64)
	}
	if req.Options.IncludeVisibilityBreakdown {
		stats.ByVisibility = make(map[string]int64)
	}

	query := s.toSearchQuery(req.Filters)
	query.PageSize = statisticsPageSize

	for query.Page = 1; ; query.Page++ {
		page, err := s.repo.SearchTextures(ctx, query)
		if err != nil {
			return nil, err
		}

		stats.TotalCount = page.Total
		for _, texture := range page.Items {
			s.fold(&stats, req.Options, texture)
		}

		if query.Page >= page.TotalPages {
			break
		}
	}

	return &StatisticsResponse{
		Statistics: stats,
		ComputedAt: time.Now(),
	}, nil
}

const statisticsPageSize = 500

func (s *adminService) fold(stats *TextureStatistics, opts StatisticsOptions, texture *texturelib.Texture) {
	stats.TotalStorageUnits += texture.SizeUnits
	stats.TotalLikes += texture.Likes

	if opts.IncludeKindBreakdown {
		stats.ByKind[string(texture.Kind)]++
	}
	if opts.IncludeVisibilityBreakdown {
		if texture.Public {
			stats.ByVisibility["public"]++
		} else {
			stats.ByVisibility["private"]++
		}
	}
	if opts.IncludeTimeRange {
		uploaded := texture.UploadedAt
		if stats.OldestUpload == nil || uploaded.Before(*stats.OldestUpload) {
			t := uploaded
			stats.OldestUpload = &t
		}
		if stats.NewestUpload == nil || uploaded.After(*stats.NewestUpload) {
			t := uploaded
			stats.NewestUpload = &t
		}
	}
}

// toSearchQuery converts admin filters to a repository search query with
// the admin visibility scope.
func (s *adminService) toSearchQuery(filters TextureFilters) texturelib.SearchQuery {
	query := texturelib.SearchQuery{
		Keyword:  filters.Keyword,
		Uploader: filters.Uploader,
		Scope:    texturelib.ScopeAll,
		SortBy:   texturelib.SortByTime,
	}
	if filters.Kind != nil {
		query.Kinds = []texturelib.TextureKind{*filters.Kind}
	}
	if filters.SortBy != nil {
		query.SortBy = *filters.SortBy
	}
	if filters.Page != nil {
		query.Page = *filters.Page
	}
	if filters.PageSize != nil {
		query.PageSize = *filters.PageSize
	}
	return query
}
