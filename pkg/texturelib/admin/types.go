package admin

import (
	"time"

	"github.com/google/uuid"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

// TextureStatistics provides aggregated statistics about the texture library
type TextureStatistics struct {
	TotalCount        int64            `json:"total_count"`
	ByKind            map[string]int64 `json:"by_kind,omitempty"`
	ByVisibility      map[string]int64 `json:"by_visibility,omitempty"`
	TotalStorageUnits int64            `json:"total_storage_units"`
	TotalLikes        int64            `json:"total_likes"`
	OldestUpload      *time.Time       `json:"oldest_upload,omitempty"`
	NewestUpload      *time.Time       `json:"newest_upload,omitempty"`
}

// TextureFilters defines filtering options for admin operations
type TextureFilters struct {
	Uploader *uuid.UUID              `json:"uploader,omitempty"`
	Kind     *texturelib.TextureKind `json:"kind,omitempty"`
	Keyword  string                  `json:"keyword,omitempty"`

	// Pagination
	Page     *int `json:"page,omitempty"`
	PageSize *int `json:"page_size,omitempty"`

	// Sorting, one of the sort keys the search operation accepts
	SortBy *string `json:"sort_by,omitempty"`
}

// StatisticsOptions defines what statistics to compute
type StatisticsOptions struct {
	IncludeKindBreakdown       bool `json:"include_kind_breakdown"`
	IncludeVisibilityBreakdown bool `json:"include_visibility_breakdown"`
	IncludeTimeRange           bool `json:"include_time_range"`
}

// DefaultStatisticsOptions returns statistics options with all breakdowns enabled
func DefaultStatisticsOptions() StatisticsOptions {
	return StatisticsOptions{
		IncludeKindBreakdown:       true,
		IncludeVisibilityBreakdown: true,
		IncludeTimeRange:           true,
	}
}
