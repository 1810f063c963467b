package admin

import (
	"time"

	"github.com/google/uuid"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

// ListTexturesRequest contains parameters for admin texture listing
type ListTexturesRequest struct {
	Filters TextureFilters `json:"filters"`
}

// ListTexturesResponse contains the paginated list of textures
type ListTexturesResponse struct {
	Textures   []*texturelib.Texture `json:"textures"`
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	HasMore    bool                  `json:"has_more"`
}

// CountRequest contains parameters for counting textures
type CountRequest struct {
	Filters TextureFilters `json:"filters"`
}

// CountResponse contains the count result
type CountResponse struct {
	Count int64 `json:"count"`
}

// StatisticsRequest contains parameters for retrieving library statistics
type StatisticsRequest struct {
	Filters TextureFilters    `json:"filters"`
	Options StatisticsOptions `json:"options"`
}

// StatisticsResponse contains the statistics result
type StatisticsResponse struct {
	Statistics TextureStatistics `json:"statistics"`
	ComputedAt time.Time         `json:"computed_at"`
}

// ListTexturesOption provides functional options for listing textures
type ListTexturesOption func(*TextureFilters)

// WithUploader filters by the uploading user
func WithUploader(uploaderID uuid.UUID) ListTexturesOption {
	return func(f *TextureFilters) {
		f.Uploader = &uploaderID
	}
}

// WithKind filters by texture kind
func WithKind(kind texturelib.TextureKind) ListTexturesOption {
	return func(f *TextureFilters) {
		f.Kind = &kind
	}
}

// WithKeyword filters by a case-insensitive name substring
func WithKeyword(keyword string) ListTexturesOption {
	return func(f *TextureFilters) {
		f.Keyword = keyword
	}
}

// WithPagination sets the page and page size
func WithPagination(page, pageSize int) ListTexturesOption {
	return func(f *TextureFilters) {
		f.Page = &page
		f.PageSize = &pageSize
	}
}

// WithSortBy sets the sort key
func WithSortBy(sortBy string) ListTexturesOption {
	return func(f *TextureFilters) {
		f.SortBy = &sortBy
	}
}

// NewTextureFilters builds filters from the given options
func NewTextureFilters(opts ...ListTexturesOption) TextureFilters {
	var filters TextureFilters
	for _, opt := range opts {
		opt(&filters)
	}
	return filters
}
