package admin

import (
	"context"

	"github.com/skinloft/texture-library/pkg/texturelib"
)

// AdminService defines the interface for administrative texture operations.
// These operations bypass the normal visibility rules and are intended for
// operational, monitoring, and moderation use cases.
//
// IMPORTANT: Endpoints using this service should be protected with
// appropriate authentication and authorization middleware to ensure only
// authorized administrators can access these operations.
type AdminService interface {
	// ListAllTextures returns a paginated list of textures with optional
	// filtering. Unlike the regular search operation, this sees private
	// textures regardless of who uploaded them.
	ListAllTextures(ctx context.Context, req ListTexturesRequest) (*ListTexturesResponse, error)

	// CountTextures returns the count of textures matching the given filters.
	CountTextures(ctx context.Context, req CountRequest) (*CountResponse, error)

	// GetStatistics returns aggregated statistics about the library:
	// breakdown by kind and visibility, storage totals, and time range.
	GetStatistics(ctx context.Context, req StatisticsRequest) (*StatisticsResponse, error)
}

// New creates a new AdminService instance that uses the provided repository.
func New(repo texturelib.Repository) AdminService {
	return &adminService{
		repo: repo,
	}
}
