package modrinth

import (
	"context"

	"github.com/s0up4200/rinth/base62"
)

// API defines the interface for Modrinth operations
type API interface {
	// SearchProjects fetches one page of search results
	SearchProjects(ctx context.Context, params SearchParams) (*Response[Page[SearchResult]], error)

	// SearchProjectsIter walks every hit of a search
	SearchProjectsIter(params SearchParams) *Paginator[SearchResult]

	GetProject(ctx context.Context, ref ProjectRef) (*Response[Project], error)
	ListProjectVersions(ctx context.Context, ref ProjectRef, filter VersionFilter) (*Response[[]Version], error)
	GetVersion(ctx context.Context, id base62.ID) (*Response[Version], error)

	// GetVersionByHash looks up the version a file belongs to
	GetVersionByHash(ctx context.Context, hashes FileHashes) (*Response[Version], error)
}

var _ API = (*Client)(nil)
