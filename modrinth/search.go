package modrinth

import (
	"fmt"
	"strings"
	"time"

	"github.com/s0up4200/rinth/base62"
)

// SearchIndex selects the sort order of search results.
type SearchIndex string

const (
	SearchIndexRelevance SearchIndex = "relevance"
	SearchIndexDownloads SearchIndex = "downloads"
	SearchIndexFollows   SearchIndex = "follows"
	SearchIndexNewest    SearchIndex = "newest"
	SearchIndexUpdated   SearchIndex = "updated"
)

// IsKnown reports whether the index is one the API documents.
func (i SearchIndex) IsKnown() bool {
	switch i {
	case SearchIndexRelevance, SearchIndexDownloads, SearchIndexFollows, SearchIndexNewest, SearchIndexUpdated:
		return true
	}
	return false
}

// Facet is a single search predicate. The server ORs the facets of one group
// and ANDs the groups, so [[a, b], [c]] means (a or b) and c.
type Facet struct {
	Name  string
	Value string
}

// Category matches projects in a category or loader.
func Category(value string) Facet { return Facet{Name: "categories", Value: value} }

// GameVersion matches projects supporting a game version.
func GameVersion(value string) Facet { return Facet{Name: "versions", Value: value} }

// License matches projects by license id.
func License(value string) Facet { return Facet{Name: "license", Value: value} }

// OfProjectType matches projects of one type.
func OfProjectType(value ProjectType) Facet {
	return Facet{Name: "project_type", Value: string(value)}
}

// CustomFacet builds a facet on any indexed attribute.
func CustomFacet(name, value string) Facet { return Facet{Name: name, Value: value} }

// String renders the facet as name:'value'.
func (f Facet) String() string {
	return fmt.Sprintf("%s:'%s'", f.Name, f.Value)
}

// MarshalText implements encoding.TextMarshaler.
func (f Facet) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// SearchParams are the parameters of the search endpoint. Zero values are
// not sent, so a zero Limit leaves the page size to the server. Filters is a
// raw filter expression such as "downloads > 1000".
type SearchParams struct {
	Query   string      `json:"query,omitempty"`
	Facets  [][]Facet   `json:"facets,omitempty"`
	Index   SearchIndex `json:"index,omitempty"`
	Offset  int         `json:"offset,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Filters string      `json:"filters,omitempty"`
}

// Page is one page of a paginated endpoint.
type Page[T any] struct {
	Hits      []T `json:"hits"`
	Offset    int `json:"offset"`
	Limit     int `json:"limit"`
	TotalHits int `json:"total_hits"`
}

// SearchResult is one project hit of a search.
type SearchResult struct {
	ProjectID     base62.ID   `json:"project_id"`
	ProjectType   ProjectType `json:"project_type"`
	Slug          string      `json:"slug,omitempty"`
	Author        string      `json:"author"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Categories    []string    `json:"categories"`
	Versions      []string    `json:"versions"`
	LatestVersion string      `json:"latest_version,omitempty"`
	Downloads     int64       `json:"downloads"`
	Follows       int64       `json:"follows"`
	IconURL       string      `json:"icon_url"`
	DateCreated   time.Time   `json:"date_created"`
	DateModified  time.Time   `json:"date_modified"`
	License       string      `json:"license"`
	ClientSide    SideSupport `json:"client_side"`
	ServerSide    SideSupport `json:"server_side"`
	Gallery       []string    `json:"gallery"`
}

// HasCategory checks if the hit lists a category, ignoring case
func (r *SearchResult) HasCategory(category string) bool {
	for _, c := range r.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}
