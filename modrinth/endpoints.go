package modrinth

import (
	"context"
	"net/url"
	"strings"

	"github.com/s0up4200/rinth/base62"
)

// ProjectRef identifies a project either by id or by slug. Build one with
// ProjectID or ProjectSlug; the zero value is invalid.
type ProjectRef struct {
	id   base62.ID
	slug string
	byID bool
}

// ProjectID refers to a project by its id.
func ProjectID(id base62.ID) ProjectRef {
	return ProjectRef{id: id, byID: true}
}

// ProjectSlug refers to a project by its slug.
func ProjectSlug(slug string) ProjectRef {
	return ProjectRef{slug: slug}
}

// String returns the path form of the reference.
func (r ProjectRef) String() string {
	if r.byID {
		return r.id.String()
	}
	return r.slug
}

func (r ProjectRef) validate() error {
	if r.byID {
		return nil
	}
	if r.slug == "" {
		return inputErrorf("empty project reference")
	}
	if strings.ContainsAny(r.slug, "/?#") {
		return inputErrorf("project slug %q contains reserved characters", r.slug)
	}
	return nil
}

// VersionFilter narrows the versions listed for a project. Empty fields are
// not sent.
type VersionFilter struct {
	Loaders      []string `json:"loaders,omitempty"`
	GameVersions []string `json:"game_versions,omitempty"`
	Featured     *bool    `json:"featured,omitempty"`
}

// SearchProjects fetches a single page of search results.
func (c *Client) SearchProjects(ctx context.Context, params SearchParams) (*Response[Page[SearchResult]], error) {
	return Get[Page[SearchResult]](ctx, c.exec, c.endpoint(EncodeQuery(params), "search"), nil)
}

// SearchProjectsIter returns a paginator over every hit of the search.
func (c *Client) SearchProjectsIter(params SearchParams) *Paginator[SearchResult] {
	return NewPaginator[SearchResult](c.exec, c.endpoint("", "search"), params, c.logger)
}

// GetProject fetches a project by id or slug.
func (c *Client) GetProject(ctx context.Context, ref ProjectRef) (*Response[Project], error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	return Get[Project](ctx, c.exec, c.endpoint("", "project", ref.String()), nil)
}

// ListProjectVersions fetches the versions of a project, newest first.
func (c *Client) ListProjectVersions(ctx context.Context, ref ProjectRef, filter VersionFilter) (*Response[[]Version], error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	return Get[[]Version](ctx, c.exec, c.endpoint(EncodeQuery(filter), "project", ref.String(), "version"), nil)
}

// GetVersion fetches a version by id.
func (c *Client) GetVersion(ctx context.Context, id base62.ID) (*Response[Version], error) {
	return Get[Version](ctx, c.exec, c.endpoint("", "version", id.String()), nil)
}

// GetVersionByHash fetches the version a file belongs to. The sha512 digest
// is used when set, otherwise the sha1 digest. With neither set an
// *InputError is returned and no request is made.
func (c *Client) GetVersionByHash(ctx context.Context, hashes FileHashes) (*Response[Version], error) {
	algorithm, hash := "sha512", hashes.SHA512
	if hash == "" {
		algorithm, hash = "sha1", hashes.SHA1
	}
	if hash == "" {
		return nil, inputErrorf("version lookup by hash needs a sha512 or sha1 digest")
	}
	if strings.ContainsAny(hash, "/?#") {
		return nil, inputErrorf("%s digest %q contains reserved characters", algorithm, hash)
	}

	query := url.Values{"algorithm": {algorithm}}.Encode()
	return Get[Version](ctx, c.exec, c.endpoint(query, "version_file", hash), nil)
}
