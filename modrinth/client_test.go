package modrinth

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/rinth/base62"
)

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name     string
		baseURL  string
		expected string
		wantErr  bool
	}{
		{
			name:     "default",
			baseURL:  "",
			expected: DefaultBaseURL,
		},
		{
			name:     "adds trailing slash",
			baseURL:  "http://localhost:8080/v2",
			expected: "http://localhost:8080/v2/",
		},
		{
			name:     "strips query and fragment",
			baseURL:  "https://staging-api.modrinth.com/v2/?x=1#top",
			expected: "https://staging-api.modrinth.com/v2/",
		},
		{
			name:    "relative",
			baseURL: "api.modrinth.com/v2",
			wantErr: true,
		},
		{
			name:    "wrong scheme",
			baseURL: "ftp://api.modrinth.com/v2",
			wantErr: true,
		},
		{
			name:    "unparsable",
			baseURL: "http://[::1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, client.BaseURL())
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient("", logger)
		require.NoError(t, err)
		assert.Equal(t, defaultTimeout, client.exec.httpClient.Timeout)
		assert.Equal(t, DefaultUserAgent, client.exec.header.Get("User-Agent"))
		assert.Empty(t, client.exec.header.Get("Authorization"))
		assert.False(t, client.exec.strict)
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.exec.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("", logger, WithHTTPClient(customClient), WithTimeout(time.Second))
		require.NoError(t, err)
		assert.Same(t, customClient, client.exec.httpClient)
		assert.Equal(t, 10*time.Second, customClient.Timeout)
	})

	t.Run("with token", func(t *testing.T) {
		client, err := NewClient("", logger, WithToken("mrp_abc"))
		require.NoError(t, err)
		assert.Equal(t, "mrp_abc", client.exec.header.Get("Authorization"))
	})

	t.Run("with strict decoding", func(t *testing.T) {
		client, err := NewClient("", logger, WithStrictDecoding())
		require.NoError(t, err)
		assert.True(t, client.exec.strict)
	})
}

func TestEndpoints(t *testing.T) {
	const projectJSON = `{
		"id": "AANobbMI",
		"slug": "sodium",
		"project_type": "mod",
		"team": "4reLOAKe",
		"title": "Sodium",
		"description": "A rendering engine",
		"body": "",
		"published": "2021-01-03T00:53:34.185936Z",
		"updated": "2024-05-01T10:00:00Z",
		"status": "approved",
		"moderator_message": null,
		"license": {"id": "LicenseRef-Polyform-Shield-1.0.0", "name": "", "url": null},
		"client_side": "required",
		"server_side": "unsupported",
		"downloads": 50000000,
		"followers": 20000,
		"categories": ["optimization"],
		"versions": ["yaoBL9D9", "b4hTi3mo"],
		"icon_url": null,
		"donation_urls": [],
		"gallery": []
	}`

	const versionJSON = `{
		"id": "yaoBL9D9",
		"project_id": "AANobbMI",
		"author_id": "DzLrfrbK",
		"featured": false,
		"name": "Sodium 0.5.8",
		"version_number": "mc1.20.4-0.5.8",
		"changelog": null,
		"date_published": "2024-02-01T00:00:00Z",
		"downloads": 100,
		"version_type": "release",
		"files": [{"hashes": {"sha512": "aa", "sha1": "bb"}, "url": "https://cdn.modrinth.com/x.jar", "filename": "x.jar", "primary": true, "size": 1024}],
		"dependencies": [{"version_id": null, "project_id": "P7dR8mSH", "file_name": null, "dependency_type": "required"}],
		"game_versions": ["1.20.4"],
		"loaders": ["fabric"]
	}`

	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/v2/project/sodium", "/v2/project/AANobbMI":
			_, _ = w.Write([]byte(projectJSON))
		case "/v2/project/sodium/version":
			assert.Equal(t, `["fabric"]`, r.URL.Query().Get("loaders"))
			_, _ = w.Write([]byte("[" + versionJSON + "]"))
		case "/v2/version/yaoBL9D9":
			_, _ = w.Write([]byte(versionJSON))
		case "/v2/version_file/aa":
			assert.Equal(t, "sha512", r.URL.Query().Get("algorithm"))
			_, _ = w.Write([]byte(versionJSON))
		case "/v2/version_file/bb":
			assert.Equal(t, "sha1", r.URL.Query().Get("algorithm"))
			_, _ = w.Write([]byte(versionJSON))
		case "/v2/search":
			assert.Equal(t, `"sodium"`, r.URL.Query().Get("query"))
			_, _ = w.Write([]byte(`{"hits":[],"offset":0,"limit":10,"total_hits":0}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()
	sodium := base62.MustParseID("AANobbMI")

	t.Run("GetProject by slug", func(t *testing.T) {
		resp, err := client.GetProject(ctx, ProjectSlug("sodium"))
		require.NoError(t, err)

		p := resp.Value
		assert.Equal(t, sodium, p.ID)
		assert.Equal(t, "Sodium", p.Title)
		assert.Equal(t, ProjectTypeMod, p.ProjectType)
		assert.Equal(t, SideUnsupported, p.ServerSide)
		assert.Nil(t, p.ModeratorMessage)
		assert.Equal(t, []base62.ID{base62.MustParseID("yaoBL9D9"), base62.MustParseID("b4hTi3mo")}, p.Versions)
		assert.Equal(t, 2024, p.Updated.Year())
	})

	t.Run("GetProject by id", func(t *testing.T) {
		resp, err := client.GetProject(ctx, ProjectID(sodium))
		require.NoError(t, err)
		assert.Equal(t, "sodium", resp.Value.Slug)
	})

	t.Run("ListProjectVersions", func(t *testing.T) {
		resp, err := client.ListProjectVersions(ctx, ProjectSlug("sodium"), VersionFilter{Loaders: []string{"fabric"}})
		require.NoError(t, err)
		require.Len(t, resp.Value, 1)

		v := resp.Value[0]
		assert.Equal(t, "mc1.20.4-0.5.8", v.VersionNumber)
		assert.Equal(t, VersionTypeRelease, v.VersionType)
		require.Len(t, v.Dependencies, 1)
		assert.Nil(t, v.Dependencies[0].VersionID)
		require.NotNil(t, v.Dependencies[0].ProjectID)
		assert.Equal(t, "P7dR8mSH", v.Dependencies[0].ProjectID.String())
		assert.Equal(t, "x.jar", v.PrimaryFile().Filename)
	})

	t.Run("GetVersion", func(t *testing.T) {
		resp, err := client.GetVersion(ctx, base62.MustParseID("yaoBL9D9"))
		require.NoError(t, err)
		assert.Equal(t, sodium, resp.Value.ProjectID)
	})

	t.Run("GetVersionByHash prefers sha512", func(t *testing.T) {
		_, err := client.GetVersionByHash(ctx, FileHashes{SHA512: "aa", SHA1: "bb"})
		require.NoError(t, err)
	})

	t.Run("GetVersionByHash sha1", func(t *testing.T) {
		_, err := client.GetVersionByHash(ctx, SHA1("bb"))
		require.NoError(t, err)
	})

	t.Run("SearchProjects", func(t *testing.T) {
		resp, err := client.SearchProjects(ctx, SearchParams{Query: "sodium"})
		require.NoError(t, err)
		assert.Empty(t, resp.Value.Hits)
		assert.Equal(t, 10, resp.Value.Limit)
	})

	t.Run("input errors make no request", func(t *testing.T) {
		before := requests.Load()

		_, err := client.GetVersionByHash(ctx, FileHashes{})
		assert.ErrorIs(t, err, ErrInput)
		var inputErr *InputError
		assert.ErrorAs(t, err, &inputErr)

		_, err = client.GetProject(ctx, ProjectRef{})
		assert.ErrorIs(t, err, ErrInput)

		_, err = client.GetProject(ctx, ProjectSlug("a/b"))
		assert.ErrorIs(t, err, ErrInput)

		_, err = client.ListProjectVersions(ctx, ProjectSlug(""), VersionFilter{})
		assert.ErrorIs(t, err, ErrInput)

		assert.Equal(t, before, requests.Load())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetProject(ctx, ProjectSlug("nope"))

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.True(t, statusErr.IsNotFound())
	})
}

func TestSearchResultDecoding(t *testing.T) {
	const body = `{"hits":[{
		"project_id": "AANobbMI",
		"project_type": "minigame",
		"slug": "sodium",
		"author": "jellysquid3",
		"title": "Sodium",
		"description": "",
		"categories": ["optimization", "Fabric"],
		"versions": ["1.20.4"],
		"downloads": -1,
		"follows": 10,
		"icon_url": "",
		"date_created": "2021-01-03T00:53:34.185936Z",
		"date_modified": "2024-05-01T10:00:00Z",
		"license": "LicenseRef-Polyform-Shield-1.0.0",
		"client_side": "required",
		"server_side": "sometimes",
		"gallery": []
	}],"offset":0,"limit":10,"total_hits":1}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	resp, err := client.SearchProjects(context.Background(), SearchParams{})
	require.NoError(t, err)
	require.Len(t, resp.Value.Hits, 1)

	hit := resp.Value.Hits[0]
	assert.Equal(t, "AANobbMI", hit.ProjectID.String())
	assert.Equal(t, int64(-1), hit.Downloads)
	assert.False(t, hit.ProjectType.IsKnown())
	assert.Equal(t, ProjectType("minigame"), hit.ProjectType)
	assert.True(t, hit.ClientSide.IsKnown())
	assert.False(t, hit.ServerSide.IsKnown())
	assert.True(t, hit.HasCategory("fabric"))
	assert.False(t, hit.HasCategory("forge"))
}

func TestProjectRef(t *testing.T) {
	assert.Equal(t, "sodium", ProjectSlug("sodium").String())
	assert.Equal(t, "AANobbMI", ProjectID(base62.MustParseID("AANobbMI")).String())
	assert.Equal(t, "0", ProjectID(0).String())
}
