package modrinth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHit struct {
	Title string `json:"title"`
}

type pageRequest struct {
	Offset int
	Limit  int
}

// searchBackend serves titles h0..h(n-1) from /search.
type searchBackend struct {
	total   int
	items   int
	maxPage int
	failAt  int

	mu       sync.Mutex
	requests []pageRequest
}

func newSearchBackend(total int) *searchBackend {
	return &searchBackend{total: total, items: total, failAt: -1}
}

func (b *searchBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit := 10
	if l := q.Get("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}

	b.mu.Lock()
	n := len(b.requests)
	b.requests = append(b.requests, pageRequest{Offset: offset, Limit: limit})
	b.mu.Unlock()

	if n == b.failAt {
		http.Error(w, `{"error":"unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	size := limit
	if b.maxPage > 0 && size > b.maxPage {
		size = b.maxPage
	}
	hits := []testHit{}
	for i := offset; i < offset+size && i < b.items; i++ {
		hits = append(hits, testHit{Title: fmt.Sprintf("h%d", i)})
	}

	_ = json.NewEncoder(w).Encode(Page[testHit]{
		Hits:      hits,
		Offset:    offset,
		Limit:     limit,
		TotalHits: b.total,
	})
}

func (b *searchBackend) Requests() []pageRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]pageRequest(nil), b.requests...)
}

func newTestPaginator(t *testing.T, b *searchBackend, params SearchParams) *Paginator[testHit] {
	t.Helper()

	server := httptest.NewServer(b)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)

	return NewPaginator[testHit](client.Executor(), client.endpoint("", "search"), params, zerolog.Nop())
}

func drain(t *testing.T, p *Paginator[testHit]) []string {
	t.Helper()

	var titles []string
	for {
		hit, err := p.Next(context.Background())
		if err == Done {
			return titles
		}
		require.NoError(t, err)
		titles = append(titles, hit.Title)
	}
}

func TestPaginator(t *testing.T) {
	t.Run("zero total stops after probe", func(t *testing.T) {
		b := newSearchBackend(0)
		p := newTestPaginator(t, b, SearchParams{Limit: 3})

		assert.Empty(t, drain(t, p))
		_, err := p.Next(context.Background())
		assert.ErrorIs(t, err, Done)

		assert.Equal(t, []pageRequest{{Offset: 0, Limit: 1}}, b.Requests())
	})

	t.Run("probe then pages", func(t *testing.T) {
		b := newSearchBackend(7)
		p := newTestPaginator(t, b, SearchParams{Limit: 3})

		_, _, known := p.SizeHint()
		assert.False(t, known)

		first, err := p.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "h0", first.Title)
		assert.Equal(t, 1, p.Offset())

		lower, upper, known := p.SizeHint()
		assert.True(t, known)
		assert.Equal(t, 0, lower)
		assert.Equal(t, 7, upper)

		rest := drain(t, p)
		assert.Equal(t, []string{"h1", "h2", "h3", "h4", "h5", "h6"}, rest)
		assert.Equal(t, 7, p.Offset())

		assert.Equal(t, []pageRequest{
			{Offset: 0, Limit: 1},
			{Offset: 1, Limit: 3},
			{Offset: 4, Limit: 3},
		}, b.Requests())
	})

	t.Run("error is yielded once", func(t *testing.T) {
		b := newSearchBackend(7)
		b.failAt = 1
		p := newTestPaginator(t, b, SearchParams{Limit: 3})

		hit, err := p.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "h0", hit.Title)

		_, err = p.Next(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStatusNotOK)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.Contains(t, string(statusErr.Body), "unavailable")

		for range 3 {
			_, err = p.Next(context.Background())
			assert.ErrorIs(t, err, Done)
		}
		assert.Len(t, b.Requests(), 2)

		// The total came from the successful probe and stays known.
		_, upper, known := p.SizeHint()
		assert.True(t, known)
		assert.Equal(t, 7, upper)
	})

	t.Run("error on probe", func(t *testing.T) {
		b := newSearchBackend(7)
		b.failAt = 0
		p := newTestPaginator(t, b, SearchParams{})

		_, err := p.Next(context.Background())
		assert.ErrorIs(t, err, ErrStatusNotOK)
		_, err = p.Next(context.Background())
		assert.ErrorIs(t, err, Done)

		_, upper, known := p.SizeHint()
		assert.False(t, known)
		assert.Zero(t, upper)
		assert.Len(t, b.Requests(), 1)
	})

	t.Run("short pages advance by hits received", func(t *testing.T) {
		b := newSearchBackend(5)
		b.maxPage = 2
		p := newTestPaginator(t, b, SearchParams{Limit: 3})

		assert.Equal(t, []string{"h0", "h1", "h2", "h3", "h4"}, drain(t, p))
		assert.Equal(t, []pageRequest{
			{Offset: 0, Limit: 1},
			{Offset: 1, Limit: 3},
			{Offset: 3, Limit: 3},
		}, b.Requests())
	})

	t.Run("caller limit of one", func(t *testing.T) {
		b := newSearchBackend(1)
		p := newTestPaginator(t, b, SearchParams{Limit: 1})

		assert.Equal(t, []string{"h0"}, drain(t, p))
		assert.Equal(t, []pageRequest{{Offset: 0, Limit: 1}}, b.Requests())
	})

	t.Run("initial offset", func(t *testing.T) {
		b := newSearchBackend(7)
		p := newTestPaginator(t, b, SearchParams{Offset: 2, Limit: 3})

		assert.Equal(t, []string{"h2", "h3", "h4", "h5", "h6"}, drain(t, p))
		assert.Equal(t, []pageRequest{
			{Offset: 2, Limit: 1},
			{Offset: 3, Limit: 3},
			{Offset: 6, Limit: 3},
		}, b.Requests())
	})

	t.Run("empty page before total ends the stream", func(t *testing.T) {
		b := newSearchBackend(10)
		b.items = 3
		p := newTestPaginator(t, b, SearchParams{Limit: 5})

		assert.Equal(t, []string{"h0", "h1", "h2"}, drain(t, p))
		assert.Len(t, b.Requests(), 3)
	})

	t.Run("server default limit", func(t *testing.T) {
		b := newSearchBackend(12)
		p := newTestPaginator(t, b, SearchParams{})

		assert.Len(t, drain(t, p), 12)
		assert.Equal(t, []pageRequest{
			{Offset: 0, Limit: 1},
			{Offset: 1, Limit: 10},
			{Offset: 11, Limit: 10},
		}, b.Requests())
	})

	t.Run("canceled context", func(t *testing.T) {
		b := newSearchBackend(7)
		p := newTestPaginator(t, b, SearchParams{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Next(ctx)
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, context.Canceled)
		_, err = p.Next(context.Background())
		assert.ErrorIs(t, err, Done)
	})
}

func TestPaginatorAll(t *testing.T) {
	t.Run("yields every item", func(t *testing.T) {
		b := newSearchBackend(7)
		p := newTestPaginator(t, b, SearchParams{Limit: 3})

		var titles []string
		for hit, err := range p.All(context.Background()) {
			require.NoError(t, err)
			titles = append(titles, hit.Title)
		}
		assert.Equal(t, []string{"h0", "h1", "h2", "h3", "h4", "h5", "h6"}, titles)
		assert.Len(t, b.Requests(), 3)
	})

	t.Run("break and resume", func(t *testing.T) {
		b := newSearchBackend(7)
		p := newTestPaginator(t, b, SearchParams{Limit: 3})

		var titles []string
		for hit, err := range p.All(context.Background()) {
			require.NoError(t, err)
			titles = append(titles, hit.Title)
			if len(titles) == 2 {
				break
			}
		}
		assert.Equal(t, []string{"h0", "h1"}, titles)
		assert.Len(t, b.Requests(), 2)

		hit, err := p.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "h2", hit.Title)
	})

	t.Run("error ends the sequence", func(t *testing.T) {
		b := newSearchBackend(7)
		b.failAt = 1
		p := newTestPaginator(t, b, SearchParams{Limit: 3})

		var titles []string
		var errs []error
		for hit, err := range p.All(context.Background()) {
			if err != nil {
				errs = append(errs, err)
				continue
			}
			titles = append(titles, hit.Title)
		}
		assert.Equal(t, []string{"h0"}, titles)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrStatusNotOK)

		for range p.All(context.Background()) {
			t.Fatal("errored paginator yielded again")
		}
		assert.Len(t, b.Requests(), 2)
	})
}

func TestPaginatorFunc(t *testing.T) {
	params := SearchParams{Query: "sodium", Limit: 2}

	var seen []SearchParams
	fetch := func(_ context.Context, p SearchParams) (*Page[int], error) {
		seen = append(seen, p)
		var hits []int
		for i := p.Offset; i < p.Offset+p.Limit && i < 3; i++ {
			hits = append(hits, i)
		}
		return &Page[int]{Hits: hits, Offset: p.Offset, Limit: p.Limit, TotalHits: 3}, nil
	}

	p := NewPaginatorFunc(fetch, params, zerolog.Nop())

	var got []int
	for n, err := range p.All(context.Background()) {
		require.NoError(t, err)
		got = append(got, n)
	}

	assert.Equal(t, []int{0, 1, 2}, got)
	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0].Limit)
	assert.Equal(t, "sodium", seen[0].Query)
	assert.Equal(t, SearchParams{Query: "sodium", Offset: 1, Limit: 2}, seen[1])
	assert.Equal(t, SearchParams{Query: "sodium", Limit: 2}, params)
}

func TestDoneIsPlainSentinel(t *testing.T) {
	// No stack trace attached: Done marks the end, not a failure.
	assert.Equal(t, "modrinth: no more items", fmt.Sprintf("%+v", Done))
	assert.NotErrorIs(t, Done, ErrTransport)
}
