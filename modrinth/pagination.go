package modrinth

import (
	"context"
	"errors"
	"iter"

	"github.com/rs/zerolog"
)

// Done is returned by Paginator.Next when no more items are available. Like
// io.EOF it marks the end of the sequence, not a failure.
var Done = errors.New("modrinth: no more items")

type paginatorState int

const (
	stateUninitialized paginatorState = iota
	stateActive
	stateExhausted
	stateErrored
)

// PageFetcher fetches one page for the given parameters.
type PageFetcher[T any] func(ctx context.Context, params SearchParams) (*Page[T], error)

// Paginator turns an offset/limit endpoint into a single sequence of items.
//
// The first pull issues a probe request with limit 1 to learn the total, as
// the API reports a wrong total_hits when the first request asks for a large
// page. Later requests use the caller's limit and advance the offset by the
// number of hits actually received. Only one request is ever in flight.
//
// A Paginator is not safe for concurrent use. It must be consumed by one
// goroutine at a time, either through Next or by ranging over All. Many
// paginators may share one Executor.
type Paginator[T any] struct {
	fetch  PageFetcher[T]
	params SearchParams
	logger zerolog.Logger

	state      paginatorState
	buf        []T
	total      int
	totalKnown bool
}

// NewPaginator returns a paginator over the endpoint at rawURL. params is
// copied; the caller's value is never modified.
func NewPaginator[T any](e *Executor, rawURL string, params SearchParams, logger zerolog.Logger) *Paginator[T] {
	fetch := func(ctx context.Context, params SearchParams) (*Page[T], error) {
		u := rawURL
		if q := EncodeQuery(params); q != "" {
			u += "?" + q
		}
		resp, err := Get[Page[T]](ctx, e, u, nil)
		if err != nil {
			return nil, err
		}
		return &resp.Value, nil
	}
	return NewPaginatorFunc(fetch, params, logger)
}

// NewPaginatorFunc returns a paginator that obtains pages from fetch.
func NewPaginatorFunc[T any](fetch PageFetcher[T], params SearchParams, logger zerolog.Logger) *Paginator[T] {
	return &Paginator[T]{
		fetch:  fetch,
		params: params,
		logger: logger,
	}
}

// Next returns the next item. It returns Done once the sequence has ended.
// A request failure is returned exactly once; every later call returns Done
// without issuing requests.
func (p *Paginator[T]) Next(ctx context.Context) (T, error) {
	item, ok, err := p.advance(ctx)
	if err != nil {
		return item, err
	}
	if !ok {
		return item, Done
	}
	return item, nil
}

// All returns the remaining items as a range-over-func sequence. A failure is
// yielded once with a zero item and ends the sequence. Breaking out of the
// loop leaves the paginator where it stopped; it can be resumed with Next or
// another call to All.
func (p *Paginator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, ok, err := p.advance(ctx)
			if err != nil {
				yield(item, err)
				return
			}
			if !ok || !yield(item, nil) {
				return
			}
		}
	}
}

// SizeHint reports bounds on the number of items still to come. The lower
// bound is always 0. The upper bound is the server-reported total and is only
// known after the first request succeeded.
func (p *Paginator[T]) SizeHint() (lower, upper int, known bool) {
	return 0, p.total, p.totalKnown
}

// Offset is the offset the next page request would use.
func (p *Paginator[T]) Offset() int {
	return p.params.Offset
}

// advance is the state machine behind Next and All. ok is false at the end
// of the sequence.
func (p *Paginator[T]) advance(ctx context.Context) (item T, ok bool, err error) {
	for {
		switch p.state {
		case stateExhausted, stateErrored:
			return item, false, nil
		}

		if len(p.buf) > 0 {
			var zero T
			item = p.buf[0]
			p.buf[0] = zero
			p.buf = p.buf[1:]
			return item, true, nil
		}

		if p.state == stateActive && p.params.Offset >= p.total {
			p.state = stateExhausted
			p.logger.Debug().
				Int("offset", p.params.Offset).
				Int("total", p.total).
				Msg("Pagination exhausted")
			return item, false, nil
		}

		if err := p.refill(ctx); err != nil {
			p.state = stateErrored
			p.buf = nil
			return item, false, err
		}
	}
}

// refill fetches the page at the current offset into the empty buffer.
func (p *Paginator[T]) refill(ctx context.Context) error {
	params := p.params
	probe := p.state == stateUninitialized
	if probe {
		params.Limit = 1
	}

	page, err := p.fetch(ctx, params)
	if err != nil {
		p.logger.Debug().
			Err(err).
			Int("offset", params.Offset).
			Int("limit", params.Limit).
			Msg("Failed to fetch page")
		return err
	}

	if probe {
		p.total = page.TotalHits
		p.totalKnown = true
		p.state = stateActive
	} else if page.TotalHits != p.total {
		p.logger.Debug().
			Int("total", p.total).
			Int("reported", page.TotalHits).
			Msg("Ignoring changed total_hits")
	}

	p.params.Offset += len(page.Hits)
	p.buf = append(p.buf, page.Hits...)

	p.logger.Debug().
		Bool("probe", probe).
		Int("offset", params.Offset).
		Int("limit", params.Limit).
		Int("hits", len(page.Hits)).
		Int("total", p.total).
		Msg("Fetched page")

	if len(page.Hits) == 0 && p.params.Offset < p.total {
		p.logger.Warn().
			Int("offset", p.params.Offset).
			Int("total", p.total).
			Msg("Empty page before reaching total, ending pagination")
		p.state = stateExhausted
	}
	return nil
}
