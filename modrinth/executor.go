package modrinth

import (
	"context"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/s0up4200/rinth/decode"
)

// Response pairs a decoded value with the raw body it was decoded from, so
// callers can re-inspect the payload without a second request.
type Response[T any] struct {
	// Bytes is the complete response body.
	Bytes []byte
	// Value is the decoded body.
	Value T
	// URL is the final request URL after redirects.
	URL string
}

// Executor issues GET requests and decodes JSON responses. It is safe for
// concurrent use and is normally shared by a Client and all of its
// paginators.
type Executor struct {
	httpClient *http.Client
	header     http.Header
	strict     bool
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// Get fetches rawURL and decodes the body into T. header is merged over the
// executor's default headers and may be nil.
//
// Errors are *TransportError when the request cannot be completed or the
// body cannot be read, *StatusError for any status other than 200, and
// *DeserializeError when the body does not fit T.
func Get[T any](ctx context.Context, e *Executor, rawURL string, header http.Header) (*Response[T], error) {
	ctx, span := e.tracer.Start(ctx, "modrinth.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", rawURL)),
	)
	defer span.End()

	body, finalURL, err := e.fetch(ctx, span, rawURL, header)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}

	var value T
	if err := decode.Unmarshal(body, &value, e.decodeOptions()...); err != nil {
		derr := &DeserializeError{URL: finalURL, Err: err, Body: body}
		var pathErr *decode.Error
		if errors.As(err, &pathErr) {
			derr.Path = pathErr.Path
			derr.Err = pathErr.Err
		}

		e.logger.Debug().
			Str("url", finalURL).
			Str("path", derr.Path.String()).
			Err(derr.Err).
			Msg("Response does not match expected schema")

		span.RecordError(derr)
		span.SetStatus(codes.Error, "decode failed")
		return nil, derr
	}

	span.SetStatus(codes.Ok, "")
	return &Response[T]{Bytes: body, Value: value, URL: finalURL}, nil
}

// fetch performs the request and returns the full body of a 200 response.
func (e *Executor) fetch(ctx context.Context, span trace.Span, rawURL string, header http.Header) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, rawURL, inputErrorf("request url %q: %v", rawURL, err)
	}

	for k, v := range e.header {
		req.Header[k] = v
	}
	for k, v := range header {
		req.Header[k] = v
	}

	e.logger.Debug().
		Str("method", req.Method).
		Str("url", rawURL).
		Msg("Making Modrinth API request")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, rawURL, &TransportError{Op: "GET", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, finalURL, &TransportError{Op: "read body", URL: finalURL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		e.logger.Debug().
			Str("url", finalURL).
			Int("status", resp.StatusCode).
			Int("bytes", len(body)).
			Msg("Modrinth API returned non-OK status")
		return nil, finalURL, &StatusError{StatusCode: resp.StatusCode, URL: finalURL, Body: body}
	}

	return body, finalURL, nil
}

func (e *Executor) decodeOptions() []decode.Option {
	if e.strict {
		return []decode.Option{decode.DisallowUnknownFields()}
	}
	return nil
}
