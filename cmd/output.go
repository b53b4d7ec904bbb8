package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	"github.com/s0up4200/rinth/modrinth"
)

// maxBodySnippet bounds how much of a response body ends up in an error.
const maxBodySnippet = 200

// describeError adds the response details the library keeps on its errors.
func describeError(err error) error {
	var statusErr *modrinth.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.IsNotFound() {
			return fmt.Errorf("not found: %s", statusErr.URL)
		}
		if statusErr.IsUnauthorized() {
			return fmt.Errorf("unauthorized: check api.token (%w)", err)
		}
		return fmt.Errorf("%w: %s", err, snippet(statusErr.Body))
	}

	var derr *modrinth.DeserializeError
	if errors.As(err, &derr) {
		logger.Debug().
			Str("url", derr.URL).
			Str("body", snippet(derr.Body)).
			Msg("Undecodable response")
		return fmt.Errorf("unexpected response at %s: %w", derr.Path, err)
	}

	return err
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodySnippet {
		return s[:maxBodySnippet] + "..."
	}
	return s
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printHit(w io.Writer, hit modrinth.SearchResult) {
	fmt.Fprintf(w, "• %s (%s) by %s\n", hit.Title, hit.Slug, hit.Author)
	fmt.Fprintf(w, "  %s | %s downloads | %s follows | updated %s\n",
		hit.ProjectType, humanCount(hit.Downloads), humanCount(hit.Follows),
		hit.DateModified.Format("2006-01-02"))
	if len(hit.Categories) > 0 {
		fmt.Fprintf(w, "  Categories: %s\n", strings.Join(hit.Categories, ", "))
	}
}

func printProject(w io.Writer, p modrinth.Project) {
	fmt.Fprintf(w, "%s (%s)\n", p.Title, p.Slug)
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "ID:         %s\n", p.ID)
	fmt.Fprintf(w, "Type:       %s\n", p.ProjectType)
	fmt.Fprintf(w, "Status:     %s\n", p.Status)
	fmt.Fprintf(w, "License:    %s\n", p.License.ID)
	fmt.Fprintf(w, "Client:     %s\n", p.ClientSide)
	fmt.Fprintf(w, "Server:     %s\n", p.ServerSide)
	fmt.Fprintf(w, "Downloads:  %s\n", humanCount(p.Downloads))
	fmt.Fprintf(w, "Followers:  %s\n", humanCount(p.Followers))
	fmt.Fprintf(w, "Published:  %s\n", p.Published.Format("2006-01-02"))
	fmt.Fprintf(w, "Updated:    %s\n", p.Updated.Format("2006-01-02"))
	if p.SourceURL != "" {
		fmt.Fprintf(w, "Source:     %s\n", p.SourceURL)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
}

func printVersion(w io.Writer, v modrinth.Version) {
	fmt.Fprintf(w, "• %s [%s] %s\n", v.VersionNumber, v.VersionType, v.DatePublished.Format("2006-01-02"))
	fmt.Fprintf(w, "  ID: %s | Loaders: %s | Game versions: %s\n",
		v.ID, strings.Join(v.Loaders, ", "), strings.Join(v.GameVersions, ", "))
	if f := v.PrimaryFile(); f != nil {
		fmt.Fprintf(w, "  File: %s\n", f.Filename)
	}
}

// humanCount renders counts like 1.2k or 3.4M. Negative counts, which the API
// sometimes reports, print as "?".
func humanCount(n int64) string {
	switch {
	case n < 0:
		return "?"
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}
