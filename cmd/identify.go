package cmd

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/rinth/hardlink"
	"github.com/s0up4200/rinth/modrinth"
)

// identifyConcurrency bounds the lookups in flight at once.
const identifyConcurrency = 4

var identifyCmd = &cobra.Command{
	Use:   "identify <file>...",
	Short: "Identify local files by their hash",
	Long: `Hash local mod files and look up the Modrinth version each one belongs to.
Files that are not on Modrinth are reported but do not fail the command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

// identification is the outcome of looking up one file.
type identification struct {
	File    string            `json:"file"`
	SHA512  string            `json:"sha512,omitempty"`
	Version *modrinth.Version `json:"version,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func runIdentify(cmd *cobra.Command, args []string) error {
	// Repeated and hardlinked paths are hashed and looked up once.
	unique, canonical := hardlink.Group(args)
	if skipped := len(args) - len(unique); skipped > 0 {
		logger.Debug().Int("duplicates", skipped).Msg("Skipping files already listed")
	}

	lookups := make([]identification, len(unique))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(identifyConcurrency)

	for i, path := range unique {
		g.Go(func() error {
			res, err := identifyFile(ctx, client, path)
			if err != nil {
				return err
			}
			// Each goroutine owns its slot.
			lookups[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return describeError(err)
	}

	byPath := make(map[string]identification, len(lookups))
	for _, r := range lookups {
		byPath[r.File] = r
	}
	results := make([]identification, len(args))
	for i, path := range args {
		r := byPath[canonical[path]]
		r.File = path
		results[i] = r
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, results)
	}

	var found int
	for _, r := range results {
		name := filepath.Base(r.File)
		switch {
		case r.Version != nil:
			found++
			fmt.Fprintf(out, "%s\n", name)
			printVersion(out, *r.Version)
		default:
			fmt.Fprintf(out, "%s: %s\n", name, r.Error)
		}
	}
	fmt.Fprintf(out, "\nIdentified %d of %d files\n", found, len(results))
	return nil
}

// identifyFile hashes one file and looks it up. Only failures that would
// affect every file (transport, auth) are returned as errors; an unreadable or
// unknown file is recorded on the result.
func identifyFile(ctx context.Context, api modrinth.API, path string) (identification, error) {
	res := identification{File: path}

	sum, err := hashFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("file", path).Msg("Failed to hash file")
		res.Error = err.Error()
		return res, nil
	}
	res.SHA512 = sum

	resp, err := api.GetVersionByHash(ctx, modrinth.SHA512(sum))
	if err != nil {
		var statusErr *modrinth.StatusError
		if errors.As(err, &statusErr) && statusErr.IsNotFound() {
			logger.Debug().Str("file", path).Msg("File not on Modrinth")
			res.Error = "not found"
			return res, nil
		}
		return res, errors.Wrapf(err, "identify %s", path)
	}

	res.Version = &resp.Value
	return res, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha512.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
