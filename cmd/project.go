package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/rinth/modrinth"
)

var (
	projectLoaders      []string
	projectGameVersions []string
	projectLatest       bool
	projectVersionCount int
)

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project <id|slug>",
	Short: "Show a project and its versions",
	Long: `Show a project and its versions. The project and its version list are
fetched concurrently. With --latest only the highest version is shown; version
numbers are compared as semantic versions where they parse as one, otherwise
the most recently published version wins.`,
	Args: cobra.ExactArgs(1),
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().StringSliceVar(&projectLoaders, "loader", nil, "only versions for these loaders")
	projectCmd.Flags().StringSliceVarP(&projectGameVersions, "game-version", "g", nil, "only versions for these game versions")
	projectCmd.Flags().BoolVar(&projectLatest, "latest", false, "only show the latest version")
	projectCmd.Flags().IntVarP(&projectVersionCount, "versions", "n", 10, "number of versions to show (0 = all)")
}

type projectOutput struct {
	Project  modrinth.Project   `json:"project"`
	Versions []modrinth.Version `json:"versions"`
}

func runProject(cmd *cobra.Command, args []string) error {
	// The API resolves ids and slugs on the same route
	ref := modrinth.ProjectSlug(args[0])
	versionFilter := modrinth.VersionFilter{
		Loaders:      projectLoaders,
		GameVersions: projectGameVersions,
	}

	var (
		project  modrinth.Project
		versions []modrinth.Version
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		resp, err := client.GetProject(ctx, ref)
		if err != nil {
			return err
		}
		project = resp.Value
		return nil
	})
	g.Go(func() error {
		resp, err := client.ListProjectVersions(ctx, ref, versionFilter)
		if err != nil {
			return err
		}
		versions = resp.Value
		return nil
	})
	if err := g.Wait(); err != nil {
		return describeError(err)
	}

	logger.Debug().
		Str("project", project.Slug).
		Int("versions", len(versions)).
		Msg("Fetched project")

	if projectLatest {
		if latest, ok := latestVersion(versions); ok {
			versions = []modrinth.Version{latest}
		} else {
			versions = nil
		}
	} else if projectVersionCount > 0 && len(versions) > projectVersionCount {
		versions = versions[:projectVersionCount]
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if versions == nil {
			versions = []modrinth.Version{}
		}
		return printJSON(out, projectOutput{Project: project, Versions: versions})
	}

	printProject(out, project)
	if len(versions) == 0 {
		fmt.Fprintln(out, "\nNo versions match.")
		return nil
	}
	fmt.Fprintf(out, "\nVersions:\n")
	for _, v := range versions {
		printVersion(out, v)
	}
	return nil
}

// latestVersion picks the highest version. Versions whose number parses as a
// semantic version beat those that don't; among the rest the newest
// publication date wins.
func latestVersion(versions []modrinth.Version) (modrinth.Version, bool) {
	var (
		best       modrinth.Version
		bestSemver semver.Version
		bestParsed bool
		found      bool
	)

	for _, v := range versions {
		parsed, err := semver.ParseTolerant(v.VersionNumber)
		ok := err == nil

		switch {
		case !found:
		case ok && !bestParsed:
		case ok && bestParsed && parsed.GT(bestSemver):
		case !ok && !bestParsed && v.DatePublished.After(best.DatePublished):
		default:
			continue
		}

		best, bestSemver, bestParsed, found = v, parsed, ok, true
	}

	return best, found
}
