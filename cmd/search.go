package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rinth/filter"
	"github.com/s0up4200/rinth/modrinth"
)

var (
	searchCategories   []string
	searchGameVersions []string
	searchProjectType  string
	searchLicense      string
	searchFacets       []string
	searchIndex        string
	searchLimit        int
	searchOffset       int
	searchMax          int
	searchWhere        string
	searchFilters      string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search projects",
	Long: `Search Modrinth projects and print every hit, paging through results
automatically.

Every --category must match. Any one --game-version is enough. --where takes
the name of a filter from the config file or an inline expression that is
evaluated on each hit, for example:

  rinth search --category fabric --where 'Downloads > 100000 and supports("1.20.1")'`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringSliceVarP(&searchCategories, "category", "c", nil, "require a category or loader (repeatable)")
	searchCmd.Flags().StringSliceVarP(&searchGameVersions, "game-version", "g", nil, "accept a game version (repeatable)")
	searchCmd.Flags().StringVarP(&searchProjectType, "type", "t", "", "project type (mod, modpack, resourcepack, shader, plugin, datapack)")
	searchCmd.Flags().StringVar(&searchLicense, "license", "", "license id")
	searchCmd.Flags().StringArrayVar(&searchFacets, "facet", nil, "raw facet as name=value (repeatable)")
	searchCmd.Flags().StringVarP(&searchIndex, "index", "s", "", "sort order (relevance, downloads, follows, newest, updated)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "page size")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "skip this many hits")
	searchCmd.Flags().IntVarP(&searchMax, "max", "n", 0, "stop after printing this many hits (0 = no limit)")
	searchCmd.Flags().StringVarP(&searchWhere, "where", "w", "", "filter name or expression evaluated on each hit")
	searchCmd.Flags().StringVar(&searchFilters, "filters", "", "server-side filter expression")
}

func runSearch(cmd *cobra.Command, args []string) error {
	facets, err := buildFacets(searchCategories, searchGameVersions, searchProjectType, searchLicense, searchFacets)
	if err != nil {
		return err
	}

	params := modrinth.SearchParams{
		Query:   strings.Join(args, " "),
		Facets:  facets,
		Index:   modrinth.SearchIndex(cfg.Search.Index),
		Offset:  searchOffset,
		Limit:   cfg.Search.Limit,
		Filters: searchFilters,
	}
	if cmd.Flags().Changed("index") {
		params.Index = modrinth.SearchIndex(searchIndex)
	}
	if !params.Index.IsKnown() && params.Index != "" {
		return fmt.Errorf("unknown sort order %q", params.Index)
	}
	if cmd.Flags().Changed("limit") {
		params.Limit = searchLimit
	}

	maxHits := cfg.Search.Max
	if cmd.Flags().Changed("max") {
		maxHits = searchMax
	}

	var where *filter.Filter
	if searchWhere != "" {
		where, err = filters.Resolve(searchWhere)
		if err != nil {
			return fmt.Errorf("invalid --where: %w", err)
		}
	}

	logger.Debug().
		Str("query", params.Query).
		Int("facet_groups", len(params.Facets)).
		Str("index", string(params.Index)).
		Int("limit", params.Limit).
		Msg("Searching projects")

	out := cmd.OutOrStdout()
	pager := client.SearchProjectsIter(params)

	var hits []modrinth.SearchResult
	var seen, printed, skipped int
	for hit, err := range pager.All(cmd.Context()) {
		if err != nil {
			return describeError(err)
		}
		seen++

		if where != nil {
			ok, err := where.Match(hit)
			if err != nil {
				logger.Warn().Err(err).Str("project", hit.Slug).Msg("Filter failed, skipping project")
				skipped++
				continue
			}
			if !ok {
				continue
			}
		}

		if jsonOutput {
			hits = append(hits, hit)
		} else {
			printHit(out, hit)
		}
		printed++
		if maxHits > 0 && printed >= maxHits {
			break
		}
	}

	if jsonOutput {
		if hits == nil {
			hits = []modrinth.SearchResult{}
		}
		return printJSON(out, hits)
	}

	_, total, known := pager.SizeHint()
	if known {
		fmt.Fprintf(out, "\nShowing %d, scanned %d of %d hits", printed, seen, total)
		if skipped > 0 {
			fmt.Fprintf(out, " (%d skipped)", skipped)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// buildFacets turns the search flags into facet groups. Categories, the
// project type, the license and raw facets each form their own group so all
// of them must match; game versions share one group so any of them may.
func buildFacets(categories, gameVersions []string, projectType, license string, raw []string) ([][]modrinth.Facet, error) {
	var facets [][]modrinth.Facet

	for _, c := range categories {
		facets = append(facets, []modrinth.Facet{modrinth.Category(c)})
	}

	if len(gameVersions) > 0 {
		group := make([]modrinth.Facet, 0, len(gameVersions))
		for _, v := range gameVersions {
			group = append(group, modrinth.GameVersion(v))
		}
		facets = append(facets, group)
	}

	if projectType != "" {
		t := modrinth.ProjectType(projectType)
		if !t.IsKnown() {
			return nil, fmt.Errorf("unknown project type %q", projectType)
		}
		facets = append(facets, []modrinth.Facet{modrinth.OfProjectType(t)})
	}

	if license != "" {
		facets = append(facets, []modrinth.Facet{modrinth.License(license)})
	}

	for _, f := range raw {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid facet %q, expected name=value", f)
		}
		facets = append(facets, []modrinth.Facet{modrinth.CustomFacet(name, value)})
	}

	return facets, nil
}
