package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rinth/base62"
	"github.com/s0up4200/rinth/modrinth"
)

var (
	versionSHA1   string
	versionSHA512 string
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version [id]",
	Short: "Show a version by id or file hash",
	Example: `  rinth version yaoBL9D9
  rinth version --sha1 2f4a...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVar(&versionSHA1, "sha1", "", "look up by sha1 file hash")
	versionCmd.Flags().StringVar(&versionSHA512, "sha512", "", "look up by sha512 file hash")
}

func runVersion(cmd *cobra.Command, args []string) error {
	byHash := versionSHA1 != "" || versionSHA512 != ""
	if byHash == (len(args) == 1) {
		return fmt.Errorf("specify either a version id or --sha1/--sha512")
	}

	var (
		resp *modrinth.Response[modrinth.Version]
		err  error
	)
	if byHash {
		resp, err = client.GetVersionByHash(cmd.Context(), modrinth.FileHashes{
			SHA512: versionSHA512,
			SHA1:   versionSHA1,
		})
	} else {
		id, parseErr := base62.ParseID(args[0])
		if parseErr != nil {
			return fmt.Errorf("invalid version id: %w", parseErr)
		}
		resp, err = client.GetVersion(cmd.Context(), id)
	}
	if err != nil {
		return describeError(err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, resp.Value)
	}
	printVersion(out, resp.Value)
	return nil
}
