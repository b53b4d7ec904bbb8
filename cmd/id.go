package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rinth/base62"
)

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Convert Modrinth ids between base62 and integers",
	// Works offline, so skip config loading and client setup.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var idEncodeCmd = &cobra.Command{
	Use:   "encode <number>...",
	Short: "Encode integers as base62 ids",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			n, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", arg, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), base62.Encode(n))
		}
		return nil
	},
}

var idDecodeCmd = &cobra.Command{
	Use:   "decode <id>...",
	Short: "Decode base62 ids to integers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			n, err := base62.Decode(arg)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", arg, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	idCmd.AddCommand(idEncodeCmd, idDecodeCmd)
	rootCmd.AddCommand(idCmd)
}
