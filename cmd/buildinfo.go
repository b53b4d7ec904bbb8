package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build information injected at link time.
func SetVersion(v, t string) {
	version = v
	buildTime = t
}

var versionInfoCmd = &cobra.Command{
	Use:   "version-info",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	// Printing the version needs neither config nor a client
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rinth %s (built %s, %s %s/%s)\n",
			version, buildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionInfoCmd)
}
