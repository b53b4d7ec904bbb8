package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/rinth/config"
	"github.com/s0up4200/rinth/filter"
	"github.com/s0up4200/rinth/modrinth"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *modrinth.Client
	filters *filter.Manager

	// Global flags
	logLevel   string
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rinth",
	Short: "Search and inspect projects on Modrinth",
	Long: `rinth is a CLI for the Modrinth API. It searches projects with facets
and client-side filter expressions, shows projects and their versions, and
identifies local files by their hash.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logger = setupLogger(cfg.Logging)

	opts := []modrinth.Option{
		modrinth.WithUserAgent(userAgent()),
		modrinth.WithTimeout(cfg.API.Timeout),
	}
	if cfg.API.Token != "" {
		opts = append(opts, modrinth.WithToken(cfg.API.Token))
	}
	if cfg.API.Strict {
		opts = append(opts, modrinth.WithStrictDecoding())
	}

	client, err = modrinth.NewClient(cfg.API.URL, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Modrinth client: %w", err)
	}

	filters = filter.NewManager(nil)
	if err := filters.RegisterFilters(cfg.Filter); err != nil {
		return fmt.Errorf("invalid filter in config: %w", err)
	}

	logger.Debug().
		Str("url", client.BaseURL()).
		Bool("authenticated", cfg.API.Token != "").
		Msg("Modrinth client ready")

	return nil
}

// userAgent appends the build version to the configured user agent
func userAgent() string {
	if version == "" || version == "dev" {
		return cfg.API.UserAgent
	}
	return cfg.API.UserAgent + "/" + version
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
