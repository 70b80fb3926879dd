package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/catalog/internal/config"
	"github.com/dyluth/catalog/internal/logging"
	"github.com/dyluth/catalog/internal/printer"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	configPath   string
	instanceFlag string
	redisURLFlag string
	logLevelFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog - product registry with validated forms",
	Long: `Catalog registers and edits financial products through a validated form.

Every field is checked as it is entered, product IDs are verified against the
registry before submission, and results are reported as notifications that any
'catalog watch' session can follow live.

Products are stored in Redis. 'catalog up' starts a managed Redis container, or
point catalog at an existing server with --redis-url or CATALOG_REDIS_URL.`,
	Version: version,
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to catalog.yml")
	rootCmd.PersistentFlags().StringVarP(&instanceFlag, "instance", "i", "", "Instance name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&redisURLFlag, "redis-url", "", "Redis URL (overrides CATALOG_REDIS_URL and config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.CatalogConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, printer.Error(
			"invalid configuration",
			fmt.Sprintf("Could not load %s: %v", configPath, err),
			[]string{"Fix the file, or remove it to use the defaults"},
		)
	}

	if instanceFlag != "" {
		cfg.Instance = instanceFlag
	}
	if env := os.Getenv("CATALOG_LOG_LEVEL"); env != "" {
		cfg.LogLevel = env
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, printer.Error("invalid configuration", err.Error(), nil)
	}
	return cfg, nil
}

func newLogger(cfg *config.CatalogConfig) *logging.DefaultLogger {
	return logging.New(cfg.LogLevel).With("instance", cfg.Instance)
}
