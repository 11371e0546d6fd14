// Package cli wires the service commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimdex/claimdex/pkg/claims/mongo"
	"github.com/claimdex/claimdex/pkg/config"
	"github.com/claimdex/claimdex/pkg/observability/logger"
	"github.com/claimdex/claimdex/pkg/store/mongodb"
	"github.com/claimdex/claimdex/pkg/version"
)

const serviceName = "claimdex"

// NewRootCommand builds the claimdex command tree.
func NewRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Keyset-paginated claims query service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file")

	root.AddCommand(
		newServeCommand(&configFile),
		newEnsureIndexCommand(&configFile),
		newGenerateCommand(&configFile),
		newProviderSummaryCommand(&configFile),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(version.Current(serviceName))
		},
	}
}

// loadConfig loads and validates the service configuration.
func loadConfig(configFile string) (*config.Config, error) {
	return config.NewLoader(configFile).Load()
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) (*logger.ZapLogger, error) {
	level, err := logger.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseLogFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logger.NewZapLogger(logger.Config{Level: level, Format: format})
}

// connectStore opens the MongoDB adapter and the claims store over it.
// The caller owns the adapter and must Close it.
func connectStore(cfg *config.Config, log logger.Logger) (*mongodb.Adapter, *mongo.Store, error) {
	if err := config.RequireURI(cfg); err != nil {
		return nil, nil, err
	}
	adapter, err := mongodb.NewAdapter(mongodb.Config{
		URI:              cfg.MongoDB.URI,
		Database:         cfg.MongoDB.Database,
		ConnectTimeout:   cfg.MongoDB.ConnectTimeout,
		OperationTimeout: cfg.MongoDB.OperationTimeout,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	store, err := mongo.NewStore(adapter, cfg.MongoDB.Collection, log)
	if err != nil {
		_ = adapter.Close()
		return nil, nil, err
	}
	return adapter, store, nil
}
