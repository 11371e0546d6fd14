package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnsureIndexCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-index",
		Short: "Create the compound pagination index, dropping superseded ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			adapter, store, err := connectStore(cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = adapter.Close() }()

			name, err := store.EnsureIndex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "index %s ready\n", name)
			return nil
		},
	}
}
