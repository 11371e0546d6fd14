package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimdex/claimdex/pkg/claims/mongo"
)

func newProviderSummaryCommand(configFile *string) *cobra.Command {
	var (
		dateStart string
		dateEnd   string
		samples   int
	)

	cmd := &cobra.Command{
		Use:   "provider-summary",
		Short: "Print per-provider claim counts and service date spans",
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

			opts := mongo.SummaryOptions{
				IncludeSampleClaimIDs: samples > 0,
				SampleSize:            samples,
			}
			if opts.Begin, err = optionalDay(dateStart); err != nil {
				return fmt.Errorf("--date-start: %w", err)
			}
			if opts.End, err = optionalDay(dateEnd); err != nil {
				return fmt.Errorf("--date-end: %w", err)
			}

			adapter, store, err := connectStore(cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = adapter.Close() }()

			summaries, err := store.SummarizeByProvider(cmd.Context(), opts)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summaries)
		},
	}

	cmd.Flags().StringVar(&dateStart, "date-start", "", "only count claims whose service window overlaps on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateEnd, "date-end", "", "only count claims whose service window overlaps on or before this day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&samples, "samples", 0, "include up to N sample claim ids per provider")
	return cmd
}

func optionalDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDay(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
