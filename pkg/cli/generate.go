package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimdex/claimdex/pkg/claims/gen"
	"github.com/claimdex/claimdex/pkg/config"
)

func newGenerateCommand(configFile *string) *cobra.Command {
	var (
		tiers []string
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Populate the collection with synthetic claims",
		Long: "Generate synthetic claim documents and insert them in batches. " +
			"Tiers given with --tier override the configured ones.",
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

			genCfg, err := generationConfig(cfg.Generation, tiers, seed)
			if err != nil {
				return err
			}
			g, err := gen.New(genCfg, log)
			if err != nil {
				return err
			}

			adapter, store, err := connectStore(cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = adapter.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			started := time.Now()
			inserted, err := g.Run(ctx, store)
			log.Info("generation finished",
				"inserted", inserted,
				"elapsed", time.Since(started).Round(time.Millisecond).String(),
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d claims\n", inserted)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tiers, "tier", nil,
		"tier as providers:claims_per_provider, repeatable (e.g. --tier 10:5000 --tier 100:200)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 uses the configured or time-based seed")
	return cmd
}

// generationConfig merges config-file tiers with flag overrides and parses
// the date range.
func generationConfig(gc config.GenerationConfig, tierFlags []string, seed int64) (gen.Config, error) {
	out := gen.Config{
		BatchSize: gc.BatchSize,
		Seed:      gc.Seed,
	}
	if seed != 0 {
		out.Seed = seed
	}

	var err error
	if out.DateStart, err = parseDay(gc.DateStart); err != nil {
		return gen.Config{}, fmt.Errorf("generation.date_start: %w", err)
	}
	if out.DateEnd, err = parseDay(gc.DateEnd); err != nil {
		return gen.Config{}, fmt.Errorf("generation.date_end: %w", err)
	}

	if len(tierFlags) > 0 {
		for _, spec := range tierFlags {
			tier, err := parseTier(spec)
			if err != nil {
				return gen.Config{}, err
			}
			out.Tiers = append(out.Tiers, tier)
		}
		return out, nil
	}
	for _, tier := range gc.Tiers {
		out.Tiers = append(out.Tiers, gen.Tier{
			Providers:         tier.Providers,
			ClaimsPerProvider: tier.ClaimsPerProvider,
		})
	}
	return out, nil
}

func parseTier(spec string) (gen.Tier, error) {
	var tier gen.Tier
	if _, err := fmt.Sscanf(spec, "%d:%d", &tier.Providers, &tier.ClaimsPerProvider); err != nil {
		return gen.Tier{}, fmt.Errorf("invalid tier %q, expected providers:claims_per_provider", spec)
	}
	return tier, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
