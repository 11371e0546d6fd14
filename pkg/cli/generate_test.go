package cli

import (
	"testing"

	"github.com/claimdex/claimdex/pkg/config"
)

func TestParseTier(t *testing.T) {
	tier, err := parseTier("10:5000")
	if err != nil {
		t.Fatalf("parseTier: %v", err)
	}
	if tier.Providers != 10 || tier.ClaimsPerProvider != 5000 {
		t.Errorf("tier = %+v, want 10 providers with 5000 claims each", tier)
	}

	for _, bad := range []string{"", "10", "10:", ":5000", "a:b"} {
		if _, err := parseTier(bad); err == nil {
			t.Errorf("parseTier(%q) accepted an invalid spec", bad)
		}
	}
}

func TestGenerationConfig(t *testing.T) {
	base := config.GenerationConfig{
		Tiers:     []config.GenerationTier{{Providers: 2, ClaimsPerProvider: 100}},
		DateStart: "2020-01-01",
		DateEnd:   "2022-12-31",
		BatchSize: 500,
		Seed:      7,
	}

	t.Run("config tiers pass through", func(t *testing.T) {
		got, err := generationConfig(base, nil, 0)
		if err != nil {
			t.Fatalf("generationConfig: %v", err)
		}
		if len(got.Tiers) != 1 || got.Tiers[0].Providers != 2 || got.Tiers[0].ClaimsPerProvider != 100 {
			t.Errorf("tiers = %+v, want the configured tier", got.Tiers)
		}
		if got.Seed != 7 || got.BatchSize != 500 {
			t.Errorf("seed/batch = %d/%d, want 7/500", got.Seed, got.BatchSize)
		}
		if got.DateStart.Format("2006-01-02") != "2020-01-01" {
			t.Errorf("date start = %v", got.DateStart)
		}
	})

	t.Run("flag tiers override config", func(t *testing.T) {
		got, err := generationConfig(base, []string{"1:10", "3:20"}, 0)
		if err != nil {
			t.Fatalf("generationConfig: %v", err)
		}
		if len(got.Tiers) != 2 || got.Tiers[1].Providers != 3 || got.Tiers[1].ClaimsPerProvider != 20 {
			t.Errorf("tiers = %+v, want the two flag tiers", got.Tiers)
		}
	})

	t.Run("flag seed overrides config", func(t *testing.T) {
		got, err := generationConfig(base, nil, 99)
		if err != nil {
			t.Fatalf("generationConfig: %v", err)
		}
		if got.Seed != 99 {
			t.Errorf("seed = %d, want 99", got.Seed)
		}
	})

	t.Run("bad dates rejected", func(t *testing.T) {
		broken := base
		broken.DateStart = "soon"
		if _, err := generationConfig(broken, nil, 0); err == nil {
			t.Error("generationConfig accepted an unparseable date")
		}
	})
}
