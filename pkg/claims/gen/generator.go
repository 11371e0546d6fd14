// Package gen generates synthetic claim workloads from a tiered config.
package gen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/claimdex/claimdex/pkg/claims"
	"github.com/claimdex/claimdex/pkg/observability/logger"
)

// maxServiceSpanDays caps how long a single claim's service window can be.
const maxServiceSpanDays = 14

// Tier describes one band of providers sharing a claim volume. Tiers let a
// dataset mix a few huge providers with many small ones.
type Tier struct {
	Providers         int `mapstructure:"providers"`
	ClaimsPerProvider int `mapstructure:"claims_per_provider"`
}

// Config controls the generated dataset.
type Config struct {
	Tiers     []Tier
	DateStart time.Time
	DateEnd   time.Time
	BatchSize int
	Seed      int64
}

// ProviderCount pairs a provider id with its target claim count.
type ProviderCount struct {
	ProviderID string
	Count      int
}

// Sink receives generated claim batches.
type Sink interface {
	InsertClaims(ctx context.Context, batch []claims.Claim) (int, error)
}

// Generator produces claim documents. Not safe for concurrent use: it owns a
// single rand source so runs are reproducible from the seed.
type Generator struct {
	cfg Config
	rng *rand.Rand
	log logger.Logger
}

// New validates the config and builds a Generator.
func New(cfg Config, log logger.Logger) (*Generator, error) {
	if len(cfg.Tiers) == 0 {
		return nil, fmt.Errorf("at least one tier is required")
	}
	for i, tier := range cfg.Tiers {
		if tier.Providers < 0 || tier.ClaimsPerProvider < 0 {
			return nil, fmt.Errorf("tier %d: negative provider or claim count", i)
		}
	}
	if cfg.DateStart.IsZero() || cfg.DateEnd.IsZero() {
		return nil, fmt.Errorf("date range is required")
	}
	if cfg.DateStart.Before(claims.MinServiceDate) {
		return nil, fmt.Errorf("date range must start at or after %s", claims.MinServiceDate.Format("2006-01-02"))
	}
	if cfg.DateEnd.Before(cfg.DateStart) {
		return nil, fmt.Errorf("date range end %s before start %s",
			cfg.DateEnd.Format("2006-01-02"), cfg.DateStart.Format("2006-01-02"))
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		log: log,
	}, nil
}

// ProviderClaimCounts expands the tier config into one (providerId, count)
// pair per provider. Provider ids are TT-NNNNNN: two tier digits plus a
// six-digit provider index.
func (g *Generator) ProviderClaimCounts() []ProviderCount {
	var result []ProviderCount
	for tierIdx, tier := range g.cfg.Tiers {
		for provIdx := 0; provIdx < tier.Providers; provIdx++ {
			result = append(result, ProviderCount{
				ProviderID: fmt.Sprintf("%02d-%06d", tierIdx, provIdx),
				Count:      tier.ClaimsPerProvider,
			})
		}
	}
	return result
}

// Run generates every provider's claims and writes them to the sink in
// batches. Returns the number of claims inserted, which may be short of the
// target when the context is cancelled or the sink fails mid-run.
func (g *Generator) Run(ctx context.Context, sink Sink) (int, error) {
	inserted := 0
	batch := make([]claims.Claim, 0, g.cfg.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := sink.InsertClaims(ctx, batch)
		inserted += n
		batch = batch[:0]
		return err
	}

	for _, pc := range g.ProviderClaimCounts() {
		for i := 0; i < pc.Count; i++ {
			if err := ctx.Err(); err != nil {
				return inserted, err
			}
			batch = append(batch, g.Claim(pc.ProviderID))
			if len(batch) >= g.cfg.BatchSize {
				if err := flush(); err != nil {
					return inserted, fmt.Errorf("insert batch: %w", err)
				}
			}
		}
		g.log.Debug("provider claims generated", "provider_id", pc.ProviderID, "count", pc.Count)
	}
	if err := flush(); err != nil {
		return inserted, fmt.Errorf("insert final batch: %w", err)
	}
	g.log.Info("claim generation finished", "inserted", inserted)
	return inserted, nil
}

// Claim builds one randomized claim for the provider. Service dates land on
// UTC midnights inside the configured range with begin <= end.
func (g *Generator) Claim(providerID string) claims.Claim {
	begin, end := g.serviceDates()
	tin := g.digits(9)

	overpayment := g.amount(10.0, 5000.0)
	recouped := round2(g.rng.Float64() * overpayment * 0.9)
	balance := round2(overpayment - recouped)

	return claims.Claim{
		ID: primitive.NewObjectID(),
		RenderingProvider: claims.RenderingProvider{
			ProviderName: "Rendering " + g.alnum(6),
		},
		BillingProvider: claims.BillingProvider{
			ProviderTin:          tin,
			PatientAccountNumber: g.alnum(8 + g.rng.Intn(5)),
			ProviderID:           providerID,
			ProviderNpi:          g.digits(10),
			ProviderName:         "Provider " + tin,
		},
		ServiceBeginDate: begin,
		ServiceEndDate:   end,
		PatientInformation: claims.PatientInformation{
			FullName: "Patient " + g.alnum(8),
		},
		Identifiers: claims.Identifiers{
			ClaimSystemCode:    claims.ClaimSystemCodes[g.rng.Intn(len(claims.ClaimSystemCodes))],
			ClaimSystemClaimID: uuid.NewString(),
		},
		LastUpdatedTs: g.lastUpdated(end),
		ProcessedAmounts: claims.ProcessedAmounts{
			OverpaymentBalance: claims.Amount{Amount: balance},
			OverpaymentAmount:  claims.Amount{Amount: overpayment},
			RecoupedAmount:     claims.Amount{Amount: recouped},
		},
		RecoveryMethod: claims.RecoveryMethods[g.rng.Intn(len(claims.RecoveryMethods))],
	}
}

func (g *Generator) serviceDates() (time.Time, time.Time) {
	deltaDays := int(g.cfg.DateEnd.Sub(g.cfg.DateStart).Hours() / 24)
	if deltaDays < 0 {
		deltaDays = 0
	}
	startOffset := 0
	if deltaDays > 0 {
		startOffset = g.rng.Intn(deltaDays + 1)
	}
	begin := g.cfg.DateStart.AddDate(0, 0, startOffset)

	spanDays := deltaDays - startOffset
	if spanDays > maxServiceSpanDays {
		spanDays = maxServiceSpanDays
	}
	endOffset := 0
	if spanDays > 0 {
		endOffset = g.rng.Intn(spanDays + 1)
	}
	return begin, begin.AddDate(0, 0, endOffset)
}

func (g *Generator) lastUpdated(serviceEnd time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(serviceEnd) {
		return serviceEnd.Add(time.Second)
	}
	window := now.Sub(serviceEnd)
	return serviceEnd.Add(time.Duration(g.rng.Int63n(int64(window) + 1)))
}

const alnumChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (g *Generator) alnum(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alnumChars[g.rng.Intn(len(alnumChars))]
	}
	return string(b)
}

func (g *Generator) digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + g.rng.Intn(10))
	}
	return string(b)
}

func (g *Generator) amount(min, max float64) float64 {
	return round2(min + g.rng.Float64()*(max-min))
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
