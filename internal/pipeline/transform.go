package pipeline

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/mossvale/climate-risk-etl/internal/domain"
)

// ClimateTransformer implements Transformer using the domain functions:
// header normalization, standardization, synthetic year expansion, and
// feature computation.
type ClimateTransformer struct {
	baseYear  int
	startYear int
	endYear   int
	seed      int64
	logger    *slog.Logger
}

// NewTransformer creates a ClimateTransformer. A negative seed opts into
// time-seeded expansion, reproducing the original pipeline's unseeded
// behavior as an explicit choice.
func NewTransformer(baseYear, startYear, endYear int, seed int64, logger *slog.Logger) *ClimateTransformer {
	return &ClimateTransformer{
		baseYear:  baseYear,
		startYear: startYear,
		endYear:   endYear,
		seed:      seed,
		logger:    logger,
	}
}

func (t *ClimateTransformer) Transform(ctx context.Context, table domain.RawTable) ([]domain.FeatureRecord, Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	cleaned := domain.NormalizeHeaders(table.Headers)
	mapping, err := domain.ResolveSchema(cleaned)
	if err != nil {
		return nil, Stats{}, err
	}
	t.logger.Debug("schema resolved",
		"country", mapping.Country,
		"risk_index", mapping.RiskIndex,
		"losses", mapping.Losses,
		"fatalities", mapping.Fatalities,
	)

	standardized, dropped := domain.Standardize(table, mapping, t.baseYear)
	if dropped > 0 {
		t.logger.Warn("rows dropped during standardization", "dropped", dropped)
	}

	seed := t.seed
	seeded := seed >= 0
	if !seeded {
		seed = clock.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	t.logger.Info("simulating yearly series",
		"start_year", t.startYear,
		"end_year", t.endYear,
		"seed", seed,
		"seeded", seeded,
	)
	expanded := domain.ExpandYears(standardized, t.startYear, t.endYear, rng)

	records := domain.ComputeFeatures(expanded)

	stats := Stats{
		RowsDropped: dropped,
		Seed:        seed,
		Seeded:      seeded,
		BaseYear:    t.baseYear,
		StartYear:   t.startYear,
		EndYear:     t.endYear,
	}
	return records, stats, nil
}
