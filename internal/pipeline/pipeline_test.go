package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mossvale/climate-risk-etl/internal/adapter/sink"
	"github.com/mossvale/climate-risk-etl/internal/adapter/source"
	"github.com/mossvale/climate-risk-etl/internal/domain"
	"github.com/mossvale/climate-risk-etl/internal/observability"
	"github.com/mossvale/climate-risk-etl/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	table domain.RawTable
	err   error
}

func (m *mockExtractor) Extract(_ context.Context) (domain.RawTable, error) {
	return m.table, m.err
}

type mockTransformer struct {
	records []domain.FeatureRecord
	stats   pipeline.Stats
	err     error
}

func (m *mockTransformer) Transform(_ context.Context, _ domain.RawTable) ([]domain.FeatureRecord, pipeline.Stats, error) {
	return m.records, m.stats, m.err
}

type mockLoader struct {
	loaded   []domain.FeatureRecord
	manifest *domain.RunManifest
	loadErr  error
}

func (m *mockLoader) Load(_ context.Context, records []domain.FeatureRecord) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = records
	return nil
}

func (m *mockLoader) WriteManifest(_ context.Context, manifest domain.RunManifest) error {
	m.manifest = &manifest
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Fresh, unregistered metrics avoid "already registered" panics.
	return observability.NewMetricsForTesting()
}

func rawTable() domain.RawTable {
	return domain.RawTable{
		Source:  "raw/risk.csv",
		Headers: []string{"Country Name", "CRI Score", "Losses (USDm,PPP) Total", "Fatalities Total"},
		Rows: []domain.RawRecord{
			{"Honduras", "10.33", "561.11", "301.64"},
			{"Myanmar", "14.17", "1512.11", "7052.14"},
		},
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))
	pipeline.SetClock(fake)
	defer pipeline.SetClock(nil)

	records := []domain.FeatureRecord{
		{StandardRecord: domain.StandardRecord{Country: "Honduras", Year: 2000}},
	}
	ext := &mockExtractor{table: rawTable()}
	tfm := &mockTransformer{
		records: records,
		stats:   pipeline.Stats{RowsDropped: 1, Seed: 42, Seeded: true, BaseYear: 2024, StartYear: 2000, EndYear: 2024},
	}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics())

	err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, records, ldr.loaded)
	require.NotNil(t, ldr.manifest)
	assert.Equal(t, "raw/risk.csv", ldr.manifest.SourceFile)
	assert.Equal(t, 2, ldr.manifest.RowsRead)
	assert.Equal(t, 1, ldr.manifest.RowsDropped)
	assert.Equal(t, 1, ldr.manifest.RowsWritten)
	assert.Equal(t, int64(42), ldr.manifest.Seed)
	assert.True(t, ldr.manifest.Seeded)
	assert.Equal(t, fake.Now().UTC(), ldr.manifest.GeneratedAt)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	ext := &mockExtractor{err: source.ErrNoInput}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrNoInput)
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_SchemaErrorPropagates(t *testing.T) {
	ext := &mockExtractor{table: rawTable()}
	tfm := &mockTransformer{err: &domain.SchemaError{Available: []string{"region"}}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)

	var schemaErr *domain.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_LoadError(t *testing.T) {
	ext := &mockExtractor{table: rawTable()}
	tfm := &mockTransformer{records: []domain.FeatureRecord{{}}}
	ldr := &mockLoader{loadErr: errors.New("disk full")}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load")
	assert.Nil(t, ldr.manifest)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestClimateTransformer_Transform(t *testing.T) {
	tfm := pipeline.NewTransformer(2024, 2000, 2004, 7, slog.Default())

	records, stats, err := tfm.Transform(context.Background(), rawTable())
	require.NoError(t, err)

	// 2 countries x 5 years.
	assert.Len(t, records, 10)
	assert.Zero(t, stats.RowsDropped)
	assert.Equal(t, int64(7), stats.Seed)
	assert.True(t, stats.Seeded)
	assert.Equal(t, 2000, stats.StartYear)
	assert.Equal(t, 2004, stats.EndYear)
}

func TestClimateTransformer_MissingCountryColumn(t *testing.T) {
	tfm := pipeline.NewTransformer(2024, 2000, 2004, 7, slog.Default())

	table := domain.RawTable{
		Headers: []string{"CRI Score", "Fatalities Total"},
		Rows:    []domain.RawRecord{{"1.0", "2.0"}},
	}

	_, _, err := tfm.Transform(context.Background(), table)
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"cri_score", "fatalities_total"}, schemaErr.Available)
}

func TestClimateTransformer_UnseededUsesClock(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Unix(0, 123456789))
	pipeline.SetClock(fake)
	defer pipeline.SetClock(nil)

	tfm := pipeline.NewTransformer(2024, 2000, 2000, -1, slog.Default())

	_, stats, err := tfm.Transform(context.Background(), rawTable())
	require.NoError(t, err)
	assert.False(t, stats.Seeded)
	assert.Equal(t, int64(123456789), stats.Seed)
}

// End-to-end: real extractor, transformer, and writer against a temp dir.
// Same input and seed must produce a byte-for-byte identical processed file.
func TestPipeline_EndToEnd_Reproducible(t *testing.T) {
	rawDir := t.TempDir()
	rawCSV := "Country Name,CRI Score,Losses (USDm,PPP) Total,Fatalities Total\n" +
		"Honduras,10.33,561.11,301.64\n" +
		"Myanmar,14.17,1512.11,7052.14\n"
	require.NoError(t, os.WriteFile(filepath.Join(rawDir, "climate_risk_index.csv"), []byte(rawCSV), 0o644))

	runOnce := func(outDir string) []byte {
		t.Helper()
		outPath := filepath.Join(outDir, "processed_data.csv")

		p := pipeline.New(
			source.NewExtractor(rawDir, slog.Default()),
			pipeline.NewTransformer(2024, 2000, 2024, 42, slog.Default()),
			sink.NewWriter(outPath, slog.Default()),
			slog.Default(),
			newTestMetrics(),
		)
		require.NoError(t, p.Run(context.Background()))

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		return data
	}

	first := runOnce(t.TempDir())
	second := runOnce(t.TempDir())

	assert.Equal(t, first, second, "same input and seed must reproduce identical bytes")

	// 2 countries x 25 years + header.
	lines := 0
	for _, b := range first {
		if b == '\n' {
			lines++
		}
	}
	assert.Equal(t, 51, lines)
	assert.Equal(t, "country,year,temperature_anomaly,co2_emission,sea_level_change,temp_anomaly_z,sea_level_z,co2_growth,co2_growth_norm,risk_score",
		string(first[:len("country,year,temperature_anomaly,co2_emission,sea_level_change,temp_anomaly_z,sea_level_z,co2_growth,co2_growth_norm,risk_score")]))
}
