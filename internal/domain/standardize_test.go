package domain_test

import (
	"math"
	"testing"

	"github.com/mossvale/climate-risk-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(rows ...domain.RawRecord) domain.RawTable {
	return domain.RawTable{
		Source:  "test.csv",
		Headers: []string{"Country Name", "CRI Score", "Losses (USDm,PPP) Total", "Fatalities Total"},
		Rows:    rows,
	}
}

func testMapping(t *testing.T, table domain.RawTable) domain.ColumnMapping {
	t.Helper()
	m, err := domain.ResolveSchema(domain.NormalizeHeaders(table.Headers))
	require.NoError(t, err)
	return m
}

func TestStandardize_MapsAllFields(t *testing.T) {
	table := testTable(
		domain.RawRecord{"Honduras", "10.33", "561.11", "301.64"},
		domain.RawRecord{"Myanmar", "14.17", "1512.11", "7052.14"},
	)

	records, dropped := domain.Standardize(table, testMapping(t, table), 2024)
	require.Len(t, records, 2)
	assert.Zero(t, dropped)

	assert.Equal(t, domain.StandardRecord{
		Country:            "Honduras",
		Year:               2024,
		TemperatureAnomaly: 10.33,
		CO2Emission:        561.11,
		SeaLevelChange:     301.64,
	}, records[0])
	assert.Equal(t, "Myanmar", records[1].Country)
}

func TestStandardize_DropsRowsWithoutCountry(t *testing.T) {
	table := testTable(
		domain.RawRecord{"", "1.0", "2.0", "3.0"},
		domain.RawRecord{"   ", "1.0", "2.0", "3.0"},
		domain.RawRecord{"Philippines", "1.0", "2.0", "3.0"},
	)

	records, dropped := domain.Standardize(table, testMapping(t, table), 2024)
	require.Len(t, records, 1)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, "Philippines", records[0].Country)
}

func TestStandardize_CoercionFallsBackToZero(t *testing.T) {
	table := testTable(
		domain.RawRecord{"Haiti", "n/a", "", "12,5"},
	)

	records, dropped := domain.Standardize(table, testMapping(t, table), 2024)
	require.Len(t, records, 1)
	assert.Zero(t, dropped)

	assert.Zero(t, records[0].TemperatureAnomaly)
	assert.Zero(t, records[0].CO2Emission)
	assert.Zero(t, records[0].SeaLevelChange)
}

func TestStandardize_NonFiniteLiteralsCoerceToZero(t *testing.T) {
	table := testTable(
		domain.RawRecord{"Honduras", "NaN", "Inf", "301.64"},
		domain.RawRecord{"Honduras", "-Inf", "+Inf", "nan"},
		domain.RawRecord{"Honduras", "10.5", "561.11", "-inf"},
	)

	records, dropped := domain.Standardize(table, testMapping(t, table), 2024)
	require.Len(t, records, 3)
	assert.Zero(t, dropped)

	for i, rec := range records[:2] {
		assert.Zero(t, rec.TemperatureAnomaly, "row %d", i)
		assert.Zero(t, rec.CO2Emission, "row %d", i)
		assert.False(t, math.IsNaN(rec.SeaLevelChange), "row %d", i)
		assert.False(t, math.IsInf(rec.SeaLevelChange, 0), "row %d", i)
	}
	assert.Equal(t, 301.64, records[0].SeaLevelChange)
	assert.Equal(t, 10.5, records[2].TemperatureAnomaly)
	assert.Zero(t, records[2].SeaLevelChange)

	// Downstream group statistics stay finite for the whole country.
	for _, out := range domain.ComputeFeatures(records) {
		assert.False(t, math.IsNaN(out.TempAnomalyZ))
		assert.False(t, math.IsNaN(out.RiskScore))
		assert.False(t, math.IsInf(out.RiskScore, 0))
	}
}

func TestStandardize_UnmappedColumnsDefaultToZero(t *testing.T) {
	table := domain.RawTable{
		Headers: []string{"country"},
		Rows:    []domain.RawRecord{{"Bangladesh"}},
	}

	records, dropped := domain.Standardize(table, testMapping(t, table), 2024)
	require.Len(t, records, 1)
	assert.Zero(t, dropped)

	rec := records[0]
	assert.Equal(t, "Bangladesh", rec.Country)
	assert.Equal(t, 2024, rec.Year)
	assert.Zero(t, rec.TemperatureAnomaly)
	assert.Zero(t, rec.CO2Emission)
	assert.Zero(t, rec.SeaLevelChange)
}

func TestStandardize_RaggedRows(t *testing.T) {
	table := testTable(
		domain.RawRecord{"India", "18.5"}, // short row: missing trailing columns
	)

	records, dropped := domain.Standardize(table, testMapping(t, table), 2024)
	require.Len(t, records, 1)
	assert.Zero(t, dropped)

	assert.Equal(t, 18.5, records[0].TemperatureAnomaly)
	assert.Zero(t, records[0].CO2Emission)
	assert.Zero(t, records[0].SeaLevelChange)
}
