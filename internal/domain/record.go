package domain

// RawRecord is one data row of the source file, positionally aligned with the
// header row. Field types are unknown until standardization.
type RawRecord []string

// RawTable is the source file as read: the raw (uncleaned) header row, the data
// rows, and the path the table was read from.
type RawTable struct {
	Source  string
	Headers []string
	Rows    []RawRecord
}

// StandardRecord is the canonical per-country, per-year form. Country and year
// are always present; the numeric fields default to 0.0 when the source lacks a
// mapped column or a value fails coercion.
type StandardRecord struct {
	Country            string
	Year               int
	TemperatureAnomaly float64
	CO2Emission        float64
	SeaLevelChange     float64
}

// FeatureRecord is the terminal, persisted form: a StandardRecord plus the
// derived statistics and the composite risk score.
type FeatureRecord struct {
	StandardRecord

	TempAnomalyZ  float64
	SeaLevelZ     float64
	CO2Growth     float64
	CO2GrowthNorm float64
	RiskScore     float64
}

// OutputHeader is the exact column order of the processed CSV. This is the sole
// contract the downstream dashboard relies on; do not reorder or rename.
var OutputHeader = []string{
	"country",
	"year",
	"temperature_anomaly",
	"co2_emission",
	"sea_level_change",
	"temp_anomaly_z",
	"sea_level_z",
	"co2_growth",
	"co2_growth_norm",
	"risk_score",
}
