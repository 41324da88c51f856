package domain

import (
	"math"
	"strconv"
	"strings"
)

// Standardize projects raw rows onto the canonical schema for the given base
// year. Rows with an empty country value are dropped and counted; numeric
// fields fall back to 0.0 on missing columns or failed coercion.
func Standardize(table RawTable, mapping ColumnMapping, baseYear int) (records []StandardRecord, dropped int) {
	cleaned := NormalizeHeaders(table.Headers)

	countryIdx := columnIndex(cleaned, mapping.Country)
	riskIdx := columnIndex(cleaned, mapping.RiskIndex)
	lossesIdx := columnIndex(cleaned, mapping.Losses)
	fatalIdx := columnIndex(cleaned, mapping.Fatalities)

	records = make([]StandardRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		country := strings.TrimSpace(fieldAt(row, countryIdx))
		if country == "" {
			dropped++
			continue
		}
		records = append(records, StandardRecord{
			Country:            country,
			Year:               baseYear,
			TemperatureAnomaly: parseFloatOrZero(fieldAt(row, riskIdx)),
			CO2Emission:        parseFloatOrZero(fieldAt(row, lossesIdx)),
			SeaLevelChange:     parseFloatOrZero(fieldAt(row, fatalIdx)),
		})
	}
	return records, dropped
}

// columnIndex finds the position of a cleaned column name, or -1 when the name
// is empty (unresolved optional field) or absent.
func columnIndex(cleaned []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range cleaned {
		if h == name {
			return i
		}
	}
	return -1
}

// fieldAt returns row[idx], tolerating ragged rows and unresolved columns.
func fieldAt(row RawRecord, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
// ParseFloat accepts the literals "NaN" and "Inf"; those also coerce to 0 so a
// single bad cell cannot poison a whole country's group statistics.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
