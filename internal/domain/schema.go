package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Alias lists per canonical field, in priority order. The first alias present
// in the cleaned header set wins.
var (
	countryAliases    = []string{"country", "rw_country_name", "country_name"}
	riskIndexAliases  = []string{"cri_score", "climate_risk_index", "cri"}
	lossesAliases     = []string{"losses_usdm_ppp_total", "losses_usd_ppp_total", "losses_per_gdp_total"}
	fatalitiesAliases = []string{"fatalities_total", "fatalities_per_100k_total"}
)

// nonAlnumRe matches runs of characters outside [a-z0-9] in an already
// lowercased header, e.g. "Losses (USD,PPP) Total" -> "losses_usd_ppp_total".
var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeHeader cleans a raw column name: lowercase, non-alphanumeric runs
// collapsed to a single underscore, leading and trailing underscores stripped.
func NormalizeHeader(name string) string {
	x := strings.ToLower(name)
	x = nonAlnumRe.ReplaceAllString(x, "_")
	return strings.Trim(x, "_")
}

// NormalizeHeaders cleans a full header row, preserving order.
func NormalizeHeaders(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = NormalizeHeader(n)
	}
	return out
}

// ColumnMapping records which cleaned source column feeds each canonical
// field. An empty string means no alias matched; the field defaults to 0.0
// during standardization.
type ColumnMapping struct {
	Country    string
	RiskIndex  string // feeds temperature_anomaly
	Losses     string // feeds co2_emission
	Fatalities string // feeds sea_level_change
}

// SchemaError reports that the mandatory country column could not be resolved.
// It carries the sorted cleaned header set for diagnosis.
type SchemaError struct {
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required country column not found; available columns: %s",
		strings.Join(e.Available, ", "))
}

// ResolveSchema maps cleaned headers onto the canonical schema. Optional fields
// resolve to "" when no alias matches; a missing country column is a
// *SchemaError. Pure function of the header list.
func ResolveSchema(cleaned []string) (ColumnMapping, error) {
	set := make(map[string]struct{}, len(cleaned))
	for _, h := range cleaned {
		set[h] = struct{}{}
	}

	m := ColumnMapping{
		Country:    pickColumn(set, countryAliases),
		RiskIndex:  pickColumn(set, riskIndexAliases),
		Losses:     pickColumn(set, lossesAliases),
		Fatalities: pickColumn(set, fatalitiesAliases),
	}

	if m.Country == "" {
		available := make([]string, 0, len(set))
		for h := range set {
			available = append(available, h)
		}
		sort.Strings(available)
		return ColumnMapping{}, &SchemaError{Available: available}
	}
	return m, nil
}

// pickColumn returns the first option present in the cleaned header set, or ""
// when none match.
func pickColumn(set map[string]struct{}, options []string) string {
	for _, opt := range options {
		if _, ok := set[opt]; ok {
			return opt
		}
	}
	return ""
}
