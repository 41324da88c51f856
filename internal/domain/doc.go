// Package domain models climate risk index (CRI) country data and the derived
// per-country risk features served to the dashboard.
//
// # Data Source
//
// The raw dataset is the "Global Climate Risk Index and related economic losses"
// table: one row per country for a single reporting year, with a varying header
// set depending on the dataset revision. Headers are normalized (lowercase,
// symbol runs collapsed to underscores) and matched against ordered alias lists:
//
//	country:             country | rw_country_name | country_name   (mandatory)
//	temperature_anomaly: cri_score | climate_risk_index | cri
//	co2_emission:        losses_usdm_ppp_total | losses_usd_ppp_total | losses_per_gdp_total
//	sea_level_change:    fatalities_total | fatalities_per_100k_total
//
// A missing optional column defaults the field to 0.0 for every row. A missing
// country column is a [SchemaError] listing the available columns. Rows with an
// empty country value are dropped; any value that fails numeric coercion
// becomes 0.0.
//
// # Synthetic Year Series
//
// The source is single-year, so the multi-year series consumed by the trend
// views is simulated: each standardized row is replicated once per year in the
// configured range, with independent uniform perturbations of ±30% on
// temperature_anomaly, ±25% on co2_emission, and ±30% on sea_level_change per
// row per year. This is an approximation, not observed history. The caller owns
// the PRNG; a fixed seed makes the expansion fully reproducible.
//
// # Derived Features
//
// Computed over the sorted (country, year) series:
//
//	temp_anomaly_z, sea_level_z: population z-score within the country's own
//	  series. Zero within-group standard deviation is treated as 1.0, so a
//	  constant series scores 0.0 rather than NaN.
//	co2_growth: period-over-period percent change of co2_emission within the
//	  country's series. The first period is 0.0; a zero base is also 0.0.
//	co2_growth_norm: percentile rank of co2_growth across the entire dataset
//	  (average rank for ties, divided by row count), a global rank unlike the
//	  per-country z-scores.
//	risk_score = 0.5*temp_anomaly_z + 0.3*co2_growth_norm + 0.2*sea_level_z.
//
// Feature computation is deterministic and never drops rows.
package domain
