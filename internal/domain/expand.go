package domain

import "math/rand"

// Perturbation half-widths for the simulated series, as fractions of the base
// value.
const (
	tempJitter = 0.30
	co2Jitter  = 0.25
	seaJitter  = 0.30
)

// ExpandYears manufactures a multi-year series from single-year records: each
// record is replicated once per year in [startYear, endYear], with the three
// numeric fields perturbed by independent uniform factors per row per year.
// The output is simulated data, not observed history.
//
// Row order is deterministic (year-major, input order within a year), so a
// fixed-seed rng reproduces the expansion exactly.
func ExpandYears(records []StandardRecord, startYear, endYear int, rng *rand.Rand) []StandardRecord {
	if len(records) == 0 || endYear < startYear {
		return nil
	}

	out := make([]StandardRecord, 0, len(records)*(endYear-startYear+1))
	for year := startYear; year <= endYear; year++ {
		for _, rec := range records {
			sim := rec
			sim.Year = year
			sim.TemperatureAnomaly = rec.TemperatureAnomaly * (1 + jitter(rng, tempJitter))
			sim.CO2Emission = rec.CO2Emission * (1 + jitter(rng, co2Jitter))
			sim.SeaLevelChange = rec.SeaLevelChange * (1 + jitter(rng, seaJitter))
			out = append(out, sim)
		}
	}
	return out
}

// jitter samples uniformly from [-scale, scale).
func jitter(rng *rand.Rand, scale float64) float64 {
	return (rng.Float64()*2 - 1) * scale
}
