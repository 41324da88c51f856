package domain

import (
	"math"
	"sort"
)

// Risk score weights. Fixed constants, not configurable.
const (
	tempWeight = 0.5
	co2Weight  = 0.3
	seaWeight  = 0.2
)

// ComputeFeatures derives the per-country statistics and the composite risk
// score. Records are sorted by (country, year) and each country group is
// processed in one pass; the global percentile rank of co2_growth is a
// separate sort over the whole dataset. Deterministic, no rows dropped.
func ComputeFeatures(records []StandardRecord) []FeatureRecord {
	out := make([]FeatureRecord, len(records))
	for i, r := range records {
		out[i] = FeatureRecord{StandardRecord: r}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Country != out[j].Country {
			return out[i].Country < out[j].Country
		}
		return out[i].Year < out[j].Year
	})

	// Country boundaries on the sorted slice delimit each group.
	for start := 0; start < len(out); {
		end := start + 1
		for end < len(out) && out[end].Country == out[start].Country {
			end++
		}
		group := out[start:end]
		applyZScores(group)
		applyGrowth(group)
		start = end
	}

	applyGlobalGrowthRank(out)

	for i := range out {
		out[i].RiskScore = tempWeight*out[i].TempAnomalyZ +
			co2Weight*out[i].CO2GrowthNorm +
			seaWeight*out[i].SeaLevelZ
	}
	return out
}

// applyZScores computes population z-scores of temperature_anomaly and
// sea_level_change within one country group. A zero standard deviation is
// treated as 1.0 so constant series score 0.0 instead of dividing by zero.
func applyZScores(group []FeatureRecord) {
	n := float64(len(group))

	var sumTemp, sumSea float64
	for _, r := range group {
		sumTemp += r.TemperatureAnomaly
		sumSea += r.SeaLevelChange
	}
	meanTemp := sumTemp / n
	meanSea := sumSea / n

	var ssTemp, ssSea float64
	for _, r := range group {
		dt := r.TemperatureAnomaly - meanTemp
		ds := r.SeaLevelChange - meanSea
		ssTemp += dt * dt
		ssSea += ds * ds
	}
	stdTemp := math.Sqrt(ssTemp / n)
	stdSea := math.Sqrt(ssSea / n)
	if stdTemp == 0 {
		stdTemp = 1
	}
	if stdSea == 0 {
		stdSea = 1
	}

	for i := range group {
		group[i].TempAnomalyZ = (group[i].TemperatureAnomaly - meanTemp) / stdTemp
		group[i].SeaLevelZ = (group[i].SeaLevelChange - meanSea) / stdSea
	}
}

// applyGrowth computes period-over-period percent change of co2_emission
// within one year-ordered country group. The first period has no predecessor
// and is 0.0; a zero base value also yields 0.0 rather than an infinity that
// would poison the global percentile rank.
func applyGrowth(group []FeatureRecord) {
	group[0].CO2Growth = 0
	for i := 1; i < len(group); i++ {
		prev := group[i-1].CO2Emission
		if prev == 0 {
			group[i].CO2Growth = 0
			continue
		}
		group[i].CO2Growth = (group[i].CO2Emission - prev) / prev
	}
}

// applyGlobalGrowthRank assigns co2_growth_norm: the percentile rank of
// co2_growth across the entire dataset, ties receiving the average of their
// 1-based ranks, divided by the row count. Values fall in (0, 1].
func applyGlobalGrowthRank(records []FeatureRecord) {
	n := len(records)
	if n == 0 {
		return
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return records[idx[a]].CO2Growth < records[idx[b]].CO2Growth
	})

	for i := 0; i < n; {
		j := i + 1
		for j < n && records[idx[j]].CO2Growth == records[idx[i]].CO2Growth {
			j++
		}
		// Ranks i+1..j share the same value; the tie group gets their mean.
		pct := float64(i+1+j) / 2 / float64(n)
		for k := i; k < j; k++ {
			records[idx[k]].CO2GrowthNorm = pct
		}
		i = j
	}
}
