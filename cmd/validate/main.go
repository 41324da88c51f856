// Command validate checks a processed climate risk CSV against the pipeline's
// output contract and statistical invariants: exact header, per-country
// z-score moments, first-period growth, global percentile bounds and
// monotonicity, and the risk score identity.
//
// Usage:
//
//	go run ./cmd/validate -processed data/processed/processed_data.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/mossvale/climate-risk-etl/internal/domain"
)

const (
	momentTolerance   = 1e-6
	identityTolerance = 1e-9
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	processed := flag.String("processed", "", "path to the processed CSV")
	flag.Parse()

	if *processed == "" {
		flag.Usage()
		os.Exit(2)
	}

	phases, err := validate(*processed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("     %s\n", e)
		}
	}
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		os.Exit(1)
	}
	fmt.Printf("all %d phases passed\n", len(phases))
}

func validate(path string) ([]*phase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	header := &phase{name: "header contract"}
	checkHeader(header, rows[0])

	records, parse := parseRecords(rows[1:])
	if !header.passed() || !parse.passed() {
		return []*phase{header, parse}, nil
	}

	groups := groupByCountry(records)

	phases := []*phase{
		header,
		parse,
		checkGrowth(groups),
		checkZScores(groups),
		checkPercentiles(records),
		checkRiskIdentity(records),
	}
	return phases, nil
}

func checkHeader(p *phase, got []string) {
	if len(got) != len(domain.OutputHeader) {
		p.errorf("expected %d columns, got %d", len(domain.OutputHeader), len(got))
		return
	}
	for i, want := range domain.OutputHeader {
		if got[i] != want {
			p.errorf("column %d: expected %q, got %q", i, want, got[i])
		}
	}
}

func parseRecords(rows [][]string) ([]domain.FeatureRecord, *phase) {
	p := &phase{name: "row parsing"}
	records := make([]domain.FeatureRecord, 0, len(rows))

	for i, row := range rows {
		if len(row) != len(domain.OutputHeader) {
			p.errorf("row %d: %d fields", i+2, len(row))
			continue
		}
		if row[0] == "" {
			p.errorf("row %d: empty country", i+2)
			continue
		}
		year, err := strconv.Atoi(row[1])
		if err != nil {
			p.errorf("row %d: bad year %q", i+2, row[1])
			continue
		}

		nums := make([]float64, 8)
		ok := true
		for j := 2; j < 10; j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				p.errorf("row %d: column %s is %q", i+2, domain.OutputHeader[j], row[j])
				ok = false
				break
			}
			nums[j-2] = v
		}
		if !ok {
			continue
		}

		records = append(records, domain.FeatureRecord{
			StandardRecord: domain.StandardRecord{
				Country:            row[0],
				Year:               year,
				TemperatureAnomaly: nums[0],
				CO2Emission:        nums[1],
				SeaLevelChange:     nums[2],
			},
			TempAnomalyZ:  nums[3],
			SeaLevelZ:     nums[4],
			CO2Growth:     nums[5],
			CO2GrowthNorm: nums[6],
			RiskScore:     nums[7],
		})
	}
	return records, p
}

func groupByCountry(records []domain.FeatureRecord) map[string][]domain.FeatureRecord {
	groups := map[string][]domain.FeatureRecord{}
	for _, r := range records {
		groups[r.Country] = append(groups[r.Country], r)
	}
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].Year < group[j].Year })
	}
	return groups
}

func checkGrowth(groups map[string][]domain.FeatureRecord) *phase {
	p := &phase{name: "first-period growth is zero"}
	for country, group := range groups {
		if group[0].CO2Growth != 0 {
			p.errorf("%s: first year %d has co2_growth %g", country, group[0].Year, group[0].CO2Growth)
		}
	}
	return p
}

func checkZScores(groups map[string][]domain.FeatureRecord) *phase {
	p := &phase{name: "per-country z-score moments"}
	for country, group := range groups {
		checkMoments(p, country, "temp_anomaly_z",
			values(group, func(r domain.FeatureRecord) float64 { return r.TemperatureAnomaly }),
			values(group, func(r domain.FeatureRecord) float64 { return r.TempAnomalyZ }))
		checkMoments(p, country, "sea_level_z",
			values(group, func(r domain.FeatureRecord) float64 { return r.SeaLevelChange }),
			values(group, func(r domain.FeatureRecord) float64 { return r.SeaLevelZ }))
	}
	return p
}

// checkMoments verifies z has mean 0 and population stddev 1 when the base
// series has non-zero variance, and is all zeros otherwise.
func checkMoments(p *phase, country, field string, base, z []float64) {
	if popStddev(base) == 0 {
		for _, v := range z {
			if v != 0 {
				p.errorf("%s: constant %s series has score %g", country, field, v)
				return
			}
		}
		return
	}

	if m := mean(z); math.Abs(m) > momentTolerance {
		p.errorf("%s: %s mean %g", country, field, m)
	}
	if std := popStddev(z); math.Abs(std-1) > momentTolerance {
		p.errorf("%s: %s stddev %g", country, field, std)
	}
}

func checkPercentiles(records []domain.FeatureRecord) *phase {
	p := &phase{name: "global percentile rank"}

	sorted := make([]domain.FeatureRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CO2Growth < sorted[j].CO2Growth })

	for i, r := range sorted {
		if r.CO2GrowthNorm < 0 || r.CO2GrowthNorm > 1 {
			p.errorf("%s %d: co2_growth_norm %g out of [0,1]", r.Country, r.Year, r.CO2GrowthNorm)
		}
		if i > 0 && r.CO2GrowthNorm < sorted[i-1].CO2GrowthNorm {
			p.errorf("%s %d: rank decreases along sorted co2_growth", r.Country, r.Year)
		}
	}
	return p
}

func checkRiskIdentity(records []domain.FeatureRecord) *phase {
	p := &phase{name: "risk score identity"}
	for _, r := range records {
		want := 0.5*r.TempAnomalyZ + 0.3*r.CO2GrowthNorm + 0.2*r.SeaLevelZ
		if math.Abs(r.RiskScore-want) > identityTolerance {
			p.errorf("%s %d: risk_score %g, expected %g", r.Country, r.Year, r.RiskScore, want)
		}
	}
	return p
}

func values(records []domain.FeatureRecord, get func(domain.FeatureRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = get(r)
	}
	return out
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func popStddev(vals []float64) float64 {
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(vals)))
}
