// Command genfixture generates a deterministic pair of fixture files: a raw
// sample CSV in the shape of the climate risk index dataset, and the processed
// CSV the pipeline produces from it with a fixed seed. It uses the actual
// domain package so the fixtures always match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -raw-out data/fixtures/climate_risk_index.csv \
//	  -processed-out data/fixtures/processed_data.csv \
//	  -seed 42
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/mossvale/climate-risk-etl/internal/adapter/sink"
	"github.com/mossvale/climate-risk-etl/internal/domain"
)

// Sample rows in the raw dataset's native header shape.
var sampleHeaders = []string{"Country Name", "CRI Score", "Losses (USDm,PPP) Total", "Fatalities Total"}

var sampleRows = []domain.RawRecord{
	{"Honduras", "10.33", "561.11", "301.64"},
	{"Myanmar", "14.17", "1512.11", "7052.14"},
	{"Haiti", "16.17", "392.54", "274.14"},
	{"Philippines", "18.17", "3119.68", "859.35"},
	{"Bangladesh", "28.33", "1860.04", "572.50"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rawOut := flag.String("raw-out", "", "output path for the raw sample CSV")
	processedOut := flag.String("processed-out", "", "output path for the processed CSV fixture")
	seed := flag.Int64("seed", 42, "expansion seed")
	startYear := flag.Int("start-year", 2000, "first simulated year")
	endYear := flag.Int("end-year", 2024, "last simulated year")
	flag.Parse()

	if *rawOut == "" || *processedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -processed-out")
	}

	if err := writeRawCSV(*rawOut); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("raw fixture: %s (%d rows)", *rawOut, len(sampleRows))

	table := domain.RawTable{Source: *rawOut, Headers: sampleHeaders, Rows: sampleRows}
	mapping, err := domain.ResolveSchema(domain.NormalizeHeaders(table.Headers))
	if err != nil {
		return err
	}
	standardized, _ := domain.Standardize(table, mapping, 2024)
	expanded := domain.ExpandYears(standardized, *startYear, *endYear, rand.New(rand.NewSource(*seed)))
	records := domain.ComputeFeatures(expanded)

	writer := sink.NewWriter(*processedOut, slog.Default())
	if err := writer.Load(context.Background(), records); err != nil {
		return fmt.Errorf("writing processed fixture: %w", err)
	}
	log.Printf("processed fixture: %s (%d rows, seed %d)", *processedOut, len(records), *seed)
	return nil
}

func writeRawCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeaders); err != nil {
		return err
	}
	for _, row := range sampleRows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
