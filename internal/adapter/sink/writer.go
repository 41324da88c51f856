// Package sink persists the processed dataset and its run manifest.
package sink

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mossvale/climate-risk-etl/internal/domain"
)

// Writer persists feature records as the processed CSV the dashboard reads.
// It implements pipeline.Loader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting the processed CSV path. Parent
// directories are created on first load.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Load writes all records to the processed CSV, overwriting any previous run.
// The write goes through a temp file and rename so the dashboard never
// observes a half-written file.
func (w *Writer) Load(ctx context.Context, records []domain.FeatureRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".processed-*.csv")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeRecords(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace %s: %w", w.path, err)
	}

	w.logger.Info("processed dataset written", "path", w.path, "rows", len(records))
	return nil
}

// WriteManifest writes the run manifest next to the processed CSV as
// <output>.manifest.json.
func (w *Writer) WriteManifest(ctx context.Context, m domain.RunManifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	path := ManifestPath(w.path)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// ManifestPath returns the manifest location for a processed CSV path.
func ManifestPath(csvPath string) string {
	return csvPath + ".manifest.json"
}

func writeRecords(f *os.File, records []domain.FeatureRecord) error {
	cw := csv.NewWriter(f)

	if err := cw.Write(domain.OutputHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Country,
			strconv.Itoa(r.Year),
			formatFloat(r.TemperatureAnomaly),
			formatFloat(r.CO2Emission),
			formatFloat(r.SeaLevelChange),
			formatFloat(r.TempAnomalyZ),
			formatFloat(r.SeaLevelZ),
			formatFloat(r.CO2Growth),
			formatFloat(r.CO2GrowthNorm),
			formatFloat(r.RiskScore),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatFloat uses the shortest round-trip representation, so identical
// feature values always serialize to identical bytes.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
