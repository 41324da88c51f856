// Package source reads the raw dataset from the local acquisition directory.
// The upstream download step (out of scope here) leaves a zip archive or a
// loose CSV/XLSX file in the raw directory; this package extracts archives in
// place, picks the most likely dataset file, and reads it into a RawTable.
package source

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mossvale/climate-risk-etl/internal/domain"
)

// ErrNoInput reports that no readable dataset was found in the raw directory.
var ErrNoInput = errors.New("no source dataset found")

// Extractor discovers and reads the raw dataset file.
// It implements pipeline.Extractor.
type Extractor struct {
	rawDir string
	logger *slog.Logger
}

// NewExtractor creates an Extractor over the given raw-data directory.
func NewExtractor(rawDir string, logger *slog.Logger) *Extractor {
	return &Extractor{rawDir: rawDir, logger: logger}
}

// Extract unpacks any archives in the raw directory, discovers the dataset
// file, and reads it. Returns ErrNoInput (wrapped) when nothing usable exists.
func (e *Extractor) Extract(ctx context.Context) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}

	if err := extractArchives(e.rawDir, e.logger); err != nil {
		return domain.RawTable{}, fmt.Errorf("extract archives: %w", err)
	}

	path, err := Discover(e.rawDir)
	if err != nil {
		return domain.RawTable{}, err
	}
	e.logger.Info("reading source dataset", "path", path)

	var table domain.RawTable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		table, err = readXLSX(path)
	default:
		table, err = readCSV(path)
	}
	if err != nil {
		return domain.RawTable{}, err
	}

	table.Source = path
	return table, nil
}

// Discover selects the dataset file in dir: candidates are .csv and .xlsx
// files; a name containing "risk" wins, otherwise the lexically first
// candidate. Returns ErrNoInput (wrapped) when no candidate exists.
func Discover(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read raw dir %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoInput, dir)
	}
	sort.Strings(candidates)

	for _, name := range candidates {
		if strings.Contains(strings.ToLower(name), "risk") {
			return filepath.Join(dir, name), nil
		}
	}
	return filepath.Join(dir, candidates[0]), nil
}

// extractArchives unpacks every .zip in dir into dir, flattening paths.
// Already-extracted files are overwritten, which keeps reruns idempotent.
func extractArchives(dir string, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read raw dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		logger.Info("extracting archive", "path", path)
		if err := unzip(path, dir); err != nil {
			return fmt.Errorf("unzip %s: %w", path, err)
		}
	}
	return nil
}

func unzip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		// Flatten: archive-internal directories are irrelevant, and using only
		// the base name neutralizes path traversal entries.
		dest := filepath.Join(destDir, filepath.Base(f.Name))
		if err := extractFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
