package domain

import "time"

// RunManifest is the provenance record written alongside the processed CSV.
// The multi-year series is simulated, so the manifest captures everything
// needed to reproduce a run: the seed, the year range, and the source file.
type RunManifest struct {
	SourceFile  string    `json:"source_file"`
	BaseYear    int       `json:"base_year"`
	StartYear   int       `json:"start_year"`
	EndYear     int       `json:"end_year"`
	Seed        int64     `json:"seed"`
	Seeded      bool      `json:"seeded"`
	RowsRead    int       `json:"rows_read"`
	RowsDropped int       `json:"rows_dropped"`
	RowsWritten int       `json:"rows_written"`
	GeneratedAt time.Time `json:"generated_at"`
}
