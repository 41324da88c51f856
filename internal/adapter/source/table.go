package source

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/mossvale/climate-risk-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// readCSV reads a CSV file into a RawTable. Ragged rows are tolerated; field
// count mismatches are resolved during standardization, not here.
func readCSV(path string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return domain.RawTable{}, fmt.Errorf("%w: %s is empty", ErrNoInput, path)
	}

	table := domain.RawTable{Headers: rows[0]}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, domain.RawRecord(row))
	}
	return table, nil
}

// readXLSX reads the first sheet of a workbook into a RawTable. Some dataset
// revisions ship as Excel workbooks instead of CSV.
func readXLSX(path string) (domain.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.RawTable{}, fmt.Errorf("%w: %s has no sheets", ErrNoInput, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return domain.RawTable{}, fmt.Errorf("%w: %s is empty", ErrNoInput, path)
	}

	table := domain.RawTable{Headers: rows[0]}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, domain.RawRecord(row))
	}
	return table, nil
}
