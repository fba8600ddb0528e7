// Package output serializes the merged table: CSV as the primary
// artifact, Parquet as an optional columnar copy, plus the run summary.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/airmerge/airmerge/pkg/table"
)

// WriteCSV writes the table as UTF-8 comma-delimited CSV with a header
// row and no index column.
func WriteCSV(t *table.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, t.NumCols())
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = v.Render()
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return f.Close()
}
