package output

import (
	"time"

	"github.com/airmerge/airmerge/pkg/table"
)

// Summary describes the final merged table for the operator.
type Summary struct {
	Rows    int
	Columns int

	// HasUTCRange is true when the timestamp column exists and holds at
	// least one parsed value; UTCMin/UTCMax are then an inclusive range.
	HasUTCRange bool
	UTCMin      time.Time
	UTCMax      time.Time
}

// Summarize computes the run summary from the merged table.
func Summarize(t *table.Table, timestampColumn string) Summary {
	s := Summary{Rows: t.NumRows(), Columns: t.NumCols()}

	idx := t.ColumnIndex(timestampColumn)
	if idx < 0 {
		return s
	}
	for _, row := range t.Rows {
		v := row[idx]
		if v.Kind != table.KindTime {
			continue
		}
		if !s.HasUTCRange {
			s.HasUTCRange = true
			s.UTCMin, s.UTCMax = v.Time, v.Time
			continue
		}
		if v.Time.Before(s.UTCMin) {
			s.UTCMin = v.Time
		}
		if v.Time.After(s.UTCMax) {
			s.UTCMax = v.Time
		}
	}
	return s
}
