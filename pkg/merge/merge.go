// Package merge aggregates per-file tables into one de-duplicated
// result: column-union concatenation, strict full-row de-duplication,
// then soft de-duplication on a configurable key subset after sorting.
package merge

import (
	"errors"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/airmerge/airmerge/pkg/table"
)

// ErrNoReadableInputs is returned when every input file failed to parse.
var ErrNoReadableInputs = errors.New("merge: no input files could be read")

// FileResult is the outcome of reading one input file. Failures are
// carried as values so a bad file never aborts the batch.
type FileResult struct {
	Path  string
	Table *table.Table
	Err   error
}

// Ok reports whether the file was read successfully.
func (r FileResult) Ok() bool { return r.Err == nil }

// Aggregate concatenates the successful per-file tables in file order,
// then applies strict and soft de-duplication. It fails only when no
// file was readable at all.
func Aggregate(results []FileResult, dedupeKeys, sortBy []string) (*table.Table, error) {
	var tables []*table.Table
	for _, r := range results {
		if r.Ok() {
			tables = append(tables, r.Table)
		}
	}
	if len(tables) == 0 {
		return nil, ErrNoReadableInputs
	}

	merged := table.Concat(tables)
	merged = StrictDedup(merged)
	merged = SoftDedup(merged, dedupeKeys, sortBy)
	return merged, nil
}

// StrictDedup removes rows that are exact duplicates of an earlier row
// across all columns, keeping the first occurrence. Candidate duplicates
// are found by row hash and confirmed cell by cell.
func StrictDedup(t *table.Table) *table.Table {
	out := table.New(t.Columns)
	buckets := make(map[uint64][]int, len(t.Rows))
	var buf []byte

	for _, row := range t.Rows {
		buf = buf[:0]
		for _, v := range row {
			buf = v.AppendBytes(buf)
		}
		h := xxh3.Hash(buf)

		dup := false
		for _, i := range buckets[h] {
			if rowsEqual(out.Rows[i], row) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		buckets[h] = append(buckets[h], out.NumRows())
		out.Append(row)
	}
	return out
}

// SoftDedup removes rows sharing identical values across the key
// columns actually present in t, keeping the first occurrence after a
// stable ascending sort on the present sort columns. With no effective
// keys it is a no-op and the table stays unsorted.
func SoftDedup(t *table.Table, keys, sortBy []string) *table.Table {
	keyIdx := presentIndices(t, keys)
	if len(keyIdx) == 0 {
		return t
	}

	sortIdx := presentIndices(t, sortBy)
	if len(sortIdx) > 0 {
		sort.SliceStable(t.Rows, func(a, b int) bool {
			ra, rb := t.Rows[a], t.Rows[b]
			for _, i := range sortIdx {
				if c := ra[i].Compare(rb[i]); c != 0 {
					return c < 0
				}
			}
			return false
		})
	}

	out := table.New(t.Columns)
	seen := make(map[string]struct{}, len(t.Rows))
	var buf []byte
	for _, row := range t.Rows {
		buf = buf[:0]
		for _, i := range keyIdx {
			buf = row[i].AppendBytes(buf)
		}
		key := string(buf)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Append(row)
	}
	return out
}

// presentIndices intersects requested column names with the table's
// columns, preserving the requested order.
func presentIndices(t *table.Table, names []string) []int {
	var idx []int
	for _, n := range names {
		if i := t.ColumnIndex(n); i >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func rowsEqual(a, b []table.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
