// Package table provides the in-memory row table shared by every stage
// of the merge pipeline: ordered columns, typed cells, and column-union
// concatenation.
package table

// Table is an ordered collection of rows sharing one column set.
// Rows are slices parallel to Columns; cells are Value structs.
type Table struct {
	Columns []string
	Rows    [][]Value

	index map[string]int
}

// New creates an empty table with the given column order.
func New(columns []string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.rebuildIndex()
	return t
}

func (t *Table) rebuildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// ColumnIndex returns the position of a column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	if t.index == nil {
		t.rebuildIndex()
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// AddColumn appends a new column, filling existing rows with missing.
func (t *Table) AddColumn(name string) {
	t.Columns = append(t.Columns, name)
	if t.index == nil {
		t.rebuildIndex()
	} else {
		t.index[name] = len(t.Columns) - 1
	}
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], Missing())
	}
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(row []Value) {
	t.Rows = append(t.Rows, row)
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.Columns) }

// Concat concatenates tables in order with column-union semantics: the
// result's column set is the union of all inputs in first-seen order,
// and rows gain missing cells for columns their source table lacked.
func Concat(tables []*Table) *Table {
	var union []string
	seen := make(map[string]struct{})
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				union = append(union, c)
			}
		}
	}

	out := New(union)
	for _, t := range tables {
		// Map source column position -> output position once per table.
		remap := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			remap[i] = out.ColumnIndex(c)
		}
		for _, row := range t.Rows {
			dst := make([]Value, len(union))
			for i, v := range row {
				dst[remap[i]] = v
			}
			out.Append(dst)
		}
	}
	return out
}
