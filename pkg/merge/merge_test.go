package merge

import (
	"errors"
	"testing"

	"github.com/airmerge/airmerge/pkg/table"
)

func rowOf(vs ...table.Value) []table.Value { return vs }

func TestStrictDedup_KeepsFirstOccurrence(t *testing.T) {
	tab := table.New([]string{"a", "b"})
	tab.Append(rowOf(table.Num(1), table.Str("x")))
	tab.Append(rowOf(table.Num(1), table.Str("x")))
	tab.Append(rowOf(table.Num(1), table.Str("y")))

	got := StrictDedup(tab)
	if got.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", got.NumRows())
	}
	if !got.Rows[1][1].Equal(table.Str("y")) {
		t.Errorf("second row = %v, want y kept", got.Rows[1][1])
	}
}

func TestStrictDedup_Idempotent(t *testing.T) {
	tab := table.New([]string{"a"})
	for i := 0; i < 5; i++ {
		tab.Append(rowOf(table.Num(float64(i % 2))))
	}

	once := StrictDedup(tab)
	twice := StrictDedup(once)
	if once.NumRows() != twice.NumRows() {
		t.Errorf("dedup not idempotent: %d vs %d rows", once.NumRows(), twice.NumRows())
	}
}

func TestStrictDedup_DistinguishesKinds(t *testing.T) {
	// A text "12.3" and the number 12.3 are different rows.
	tab := table.New([]string{"a"})
	tab.Append(rowOf(table.Str("12.3")))
	tab.Append(rowOf(table.Num(12.3)))
	tab.Append(rowOf(table.Missing()))
	tab.Append(rowOf(table.Str("")))

	if got := StrictDedup(tab).NumRows(); got != 4 {
		t.Errorf("NumRows() = %d, want 4", got)
	}
}

func TestSoftDedup_EmptyKeyIntersectionIsNoOp(t *testing.T) {
	tab := table.New([]string{"a"})
	tab.Append(rowOf(table.Num(2)))
	tab.Append(rowOf(table.Num(1)))

	got := SoftDedup(tab, []string{"UTC", "Latitude"}, []string{"a"})
	if got.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", got.NumRows())
	}
	// No-op means no sort either.
	if !got.Rows[0][0].Equal(table.Num(2)) {
		t.Errorf("row order changed on no-op: %v", got.Rows[0][0])
	}
}

func TestSoftDedup_SortsThenKeepsFirst(t *testing.T) {
	tab := table.New([]string{"key", "val"})
	tab.Append(rowOf(table.Str("k1"), table.Num(2)))
	tab.Append(rowOf(table.Str("k2"), table.Num(9)))
	tab.Append(rowOf(table.Str("k1"), table.Num(1)))

	got := SoftDedup(tab, []string{"key"}, []string{"val"})
	if got.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", got.NumRows())
	}
	// After sorting by val ascending the k1 row with val=1 comes first
	// and survives.
	if !got.Rows[0][1].Equal(table.Num(1)) {
		t.Errorf("kept k1 val = %v, want 1", got.Rows[0][1])
	}
}

func TestSoftDedup_StableForEqualSortKeys(t *testing.T) {
	tab := table.New([]string{"key", "sort", "origin"})
	tab.Append(rowOf(table.Str("k"), table.Num(1), table.Str("first")))
	tab.Append(rowOf(table.Str("k"), table.Num(1), table.Str("second")))

	got := SoftDedup(tab, []string{"key"}, []string{"sort"})
	if got.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1", got.NumRows())
	}
	if !got.Rows[0][2].Equal(table.Str("first")) {
		t.Errorf("kept origin = %v, want first (stable sort)", got.Rows[0][2])
	}
}

func TestSoftDedup_MissingSortsLast(t *testing.T) {
	tab := table.New([]string{"key", "sort"})
	tab.Append(rowOf(table.Str("a"), table.Missing()))
	tab.Append(rowOf(table.Str("b"), table.Num(5)))

	got := SoftDedup(tab, []string{"key"}, []string{"sort"})
	if !got.Rows[0][0].Equal(table.Str("b")) {
		t.Errorf("first row key = %v, want b (missing sorts last)", got.Rows[0][0])
	}
}

func TestAggregate_AllFilesFailed(t *testing.T) {
	results := []FileResult{
		{Path: "a.csv", Err: errors.New("boom")},
		{Path: "b.csv", Err: errors.New("boom")},
	}
	_, err := Aggregate(results, nil, nil)
	if !errors.Is(err, ErrNoReadableInputs) {
		t.Errorf("err = %v, want ErrNoReadableInputs", err)
	}
}

func TestAggregate_CountsAreMonotonic(t *testing.T) {
	a := table.New([]string{"UTC", "v"})
	a.Append(rowOf(table.Str("t1"), table.Num(1)))
	a.Append(rowOf(table.Str("t1"), table.Num(1))) // strict duplicate
	b := table.New([]string{"UTC", "v"})
	b.Append(rowOf(table.Str("t1"), table.Num(2))) // soft duplicate of t1
	b.Append(rowOf(table.Str("t2"), table.Num(3)))

	inputRows := a.NumRows() + b.NumRows()
	got, err := Aggregate([]FileResult{
		{Path: "a.csv", Table: a},
		{Path: "b.csv", Table: b},
	}, []string{"UTC"}, []string{"UTC"})
	if err != nil {
		t.Fatal(err)
	}
	if got.NumRows() > inputRows {
		t.Errorf("rows grew: %d > %d", got.NumRows(), inputRows)
	}
	if got.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2 (strict then soft dedup)", got.NumRows())
	}
}

func TestAggregate_ColumnUnionFillsMissing(t *testing.T) {
	a := table.New([]string{"x"})
	a.Append(rowOf(table.Num(1)))
	b := table.New([]string{"y"})
	b.Append(rowOf(table.Num(2)))

	got, err := Aggregate([]FileResult{
		{Path: "a.csv", Table: a},
		{Path: "b.csv", Table: b},
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumCols() != 2 || got.NumRows() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", got.NumRows(), got.NumCols())
	}
	if !got.Rows[0][1].IsMissing() || !got.Rows[1][0].IsMissing() {
		t.Error("union cells not filled with missing")
	}
}
