package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/airmerge/airmerge/pkg/schema"
	"github.com/airmerge/airmerge/pkg/table"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestChunks_HeaderRow(t *testing.T) {
	path := writeFile(t, "a,b\n1,x\n2,y\n")

	chunks, err := Chunks(path, Options{
		Resolution: schema.Resolution{HasHeader: true},
		RawText:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	got := chunks[0]
	if got.Columns[0] != "a" || got.Columns[1] != "b" {
		t.Errorf("Columns = %v, want [a b]", got.Columns)
	}
	if got.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", got.NumRows())
	}
	if !got.Rows[0][0].Equal(table.Str("1")) {
		t.Errorf("raw text cell = %v, want string \"1\"", got.Rows[0][0])
	}
}

func TestChunks_FixedColumns(t *testing.T) {
	path := writeFile(t, "1,x\n2,y\n3,z\n")

	chunks, err := Chunks(path, Options{
		Resolution: schema.Resolution{Columns: []string{"n", "s"}},
		RawText:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := chunks[0].NumRows(); got != 3 {
		t.Errorf("NumRows() = %d, want 3", got)
	}
}

func TestChunks_NATokens(t *testing.T) {
	path := writeFile(t, "a,b,c,d\n,NA,N/A,na\n")

	chunks, err := Chunks(path, Options{
		Resolution: schema.Resolution{HasHeader: true},
		RawText:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	row := chunks[0].Rows[0]
	for i := 0; i < 3; i++ {
		if !row[i].IsMissing() {
			t.Errorf("cell %d = %v, want missing", i, row[i])
		}
	}
	// Matching is case-sensitive: "na" is data.
	if !row[3].Equal(table.Str("na")) {
		t.Errorf("cell 3 = %v, want string \"na\"", row[3])
	}
}

func TestChunks_TypedInference(t *testing.T) {
	path := writeFile(t, "a,b\n12.5,north\n")

	chunks, err := Chunks(path, Options{
		Resolution: schema.Resolution{HasHeader: true},
		RawText:    false,
	})
	if err != nil {
		t.Fatal(err)
	}
	row := chunks[0].Rows[0]
	if !row[0].Equal(table.Num(12.5)) {
		t.Errorf("numeric cell = %v, want 12.5", row[0])
	}
	if !row[1].Equal(table.Str("north")) {
		t.Errorf("text cell = %v, want north", row[1])
	}
}

func TestChunks_ChunkingSplitsRows(t *testing.T) {
	path := writeFile(t, "a\n1\n2\n3\n4\n5\n")

	chunks, err := Chunks(path, Options{
		Resolution: schema.Resolution{HasHeader: true},
		RawText:    true,
		ChunkSize:  2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	wantRows := []int{2, 2, 1}
	for i, c := range chunks {
		if c.NumRows() != wantRows[i] {
			t.Errorf("chunk %d rows = %d, want %d", i, c.NumRows(), wantRows[i])
		}
	}
}

func TestChunks_ChunkedMatchesUnchunked(t *testing.T) {
	content := "a,b\n1,x\n2,y\n3,z\n"
	path := writeFile(t, content)

	whole, err := Chunks(path, Options{Resolution: schema.Resolution{HasHeader: true}, RawText: true})
	if err != nil {
		t.Fatal(err)
	}
	pieces, err := Chunks(path, Options{Resolution: schema.Resolution{HasHeader: true}, RawText: true, ChunkSize: 1})
	if err != nil {
		t.Fatal(err)
	}

	a := table.Concat(whole)
	b := table.Concat(pieces)
	if a.NumRows() != b.NumRows() {
		t.Fatalf("rows: %d vs %d", a.NumRows(), b.NumRows())
	}
	for i := range a.Rows {
		for j := range a.Rows[i] {
			if !a.Rows[i][j].Equal(b.Rows[i][j]) {
				t.Errorf("cell (%d,%d): %v vs %v", i, j, a.Rows[i][j], b.Rows[i][j])
			}
		}
	}
}

func TestChunks_RaggedRowFails(t *testing.T) {
	path := writeFile(t, "a,b\n1,2\n1,2,3\n")

	_, err := Chunks(path, Options{
		Resolution: schema.Resolution{HasHeader: true},
		RawText:    true,
	})
	if err == nil {
		t.Error("expected error for ragged row, got nil")
	}
}

func TestChunks_EmptyHeaderedFile(t *testing.T) {
	path := writeFile(t, "")

	_, err := Chunks(path, Options{
		Resolution: schema.Resolution{HasHeader: true},
		RawText:    true,
	})
	if err == nil {
		t.Error("expected error for empty file, got nil")
	}
}
