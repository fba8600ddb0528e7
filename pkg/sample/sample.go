// Package sample produces the small fixture dataset: it loads the
// merged CSV from its fixed location, drops duplicate rows, and takes a
// deterministic 100-row sample.
package sample

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/airmerge/airmerge/pkg/merge"
	"github.com/airmerge/airmerge/pkg/output"
	"github.com/airmerge/airmerge/pkg/reader"
	"github.com/airmerge/airmerge/pkg/schema"
	"github.com/airmerge/airmerge/pkg/table"
)

// Fixed dataset locations, relative to the working directory.
const (
	dataDir    = "Data/2020-fire"
	inputName  = "merged.csv"
	outputName = "unique_2020_fire_data.csv"
)

// Size is the fixture row count.
const Size = 100

// seed keeps the sample reproducible across runs.
const seed = 42

// ErrInputMissing is returned when the merged CSV has not been produced.
var ErrInputMissing = errors.New("sample: merged dataset not found")

// Result reports what the sampler wrote.
type Result struct {
	Rows       int
	InputPath  string
	OutputPath string
}

// Run reads baseDir/Data/2020-fire/merged.csv, de-duplicates it, and
// writes a deterministic Size-row sample next to it.
func Run(baseDir string) (*Result, error) {
	inPath := filepath.Join(baseDir, dataDir, inputName)
	outPath := filepath.Join(baseDir, dataDir, outputName)

	if _, err := os.Stat(inPath); err != nil {
		return nil, fmt.Errorf("%w: %s (run the merge first)", ErrInputMissing, inPath)
	}

	// The merged CSV is treated as plain tabular text here; typing was
	// already applied when it was produced.
	chunks, err := reader.Chunks(inPath, reader.Options{
		Resolution: schema.Resolution{HasHeader: true},
		RawText:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inPath, err)
	}

	unique := merge.StrictDedup(table.Concat(chunks))
	if unique.NumRows() < Size {
		return nil, fmt.Errorf("sample: need at least %d unique rows, have %d", Size, unique.NumRows())
	}

	sampled := reservoir(unique, Size)
	if err := output.WriteCSV(sampled, outPath); err != nil {
		return nil, err
	}

	return &Result{Rows: sampled.NumRows(), InputPath: inPath, OutputPath: outPath}, nil
}

// reservoir takes a k-row sample using Algorithm R with a fixed seed.
func reservoir(t *table.Table, k int) *table.Table {
	rng := rand.New(rand.NewSource(seed))
	res := make([][]table.Value, 0, k)

	for n, row := range t.Rows {
		if n < k {
			res = append(res, row)
			continue
		}
		if j := rng.Intn(n + 1); j < k {
			res[j] = row
		}
	}

	out := table.New(t.Columns)
	for _, row := range res {
		out.Append(row)
	}
	return out
}
