// Package discover enumerates candidate input files for a merge run.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrRootNotFound is returned when the root directory does not exist.
	ErrRootNotFound = errors.New("discover: root directory not found")

	// ErrNoInputs is returned when no files match the pattern.
	ErrNoInputs = errors.New("discover: no files matched pattern")
)

// outputNames are the merger's own outputs, never re-read as inputs.
var outputNames = map[string]struct{}{
	"merged.csv":     {},
	"merged.parquet": {},
}

// Files walks root recursively and returns every regular file whose base
// name matches pattern, in lexicographic path order. The merger's own
// output files are excluded so re-runs stay idempotent.
func Files(root, pattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		if _, skip := outputNames[name]; skip {
			return nil
		}
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s under %s", ErrNoInputs, pattern, root)
	}

	// WalkDir is already lexical, but sort anyway so ordering is a
	// contract rather than an implementation detail.
	sort.Strings(files)
	return files, nil
}
