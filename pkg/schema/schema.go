// Package schema resolves per-file column layouts: the fixed AirNow
// export schema, generic inferred columns, and header detection.
package schema

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrUnknownSchema is returned for an unrecognized schema mode.
	ErrUnknownSchema = errors.New("schema: unknown schema mode")

	// ErrUnknownHeaderHint is returned for an unrecognized header flag value.
	ErrUnknownHeaderHint = errors.New("schema: unknown header hint")

	// ErrEmptyFile is returned when a file has no first line to inspect.
	ErrEmptyFile = errors.New("schema: file is empty")
)

// AirNowColumns is the fixed 13-column layout of headerless AirNow
// air-quality exports.
var AirNowColumns = []string{
	"Latitude", "Longitude", "UTC", "Parameter", "Concentration", "Unit",
	"Raw Concentration", "AQI", "Category", "Site Name", "Site Agency",
	"AQS ID", "Full AQS ID",
}

// AirNowNumeric lists the AirNow columns that carry numeric readings.
var AirNowNumeric = map[string]struct{}{
	"Latitude":          {},
	"Longitude":         {},
	"Concentration":     {},
	"Raw Concentration": {},
	"AQI":               {},
	"Category":          {},
}

// headerMarkers are substrings expected in an AirNow header line. The
// detector is a deliberate heuristic: a header containing none of these
// is misclassified as data. Override with an explicit header hint.
var headerMarkers = []string{"Lat", "UTC", "Parameter", "AQI", "Site"}

// genericColumnPrefix names synthesized columns in headerless infer mode.
const genericColumnPrefix = "col_"

// Mode selects how column names are determined.
type Mode uint8

const (
	ModeAirNow Mode = iota
	ModeInfer
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAirNow:
		return "airnow"
	case ModeInfer:
		return "infer"
	default:
		return "unknown"
	}
}

// ParseMode parses a schema mode string.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "airnow":
		return ModeAirNow, nil
	case "infer":
		return ModeInfer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSchema, s)
	}
}

// HeaderHint is the operator's tri-state header assumption.
type HeaderHint uint8

const (
	HeaderAuto HeaderHint = iota
	HeaderPresent
	HeaderAbsent
)

// ParseHeaderHint parses the --assume-header flag value.
func ParseHeaderHint(s string) (HeaderHint, error) {
	switch s {
	case "auto":
		return HeaderAuto, nil
	case "true":
		return HeaderPresent, nil
	case "false":
		return HeaderAbsent, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownHeaderHint, s)
	}
}

// Resolution is the outcome of schema resolution for one file.
// When HasHeader is true and Columns is nil, the file's first row
// supplies the column names.
type Resolution struct {
	HasHeader bool
	Columns   []string
}

// Resolve decides header presence and column names for one file.
func Resolve(path string, mode Mode, hint HeaderHint) (Resolution, error) {
	switch mode {
	case ModeAirNow:
		switch hint {
		case HeaderPresent:
			return Resolution{HasHeader: true}, nil
		case HeaderAbsent:
			return Resolution{Columns: AirNowColumns}, nil
		default:
			first, err := firstLine(path)
			if err != nil {
				return Resolution{}, err
			}
			if DetectHeader(first) {
				return Resolution{HasHeader: true}, nil
			}
			return Resolution{Columns: AirNowColumns}, nil
		}

	case ModeInfer:
		if hint == HeaderAbsent {
			n, err := fieldCount(path)
			if err != nil {
				return Resolution{}, err
			}
			cols := make([]string, n)
			for i := range cols {
				cols[i] = fmt.Sprintf("%s%d", genericColumnPrefix, i)
			}
			return Resolution{Columns: cols}, nil
		}
		return Resolution{HasHeader: true}, nil

	default:
		return Resolution{}, fmt.Errorf("%w: %d", ErrUnknownSchema, mode)
	}
}

// DetectHeader applies the first-line heuristic: a header line contains
// at least one alphabetic character and at least one known marker.
func DetectHeader(line string) bool {
	hasAlpha := false
	for _, r := range line {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasAlpha = true
			break
		}
	}
	if !hasAlpha {
		return false
	}
	for _, m := range headerMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// firstLine reads only the first line of a file.
func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if line == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// fieldCount returns the number of CSV fields in the first row.
func fieldCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	row, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("%w: %s", ErrEmptyFile, path)
		}
		return 0, err
	}
	return len(row), nil
}
