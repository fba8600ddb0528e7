// Package tui renders operator output: styled confirmations and the
// run summary on stdout, warnings on stderr, and a progress bar over
// the discovered file list.
package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

var (
	warn    = lipgloss.Color("#FFAA00")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	warnStyle    = lipgloss.NewStyle().Foreground(warn)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
)

// Warnf prints a warning line to stderr.
func Warnf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// SkipFile reports a skipped input file with its cause.
func SkipFile(path string, err error) {
	Warnf("skipping %s: %v", path, err)
}

// Successf prints a confirmation line to stdout.
func Successf(format string, args ...any) {
	fmt.Println(successStyle.Render("✓ ") + fmt.Sprintf(format, args...))
}

// Infof prints a muted informational line to stdout.
func Infof(format string, args ...any) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Summary is the subset of run results shown after a merge.
type Summary struct {
	Rows        int
	Columns     int
	HasUTCRange bool
	UTCMin      time.Time
	UTCMax      time.Time
}

// PrintSummary renders the run summary block to stdout.
func PrintSummary(s Summary) {
	fmt.Printf("%s %d\n", titleStyle.Render("Rows:"), s.Rows)
	fmt.Printf("%s %d\n", titleStyle.Render("Columns:"), s.Columns)
	if s.HasUTCRange {
		const layout = "2006-01-02T15:04:05"
		fmt.Printf("%s %s %s %s\n",
			titleStyle.Render("UTC range:"),
			s.UTCMin.UTC().Format(layout),
			mutedStyle.Render("→"),
			s.UTCMax.UTC().Format(layout))
	}
}

// ShowProgress creates a progress bar over n input files. Rendering is
// suppressed when stderr is not a terminal.
func ShowProgress(n int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(isTerminal(os.Stderr)),
		progressbar.OptionShowCount(),
	)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
