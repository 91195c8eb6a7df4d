package cli

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/legendastv/ltv/internal/engine"
)

// ProgressReporter renders batch progress on the terminal.
type ProgressReporter struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
}

// NewProgressReporter creates a reporter for a batch of total files.
func NewProgressReporter(writer io.Writer, total int) *ProgressReporter {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetDescription("Processing videos"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressReporter{bar: bar, writer: writer}
}

// Step advances the bar and echoes the outcome of the file just finished.
func (p *ProgressReporter) Step(outcome engine.Outcome) {
	switch outcome.Status {
	case engine.StatusDownloaded:
		fmt.Fprintln(p.writer, FormatSuccess(fmt.Sprintf("%s → %s", outcome.File.Basename(), outcome.Path)))
	case engine.StatusSkipped:
		fmt.Fprintln(p.writer, SubtleStyle.Render(fmt.Sprintf("− %s (%s)", outcome.File.Basename(), outcome.Reason)))
	case engine.StatusFailed:
		fmt.Fprintln(p.writer, FormatError(fmt.Sprintf("%s: %s", outcome.File.Basename(), outcome.Reason)))
	}
	_ = p.bar.Add(1)
}
