package pipeline

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// NewProgressBar builds a per-stage progress bar on stderr. When stderr is
// not a terminal the bar writes to io.Discard so logs stay clean.
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	var out io.Writer = os.Stderr
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		out = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
