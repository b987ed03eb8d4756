package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback for long-running terminal work,
// such as paging through an ebook or counting down an exam.
type Reporter interface {
	Start(label string, total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive
// terminal, or a PlainReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &PlainReporter{}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(label string, total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		if message != "" {
			r.bar.Describe(message)
		}
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// PlainReporter prints line-by-line progress suitable for CI logs.
type PlainReporter struct {
	label string
	total int
}

func (r *PlainReporter) Start(label string, total int) {
	r.label = label
	r.total = total
	fmt.Fprintf(os.Stderr, "%s: 0/%d\n", label, total)
}

func (r *PlainReporter) Update(current int, message string) {
	if message == "" {
		message = r.label
	}
	fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, r.total, message)
}

func (r *PlainReporter) Finish() {
	fmt.Fprintf(os.Stderr, "%s: done\n", r.label)
}
