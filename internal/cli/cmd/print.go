package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"tifpng/internal/model"
	"tifpng/internal/pipeline"
	"tifpng/internal/progress"
	"tifpng/internal/util/format"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	skipMark = color.New(color.FgYellow).Sprint("–")
	faint    = color.New(color.Faint).SprintFunc()
	bold     = color.New(color.Bold).SprintFunc()
	red      = color.New(color.FgRed).SprintFunc()
)

// plainReporter prints one line per finished job, plus log lines in verbose
// mode. Safe for concurrent use.
type plainReporter struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

func newPlainReporter(w io.Writer, verbose bool) *plainReporter {
	return &plainReporter{w: w, verbose: verbose}
}

func (r *plainReporter) Update(u progress.Update) {
	if !r.verbose || u.JobID != "" || u.Stage == progress.StageRunning {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, faint(fmt.Sprintf("[%s] %3.0f%%", u.Stage, u.Percent)))
}

func (r *plainReporter) Log(l progress.Log) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	line := fmt.Sprintf("[%s] %s", l.JobID, l.Line)
	if l.Stream == progress.StreamWarn {
		line = color.YellowString(line)
	}
	fmt.Fprintln(r.w, line)
}

func (r *plainReporter) Result(res progress.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case res.Err != nil:
		fmt.Fprintf(r.w, "%s %s: %v\n", failMark, res.Target, res.Err)
	case res.Skipped:
		fmt.Fprintf(r.w, "%s %s: kept existing %s\n", skipMark, res.Target, res.OutputPath)
	case res.Bytes > 0:
		fmt.Fprintf(r.w, "%s %s → %s (%s)\n", okMark, res.Target, res.OutputPath, format.HumanizeBytes(res.Bytes))
	case res.OutputPath != "":
		fmt.Fprintf(r.w, "%s %s (%s)\n", okMark, res.Target, res.OutputPath)
	default:
		fmt.Fprintf(r.w, "%s %s\n", okMark, res.Target)
	}
}

// printReport writes the summary and the failure list in document order.
func printReport(w io.Writer, opts model.Options, rep pipeline.Report) {
	if rep.Empty && opts.Silent {
		return
	}
	fmt.Fprintln(w, bold(rep.Summary()))
	for _, line := range rep.FailureLines() {
		fmt.Fprintln(w, red(line))
	}
}
