package ui

import (
	"github.com/charmbracelet/bubbles/spinner"

	"tifpng/internal/progress"
)

const logsKept = 20

type jobState struct {
	id     string
	target string
	stage  progress.Stage
	status string
	err    error
	done   bool

	skipped    bool
	outputPath string
	bytes      int64

	spinner spinner.Model

	// recent log lines, oldest first
	logsRing []string
}

func newJobState(id, target string, styles Styles) *jobState {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Spinner
	return &jobState{
		id:      id,
		target:  target,
		stage:   progress.StageQueued,
		status:  "Queued",
		spinner: sp,
	}
}

func (js *jobState) addLog(line string) {
	if len(js.logsRing) >= logsKept {
		js.logsRing = js.logsRing[1:]
	}
	js.logsRing = append(js.logsRing, line)
}

func (js *jobState) lastLog() string {
	if len(js.logsRing) == 0 {
		return ""
	}
	return js.logsRing[len(js.logsRing)-1]
}
