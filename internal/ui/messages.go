package ui

import (
	"tifpng/internal/pipeline"
	"tifpng/internal/progress"
)

type jobUpdateMsg struct {
	U progress.Update
}

type jobLogMsg struct {
	L progress.Log
}

type jobResultMsg struct {
	R progress.Result
}

// confirmMsg carries a question from a running task. The task blocks until
// a value is sent on reply.
type confirmMsg struct {
	question string
	reply    chan<- bool
}

type finishedMsg struct {
	report pipeline.Report
	err    error
}
