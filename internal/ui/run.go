package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tifpng/internal/model"
	"tifpng/internal/pipeline"
	"tifpng/internal/progress"
)

// Task is one pipeline run driven by the TUI.
type Task func(rp progress.Reporter, c pipeline.Confirmer) (pipeline.Report, error)

// Run shows progress for task until it finishes. Quitting the UI early
// hides it but the batch still runs to completion, with any further
// questions answered "no"; Run returns once it has.
func Run(ctx context.Context, title string, opts model.Options, task Task) (pipeline.Report, error) {
	m := NewModel(ctx, title, opts)
	defer m.cancel()

	type outcome struct {
		report pipeline.Report
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		rep, err := task(teaReporter{ctx: m.ctx, ch: m.eventCh}, teaConfirmer{ctx: m.ctx, ch: m.eventCh})
		done <- outcome{report: rep, err: err}
		select {
		case m.eventCh <- finishedMsg{report: rep, err: err}:
		case <-m.ctx.Done():
		}
	}()

	prog := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		m.cancel()
		<-done
		return pipeline.Report{}, err
	}
	m.cancel()
	res := <-done
	return res.report, res.err
}
