package ui

import (
	"context"
	"strings"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"tifpng/internal/model"
	"tifpng/internal/pipeline"
	"tifpng/internal/progress"
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	title string
	opts  model.Options

	// Jobs appear as the pipeline queues them.
	jobOrder []string
	jobs     map[string]*jobState

	// Batch
	stage   progress.Stage
	percent float64
	message string
	bar     bubblesprogress.Model

	// Questions waiting for y/n, oldest first.
	prompts []confirmMsg

	finished bool
	report   pipeline.Report
	err      error

	// UI
	width, height int
	styles        Styles

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, title string, opts model.Options) Model {
	c, cancel := context.WithCancel(ctx)
	return Model{
		ctx:     c,
		cancel:  cancel,
		title:   title,
		opts:    opts,
		jobs:    make(map[string]*jobState),
		stage:   progress.StageScanning,
		bar:     bubblesprogress.New(bubblesprogress.WithDefaultGradient(), bubblesprogress.WithWidth(40)),
		styles:  defaultStyles(),
		eventCh: make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	return m.listenEventsCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case jobUpdateMsg:
		if tick := m.applyUpdate(msg.U); tick != nil {
			return m, tea.Batch(tick, m.listenEventsCmd())
		}

	case jobLogMsg:
		l := msg.L
		if js, ok := m.jobs[l.JobID]; ok {
			js.addLog(strings.TrimRight(l.Line, "\r\n"))
		}

	case jobResultMsg:
		r := msg.R
		if js, ok := m.jobs[r.JobID]; ok {
			js.done = true
			js.err = r.Err
			js.skipped = r.Skipped
			js.outputPath = r.OutputPath
			js.bytes = r.Bytes
			if r.Err != nil {
				js.stage = progress.StageError
				js.status = r.Err.Error()
			}
		}

	case confirmMsg:
		m.prompts = append(m.prompts, msg)

	case finishedMsg:
		m.finished = true
		m.report = msg.report
		m.err = msg.err
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if js.done {
			continue
		}
		var c tea.Cmd
		js.spinner, c = js.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	// Keep listening for events
	if isEvent(msg) {
		cmds = append(cmds, m.listenEventsCmd())
	}
	return m, tea.Batch(cmds...)
}

func isEvent(msg tea.Msg) bool {
	switch msg.(type) {
	case jobUpdateMsg, jobLogMsg, jobResultMsg, confirmMsg:
		return true
	}
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if msg.String() == "q" && len(m.prompts) > 0 {
			break
		}
		m.answerAll(false)
		m.cancel()
		return m, tea.Quit
	case "y", "Y":
		m.answer(true)
	case "n", "N", "enter", "esc":
		m.answer(false)
	}
	return m, nil
}

// answer replies to the oldest pending question.
func (m *Model) answer(yes bool) {
	if len(m.prompts) == 0 {
		return
	}
	p := m.prompts[0]
	m.prompts = m.prompts[1:]
	p.reply <- yes
}

func (m *Model) answerAll(yes bool) {
	for len(m.prompts) > 0 {
		m.answer(yes)
	}
}

// applyUpdate records u. It returns the spinner tick of a newly seen job.
func (m *Model) applyUpdate(u progress.Update) tea.Cmd {
	if u.JobID == "" {
		m.stage = u.Stage
		if u.Percent >= 0 {
			m.percent = u.Percent
		}
		if u.Message != "" {
			m.message = u.Message
		}
		return nil
	}
	var tick tea.Cmd
	js, ok := m.jobs[u.JobID]
	if !ok {
		js = newJobState(u.JobID, u.Target, m.styles)
		m.jobs[u.JobID] = js
		m.jobOrder = append(m.jobOrder, u.JobID)
		tick = js.spinner.Tick
	}
	js.stage = u.Stage
	if u.Message != "" {
		js.status = u.Message
	} else {
		js.status = stageLabel(u.Stage)
	}
	return tick
}

func stageLabel(s progress.Stage) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewJobs())
	if p := m.viewPrompt(); p != "" {
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case msg := <-m.eventCh:
			return msg
		}
	}
}

type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

// send blocks unless the UI has gone away.
func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}

func (r teaReporter) Update(u progress.Update) {
	// Stage transitions of the batch and final job states must arrive.
	if u.JobID == "" || u.Stage == progress.StageQueued || u.Stage == progress.StageCompleted ||
		u.Stage == progress.StageError || u.Stage == progress.StageSkipped {
		r.send(jobUpdateMsg{U: u})
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}

func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	r.send(jobResultMsg{R: res})
}

// teaConfirmer asks questions through the TUI. Once the UI is gone every
// question is answered "no".
type teaConfirmer struct {
	ctx context.Context
	ch  chan tea.Msg
}

func (c teaConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	reply := make(chan bool, 1)
	select {
	case c.ch <- confirmMsg{question: question, reply: reply}:
	case <-c.ctx.Done():
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case yes := <-reply:
		return yes, nil
	case <-c.ctx.Done():
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
