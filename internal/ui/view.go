package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"tifpng/internal/progress"
	"tifpng/internal/util/format"
)

// rows reserved for header, bar and prompt
const chromeRows = 7

func (m Model) viewHeader() string {
	done, total := 0, len(m.jobOrder)
	for _, id := range m.jobOrder {
		if m.jobs[id].done {
			done++
		}
	}
	title := m.styles.Title.Render(m.title)
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Embeds: %d/%d done • %s • q: quit", done, total, m.stage))
	bar := fmt.Sprintf("%s %5.1f%%", m.bar.ViewAs(m.percent/100.0), m.percent)
	out := title + "\n" + sub + "\n" + bar
	if m.message != "" {
		out += "\n" + m.styles.JobInfo.Render(m.message)
	}
	return out
}

func (m Model) viewJobs() string {
	order := m.visibleJobs()
	var b strings.Builder
	for _, id := range order {
		b.WriteString(m.viewJob(m.jobs[id]))
		b.WriteString("\n")
	}
	if hidden := len(m.jobOrder) - len(order); hidden > 0 {
		b.WriteString(m.styles.Faint.Render(fmt.Sprintf("… %d more", hidden)))
		b.WriteString("\n")
	}
	return b.String()
}

// visibleJobs keeps unfinished jobs on screen when the terminal is short.
func (m Model) visibleJobs() []string {
	limit := m.height - chromeRows
	if m.height == 0 || len(m.jobOrder) <= limit {
		return m.jobOrder
	}
	if limit < 1 {
		limit = 1
	}
	var active, done []string
	for _, id := range m.jobOrder {
		if m.jobs[id].done {
			done = append(done, id)
		} else {
			active = append(active, id)
		}
	}
	out := active
	if len(out) > limit {
		return out[:limit]
	}
	// fill with the most recently finished
	for i := len(done) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, done[i])
	}
	return out
}

func (m Model) viewJob(js *jobState) string {
	stageStyle := m.styles.JobInfo
	switch js.stage {
	case progress.StageResolving:
		stageStyle = m.styles.StageFind
	case progress.StageDecoding, progress.StageEncoding:
		stageStyle = m.styles.StageCodec
	case progress.StageWriting, progress.StageRewriting, progress.StageDeleting:
		stageStyle = m.styles.StageDisk
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageSkipped:
		stageStyle = m.styles.Warning
	case progress.StageError:
		stageStyle = m.styles.Error
	}

	var mark string
	switch {
	case js.err != nil:
		mark = m.styles.Error.Render("✗")
	case js.skipped:
		mark = m.styles.Warning.Render("–")
	case js.done:
		mark = m.styles.Success.Render("✓")
	default:
		mark = js.spinner.View()
	}

	info := js.status
	if js.done && js.err == nil && !js.skipped && js.bytes > 0 {
		info = fmt.Sprintf("%s (%s)", js.outputPath, format.HumanizeBytes(js.bytes))
	}
	if m.opts.Verbose && !js.done {
		if l := js.lastLog(); l != "" {
			info = l
		}
	}

	width := 40
	if m.width > 0 {
		width = m.width/2 - 4
	}
	left := m.styles.JobTitle.Render(truncate(js.target, width))
	return fmt.Sprintf("%s %s  %s  %s", mark, left, stageStyle.Render(string(js.stage)), m.styles.JobInfo.Render(truncate(info, width)))
}

func (m Model) viewPrompt() string {
	if len(m.prompts) == 0 {
		return ""
	}
	q := m.prompts[0].question
	more := ""
	if n := len(m.prompts) - 1; n > 0 {
		more = m.styles.Faint.Render(fmt.Sprintf(" (%d more waiting)", n))
	}
	return m.styles.Prompt.Render(q+" [y/N]") + more
}

// truncate shortens s to n terminal cells.
func truncate(s string, n int) string {
	if n <= 0 || runewidth.StringWidth(s) <= n {
		return s
	}
	return runewidth.Truncate(s, n, "…")
}
