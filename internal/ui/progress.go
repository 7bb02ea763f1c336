// Package ui renders `remap batch` progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"remap/internal/buildpipeline"
)

const statusWidth = 10

// stageLabels is what a working job shows for its current stage.
var stageLabels = map[buildpipeline.Stage]string{
	buildpipeline.StageLoad:   "loading",
	buildpipeline.StageScan:   "scanning",
	buildpipeline.StageBuild:  "building",
	buildpipeline.StageMerge:  "merging",
	buildpipeline.StageChain:  "chaining",
	buildpipeline.StageEncode: "encoding",
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

type jobRow struct {
	name    string
	status  string // queued, a stage label, done or error
	stage   buildpipeline.Stage
	elapsed time.Duration
	err     error
}

func (r *jobRow) finished() bool {
	return r.status == "done" || r.status == "error"
}

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	items   []jobRow
	byName  map[string]int
	overall string // label of the last job-less event
	width   int
	done    bool
}

type (
	eventMsg buildpipeline.Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model that follows events until the
// channel is closed. files are the display names the events refer to.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(workingStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(76))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   make([]jobRow, len(files)),
		byName:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.items[i] = jobRow{name: f, status: "queued"}
		m.byName[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for one event; a closed channel ends the program.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" {
			m.overall = label
		}
		return nil
	}
	i, ok := m.byName[ev.File]
	if !ok || label == "" {
		return nil
	}
	row := &m.items[i]
	row.status, row.stage = label, ev.Stage
	if row.finished() {
		row.elapsed, row.err = ev.Elapsed, ev.Err
	}
	return m.bar.SetPercent(m.fraction())
}

// fraction counts finished jobs as 1 and working ones by stage position.
func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for i := range m.items {
		if m.items[i].finished() {
			sum++
		} else {
			sum += progressFromStage(m.items[i].stage)
		}
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) counts() (done, failed int) {
	for i := range m.items {
		switch m.items[i].status {
		case "done":
			done++
		case "error":
			failed++
		}
	}
	return done, failed
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	if m.overall != "" {
		header += " (" + m.overall + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-16, 20)
	for i := range m.items {
		row := &m.items[i]
		status := fmt.Sprintf("%*s", statusWidth, row.status)
		fmt.Fprintf(&b, "  %s %s", styleStatus(row.status).Render(status), truncate(row.name, nameWidth))
		if row.finished() && row.elapsed > 0 {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  %.1fms", float64(row.elapsed)/float64(time.Millisecond))))
		}
		if row.err != nil {
			b.WriteString("\n      " + errorStyle.Render(truncate(row.err.Error(), nameWidth)))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	done, failed := m.counts()
	fmt.Fprintf(&b, "\n%d/%d remapped", done, len(m.items))
	if failed > 0 {
		b.WriteString(", " + errorStyle.Render(fmt.Sprintf("%d failed", failed)))
	}
	b.WriteByte('\n')
	return b.String()
}

func progressFromStage(stage buildpipeline.Stage) float64 {
	i := stage.Index()
	if i < 0 {
		return 0
	}
	return float64(i) / float64(len(buildpipeline.Stages))
}

func statusLabel(stage buildpipeline.Stage, status buildpipeline.Status) string {
	switch status {
	case buildpipeline.StatusQueued, buildpipeline.StatusDone, buildpipeline.StatusError:
		return string(status)
	case buildpipeline.StatusWorking:
		return stageLabels[stage]
	}
	return ""
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return doneStyle
	case "error":
		return errorStyle
	case "queued", "":
		return idleStyle
	}
	return workingStyle
}

// truncate shortens value to width display cells, ending in "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
