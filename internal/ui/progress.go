package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tsolve/internal/fixture"
)

type runModel struct {
	title   string
	events  <-chan fixture.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	label  string
	stage  fixture.Stage
	final  bool
	cases  int
	failed int
	err    bool
}

type eventMsg fixture.Event
type doneMsg struct{}

// NewRunModel returns a Bubble Tea model that renders the progress of a
// fixture run. The model quits once events is closed.
func NewRunModel(title string, files []string, events <-chan fixture.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, label: "queued"})
		index[file] = i
	}
	return &runModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *runModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(fixture.Event(msg))
		return m, tea.Batch(cmd, m.listen())
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
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		model, cmd := m.bar.Update(msg)
		m.bar = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *runModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	finished, cases, failed := 0, 0, 0
	for _, item := range m.items {
		if item.final {
			finished++
		}
		cases += item.cases
		failed += item.failed
	}
	header := fmt.Sprintf("%s %d/%d files, %d cases, %d failed", m.title, finished, len(m.items), cases, failed)
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	for _, item := range m.items {
		label := item.label
		if item.final && !item.err {
			label = fmt.Sprintf("%d/%d", item.cases-item.failed, item.cases)
		}
		status := styleFor(item).Render(fmt.Sprintf("%12s", label))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(item.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *runModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *runModel) apply(ev fixture.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	switch ev.Status {
	case fixture.StatusQueued:
		item.label = "queued"
	case fixture.StatusWorking:
		item.stage = ev.Stage
		item.label = stageLabel(ev.Stage)
	case fixture.StatusDone, fixture.StatusError:
		item.final = true
		item.cases, item.failed = ev.Cases, ev.Failed
		item.err = ev.Status == fixture.StatusError
		if item.err {
			item.label = "error"
		}
	}

	total := 0.0
	for _, it := range m.items {
		if it.final {
			total++
		} else {
			total += stageWeight(it.stage)
		}
	}
	return m.bar.SetPercent(total / float64(len(m.items)))
}

func stageWeight(stage fixture.Stage) float64 {
	switch stage {
	case fixture.StageLoad:
		return 0.1
	case fixture.StageDeclare:
		return 0.2
	case fixture.StageCompile:
		return 0.4
	case fixture.StageSolve:
		return 0.6
	default:
		return 0
	}
}

func stageLabel(stage fixture.Stage) string {
	switch stage {
	case fixture.StageLoad:
		return "loading"
	case fixture.StageDeclare:
		return "declaring"
	case fixture.StageCompile:
		return "compiling"
	case fixture.StageSolve:
		return "solving"
	default:
		return ""
	}
}

func styleFor(item fileItem) lipgloss.Style {
	switch {
	case item.err || item.failed > 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case item.final:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case item.stage != "":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
