// Package progress renders a live spinner and per-phase status lines while
// the orchestrator scans.
package progress

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/dcc/internal/orchestrator"
)

// ─── Phase lines ─────────────────────────────────────────────────────────────

type lineState int

const (
	lineRunning lineState = iota
	lineDone
	lineUnknown
)

type phaseLine struct {
	name     string
	state    lineState
	findings int
	cached   bool
}

// ─── Messages ────────────────────────────────────────────────────────────────

type eventMsg orchestrator.Event

type tickMsg time.Time

type finishMsg struct{}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea Model for the scan progress display.
type Model struct {
	spinner  spinner.Model
	lines    []phaseLine
	index    int
	total    int
	merged   int
	hasMerge bool

	visited  func() int64
	seen     int64
	interval time.Duration

	cancel      func()
	done        bool
	interrupted bool
}

// NewModel creates a Model. visited is polled every interval for the number
// of entries scanned so far; cancel is called when the user interrupts.
func NewModel(visited func() int64, cancel func(), interval time.Duration) Model {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if visited == nil {
		visited = func() int64 { return 0 }
	}
	if cancel == nil {
		cancel = func() {}
	}
	return Model{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(spinnerStyle),
		),
		visited:  visited,
		interval: interval,
		cancel:   cancel,
	}
}

func (m Model) doTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.doTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.interrupted = true
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case eventMsg:
		m.apply(orchestrator.Event(msg))
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.seen = m.visited()
		return m, m.doTick()

	case finishMsg:
		m.done = true
		m.seen = m.visited()
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	return m.renderView()
}

// apply folds one orchestrator event into the phase lines.
func (m *Model) apply(ev orchestrator.Event) {
	switch ev.Kind {
	case orchestrator.PhaseUnknown:
		m.lines = append(m.lines, phaseLine{name: ev.Phase, state: lineUnknown})
	case orchestrator.PhaseStarted:
		m.index, m.total = ev.Index, ev.Total
		m.lines = append(m.lines, phaseLine{name: ev.Phase, state: lineRunning})
	case orchestrator.PhaseFinished:
		m.index, m.total = ev.Index, ev.Total
		line := m.line(ev.Phase)
		line.state = lineDone
		line.findings = ev.Findings
		line.cached = ev.Cached
	case orchestrator.Merged:
		m.merged = ev.Findings
		m.hasMerge = true
	}
}

// line returns the running line for phase, adding one when the phase was
// served from cache without a start event.
func (m *Model) line(phase string) *phaseLine {
	for i := range m.lines {
		if m.lines[i].name == phase && m.lines[i].state == lineRunning {
			return &m.lines[i]
		}
	}
	m.lines = append(m.lines, phaseLine{name: phase})
	return &m.lines[len(m.lines)-1]
}

// running returns the phase currently scanning, if any.
func (m Model) running() (phaseLine, bool) {
	for _, l := range m.lines {
		if l.state == lineRunning {
			return l, true
		}
	}
	return phaseLine{}, false
}
