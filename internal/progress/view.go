package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	clrGreen  = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	clrYellow = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	clrCyan   = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	clrMuted  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}

	spinnerStyle = lipgloss.NewStyle().Foreground(clrCyan)
	doneStyle    = lipgloss.NewStyle().Foreground(clrGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(clrYellow)
	mutedStyle   = lipgloss.NewStyle().Foreground(clrMuted)
	nameStyle    = lipgloss.NewStyle().Width(20)
)

var counter = message.NewPrinter(language.English)

// ─── Renderer ────────────────────────────────────────────────────────────────

func (m Model) renderView() string {
	var s strings.Builder
	for _, l := range m.lines {
		s.WriteString(renderLine(l))
		s.WriteString("\n")
	}

	switch {
	case m.interrupted:
		s.WriteString(warnStyle.Render("  Interrupted"))
		s.WriteString("\n")
	case m.done:
		s.WriteString(mutedStyle.Render(counter.Sprintf("  %d entries scanned", m.seen)))
		s.WriteString("\n")
	default:
		s.WriteString(m.renderStatus())
		s.WriteString("\n")
	}
	return s.String()
}

func renderLine(l phaseLine) string {
	name := nameStyle.Render(l.name)
	switch l.state {
	case lineUnknown:
		return fmt.Sprintf("  %s %s %s", warnStyle.Render("?"), name, mutedStyle.Render("unknown phase, skipped"))
	case lineRunning:
		return fmt.Sprintf("  %s %s %s", mutedStyle.Render("·"), name, mutedStyle.Render("scanning"))
	}
	detail := fmt.Sprintf("%d findings", l.findings)
	if l.findings == 1 {
		detail = "1 finding"
	}
	if l.cached {
		detail += mutedStyle.Render(" (cached)")
	}
	return fmt.Sprintf("  %s %s %s", doneStyle.Render("✓"), name, detail)
}

func (m Model) renderStatus() string {
	if m.hasMerge {
		return fmt.Sprintf("  %s Merged %d findings", m.spinner.View(), m.merged)
	}
	cur, ok := m.running()
	if !ok {
		return fmt.Sprintf("  %s Preparing", m.spinner.View())
	}
	return fmt.Sprintf("  %s Scanning %s (%d/%d)  %s",
		m.spinner.View(),
		cur.name,
		m.index+1, m.total,
		mutedStyle.Render(counter.Sprintf("%d entries", m.seen)))
}
