// Package report prints a terminal summary of a merged scan report.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
)

// DefaultTop is how many findings the summary lists.
const DefaultTop = 15

// ─── Styles ──────────────────────────────────────────────────────────────────

var (
	clrPrimary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	clrGreen   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	clrMuted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrPrimary)
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrGreen)
	mutedStyle  = lipgloss.NewStyle().Foreground(clrMuted)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// ─── Volume usage ────────────────────────────────────────────────────────────

// Volume describes the filesystem holding the scanned home directory.
type Volume struct {
	Path  string
	Total uint64
	Free  uint64
	Used  float64 // percent
}

// VolumeOf reads usage for the filesystem containing path.
func VolumeOf(path string) (*Volume, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("disk usage %s: %w", path, err)
	}
	return &Volume{Path: path, Total: u.Total, Free: u.Free, Used: u.UsedPercent}, nil
}

// ─── Summary ─────────────────────────────────────────────────────────────────

// Options control the summary layout.
type Options struct {
	// Top limits the findings table; zero uses DefaultTop.
	Top    int
	Volume *Volume
}

type categoryTotal struct {
	category finding.Category
	bytes    int64
	items    int
}

// Print writes the summary of r to w.
func Print(w io.Writer, r finding.Report, opts Options) {
	fmt.Fprint(w, Render(r, opts))
}

// Render returns the summary of r.
func Render(r finding.Report, opts Options) string {
	top := opts.Top
	if top <= 0 {
		top = DefaultTop
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("  Disk cleanup report"))
	s.WriteString("\n")
	s.WriteString(mutedStyle.Render("  " + strings.Repeat("─", 58)))
	s.WriteString("\n")

	fmt.Fprintf(&s, "  %d %s, %s reclaimable, scanned in %s\n",
		r.ItemCount, plural(r.ItemCount, "finding", "findings"),
		totalStyle.Render(core.FormatSize(r.TotalReclaimableBytes)),
		time.Duration(r.ScanDurationSec)*time.Second)

	if v := opts.Volume; v != nil {
		fmt.Fprintf(&s, "  Disk %s: %s free of %s (%.0f%% used)\n",
			v.Path, core.FormatSize(int64(v.Free)), core.FormatSize(int64(v.Total)), v.Used)
	}

	if len(r.Findings) == 0 {
		s.WriteString("\n")
		s.WriteString(mutedStyle.Render("  Nothing to clean up."))
		s.WriteString("\n")
		return s.String()
	}

	s.WriteString("\n")
	s.WriteString(titleStyle.Render("  By category"))
	s.WriteString("\n")
	for _, c := range byCategory(r.Findings) {
		fmt.Fprintf(&s, "    %-12s %10s  %d %s\n",
			c.category, core.FormatSize(c.bytes), c.items, plural(c.items, "item", "items"))
	}

	s.WriteString("\n")
	s.WriteString(titleStyle.Render("  Largest findings"))
	s.WriteString("\n")
	shown := r.Findings
	if len(shown) > top {
		shown = shown[:top]
	}
	s.WriteString(indent(findingsTable(shown), "  "))
	s.WriteString("\n")
	if rest := len(r.Findings) - len(shown); rest > 0 {
		s.WriteString(mutedStyle.Render(fmt.Sprintf("  ... and %d more", rest)))
		s.WriteString("\n")
	}
	return s.String()
}

func findingsTable(fs []finding.Finding) string {
	rows := make([][]string, 0, len(fs))
	for _, f := range fs {
		rows = append(rows, []string{
			f.SizeHuman,
			string(f.Category),
			f.Target,
			string(f.Recommendation),
			f.Reason,
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("SIZE", "KIND", "TARGET", "ACTION", "REASON").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	return t.String()
}

// byCategory totals findings per category, largest first.
func byCategory(fs []finding.Finding) []categoryTotal {
	idx := make(map[finding.Category]int)
	var out []categoryTotal
	for _, f := range fs {
		i, ok := idx[f.Category]
		if !ok {
			i = len(out)
			idx[f.Category] = i
			out = append(out, categoryTotal{category: f.Category})
		}
		out[i].bytes += f.SizeBytes
		out[i].items++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].bytes != out[j].bytes {
			return out[i].bytes > out[j].bytes
		}
		return out[i].category < out[j].category
	})
	return out
}

func indent(block, prefix string) string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
