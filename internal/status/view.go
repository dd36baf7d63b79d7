package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/wincache/internal/ui"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	clrGreen  = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	clrYellow = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	clrOrange = lipgloss.AdaptiveColor{Light: "#ea580c", Dark: "#fb923c"}
	clrRed    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	clrCyan   = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
)

// ─── Top-level renderer ─────────────────────────────────────────────────────

func (m StatusModel) renderView() string {
	w := m.Width
	if w < 50 {
		w = 50
	}

	var s strings.Builder
	s.WriteString(renderTitle(w))
	s.WriteString("\n")

	if m.Volumes == nil && m.Err == nil {
		s.WriteString(lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  Collecting volume usage…"))
		return s.String()
	}

	s.WriteString(RenderVolumes(m.Volumes, w, m.FreeHistory))
	s.WriteString("\n")
	s.WriteString(m.renderStatusFooter())
	return s.String()
}

func renderTitle(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Render("  " + ui.IconDiamond + " Volumes")
	divider := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render(strings.Repeat("─", w))
	return title + "\n" + divider
}

// ─── Volumes ─────────────────────────────────────────────────────────────────

// RenderVolumes renders one block per volume. history may be nil.
func RenderVolumes(vols []Volume, w int, history map[string][]uint64) string {
	barW := 36
	if w > 110 {
		barW = 48
	}

	var lines []string
	lines = append(lines, "")

	for _, v := range vols {
		mount := v.Mount
		if v.System {
			mount += " " + ui.MutedStyle.Render("(system)")
		}
		lines = append(lines, "  "+ui.TextStyle.Bold(true).Render(mount))
		lines = append(lines,
			fmt.Sprintf("  %s  %5.1f%%  %s / %s  %s free",
				colorBar(v.UsedPercent, barW), v.UsedPercent,
				ui.FormatSize(v.Used), ui.FormatSize(v.Total), ui.FormatSize(v.Free)))
		if h := history[v.Mount]; len(h) > 1 {
			lines = append(lines, "  "+sparklineU64(h, barW)+"  "+ui.MutedStyle.Render("free over time"))
		}
		if len(v.Targets) > 0 {
			lines = append(lines, "  "+ui.MutedStyle.Render(
				ui.Truncate(strings.Join(v.Targets, ", "), w-4)))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m StatusModel) renderStatusFooter() string {
	hints := "  r refresh  " + ui.IconPipe + "  q quit"
	footer := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Italic(true).
		Render(hints)

	if m.Err != nil {
		errStr := lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Render("  " + ui.IconError + " " + m.Err.Error())
		return errStr + "\n" + footer
	}
	return footer
}

// ─── Drawing primitives ─────────────────────────────────────────────────────

// colorBar renders a ████░░░░ bar colored by severity.
func colorBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}

	barColor := clrGreen
	switch {
	case pct >= 90:
		barColor = clrRed
	case pct >= 75:
		barColor = clrOrange
	case pct >= 50:
		barColor = clrYellow
	}

	fStr := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled))
	eStr := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("░", width-filled))
	return fStr + eStr
}

// sparklineU64 renders a mini chart scaled between the lowest and highest
// reading, so small free-space swings on a large volume stay visible.
func sparklineU64(data []uint64, width int) string {
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	d := data
	if len(d) > width {
		d = d[len(d)-width:]
	}
	if len(d) == 0 {
		return strings.Repeat(string(blocks[0]), width)
	}

	lo, hi := d[0], d[0]
	for _, v := range d {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range d {
		idx := int(float64(v-lo) / float64(span) * 7)
		if idx > 7 {
			idx = 7
		}
		b.WriteRune(blocks[idx])
	}
	for i := len(d); i < width; i++ {
		b.WriteRune(blocks[0])
	}
	return lipgloss.NewStyle().Foreground(clrCyan).Render(b.String())
}
