package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
	"github.com/lakshaymaurya-felt/wincache/internal/ui"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

// Coral accent gives the analyzer its own visual identity.
var (
	clrDim   = ui.ColorMuted
	clrName  = ui.ColorText
	clrLarge = ui.ColorWarning
	clrBar   = ui.ColorCoral
)

// largeTarget marks rows worth a warning color.
const largeTarget = 1 << 30

// ─── Report ──────────────────────────────────────────────────────────────────

// RenderReport renders an Analyze summary for a terminal of the given width.
// Rows are ordered largest first; empty targets follow in run order.
func RenderReport(s engine.RunSummary, width int) string {
	if width < 60 {
		width = 60
	}

	var b strings.Builder
	b.WriteString(renderHeader(s, width))
	b.WriteString("\n")
	b.WriteString(renderBody(s, width))
	b.WriteString("\n")
	b.WriteString(renderFooter(s))
	return b.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func renderHeader(s engine.RunSummary, w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorCoral).
		Render("  " + ui.IconDiamond + " Cache Analysis")

	totals := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(fmt.Sprintf("  %s reclaimable in %s files", ui.FormatSize(s.TotalBytesFreed), ui.FormatCount(s.TotalFilesScanned)))

	inner := lipgloss.JoinVertical(lipgloss.Left, title, totals)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorCoral).
		Width(w - 2).
		Render(inner)
}

// ─── Body ────────────────────────────────────────────────────────────────────

func renderBody(s engine.RunSummary, w int) string {
	if len(s.Results) == 0 {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  (no operations selected)")
	}

	barWidth := 20
	if w > 110 {
		barWidth = 30
	} else if w > 90 {
		barWidth = 25
	}

	rows := sortedResults(s.Results)
	var lines []string
	for i, r := range rows {
		lines = append(lines, renderRow(i+1, r, s.TotalBytesFreed, barWidth, w))
	}
	return strings.Join(lines, "\n")
}

func renderRow(num int, r engine.TargetResult, total uint64, barWidth, w int) string {
	numStr := lipgloss.NewStyle().Foreground(clrDim).Render(fmt.Sprintf("%3d.", num))

	maxName := w - barWidth - 36
	if maxName < 16 {
		maxName = 16
	}
	name := ui.Truncate(r.DisplayName, maxName)

	switch {
	case r.Status == engine.StatusSkipped:
		return fmt.Sprintf("  %s %s  %s", numStr, ui.IconSkipped, ui.MutedStyle.Render(name+" (skipped)"))
	case r.Status == engine.StatusFailed:
		return fmt.Sprintf("  %s %s  %s", numStr, ui.ErrorStyle.Render(ui.IconError), ui.ErrorStyle.Render(name))
	case isEmpty(r):
		return fmt.Sprintf("  %s %s  %s", numStr, ui.MutedStyle.Render(ui.IconEmpty), ui.MutedStyle.Render(name+": empty or not found"))
	}

	pct := share(r.BytesFreed, total)
	nameColor := clrName
	if r.BytesFreed >= largeTarget {
		nameColor = clrLarge
	}
	nameStr := lipgloss.NewStyle().Foreground(nameColor).Render(fmt.Sprintf("%-*s", maxName, name))
	pctStr := lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render(fmt.Sprintf("%5.1f%%", pct))

	return fmt.Sprintf("  %s %s  %s  %s  %10s  %s",
		numStr, shareBar(pct, barWidth), pctStr, nameStr,
		ui.FormatSize(r.BytesFreed),
		ui.MutedStyle.Render(ui.FormatCount(r.FilesScanned)+" files"))
}

// sortedResults orders non-empty results by size, largest first, keeping run
// order for ties and for the empty tail.
func sortedResults(results []engine.TargetResult) []engine.TargetResult {
	rows := make([]engine.TargetResult, len(results))
	copy(rows, results)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].BytesFreed > rows[j].BytesFreed
	})
	return rows
}

func share(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// shareBar renders a ████░░░░ bar in the analyzer accent.
func shareBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	f := lipgloss.NewStyle().Foreground(clrBar).Render(strings.Repeat("█", filled))
	e := lipgloss.NewStyle().Foreground(clrDim).Render(strings.Repeat("░", width-filled))
	return f + e
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func renderFooter(s engine.RunSummary) string {
	var parts []string
	if s.WasCancelled {
		parts = append(parts, "  "+ui.TagWarningStyle.Render(" cancelled: partial totals "))
	}
	hints := []string{
		"wcc clean --target <id> to clean one",
		"wcc clean --all for everything",
	}
	parts = append(parts, ui.HintBarStyle.Render("  "+strings.Join(hints, " "+ui.IconPipe+" ")))
	return strings.Join(parts, "\n")
}
