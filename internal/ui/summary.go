package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

// maxListedErrors caps the failure list under a summary.
const maxListedErrors = 10

// RenderSummary renders the end-of-run box for a Cleanup run.
func RenderSummary(s engine.RunSummary) string {
	heading := SuccessStyle.Bold(true).Render(IconSuccess + " CLEANUP COMPLETE")
	if s.WasCancelled {
		heading = WarningStyle.Bold(true).Render(IconWarning + " CLEANUP CANCELLED")
	}

	var ok, failed int
	for _, r := range s.Results {
		switch r.Status {
		case engine.StatusCompleted:
			ok++
		case engine.StatusFailed, engine.StatusCancelled:
			failed++
		}
	}

	rows := [][2]string{
		{"Operations performed", fmt.Sprint(len(s.Results))},
		{"Successful operations", fmt.Sprint(ok)},
		{"Failed operations", fmt.Sprint(failed)},
		{"Files deleted", FormatCount(s.TotalFilesDeleted)},
		{"Files skipped", FormatCount(s.TotalFilesFailed)},
		{"Space freed", FormatSize(s.TotalBytesFreed)},
	}
	if s.FreeSpace != nil {
		rows = append(rows, [2]string{
			"Free space on " + s.FreeSpace.Volume,
			fmt.Sprintf("%s %s %s", FormatSize(s.FreeSpace.Before), IconChevron, FormatSize(s.FreeSpace.After)),
		})
	}
	rows = append(rows, [2]string{"Time taken", FormatDuration(s.Duration)})

	lines := []string{heading, ""}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s  %s",
			MutedStyle.Render(fmt.Sprintf("%-24s", r[0])),
			TextStyle.Render(r[1])))
	}

	out := BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if errs := RenderErrors(s.Errors()); errs != "" {
		out += "\n" + errs
	}
	return out
}

// RenderErrors lists the first failures with a hint for the common kinds.
func RenderErrors(errs []engine.EntryError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	var locked, denied int
	for i, e := range errs {
		switch e.Kind {
		case engine.Locked:
			locked++
		case engine.Denied:
			denied++
		}
		if i < maxListedErrors {
			b.WriteString(ErrorStyle.Render(fmt.Sprintf("  %s [%s] %s", IconError, e.Kind, e.Path)))
			b.WriteString("\n")
		}
	}
	if len(errs) > maxListedErrors {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  … and %d more (see the run log)", len(errs)-maxListedErrors)))
		b.WriteString("\n")
	}
	if locked > 0 {
		b.WriteString(HintBarStyle.Render(fmt.Sprintf("  %d entries are in use by running programs; close them and retry.", locked)))
		b.WriteString("\n")
	}
	if denied > 0 {
		b.WriteString(HintBarStyle.Render(fmt.Sprintf("  %d entries were denied; run from an elevated prompt to include them.", denied)))
		b.WriteString("\n")
	}
	return b.String()
}
