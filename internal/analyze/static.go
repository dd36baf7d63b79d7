package analyze

import (
	"fmt"
	"io"
	"strings"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
	"github.com/lakshaymaurya-felt/wincache/internal/ui"
)

const reportRule = 50

// PrintReport writes a plain-text analysis report. It is the fallback for
// redirected output and consoles without VT processing.
func PrintReport(w io.Writer, s engine.RunSummary) {
	fmt.Fprintln(w, "Analysis Results:")
	fmt.Fprintln(w)

	for _, r := range s.Results {
		fmt.Fprintln(w, reportLine(r))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", reportRule))
	fmt.Fprintf(w, "Total space that will be freed: %s\n", ui.FormatSize(s.TotalBytesFreed))
	fmt.Fprintf(w, "Total files to be deleted: %s\n", ui.FormatCount(s.TotalFilesScanned))
	fmt.Fprintln(w, strings.Repeat("=", reportRule))
	if s.WasCancelled {
		fmt.Fprintln(w, "Analysis was cancelled; totals cover the completed operations only.")
	}
}

// reportLine formats one target of an Analyze run.
func reportLine(r engine.TargetResult) string {
	switch {
	case r.Status == engine.StatusSkipped:
		return fmt.Sprintf("%s %s: Skipped", ui.IconSkipped, r.DisplayName)
	case r.Status == engine.StatusFailed:
		reason := "failed"
		if len(r.Errors) > 0 {
			reason = fmt.Sprint(r.Errors[0].Err)
		}
		return fmt.Sprintf("%s %s: %s", ui.IconError, r.DisplayName, reason)
	case isEmpty(r):
		return fmt.Sprintf("%s %s: Empty or not found", ui.IconEmpty, r.DisplayName)
	}
	return fmt.Sprintf("%s %s: %s (%s files)",
		ui.IconSuccess, r.DisplayName, ui.FormatSize(r.BytesFreed), ui.FormatCount(r.FilesScanned))
}

func isEmpty(r engine.TargetResult) bool {
	return r.BytesFreed == 0 && r.FilesScanned == 0
}
