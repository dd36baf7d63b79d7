package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

// ConsoleSink prints one line per target to a plain writer. It is used
// when stdout is not a terminal.
type ConsoleSink struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// NewConsoleSink creates a ConsoleSink. With verbose set every progress
// batch is printed too.
func NewConsoleSink(w io.Writer, verbose bool) *ConsoleSink {
	return &ConsoleSink{w: w, verbose: verbose}
}

func (c *ConsoleSink) Emit(ev engine.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case engine.TargetStarted:
		verb := "Cleaning"
		if e.Mode == engine.Analyze {
			verb = "Analyzing"
		}
		fmt.Fprintf(c.w, "[%d/%d] %s: %s\n", e.Index+1, e.Total, verb, e.DisplayName)
	case engine.FileProcessed:
		if c.verbose {
			fmt.Fprintf(c.w, "      %s (+%d, %s)\n", e.Path, e.Processed, FormatSize(e.BytesDelta))
		}
	case engine.TargetFinished:
		fmt.Fprintf(c.w, "      %s\n", resultLine(e.Result))
	}
}

// resultLine summarises one target result without styling.
func resultLine(r engine.TargetResult) string {
	if r.Mode == engine.Analyze {
		if r.FilesScanned == 0 {
			return IconEmpty + " Empty or not found"
		}
		return fmt.Sprintf("%s %s (%s files)", IconSuccess, FormatSize(r.BytesFreed), FormatCount(r.FilesScanned))
	}
	switch r.Status {
	case engine.StatusSkipped:
		return IconSkipped + " Skipped"
	case engine.StatusFailed:
		msg := "failed"
		if len(r.Errors) > 0 {
			msg = r.Errors[0].Err.Error()
		}
		return IconError + " " + msg
	}
	line := fmt.Sprintf("%s Success: %s, Failed: %s, Freed: %s",
		IconSuccess, FormatCount(r.FilesDeleted), FormatCount(r.FilesFailed), FormatSize(r.BytesFreed))
	if r.Status == engine.StatusCancelled {
		line += " (cancelled)"
	}
	return line
}
