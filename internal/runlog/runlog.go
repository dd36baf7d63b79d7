// Package runlog writes the human-readable report of a run: a header, one
// block per target with its failures, and a summary footer.
package runlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

// AppName heads every report.
const AppName = "Windows Cache Cleaner"

const ruleWidth = 60

// FileName returns the report name for a run started at t.
func FileName(mode engine.Mode, t time.Time) string {
	prefix := "cleanup_log_"
	if mode == engine.Analyze {
		prefix = "analyze_log_"
	}
	return prefix + t.Format("2006-01-02_15-04") + ".txt"
}

// Options describes the run being reported.
type Options struct {
	Version string
	OS      string
	Mode    engine.Mode

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Writer is an engine.Sink that renders events into a report.
type Writer struct {
	mu     sync.Mutex
	out    *bufio.Writer
	closer io.Closer
	opts   Options
	path   string
	err    error
}

// New writes the report to w.
func New(w io.Writer, opts Options) *Writer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Writer{out: bufio.NewWriter(w), opts: opts}
}

// Create opens a new report file in dir, named after the mode and the
// current time.
func Create(dir string, opts Options) (*Writer, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, FileName(opts.Mode, opts.Now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	w := New(f, opts)
	w.closer = f
	w.path = path
	return w, nil
}

// Path returns the report file path, or "" for a writer built with New.
func (w *Writer) Path() string { return w.path }

// Err returns the first write error.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close flushes the report and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.out.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	if w.err == nil {
		w.err = err
	}
	return err
}

func (w *Writer) title() string {
	if w.opts.Mode == engine.Analyze {
		return "ANALYSIS"
	}
	return "CLEANUP"
}

func (w *Writer) verb() string {
	if w.opts.Mode == engine.Analyze {
		return "Analysis"
	}
	return "Cleanup"
}

// Begin writes the header and the selected operations.
func (w *Writer) Begin(targets []engine.Target) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.opts.Now()

	w.printf("%s\n", strings.Repeat("=", ruleWidth))
	w.printf("%s - %s REPORT\n", AppName, w.title())
	w.printf("Version %s\n", w.opts.Version)
	w.printf("%s\n", strings.Repeat("=", ruleWidth))
	w.printf("%s performed on: %s\n", w.verb(), now.Format("2006-01-02 at 15:04"))
	if w.opts.OS != "" {
		w.printf("Operating system: %s\n", w.opts.OS)
	}
	w.printf("%s\n\n", strings.Repeat("-", ruleWidth))

	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name())
	}
	w.info("Selected operations: %s", strings.Join(names, ", "))
	w.printf("\n")
	w.flush()
}

// Emit implements engine.Sink.
func (w *Writer) Emit(ev engine.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch e := ev.(type) {
	case engine.TargetStarted:
		w.info("Starting operation: %s", e.DisplayName)
	case engine.TargetFinished:
		w.target(e.Result)
		w.flush()
	case engine.RunFinished:
		w.footer(e.Summary)
		w.flush()
	}
}

func (w *Writer) target(r engine.TargetResult) {
	if r.Status == engine.StatusSkipped {
		w.info("Skipped operation: %s (cancelled)", r.DisplayName)
		return
	}

	for _, e := range r.Errors {
		w.failed(failureMessage(r, e), fmt.Sprintf("%v (%s)", e.Err, e.Kind))
	}
	if len(r.Output) > 0 {
		w.info("Command output:")
		for _, line := range r.Output {
			w.info("  %s", line)
		}
	}

	switch {
	case r.Mode == engine.Analyze && r.FilesScanned == 0:
		w.info("Analyzed operation: %s - Empty or not found", r.DisplayName)
	case r.Mode == engine.Analyze:
		w.info("Analyzed operation: %s - Files: %s, Size: %s",
			r.DisplayName, humanize.Comma(int64(r.FilesScanned)), humanize.IBytes(r.BytesFreed))
	case r.Status == engine.StatusFailed:
		w.info("Operation failed: %s", r.DisplayName)
	default:
		if len(r.Output) > 0 {
			w.success("%s completed successfully", r.DisplayName)
		}
		w.info("Completed operation: %s - Success: %d, Failed: %d, Freed: %s",
			r.DisplayName, r.FilesDeleted, r.FilesFailed, humanize.IBytes(r.BytesFreed))
	}
	if r.Status == engine.StatusCancelled {
		w.info("Cleanup cancelled by user")
	}
	w.printf("\n")
}

func failureMessage(r engine.TargetResult, e engine.EntryError) string {
	if r.Status == engine.StatusFailed && r.FilesScanned <= 1 {
		return "Operation: " + r.DisplayName
	}
	return "Delete: " + e.Path
}

func (w *Writer) footer(s engine.RunSummary) {
	performed := 0
	for _, r := range s.Results {
		if r.Status != engine.StatusSkipped {
			performed++
		}
	}

	w.printf("\n%s\n", strings.Repeat("=", ruleWidth))
	w.printf("%s SUMMARY\n", w.title())
	w.printf("%s\n", strings.Repeat("=", ruleWidth))
	w.printf("Total operations performed: %d\n", performed)
	if s.Mode == engine.Analyze {
		w.printf("Files that can be deleted: %s\n", humanize.Comma(int64(s.TotalFilesScanned)))
		w.printf("Space that can be freed: %s\n", humanize.IBytes(s.TotalBytesFreed))
	} else {
		w.printf("Successful file operations: %d\n", s.TotalFilesDeleted)
		w.printf("Failed file operations: %d\n", s.TotalFilesFailed)
		w.printf("Space freed: %s\n", humanize.IBytes(s.TotalBytesFreed))
		if s.FreeSpace != nil {
			w.printf("Free space on %s: %s -> %s\n", s.FreeSpace.Volume,
				humanize.IBytes(s.FreeSpace.Before), humanize.IBytes(s.FreeSpace.After))
		}
	}
	if s.WasCancelled {
		w.printf("Run was cancelled by the user\n")
	}
	w.printf("Total time taken: %.2f seconds\n", s.Duration.Seconds())
	w.printf("%s completed at: %s\n", w.verb(), w.opts.Now().Format("15:04"))
	w.printf("%s\n", strings.Repeat("=", ruleWidth))
}

// ─── Line primitives ─────────────────────────────────────────────────────────

func (w *Writer) stamp() string {
	return w.opts.Now().Format("15:04:05")
}

func (w *Writer) info(format string, args ...any) {
	w.printf("[%s] [INFO] %s\n", w.stamp(), fmt.Sprintf(format, args...))
}

func (w *Writer) success(format string, args ...any) {
	w.printf("[%s] [SUCCESS] %s\n", w.stamp(), fmt.Sprintf(format, args...))
}

func (w *Writer) failed(msg, reason string) {
	w.printf("[%s] [FAILED] %s\n", w.stamp(), msg)
	w.printf("         Reason: %s\n", reason)
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintf(w.out, format, args...); err != nil {
		w.err = err
	}
}

func (w *Writer) flush() {
	if w.err != nil {
		return
	}
	if err := w.out.Flush(); err != nil {
		w.err = err
	}
}
