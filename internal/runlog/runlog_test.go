package runlog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

var fixed = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func clock() time.Time { return fixed }

func TestFileName(t *testing.T) {
	if got := FileName(engine.Cleanup, fixed); got != "cleanup_log_2024-03-09_14-05.txt" {
		t.Fatalf("cleanup name = %q", got)
	}
	if got := FileName(engine.Analyze, fixed); got != "analyze_log_2024-03-09_14-05.txt" {
		t.Fatalf("analyze name = %q", got)
	}
}

func TestCleanupReport(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, Options{Version: "2.0", OS: "Windows 11 Pro", Mode: engine.Cleanup, Now: clock})

	targets := []engine.Target{
		{ID: "user-temp", DisplayName: "User Temp Files"},
		{ID: "prefetch", DisplayName: "Prefetch Files"},
	}
	w.Begin(targets)
	w.Emit(engine.TargetStarted{Index: 0, Total: 2, TargetID: "user-temp", DisplayName: "User Temp Files"})
	w.Emit(engine.FileProcessed{Path: "/tmp/a"})
	r := engine.TargetResult{
		TargetID: "user-temp", DisplayName: "User Temp Files", Mode: engine.Cleanup,
		FilesScanned: 3, FilesDeleted: 2, FilesFailed: 1, BytesFreed: 2048,
		Errors: []engine.EntryError{{Path: "/tmp/b", Kind: engine.Locked, Err: errors.New("in use")}},
	}
	w.Emit(engine.TargetFinished{Index: 0, Total: 2, Result: r})
	skipped := engine.TargetResult{DisplayName: "Prefetch Files", Mode: engine.Cleanup, Status: engine.StatusSkipped}
	w.Emit(engine.TargetFinished{Index: 1, Total: 2, Result: skipped})
	w.Emit(engine.RunFinished{Summary: engine.RunSummary{
		Mode:              engine.Cleanup,
		Results:           []engine.TargetResult{r, skipped},
		TotalFilesDeleted: 2,
		TotalFilesFailed:  1,
		TotalBytesFreed:   2048,
		Duration:          1500 * time.Millisecond,
		WasCancelled:      true,
	}})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		strings.Repeat("=", 60),
		"Windows Cache Cleaner - CLEANUP REPORT",
		"Version 2.0",
		"Cleanup performed on: 2024-03-09 at 14:05",
		"Operating system: Windows 11 Pro",
		"[14:05:07] [INFO] Selected operations: User Temp Files, Prefetch Files",
		"[14:05:07] [INFO] Starting operation: User Temp Files",
		"[14:05:07] [FAILED] Delete: /tmp/b",
		"         Reason: in use (Locked)",
		"Completed operation: User Temp Files - Success: 2, Failed: 1, Freed: 2.0 KiB",
		"Skipped operation: Prefetch Files (cancelled)",
		"CLEANUP SUMMARY",
		"Total operations performed: 1",
		"Successful file operations: 2",
		"Failed file operations: 1",
		"Run was cancelled by the user",
		"Total time taken: 1.50 seconds",
		"Cleanup completed at: 14:05",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/tmp/a") {
		t.Error("progress batches written to the report")
	}
}

func TestCommandAndFailureLines(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, Options{Mode: engine.Cleanup, Now: clock})

	w.Emit(engine.TargetFinished{Result: engine.TargetResult{
		DisplayName: "WinSxS Cleanup", Mode: engine.Cleanup, FilesScanned: 1, FilesDeleted: 1,
		BytesFreed: 1024, Output: []string{"The operation completed successfully."},
	}})
	w.Emit(engine.TargetFinished{Result: engine.TargetResult{
		DisplayName: "Broken", Mode: engine.Cleanup, Status: engine.StatusFailed, FilesScanned: 1, FilesFailed: 1,
		Errors: []engine.EntryError{{Path: "dism", Kind: engine.Other, Err: errors.New("exit status 87")}},
	}})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"[INFO]   The operation completed successfully.",
		"[SUCCESS] WinSxS Cleanup completed successfully",
		"[FAILED] Operation: Broken",
		"Reason: exit status 87 (Other)",
		"Operation failed: Broken",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeReport(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, Options{Mode: engine.Analyze, Now: clock})
	w.Begin(nil)
	w.Emit(engine.TargetFinished{Result: engine.TargetResult{DisplayName: "Icon Cache", Mode: engine.Analyze}})
	w.Emit(engine.TargetFinished{Result: engine.TargetResult{
		DisplayName: "User Temp Files", Mode: engine.Analyze, FilesScanned: 1200, BytesFreed: 1 << 20,
	}})
	w.Emit(engine.RunFinished{Summary: engine.RunSummary{Mode: engine.Analyze, TotalFilesScanned: 1200, TotalBytesFreed: 1 << 20}})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"Windows Cache Cleaner - ANALYSIS REPORT",
		"Icon Cache - Empty or not found",
		"User Temp Files - Files: 1,200, Size: 1.0 MiB",
		"ANALYSIS SUMMARY",
		"Files that can be deleted: 1,200",
		"Space that can be freed: 1.0 MiB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w, err := Create(dir, Options{Mode: engine.Cleanup, Now: clock})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w.Begin([]engine.Target{{ID: "user-temp"}})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := filepath.Join(dir, "cleanup_log_2024-03-09_14-05.txt")
	if w.Path() != want {
		t.Fatalf("Path = %q, want %q", w.Path(), want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "Selected operations: user-temp") {
		t.Fatalf("report:\n%s", data)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrorIsSticky(t *testing.T) {
	w := New(failingWriter{}, Options{Now: clock})
	w.Begin(nil)
	w.Emit(engine.RunFinished{})
	if err := w.Err(); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Err = %v", err)
	}
}
