package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatCount(1234567); got != "1,234,567" {
		t.Fatalf("FormatCount = %q", got)
	}
	if got := FormatDuration(1500 * time.Millisecond); got != "1.50 seconds" {
		t.Fatalf("FormatDuration = %q", got)
	}
	if got := Truncate("abcdef", 4); got != "…def" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("Truncate = %q", got)
	}
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, false)

	sink.Emit(engine.TargetStarted{Index: 0, Total: 2, TargetID: "a", DisplayName: "User Temp Files", Mode: engine.Cleanup})
	sink.Emit(engine.FileProcessed{Path: "/tmp/x", Processed: 3})
	sink.Emit(engine.TargetFinished{Index: 0, Total: 2, Result: engine.TargetResult{
		DisplayName: "User Temp Files", Mode: engine.Cleanup, FilesDeleted: 3, FilesFailed: 1, BytesFreed: 2048,
	}})
	sink.Emit(engine.TargetFinished{Index: 1, Total: 2, Result: engine.TargetResult{
		Mode: engine.Cleanup, Status: engine.StatusSkipped,
	}})

	out := buf.String()
	for _, want := range []string{"[1/2] Cleaning: User Temp Files", "Success: 3, Failed: 1, Freed: 2.0 KiB", "Skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/tmp/x") {
		t.Error("non-verbose sink printed progress batches")
	}
}

func TestResultLineAnalyze(t *testing.T) {
	empty := resultLine(engine.TargetResult{Mode: engine.Analyze})
	if !strings.Contains(empty, "Empty or not found") {
		t.Fatalf("got %q", empty)
	}
	full := resultLine(engine.TargetResult{Mode: engine.Analyze, FilesScanned: 1200, BytesFreed: 1024})
	if !strings.Contains(full, "1.0 KiB (1,200 files)") {
		t.Fatalf("got %q", full)
	}
}

func TestProgressModelCancelsOnce(t *testing.T) {
	calls := 0
	var m tea.Model = NewProgressModel("Cleanup", engine.Cleanup, func() { calls++ })

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if calls != 1 {
		t.Fatalf("cancel called %d times", calls)
	}
	if !strings.Contains(m.View(), "Stopping") {
		t.Fatal("view does not show the cancelling state")
	}
}

func TestProgressModelTracksEvents(t *testing.T) {
	var m tea.Model = NewProgressModel("Cleanup", engine.Cleanup, nil)
	m, _ = m.Update(eventMsg{engine.TargetStarted{Index: 0, Total: 2, DisplayName: "Prefetch Files"}})
	m, _ = m.Update(eventMsg{engine.FileProcessed{Index: 0, Total: 2, Path: "/p/a.pf", TargetFiles: 4, TargetBytes: 4096}})
	if v := m.View(); !strings.Contains(v, "Prefetch Files") || !strings.Contains(v, "4.0 KiB") {
		t.Fatalf("view:\n%s", v)
	}

	m, _ = m.Update(eventMsg{engine.TargetFinished{Index: 0, Total: 2, Result: engine.TargetResult{
		DisplayName: "Prefetch Files", Mode: engine.Cleanup, FilesDeleted: 4, BytesFreed: 4096,
	}}})
	pm := m.(ProgressModel)
	if pm.percent != 0.5 || pm.totalBytes != 4096 || len(pm.history) != 1 {
		t.Fatalf("model %+v", pm)
	}

	m, cmd := m.Update(eventMsg{engine.RunFinished{}})
	if cmd == nil || !m.(ProgressModel).done {
		t.Fatal("RunFinished did not quit")
	}
}

func TestRenderSummary(t *testing.T) {
	s := engine.RunSummary{
		Mode: engine.Cleanup,
		Results: []engine.TargetResult{
			{Status: engine.StatusCompleted, FilesDeleted: 2, BytesFreed: 10},
			{Status: engine.StatusFailed, FilesFailed: 1, Errors: []engine.EntryError{
				{Path: `C:\Windows\Prefetch\A.pf`, Kind: engine.Denied, Err: errors.New("access is denied")},
			}},
		},
		TotalFilesDeleted: 2,
		TotalFilesFailed:  1,
		TotalBytesFreed:   10,
		Duration:          2 * time.Second,
	}
	out := RenderSummary(s)
	for _, want := range []string{"CLEANUP COMPLETE", "Operations performed", "10 B", "2.00 seconds", "[Denied]", "elevated"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	s.WasCancelled = true
	if !strings.Contains(RenderSummary(s), "CANCELLED") {
		t.Error("cancelled run not marked")
	}
}
