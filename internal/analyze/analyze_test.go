package analyze

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

func sampleSummary() engine.RunSummary {
	return engine.RunSummary{
		Mode: engine.Analyze,
		Results: []engine.TargetResult{
			{DisplayName: "Icon Cache", Mode: engine.Analyze},
			{DisplayName: "User Temp Files", Mode: engine.Analyze, FilesScanned: 1200, BytesFreed: 3 << 20},
			{DisplayName: "Prefetch Files", Mode: engine.Analyze, FilesScanned: 40, BytesFreed: 1 << 20},
			{DisplayName: "Broken", Mode: engine.Analyze, Status: engine.StatusFailed,
				Errors: []engine.EntryError{{Path: "x", Err: errors.New("target has no paths")}}},
		},
		TotalFilesScanned: 1240,
		TotalBytesFreed:   4 << 20,
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, sampleSummary())
	out := buf.String()

	for _, want := range []string{
		"○ Icon Cache: Empty or not found",
		"✓ User Temp Files: 3.0 MiB (1,200 files)",
		"✓ Prefetch Files: 1.0 MiB (40 files)",
		"✗ Broken: target has no paths",
		strings.Repeat("=", 50),
		"Total space that will be freed: 4.0 MiB",
		"Total files to be deleted: 1,240",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cancelled") {
		t.Error("completed run reported as cancelled")
	}
}

func TestPrintReportCancelled(t *testing.T) {
	s := sampleSummary()
	s.WasCancelled = true
	s.Results = append(s.Results, engine.TargetResult{DisplayName: "Crash Dumps", Status: engine.StatusSkipped})

	var buf bytes.Buffer
	PrintReport(&buf, s)
	out := buf.String()
	if !strings.Contains(out, "Crash Dumps: Skipped") || !strings.Contains(out, "cancelled") {
		t.Fatalf("report:\n%s", out)
	}
}

func TestRenderReportOrdersBySize(t *testing.T) {
	out := RenderReport(sampleSummary(), 100)

	temp := strings.Index(out, "User Temp Files")
	prefetch := strings.Index(out, "Prefetch Files")
	icon := strings.Index(out, "Icon Cache")
	if temp < 0 || prefetch < 0 || icon < 0 {
		t.Fatalf("rows missing:\n%s", out)
	}
	if !(temp < prefetch && prefetch < icon) {
		t.Fatalf("rows not ordered largest first:\n%s", out)
	}
	for _, want := range []string{"Cache Analysis", "4.0 MiB reclaimable in 1,240 files", "75.0%", "empty or not found"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportEmpty(t *testing.T) {
	out := RenderReport(engine.RunSummary{Mode: engine.Analyze}, 0)
	if !strings.Contains(out, "no operations selected") {
		t.Fatalf("view:\n%s", out)
	}
}

func TestShareBar(t *testing.T) {
	tests := []struct {
		pct    float64
		filled int
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{150, 10},
	}
	for _, tt := range tests {
		bar := shareBar(tt.pct, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("shareBar(%v) filled %d, want %d", tt.pct, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("shareBar(%v) width %d", tt.pct, got)
		}
	}
}
