package engine

import (
	"context"
	"path/filepath"
	"testing"
)

func TestExecuteEventOrder(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeFiles(t, a, map[string]int{"1": 1, "2": 2})
	writeFiles(t, b, map[string]int{"3": 3})

	rec := &Recorder{}
	c := NewCoordinator(Options{})
	sum := c.Execute(context.Background(), []Target{dirTarget("a", a), dirTarget("b", b)}, Cleanup, rec)

	var kinds []string
	for _, ev := range rec.Events() {
		switch e := ev.(type) {
		case TargetStarted:
			kinds = append(kinds, "start:"+e.TargetID)
		case FileProcessed:
			kinds = append(kinds, "file:"+e.TargetID)
		case TargetFinished:
			kinds = append(kinds, "finish:"+e.Result.TargetID)
		case RunFinished:
			kinds = append(kinds, "run")
		}
	}
	want := []string{"start:a", "file:a", "finish:a", "start:b", "file:b", "finish:b", "run"}
	if len(kinds) != len(want) {
		t.Fatalf("events %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events %v, want %v", kinds, want)
		}
	}

	if sum.TotalFilesDeleted != 3 || sum.TotalBytesFreed != 6 || sum.WasCancelled {
		t.Fatalf("summary %+v", sum)
	}
	if last := rec.Events()[len(rec.Events())-1]; last.Percent() != 100 {
		t.Fatalf("final percent %v", last.Percent())
	}
}

func TestExecuteTotalsMatchResults(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeFiles(t, a, map[string]int{"1": 10, "2": 20})
	writeFiles(t, b, map[string]int{"3": 30, "4": 40})
	fsys := newFaultFS()
	fsys.failRemove(filepath.Join(b, "4"), ErrLocked)

	sum := NewCoordinator(Options{FS: fsys}).Execute(context.Background(),
		[]Target{dirTarget("a", a), dirTarget("b", b)}, Cleanup, nil)

	var bytes uint64
	var deleted, failed uint
	for _, r := range sum.Results {
		bytes += r.BytesFreed
		deleted += r.FilesDeleted
		failed += r.FilesFailed
	}
	if bytes != sum.TotalBytesFreed || deleted != sum.TotalFilesDeleted || failed != sum.TotalFilesFailed {
		t.Fatalf("totals do not match results: %+v", sum)
	}
	if sum.TotalBytesFreed != 60 || sum.TotalFilesFailed != 1 {
		t.Fatalf("summary %+v", sum)
	}
	if errs := sum.Errors(); len(errs) != 1 || errs[0].Kind != Locked {
		t.Fatalf("errors %+v", errs)
	}
}

func TestExecuteCancelBeforeStart(t *testing.T) {
	root := threeFiles(t)
	rec := &Recorder{}
	c := NewCoordinator(Options{})
	c.RequestCancel()

	sum := c.Execute(context.Background(), []Target{dirTarget("a", root), dirTarget("b", root)}, Cleanup, rec)
	if !sum.WasCancelled {
		t.Fatal("WasCancelled not set")
	}
	for _, r := range sum.Results {
		if r.Status != StatusSkipped {
			t.Fatalf("%s status %s", r.TargetID, r.Status)
		}
	}
	if len(sum.Results) != 2 {
		t.Fatalf("results %d", len(sum.Results))
	}
	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("events %d, want only RunFinished", len(events))
	}
	if _, ok := events[0].(RunFinished); !ok {
		t.Fatalf("event %T", events[0])
	}
	if !exists(filepath.Join(root, "a")) {
		t.Fatal("files removed after cancel")
	}
}

func TestExecuteCancelBetweenTargets(t *testing.T) {
	a, b := threeFiles(t), threeFiles(t)
	c := NewCoordinator(Options{})
	sink := SinkFunc(func(ev Event) {
		if f, ok := ev.(TargetFinished); ok && f.Index == 0 {
			c.RequestCancel()
			c.RequestCancel()
		}
	})

	sum := c.Execute(context.Background(), []Target{dirTarget("a", a), dirTarget("b", b)}, Cleanup, sink)
	if !sum.WasCancelled {
		t.Fatal("WasCancelled not set")
	}
	if sum.Results[0].Status != StatusCompleted || sum.Results[1].Status != StatusSkipped {
		t.Fatalf("statuses %s %s", sum.Results[0].Status, sum.Results[1].Status)
	}
	if !exists(filepath.Join(b, "a")) {
		t.Fatal("skipped target was cleaned")
	}
}

func TestExecuteContextCancellation(t *testing.T) {
	root := threeFiles(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum := NewCoordinator(Options{}).Execute(ctx, []Target{dirTarget("a", root)}, Analyze, nil)
	if !sum.WasCancelled || sum.Results[0].Status != StatusSkipped {
		t.Fatalf("summary %+v", sum)
	}
}

func TestRequestCancelAfterFinishHasNoEffect(t *testing.T) {
	c := NewCoordinator(Options{})
	c.Execute(context.Background(), nil, Analyze, nil)
	c.RequestCancel()
	if c.Cancelled() {
		t.Fatal("cancel after finish was recorded")
	}

	root := threeFiles(t)
	sum := c.Execute(context.Background(), []Target{dirTarget("a", root)}, Analyze, nil)
	if sum.WasCancelled || sum.TotalFilesScanned != 3 {
		t.Fatalf("summary %+v", sum)
	}
}

func TestExecuteSamplesFreeSpace(t *testing.T) {
	space := &fakeSpace{readings: []uint64{100, 400}}
	sum := NewCoordinator(Options{Space: space, SpaceVolume: "/data"}).
		Execute(context.Background(), []Target{dirTarget("a", threeFiles(t))}, Cleanup, nil)
	if sum.FreeSpace == nil || sum.FreeSpace.Volume != "/data" || sum.FreeSpace.Reclaimed() != 300 {
		t.Fatalf("free space %+v", sum.FreeSpace)
	}

	sum = NewCoordinator(Options{Space: &fakeSpace{readings: []uint64{1}}}).
		Execute(context.Background(), []Target{dirTarget("a", threeFiles(t))}, Analyze, nil)
	if sum.FreeSpace != nil {
		t.Fatal("analyze sampled free space")
	}
}

func TestAnalyzeMatchesCleanup(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]int{"a": 5, "d/b": 7, "d/e/c": 11})
	targets := []Target{dirTarget("t", root)}

	c := NewCoordinator(Options{})
	analysis := c.Execute(context.Background(), targets, Analyze, nil)
	cleanup := c.Execute(context.Background(), targets, Cleanup, nil)

	if analysis.TotalFilesScanned != cleanup.TotalFilesDeleted || analysis.TotalBytesFreed != cleanup.TotalBytesFreed {
		t.Fatalf("analyze %d/%d, cleanup %d/%d",
			analysis.TotalFilesScanned, analysis.TotalBytesFreed,
			cleanup.TotalFilesDeleted, cleanup.TotalBytesFreed)
	}
	if analysis.TotalFilesDeleted != 0 {
		t.Fatal("analyze reported deletions")
	}
}
