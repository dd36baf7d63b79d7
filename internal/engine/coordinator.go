package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator runs a selection of targets sequentially, owns the
// cancellation flag and produces the run summary.
//
// Analyze and Cleanup share the same iteration; only the mode handed to the
// Runner differs, so analyze numbers come from the code path that deletes.
type Coordinator struct {
	runner *Runner
	opts   Options

	cancelRequested atomic.Bool
	finished        atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(opts Options) *Coordinator {
	opts = opts.withDefaults()
	return &Coordinator{runner: NewRunner(opts), opts: opts}
}

// RequestCancel asks the running execution, or one not yet started on a
// fresh Coordinator, to stop at the next entry boundary. It is idempotent
// and safe to call from any goroutine. Once a run has emitted RunFinished
// the call is ignored until the next Execute starts, so a reused
// Coordinator never carries a late cancel into its next run.
func (c *Coordinator) RequestCancel() {
	if c.finished.Load() {
		return
	}
	c.cancelRequested.Store(true)
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Cancelled reports whether cancellation has been requested for the pending
// or running execution.
func (c *Coordinator) Cancelled() bool {
	return c.cancelRequested.Load()
}

// Execute runs targets in order and always returns a summary. Cancellation
// of ctx has the same effect as RequestCancel.
func (c *Coordinator) Execute(ctx context.Context, targets []Target, mode Mode, sink Sink) RunSummary {
	if sink == nil {
		sink = Discard
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	c.finished.Store(false)
	if c.cancelRequested.Load() {
		cancel()
	}

	log := c.opts.Logger.With("mode", mode.String())
	summary := RunSummary{Mode: mode, StartedAt: time.Now()}
	log.Info("run started", "targets", len(targets))

	var space *SpaceDelta
	if mode == Cleanup && c.opts.Space != nil {
		vol := c.opts.SpaceVolume
		if vol == "" {
			vol = SystemVolume()
		}
		if before, err := c.opts.Space.Free(ctx, vol); err == nil {
			space = &SpaceDelta{Volume: vol, Before: before}
		}
	}

	total := len(targets)
	for i, t := range targets {
		if runCtx.Err() != nil {
			summary.WasCancelled = true
			summary.add(TargetResult{
				TargetID:    t.ID,
				DisplayName: t.Name(),
				Mode:        mode,
				Status:      StatusSkipped,
			})
			continue
		}

		sink.Emit(TargetStarted{Index: i, Total: total, TargetID: t.ID, DisplayName: t.Name(), Mode: mode})
		log.Info("target started", "target", t.ID, "index", i+1, "total", total)

		res := c.runner.run(runCtx, t, mode, sink, position{index: i, total: total})
		if res.Cancelled {
			summary.WasCancelled = true
		}
		log.Info("target finished",
			"target", t.ID,
			"status", res.Status.String(),
			"deleted", res.FilesDeleted,
			"failed", res.FilesFailed,
			"scanned", res.FilesScanned,
			"bytes", res.BytesFreed,
			"duration", res.Duration)

		summary.add(res)
		sink.Emit(TargetFinished{Index: i, Total: total, Result: res})
	}

	if space != nil {
		if after, err := c.opts.Space.Free(context.WithoutCancel(ctx), space.Volume); err == nil {
			space.After = after
			summary.FreeSpace = space
		}
	}
	summary.Duration = time.Since(summary.StartedAt)

	c.mu.Lock()
	c.cancel = nil
	c.mu.Unlock()
	c.finished.Store(true)
	c.cancelRequested.Store(false)

	log.Info("run finished",
		"cancelled", summary.WasCancelled,
		"deleted", summary.TotalFilesDeleted,
		"failed", summary.TotalFilesFailed,
		"bytes", summary.TotalBytesFreed,
		"duration_ms", summary.DurationMillis())
	sink.Emit(RunFinished{Summary: summary})
	return summary
}
