package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBatchSize is how many entries are processed between FileProcessed
// events.
const DefaultBatchSize = 10

// Options configures a Runner and the Coordinator built on it. Zero values
// select the real operating system implementations.
type Options struct {
	FS        FS
	Commands  CommandRunner
	Space     SpaceProbe
	BatchSize int

	// Exclude lists file-name patterns that are never touched.
	Exclude []string

	// SpaceVolume is the volume sampled around a Cleanup run. Empty means
	// the system drive.
	SpaceVolume string

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.FS == nil {
		o.FS = OSFS{}
	}
	if o.Commands == nil {
		o.Commands = ExecRunner{}
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Runner drives a single target end to end.
type Runner struct {
	opts    Options
	deleter *Deleter
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	opts = opts.withDefaults()
	return &Runner{opts: opts, deleter: NewDeleter(opts.FS)}
}

// position locates a target inside a run for progress events.
type position struct {
	index, total int
}

// Run executes one target. Cancellation of ctx is observed between entries;
// an in-flight deletion or command is never interrupted.
func (r *Runner) Run(ctx context.Context, target Target, mode Mode, sink Sink) TargetResult {
	if sink == nil {
		sink = Discard
	}
	return r.run(ctx, target, mode, sink, position{0, 1})
}

func (r *Runner) run(ctx context.Context, target Target, mode Mode, sink Sink, pos position) (res TargetResult) {
	start := time.Now()
	res = TargetResult{TargetID: target.ID, DisplayName: target.Name(), Mode: mode}
	log := r.opts.Logger.With("target", target.ID, "mode", mode.String())

	defer func() {
		if v := recover(); v != nil {
			log.Error("target aborted", "panic", v)
			res.Status = StatusFailed
			res.FilesScanned++
			res.FilesFailed++
			res.Errors = append(res.Errors, EntryError{
				Path: target.ID,
				Kind: Other,
				Err:  fmt.Errorf("internal fault: %v", v),
			})
		}
		res.Duration = time.Since(start)
	}()

	if err := target.Validate(); err != nil {
		res.Status = StatusFailed
		res.FilesScanned = 1
		res.FilesFailed = 1
		res.Errors = []EntryError{{Path: target.ID, Kind: Other, Err: err}}
		return res
	}

	switch target.Kind {
	case ExternalCommand:
		r.runCommand(ctx, target, mode, &res, log)
	default:
		if mode == Analyze {
			r.analyzeTree(ctx, target, &res, sink, pos)
		} else {
			r.cleanTree(ctx, target, &res, sink, pos, log)
		}
	}
	if res.Cancelled {
		res.Status = StatusCancelled
	}
	return res
}

// ─── Directory trees ─────────────────────────────────────────────────────────

func (r *Runner) analyzeTree(ctx context.Context, target Target, res *TargetResult, sink Sink, pos position) {
	scanner := NewScanner(r.opts.FS, target.Patterns, r.opts.Exclude)
	for _, root := range expandRoots(r.opts.FS, target.Paths) {
		if ctx.Err() != nil {
			res.Cancelled = true
			return
		}
		totals, err := scanner.Scan(ctx, []string{root})
		res.FilesScanned += totals.Files
		res.BytesFreed += totals.Bytes
		if totals.Files > 0 {
			sink.Emit(FileProcessed{
				Index:       pos.index,
				Total:       pos.total,
				TargetID:    target.ID,
				Path:        root,
				Processed:   totals.Files,
				BytesDelta:  totals.Bytes,
				TargetFiles: res.FilesScanned,
				TargetBytes: res.BytesFreed,
			})
		}
		if err != nil {
			res.Cancelled = true
			return
		}
	}
}

// cleanPass holds the state of one Cleanup walk over a target.
type cleanPass struct {
	ctx     context.Context
	runner  *Runner
	target  Target
	res     *TargetResult
	filter  nameFilter
	sink    Sink
	pos     position
	log     *slog.Logger
	pending FileProcessed
	inBatch int
}

func (r *Runner) cleanTree(ctx context.Context, target Target, res *TargetResult, sink Sink, pos position, log *slog.Logger) {
	p := &cleanPass{
		ctx:    ctx,
		runner: r,
		target: target,
		res:    res,
		filter: newNameFilter(target.Patterns, r.opts.Exclude),
		sink:   sink,
		pos:    pos,
		log:    log,
	}
	defer p.flush()

	for _, root := range expandRoots(r.opts.FS, target.Paths) {
		if p.cancelled() {
			return
		}
		if p.root(root) {
			return
		}
	}
}

// cancelled checks the cancellation flag at an entry boundary.
func (p *cleanPass) cancelled() bool {
	if p.ctx.Err() != nil {
		p.res.Cancelled = true
		return true
	}
	return false
}

// root cleans one root path, preserving the root directory itself.
// It returns true when the walk must stop.
func (p *cleanPass) root(root string) bool {
	info, err := p.runner.opts.FS.Lstat(root)
	if err != nil {
		if Classify(err) == NotFound {
			p.log.Debug("path does not exist, skipping", "path", root)
			return false
		}
		p.failed(newEntryError(root, err))
		return false
	}
	linked, err := linkedDir(p.runner.opts.FS, root, info)
	if err != nil {
		if Classify(err) == NotFound {
			p.log.Debug("dangling link root, skipping", "path", root)
			return false
		}
		p.failed(newEntryError(root, err))
		return false
	}
	if linked {
		return p.dir(root, true)
	}
	if !info.IsDir() || isLink(root, info) {
		if p.filter.match(root) {
			p.entry(root)
		}
		return false
	}
	return p.dir(root, true)
}

func (p *cleanPass) dir(dir string, isRoot bool) bool {
	fsys := p.runner.opts.FS
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		if Classify(err) != NotFound {
			p.failed(newEntryError(dir, err))
		}
		return false
	}
	for _, e := range entries {
		if p.cancelled() {
			return true
		}
		child := filepath.Join(dir, e.Name())
		info, err := fsys.Lstat(child)
		if err != nil {
			if Classify(err) != NotFound {
				p.failed(newEntryError(child, err))
			}
			continue
		}
		if info.IsDir() && !isLink(child, info) {
			if p.dir(child, false) {
				return true
			}
			continue
		}
		if p.filter.match(child) {
			p.entry(child)
		}
	}
	if !isRoot {
		// Still holds a failed or filtered entry when this fails.
		_ = fsys.Remove(dir)
	}
	return false
}

func (p *cleanPass) entry(path string) {
	freed, ee := p.runner.deleter.Delete(path)
	if ee != nil {
		p.failed(ee)
		return
	}
	p.res.FilesScanned++
	p.res.FilesDeleted++
	p.res.BytesFreed += freed
	p.progress(path, freed, false)
}

func (p *cleanPass) failed(ee *EntryError) {
	p.log.Debug("delete failed", "path", ee.Path, "kind", ee.Kind.String(), "error", ee.Err)
	p.res.FilesScanned++
	p.res.FilesFailed++
	p.res.Errors = append(p.res.Errors, *ee)
	p.progress(ee.Path, 0, true)
}

func (p *cleanPass) progress(path string, freed uint64, isErr bool) {
	p.pending.Path = path
	p.pending.Processed++
	p.pending.BytesDelta += freed
	if isErr {
		p.pending.Failed++
		p.pending.IsError = true
	}
	p.inBatch++
	if p.inBatch >= p.runner.opts.BatchSize {
		p.flush()
	}
}

func (p *cleanPass) flush() {
	if p.inBatch == 0 {
		return
	}
	ev := p.pending
	ev.Index = p.pos.index
	ev.Total = p.pos.total
	ev.TargetID = p.target.ID
	ev.TargetFiles = p.res.FilesDeleted
	ev.TargetBytes = p.res.BytesFreed
	p.sink.Emit(ev)
	p.pending = FileProcessed{}
	p.inBatch = 0
}

// ─── External commands ───────────────────────────────────────────────────────

func (r *Runner) runCommand(ctx context.Context, target Target, mode Mode, res *TargetResult, log *slog.Logger) {
	if mode == Analyze {
		return
	}
	if ctx.Err() != nil {
		res.Cancelled = true
		return
	}

	cmd := *target.Command
	volume := cmd.SpaceVolume
	if volume == "" {
		volume = SystemVolume()
	}
	// The command is a single entry: once started it runs to completion.
	runCtx := context.WithoutCancel(ctx)

	before, beforeErr := r.free(runCtx, volume)
	log.Info("running maintenance command", "command", cmd.Name, "args", strings.Join(cmd.Args, " "))
	output, err := r.opts.Commands.Run(runCtx, cmd)
	res.Output = outputLines(output)
	res.FilesScanned = 1

	if err != nil {
		res.Status = StatusFailed
		res.FilesScanned = 1
		res.FilesFailed = 1
		res.Errors = []EntryError{{Path: commandLine(cmd), Kind: Other, Err: err}}
		return
	}
	res.FilesDeleted = 1
	if beforeErr == nil {
		if after, err := r.free(runCtx, volume); err == nil {
			res.BytesFreed = SpaceDelta{Volume: volume, Before: before, After: after}.Reclaimed()
		}
	}
}

func (r *Runner) free(ctx context.Context, volume string) (uint64, error) {
	if r.opts.Space == nil {
		return 0, fmt.Errorf("no space probe")
	}
	return r.opts.Space.Free(ctx, volume)
}

func commandLine(cmd Command) string {
	return strings.TrimSpace(cmd.Name + " " + strings.Join(cmd.Args, " "))
}
