package engine

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTarget is returned by Target.Validate for malformed catalog entries.
var ErrInvalidTarget = errors.New("invalid cleanup target")

// ─── Targets ─────────────────────────────────────────────────────────────────

// Kind selects how a target is cleaned.
type Kind int

const (
	// DirectoryTree targets delete the contents of one or more root paths.
	DirectoryTree Kind = iota
	// ExternalCommand targets delegate to a maintenance command (e.g. DISM).
	ExternalCommand
)

func (k Kind) String() string {
	switch k {
	case DirectoryTree:
		return "directory"
	case ExternalCommand:
		return "command"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "directory", "dir", "tree":
		return DirectoryTree, nil
	case "command", "cmd":
		return ExternalCommand, nil
	}
	return 0, fmt.Errorf("unknown target kind %q", s)
}

// Command describes an external maintenance invocation.
type Command struct {
	Name string
	Args []string

	// Timeout bounds the command; zero means DefaultCommandTimeout.
	Timeout time.Duration

	// SpaceVolume is the path whose volume free space is sampled before and
	// after the command to estimate reclaimed bytes. Empty means the system drive.
	SpaceVolume string
}

// Target is one cleanable location or maintenance action. Targets are built
// once from the catalog and never mutated by the engine.
type Target struct {
	ID          string
	DisplayName string
	Description string
	Category    string
	Kind        Kind

	// Paths are root paths for DirectoryTree targets. Glob metacharacters
	// are expanded at run time. Each root is emptied, never removed.
	Paths []string

	// Patterns restricts file entries by base name (wildcard syntax,
	// case-insensitive). Empty means every file.
	Patterns []string

	Command *Command

	RequiresAdmin bool
}

// Name returns the display name, falling back to the ID.
func (t Target) Name() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.ID
}

// Validate checks the structural invariants of a target.
func (t Target) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidTarget)
	}
	switch t.Kind {
	case DirectoryTree:
		if len(t.Paths) == 0 {
			return fmt.Errorf("%w: %s has no paths", ErrInvalidTarget, t.ID)
		}
		for _, p := range t.Paths {
			if p == "" {
				return fmt.Errorf("%w: %s has an empty path", ErrInvalidTarget, t.ID)
			}
		}
	case ExternalCommand:
		if t.Command == nil || t.Command.Name == "" {
			return fmt.Errorf("%w: %s has no command", ErrInvalidTarget, t.ID)
		}
	default:
		return fmt.Errorf("%w: %s has unknown kind %d", ErrInvalidTarget, t.ID, int(t.Kind))
	}
	return nil
}

// ─── Modes ───────────────────────────────────────────────────────────────────

// Mode selects between the non-destructive and destructive passes.
type Mode int

const (
	Analyze Mode = iota
	Cleanup
)

func (m Mode) String() string {
	if m == Cleanup {
		return "cleanup"
	}
	return "analyze"
}

// ─── Results ─────────────────────────────────────────────────────────────────

// Status is the terminal state of one target within a run.
type Status int

const (
	StatusCompleted Status = iota
	StatusCancelled
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "COMPLETED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	}
	return "UNKNOWN"
}

// TargetResult is the outcome of running one target.
//
// In Cleanup mode FilesDeleted+FilesFailed equals the number of entries
// attempted. In Analyze mode FilesScanned and BytesFreed hold the reclaimable
// estimate and FilesDeleted is always zero.
type TargetResult struct {
	TargetID     string
	DisplayName  string
	Mode         Mode
	Status       Status
	FilesScanned uint
	FilesDeleted uint
	FilesFailed  uint
	BytesFreed   uint64
	Errors       []EntryError
	Cancelled    bool

	// Output holds the captured, non-empty output lines of an external command.
	Output   []string
	Duration time.Duration
}

// Attempted returns the number of entries the runner tried to delete.
func (r TargetResult) Attempted() uint {
	return r.FilesDeleted + r.FilesFailed
}

// SpaceDelta records volume free space around a cleanup run.
type SpaceDelta struct {
	Volume string
	Before uint64
	After  uint64
}

// Reclaimed returns the observed growth in free space, never negative.
func (d SpaceDelta) Reclaimed() uint64 {
	if d.After <= d.Before {
		return 0
	}
	return d.After - d.Before
}

// RunSummary aggregates a full Analyze or Cleanup invocation.
type RunSummary struct {
	Mode              Mode
	Results           []TargetResult
	TotalBytesFreed   uint64
	TotalFilesDeleted uint
	TotalFilesFailed  uint
	TotalFilesScanned uint
	StartedAt         time.Time
	Duration          time.Duration
	WasCancelled      bool
	FreeSpace         *SpaceDelta
}

// DurationMillis returns the run duration in whole milliseconds.
func (s RunSummary) DurationMillis() uint64 {
	if s.Duration < 0 {
		return 0
	}
	return uint64(s.Duration.Milliseconds())
}

// Errors returns every entry error across all targets, in run order.
func (s RunSummary) Errors() []EntryError {
	var out []EntryError
	for _, r := range s.Results {
		out = append(out, r.Errors...)
	}
	return out
}

func (s *RunSummary) add(r TargetResult) {
	s.Results = append(s.Results, r)
	s.TotalBytesFreed += r.BytesFreed
	s.TotalFilesDeleted += r.FilesDeleted
	s.TotalFilesFailed += r.FilesFailed
	s.TotalFilesScanned += r.FilesScanned
}
