package engine

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrLocked marks an entry that is in use by another process. Platform
// sharing-violation errors are classified the same way.
var ErrLocked = errors.New("file is locked by another process")

// ErrorKind classifies a per-entry failure.
type ErrorKind int

const (
	// Other is any failure outside the expected taxonomy.
	Other ErrorKind = iota
	// Locked means the entry is in use (sharing or lock violation).
	Locked
	// Denied means the OS refused permission.
	Denied
	// NotFound means the entry vanished before deletion. It is not a failure.
	NotFound
)

func (k ErrorKind) String() string {
	switch k {
	case Locked:
		return "Locked"
	case Denied:
		return "Denied"
	case NotFound:
		return "NotFound"
	default:
		return "Other"
	}
}

// Recoverable reports whether the failure is expected during normal cleanup.
func (k ErrorKind) Recoverable() bool {
	return k == Locked || k == Denied || k == NotFound
}

// EntryError is one failed entry inside a target.
type EntryError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *EntryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Classify maps an OS error onto the ErrorKind taxonomy.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return Other
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, ErrLocked), isLockViolation(err):
		return Locked
	case errors.Is(err, fs.ErrPermission), isAccessDenied(err):
		return Denied
	}
	return Other
}

func newEntryError(path string, err error) *EntryError {
	return &EntryError{Path: path, Kind: Classify(err), Err: err}
}
