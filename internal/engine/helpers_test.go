package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// faultFS wraps OSFS and fails selected operations.
type faultFS struct {
	OSFS

	mu         sync.Mutex
	removeErr  map[string]error
	readDirErr map[string]error
	removed    []string

	// onRemove runs after every successful removal.
	onRemove func(path string)
}

func newFaultFS() *faultFS {
	return &faultFS{removeErr: map[string]error{}, readDirErr: map[string]error{}}
}

func (f *faultFS) failRemove(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeErr[filepath.Clean(path)] = err
}

func (f *faultFS) failReadDir(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readDirErr[filepath.Clean(path)] = err
}

func (f *faultFS) ReadDir(path string) ([]fs.DirEntry, error) {
	f.mu.Lock()
	err := f.readDirErr[filepath.Clean(path)]
	f.mu.Unlock()
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: err}
	}
	return f.OSFS.ReadDir(path)
}

func (f *faultFS) Remove(path string) error {
	f.mu.Lock()
	err := f.removeErr[filepath.Clean(path)]
	f.mu.Unlock()
	if err != nil {
		return &fs.PathError{Op: "remove", Path: path, Err: err}
	}
	if err := f.OSFS.Remove(path); err != nil {
		return err
	}
	f.mu.Lock()
	f.removed = append(f.removed, path)
	hook := f.onRemove
	f.mu.Unlock()
	if hook != nil {
		hook(path)
	}
	return nil
}

// writeFiles creates files of the given sizes below root. Keys are
// slash-separated relative paths.
func writeFiles(t *testing.T, root string, files map[string]int) {
	t.Helper()
	for rel, size := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, make([]byte, size), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func dirTarget(id string, paths ...string) Target {
	return Target{ID: id, DisplayName: id, Kind: DirectoryTree, Paths: paths}
}

// fakeCommands records invocations and returns a canned result.
type fakeCommands struct {
	mu     sync.Mutex
	calls  []Command
	output []byte
	err    error
	before func()
}

func (f *fakeCommands) Run(ctx context.Context, cmd Command) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	hook := f.before
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.output, f.err
}

// fakeSpace returns successive free-space readings.
type fakeSpace struct {
	mu       sync.Mutex
	readings []uint64
	volumes  []string
}

func (f *fakeSpace) Free(ctx context.Context, path string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volumes = append(f.volumes, path)
	if len(f.readings) == 0 {
		return 0, os.ErrNotExist
	}
	v := f.readings[0]
	if len(f.readings) > 1 {
		f.readings = f.readings[1:]
	}
	return v, nil
}
