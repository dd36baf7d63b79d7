package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDeleteFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]int{"a.bin": 123})
	path := filepath.Join(root, "a.bin")

	freed, ee := NewDeleter(nil).Delete(path)
	if ee != nil {
		t.Fatalf("Delete: %v", ee)
	}
	if freed != 123 {
		t.Fatalf("freed %d, want 123", freed)
	}
	if exists(path) {
		t.Fatal("file still exists")
	}
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	freed, ee := NewDeleter(nil).Delete(filepath.Join(t.TempDir(), "gone"))
	if ee != nil || freed != 0 {
		t.Fatalf("got %d, %v; want 0, nil", freed, ee)
	}
}

func TestDeleteClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"locked", ErrLocked, Locked},
		{"denied", os.ErrPermission, Denied},
		{"other", errors.New("disk on fire"), Other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, map[string]int{"f": 50})
			path := filepath.Join(root, "f")

			fsys := newFaultFS()
			fsys.failRemove(path, tt.err)
			freed, ee := NewDeleter(fsys).Delete(path)
			if ee == nil {
				t.Fatal("expected an error")
			}
			if ee.Kind != tt.want {
				t.Fatalf("kind %s, want %s", ee.Kind, tt.want)
			}
			if freed != 0 {
				t.Fatalf("freed %d on failure", freed)
			}
			if !exists(path) {
				t.Fatal("failed entry was removed")
			}
		})
	}
}

func TestDeleteDirectoryPartialFailure(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]int{"d/a": 10, "d/b": 20, "d/c": 40})
	dir := filepath.Join(root, "d")

	fsys := newFaultFS()
	fsys.failRemove(filepath.Join(dir, "b"), ErrLocked)

	freed, ee := NewDeleter(fsys).Delete(dir)
	if ee == nil || ee.Kind != Locked {
		t.Fatalf("got %v, want Locked", ee)
	}
	if freed != 50 {
		t.Fatalf("freed %d, want 50", freed)
	}
	if !exists(dir) || !exists(filepath.Join(dir, "b")) {
		t.Fatal("directory or locked child removed")
	}
}

func TestDeleteSymlinkLeavesTarget(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFiles(t, outside, map[string]int{"keep": 10})
	link := filepath.Join(root, "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if _, ee := NewDeleter(nil).Delete(link); ee != nil {
		t.Fatalf("Delete: %v", ee)
	}
	if exists(link) {
		t.Fatal("link still exists")
	}
	if !exists(filepath.Join(outside, "keep")) {
		t.Fatal("link target contents were deleted")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, Other},
		{os.ErrNotExist, NotFound},
		{fmt.Errorf("wrapped: %w", os.ErrNotExist), NotFound},
		{ErrLocked, Locked},
		{os.ErrPermission, Denied},
		{errors.New("x"), Other},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
