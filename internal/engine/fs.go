package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FS is the set of filesystem primitives the engine needs. OSFS is the real
// implementation; tests wrap it to inject lock and permission failures.
type FS interface {
	Lstat(path string) (fs.FileInfo, error)
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Remove(path string) error
	Glob(pattern string) ([]string, error)
}

// OSFS is the operating system filesystem.
type OSFS struct{}

func (OSFS) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(longPath(path))
}

// Stat follows links; the engine uses it only to resolve a linked root.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(longPath(path))
}

// ReadDir returns the directory entries sorted by name.
func (OSFS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(longPath(path))
}

func (OSFS) Remove(path string) error {
	return removeEntry(longPath(path))
}

func (OSFS) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// isLink reports whether the entry must be treated as an opaque leaf: a
// symlink, junction or other reparse point. Following one could escape the
// target root or loop forever.
func isLink(path string, info fs.FileInfo) bool {
	if info.Mode()&(fs.ModeSymlink|fs.ModeIrregular) != 0 {
		return true
	}
	return info.IsDir() && isReparsePoint(path)
}

// linkedDir reports whether root is a symlink or junction that resolves to a
// directory. Such a root is emptied through the link and the link is kept.
func linkedDir(fsys FS, root string, info fs.FileInfo) (bool, error) {
	if !isLink(root, info) {
		return false, nil
	}
	resolved, err := fsys.Stat(root)
	if err != nil {
		return false, err
	}
	return resolved.IsDir(), nil
}

// hasGlobMeta reports whether a catalog path needs glob expansion.
func hasGlobMeta(path string) bool {
	for _, c := range path {
		switch c {
		case '*', '?', '[':
			return true
		}
	}
	return false
}
