package engine

import (
	"io/fs"
	"path/filepath"
)

// Deleter removes single entries and classifies the outcome.
type Deleter struct {
	fs FS
}

// NewDeleter returns a Deleter over fsys (OSFS when nil).
func NewDeleter(fsys FS) *Deleter {
	if fsys == nil {
		fsys = OSFS{}
	}
	return &Deleter{fs: fsys}
}

// Delete removes path and returns the bytes reclaimed. The size is read
// before removal. A directory is removed with its whole subtree; if any
// descendant fails the directory itself is left in place, the bytes of the
// removed descendants are still reported and the first failure is returned.
// An entry that no longer exists is not an error and frees nothing.
func (d *Deleter) Delete(path string) (uint64, *EntryError) {
	info, err := d.fs.Lstat(path)
	if err != nil {
		return 0, d.fail(path, err)
	}
	if info.IsDir() && !isLink(path, info) {
		return d.deleteDir(path)
	}
	return d.deleteLeaf(path, info)
}

func (d *Deleter) deleteLeaf(path string, info fs.FileInfo) (uint64, *EntryError) {
	var size uint64
	if s := info.Size(); s > 0 && !info.IsDir() {
		size = uint64(s)
	}
	if err := d.fs.Remove(path); err != nil {
		return 0, d.fail(path, err)
	}
	return size, nil
}

func (d *Deleter) deleteDir(path string) (uint64, *EntryError) {
	entries, err := d.fs.ReadDir(path)
	if err != nil {
		return 0, d.fail(path, err)
	}
	var (
		freed uint64
		first *EntryError
	)
	for _, e := range entries {
		n, eerr := d.Delete(filepath.Join(path, e.Name()))
		freed += n
		if eerr != nil && first == nil {
			first = eerr
		}
	}
	if first != nil {
		return freed, first
	}
	if err := d.fs.Remove(path); err != nil {
		if ee := d.fail(path, err); ee != nil {
			return freed, ee
		}
	}
	return freed, nil
}

// fail converts err into an EntryError, swallowing NotFound.
func (d *Deleter) fail(path string, err error) *EntryError {
	ee := newEntryError(path, err)
	if ee.Kind == NotFound {
		return nil
	}
	return ee
}
