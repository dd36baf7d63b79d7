//go:build windows

package engine

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// isReparsePoint returns true if the path is a Windows junction or symlink
// (FILE_ATTRIBUTE_REPARSE_POINT).
func isReparsePoint(path string) bool {
	pathp, err := windows.UTF16PtrFromString(longPath(path))
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(pathp)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0
}

// longPath adds the \\?\ prefix for paths exceeding MAX_PATH.
func longPath(path string) string {
	if len(path) >= 260 && !strings.HasPrefix(path, `\\?\`) {
		return `\\?\` + filepath.Clean(path)
	}
	return path
}

// removeEntry deletes a file, link or empty directory. Read-only files are
// made writable and retried once, the same way Explorer deletes them.
func removeEntry(path string) error {
	pathp, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err == nil || !isAccessDenied(err) {
		return err
	}
	attrs, aerr := windows.GetFileAttributes(pathp)
	if aerr != nil || attrs&windows.FILE_ATTRIBUTE_READONLY == 0 {
		return err
	}
	if serr := windows.SetFileAttributes(pathp, attrs&^windows.FILE_ATTRIBUTE_READONLY); serr != nil {
		return err
	}
	return os.Remove(path)
}

// normalizeKey folds case for de-duplication; NTFS paths are case-insensitive.
func normalizeKey(path string) string {
	return strings.ToLower(path)
}
