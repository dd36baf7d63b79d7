//go:build !windows

package engine

import "os"

func isReparsePoint(string) bool { return false }

func longPath(path string) string { return path }

func removeEntry(path string) error {
	return os.Remove(path)
}

func normalizeKey(path string) string { return path }
