//go:build !unix && !windows

package engine

func isLockViolation(error) bool { return false }

func isAccessDenied(error) bool { return false }
