//go:build unix

package engine

import (
	"io/fs"
	"testing"

	"golang.org/x/sys/unix"
)

func TestClassifyErrno(t *testing.T) {
	tests := []struct {
		errno unix.Errno
		want  ErrorKind
	}{
		{unix.EBUSY, Locked},
		{unix.ETXTBSY, Locked},
		{unix.EACCES, Denied},
		{unix.EPERM, Denied},
		{unix.EROFS, Denied},
		{unix.ENOENT, NotFound},
		{unix.EIO, Other},
	}
	for _, tt := range tests {
		err := &fs.PathError{Op: "remove", Path: "/x", Err: tt.errno}
		if got := Classify(err); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.errno, got, tt.want)
		}
	}
}
