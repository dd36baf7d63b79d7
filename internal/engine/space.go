package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/shirou/gopsutil/v4/disk"
)

// SpaceProbe reports the free bytes of the volume holding path.
type SpaceProbe interface {
	Free(ctx context.Context, path string) (uint64, error)
}

// DiskProbe reads volume usage through gopsutil.
type DiskProbe struct{}

func (DiskProbe) Free(ctx context.Context, path string) (uint64, error) {
	usage, err := disk.UsageWithContext(ctx, volumeRoot(path))
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// SystemVolume returns the root of the system drive (e.g. C:\ or /).
func SystemVolume() string {
	if runtime.GOOS == "windows" {
		if d := os.Getenv("SYSTEMDRIVE"); d != "" {
			return d + `\`
		}
		return `C:\`
	}
	return "/"
}

// volumeRoot maps a path to something disk.Usage accepts; on Windows that is
// the drive root, elsewhere any existing path on the filesystem.
func volumeRoot(path string) string {
	if path == "" {
		return SystemVolume()
	}
	if runtime.GOOS == "windows" {
		if vol := filepath.VolumeName(path); vol != "" {
			return vol + `\`
		}
		return SystemVolume()
	}
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		if parent := filepath.Dir(p); parent == p {
			return p
		}
	}
}
