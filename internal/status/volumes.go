package status

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

// Volume is the usage of one mounted volume and the targets living on it.
type Volume struct {
	Mount       string   `json:"mount"`
	Fstype      string   `json:"fstype,omitempty"`
	Total       uint64   `json:"total"`
	Used        uint64   `json:"used"`
	Free        uint64   `json:"free"`
	UsedPercent float64  `json:"usedPercent"`
	Targets     []string `json:"targets,omitempty"`
	System      bool     `json:"system,omitempty"`
}

// Source lists mount points and reads their usage.
type Source interface {
	Mounts(ctx context.Context) ([]string, error)
	Usage(ctx context.Context, mount string) (*disk.UsageStat, error)
}

// DiskSource reads volumes through gopsutil.
type DiskSource struct{}

func (DiskSource) Mounts(ctx context.Context) ([]string, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}
	mounts := make([]string, 0, len(parts))
	for _, p := range parts {
		mounts = append(mounts, p.Mountpoint)
	}
	return mounts, nil
}

func (DiskSource) Usage(ctx context.Context, mount string) (*disk.UsageStat, error) {
	if runtime.GOOS == "windows" && strings.HasSuffix(mount, ":") {
		mount += `\`
	}
	return disk.UsageWithContext(ctx, mount)
}

// Collect reports the volumes that hold the roots of targets, plus the
// system volume. Volumes are ordered by mount point.
func Collect(ctx context.Context, src Source, targets []engine.Target) ([]Volume, error) {
	mounts, err := src.Mounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}

	system := mountFor(mounts, engine.SystemVolume())
	byMount := map[string]*Volume{}
	get := func(mount string) *Volume {
		if v, ok := byMount[mount]; ok {
			return v
		}
		v := &Volume{Mount: mount, System: mount == system}
		byMount[mount] = v
		return v
	}
	if system != "" {
		get(system)
	}

	for _, t := range targets {
		seen := map[string]bool{}
		for _, root := range t.Paths {
			m := mountFor(mounts, staticPrefix(root))
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			v := get(m)
			v.Targets = append(v.Targets, t.ID)
		}
	}

	vols := make([]Volume, 0, len(byMount))
	for _, v := range byMount {
		usage, err := src.Usage(ctx, v.Mount)
		if err != nil {
			return nil, fmt.Errorf("failed to read usage of %s: %w", v.Mount, err)
		}
		v.Fstype = usage.Fstype
		v.Total = usage.Total
		v.Used = usage.Used
		v.Free = usage.Free
		v.UsedPercent = usage.UsedPercent
		vols = append(vols, *v)
	}
	sort.Slice(vols, func(i, j int) bool { return vols[i].Mount < vols[j].Mount })
	return vols, nil
}

// mountFor returns the longest mount point containing path, or "".
func mountFor(mounts []string, path string) string {
	if path == "" {
		return ""
	}
	path = normalize(path)
	best, bestLen := "", -1
	for _, m := range mounts {
		nm := normalize(m)
		if contains(nm, path) && len(nm) > bestLen {
			best, bestLen = m, len(nm)
		}
	}
	return best
}

func contains(mount, path string) bool {
	if mount == path {
		return true
	}
	prefix := mount
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// normalize cleans a path for comparison; drive letters and Windows paths
// compare case-insensitively.
func normalize(p string) string {
	if p == "" {
		return ""
	}
	if runtime.GOOS == "windows" {
		if vol := filepath.VolumeName(p); p == vol || p == vol+`\` {
			return strings.ToLower(vol)
		}
		return strings.ToLower(filepath.Clean(p))
	}
	return filepath.Clean(p)
}

// staticPrefix trims a glob root to its longest directory without
// wildcards.
func staticPrefix(root string) string {
	i := strings.IndexAny(root, "*?[")
	if i < 0 {
		return root
	}
	return filepath.Dir(root[:i+1])
}
