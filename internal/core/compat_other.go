//go:build !windows

package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// OSDescription returns the platform name and version, e.g.
// "ubuntu 24.04 (linux)".
func OSDescription() string {
	info, err := host.Info()
	if err != nil || info.Platform == "" {
		return "unknown"
	}
	desc := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	return fmt.Sprintf("%s (%s)", desc, info.OS)
}

// IsElevated reports whether the process runs as root.
func IsElevated() bool {
	return os.Geteuid() == 0
}
