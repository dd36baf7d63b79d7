//go:build windows

package core

import (
	"fmt"
	"strings"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"
)

// GetWindowsVersion returns the major, minor, and build numbers of the current Windows version.
// Uses RtlGetNtVersionNumbers which works on all Windows versions without manifest requirements.
func GetWindowsVersion() (major, minor, build uint32) {
	major, minor, build = windows.RtlGetNtVersionNumbers()
	// RtlGetNtVersionNumbers returns build with high bits set; mask them off
	build &= 0xFFFF
	return major, minor, build
}

// windowsVersionString returns a human-readable Windows version string.
// Examples: "Windows 10 (Build 19045)", "Windows 11 (Build 22621)"
func windowsVersionString() string {
	major, minor, build := GetWindowsVersion()

	var name string
	switch {
	case major == 10 && build >= 22000:
		name = "Windows 11"
	case major == 10:
		name = "Windows 10"
	case major == 6 && minor == 3:
		name = "Windows 8.1"
	case major == 6 && minor == 2:
		name = "Windows 8"
	case major == 6 && minor == 1:
		name = "Windows 7"
	default:
		name = fmt.Sprintf("Windows %d.%d", major, minor)
	}

	return fmt.Sprintf("%s (Build %d)", name, build)
}

type win32OperatingSystem struct {
	Caption     string
	BuildNumber string
}

// OSDescription returns the marketing name of the running system, e.g.
// "Microsoft Windows 11 Pro (Build 22631)". WMI is preferred because it
// knows the edition; the NT version numbers are the fallback.
func OSDescription() string {
	var dst []win32OperatingSystem
	err := wmi.Query("SELECT Caption, BuildNumber FROM Win32_OperatingSystem", &dst)
	if err != nil || len(dst) == 0 || strings.TrimSpace(dst[0].Caption) == "" {
		return windowsVersionString()
	}
	caption := strings.TrimSpace(dst[0].Caption)
	if dst[0].BuildNumber == "" {
		return caption
	}
	return fmt.Sprintf("%s (Build %s)", caption, dst[0].BuildNumber)
}

// IsElevated reports whether the process token is elevated.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
