package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

// Target categories used by the built-in catalog.
const (
	CategorySystem   = "system"
	CategoryUser     = "user"
	CategoryBrowser  = "browser"
	CategoryGraphics = "graphics"
)

// expand resolves environment variables in a path, supporting both
// Windows %VAR% and Unix $VAR / ${VAR} syntax. Unknown %VAR% references are
// left untouched so they never collapse into a relative path.
func expand(path string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(path, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(path[start+1:], '%')
		if end < 0 {
			break
		}
		end += start + 1
		name := path[start+1 : end]
		if v, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(path[:start])
			b.WriteString(v)
		} else {
			b.WriteString(path[:end+1])
		}
		path = path[end+1:]
	}
	b.WriteString(path)
	return os.ExpandEnv(b.String())
}

// under joins elems onto base, or returns "" when base is unknown.
func under(base string, elems ...string) string {
	if base == "" {
		return ""
	}
	return filepath.Join(append([]string{base}, elems...)...)
}

// envDir returns the variable's value, or fallback on Windows only.
func envDir(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if runtime.GOOS == "windows" {
		return fallback
	}
	return ""
}

// userProfile returns the user profile directory.
func userProfile() string {
	if p := os.Getenv("USERPROFILE"); p != "" {
		return p
	}
	if runtime.GOOS == "windows" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return ""
}

// localAppData returns the local app data directory.
func localAppData() string {
	if l := os.Getenv("LOCALAPPDATA"); l != "" {
		return l
	}
	return under(userProfile(), "AppData", "Local")
}

// appData returns the roaming app data directory.
func appData() string {
	if r := os.Getenv("APPDATA"); r != "" {
		return r
	}
	return under(userProfile(), "AppData", "Roaming")
}

// winDir returns the Windows directory (e.g., C:\Windows).
// Falls back to C:\Windows only if %WINDIR% is not set.
func winDir() string {
	return envDir("WINDIR", `C:\Windows`)
}

// programData returns the ProgramData directory (e.g., C:\ProgramData).
// Falls back to C:\ProgramData only if %PROGRAMDATA% is not set.
func programData() string {
	return envDir("PROGRAMDATA", `C:\ProgramData`)
}

// systemDrive returns the system drive letter with backslash (e.g., C:\).
// Falls back to C:\ only if %SYSTEMDRIVE% is not set.
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d + `\`
	}
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return ""
}

// programFiles returns the Program Files directory.
func programFiles() string {
	return envDir("PROGRAMFILES", `C:\Program Files`)
}

// programFilesX86 returns the Program Files (x86) directory.
func programFilesX86() string {
	return envDir("PROGRAMFILES(X86)", `C:\Program Files (x86)`)
}

// browserProfileCaches lists the cache folders of a Chromium default profile.
func browserProfileCaches(userData string) []string {
	return []string{
		under(userData, "Default", "Cache"),
		under(userData, "Default", "GPUCache"),
		under(userData, "Default", "Code Cache"),
	}
}

// GetCleanTargets returns all built-in cleanup targets with paths expanded.
// Roots whose base directory cannot be resolved on this machine are dropped,
// and so is any directory target left without roots.
func GetCleanTargets() []engine.Target {
	local := localAppData()
	roaming := appData()
	win := winDir()
	pd := programData()

	var browsers []string
	for _, userData := range []string{
		under(local, "Google", "Chrome", "User Data"),
		under(local, "Microsoft", "Edge", "User Data"),
		under(roaming, "Opera Software", "Opera Stable"),
		under(local, "BraveSoftware", "Brave-Browser", "User Data"),
	} {
		browsers = append(browsers, browserProfileCaches(userData)...)
	}
	browsers = append(browsers, under(roaming, "Mozilla", "Firefox", "Profiles", "*", "cache2"))

	targets := []engine.Target{
		// ── Temporary files ─────────────────────────────────────
		{
			ID:            "windows-temp",
			DisplayName:   "Windows Temp Files",
			Description:   "System-wide temporary files in the Windows Temp folder",
			Category:      CategorySystem,
			Paths:         []string{under(win, "Temp")},
			RequiresAdmin: true,
		},
		{
			ID:          "user-temp",
			DisplayName: "User Temp Files",
			Description: "Temporary files created by user applications",
			Category:    CategoryUser,
			Paths:       []string{under(local, "Temp")},
		},
		{
			ID:            "prefetch",
			DisplayName:   "Prefetch Files",
			Description:   "Prefetch traces; Windows recreates them, first launches may be slower",
			Category:      CategorySystem,
			Paths:         []string{under(win, "Prefetch")},
			RequiresAdmin: true,
		},

		// ── Explorer ────────────────────────────────────────────
		{
			ID:          "explorer-cache",
			DisplayName: "Explorer Icon + Thumbnail Cache",
			Description: "iconcache and thumbcache databases; Explorer rebuilds them",
			Category:    CategoryUser,
			Paths:       []string{under(local, "Microsoft", "Windows", "Explorer")},
		},
		{
			ID:          "icon-cache",
			DisplayName: "Icon Cache",
			Description: "Legacy system icon cache file",
			Category:    CategoryUser,
			Paths:       []string{under(local, "IconCache.db")},
		},

		// ── Windows Update ──────────────────────────────────────
		{
			ID:            "windows-update",
			DisplayName:   "Windows Update Remnants",
			Description:   "Downloaded update packages; Windows re-downloads them if needed",
			Category:      CategorySystem,
			Paths:         []string{under(win, "SoftwareDistribution", "Download")},
			RequiresAdmin: true,
		},
		{
			ID:            "delivery-optimization",
			DisplayName:   "Delivery Optimization Cache",
			Description:   "Peer-to-peer update delivery cache",
			Category:      CategorySystem,
			Paths:         []string{under(pd, "Microsoft", "Windows", "DeliveryOptimization")},
			RequiresAdmin: true,
		},

		// ── Diagnostics ─────────────────────────────────────────
		{
			ID:          "crash-dumps",
			DisplayName: "Crash Dumps",
			Description: "System minidumps and application crash dumps",
			Category:    CategorySystem,
			Paths: []string{
				under(win, "Minidump"),
				under(local, "CrashDumps"),
			},
			RequiresAdmin: true,
		},
		{
			ID:            "wer-logs",
			DisplayName:   "WER Logs",
			Description:   "Windows Error Reporting queues and archives",
			Category:      CategorySystem,
			Paths:         []string{under(pd, "Microsoft", "Windows", "WER")},
			RequiresAdmin: true,
		},
		{
			ID:          "windows-logs",
			DisplayName: "Windows Logs",
			Description: "System log files; removes event history useful for troubleshooting",
			Category:    CategorySystem,
			Paths: []string{
				under(win, "Logs"),
				under(win, "System32", "LogFiles"),
			},
			RequiresAdmin: true,
		},

		// ── Graphics ────────────────────────────────────────────
		{
			ID:          "directx-cache",
			DisplayName: "DirectX Shader Cache",
			Description: "Compiled DirectX shaders; games recompile them on next launch",
			Category:    CategoryGraphics,
			Paths:       []string{under(local, "D3DSCache")},
		},
		{
			ID:          "gpu-cache",
			DisplayName: "GPU Shader Cache",
			Description: "NVIDIA and AMD driver shader caches",
			Category:    CategoryGraphics,
			Paths: []string{
				under(local, "NVIDIA", "DXCache"),
				under(local, "NVIDIA", "GLCache"),
				under(local, "AMD", "DxCache"),
			},
		},

		// ── Applications ────────────────────────────────────────
		{
			ID:          "rdp-cache",
			DisplayName: "RDP Cache",
			Description: "Cached bitmaps from Remote Desktop sessions",
			Category:    CategoryUser,
			Paths:       []string{under(local, "Microsoft", "Terminal Server Client", "Cache")},
		},
		{
			ID:          "inetcache",
			DisplayName: "INetCache (IE/Legacy Edge)",
			Description: "Temporary internet files of Internet Explorer and legacy Edge",
			Category:    CategoryBrowser,
			Paths:       []string{under(local, "Microsoft", "Windows", "INetCache")},
		},
		{
			ID:          "onedrive-photos",
			DisplayName: "OneDrive / Photos Cache",
			Description: "OneDrive settings cache and Photos app cache",
			Category:    CategoryUser,
			Paths: []string{
				under(local, "Microsoft", "OneDrive"),
				under(local, "Packages", "Microsoft.Windows.Photos_*", "LocalCache"),
			},
		},
		{
			ID:          "store-cache",
			DisplayName: "Windows Store + UWP Cache",
			Description: "Microsoft Store and UWP app temporary state",
			Category:    CategoryUser,
			Paths: []string{
				under(local, "Packages", "*", "TempState"),
				under(local, "Packages", "*", "AC"),
				under(local, "Packages", "*", "LocalCache"),
			},
		},
		{
			ID:          "browser-caches",
			DisplayName: "Browser Caches",
			Description: "Chrome, Edge, Opera, Brave and Firefox caches",
			Category:    CategoryBrowser,
			Paths:       browsers,
		},
		{
			ID:          "webcache",
			DisplayName: "WebCache (File History)",
			Description: "Jump list and activity history cache database",
			Category:    CategoryUser,
			Paths:       []string{under(local, "Microsoft", "Windows", "WebCache")},
		},

		// ── Component store ─────────────────────────────────────
		{
			ID:          "winsxs",
			DisplayName: "WinSxS Cleanup (DISM)",
			Description: "Removes superseded components from the WinSxS store; may take several minutes",
			Category:    CategorySystem,
			Kind:        engine.ExternalCommand,
			Command: &engine.Command{
				Name: "Dism.exe",
				Args: []string{"/Online", "/Cleanup-Image", "/StartComponentCleanup"},
			},
			RequiresAdmin: true,
		},
	}

	out := targets[:0]
	for _, t := range targets {
		if t.Kind == engine.DirectoryTree {
			t.Paths = compact(t.Paths)
			if len(t.Paths) == 0 {
				continue
			}
		} else if runtime.GOOS != "windows" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func compact(paths []string) []string {
	var out []string
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetTargetsByCategory returns targets filtered by category.
func GetTargetsByCategory(targets []engine.Target, category string) []engine.Target {
	var result []engine.Target
	for _, t := range targets {
		if strings.EqualFold(t.Category, category) {
			result = append(result, t)
		}
	}
	return result
}

// Lookup finds a target by ID, case-insensitively.
func Lookup(targets []engine.Target, id string) (engine.Target, bool) {
	for _, t := range targets {
		if strings.EqualFold(t.ID, id) {
			return t, true
		}
	}
	return engine.Target{}, false
}

// Categories returns the distinct categories in catalog order.
func Categories(targets []engine.Target) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range targets {
		if t.Category != "" && !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// GetNeverDeletePaths returns paths that must NEVER be used as a cleanup
// root or sit below one. This list uses environment variables to support
// Windows installations on any drive letter (not just C:).
func GetNeverDeletePaths() []string {
	w := winDir()
	sd := systemDrive()
	return compact([]string{
		w,
		under(w, "System32"),
		under(w, "SysWOW64"),
		under(w, "WinSxS"),
		under(w, "assembly"),
		under(w, "System32", "config"),
		under(sd, "Boot"),
		under(sd, "bootmgr"),
		under(sd, "EFI"),
		programFiles(),
		programFilesX86(),
		under(sd, "Users"),
		programData(),
		under(sd, "Recovery"),
		under(w, "Installer"),
		under(w, "servicing"),
	})
}
