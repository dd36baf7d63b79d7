package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count with binary units (e.g. "4.2 GiB").
func FormatSize(bytes uint64) string {
	return humanize.IBytes(bytes)
}

// FormatCount renders a count with thousands separators.
func FormatCount(n uint) string {
	return humanize.Comma(int64(n))
}

// FormatDuration renders a run duration as seconds with two decimals.
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2f seconds", d.Seconds())
}

// Truncate shortens s to width runes, keeping the tail, which is the
// informative part of a path.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return "…" + string(r[len(r)-width+1:])
}
