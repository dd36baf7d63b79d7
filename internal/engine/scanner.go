package engine

import (
	"context"
	"io/fs"
	"path/filepath"
)

// ScanTotals is the result of a non-destructive size scan.
type ScanTotals struct {
	Bytes   uint64
	Files   uint
	Skipped uint // entries that could not be read or stat'ed
}

// Scanner computes aggregate size and file count without mutating anything.
// A missing root contributes nothing; unreadable entries are counted as
// skipped and never abort the scan.
type Scanner struct {
	fs     FS
	filter nameFilter
}

// NewScanner creates a scanner over fsys. patterns restricts which file names
// count (empty means all); exclude removes names from consideration.
func NewScanner(fsys FS, patterns, exclude []string) *Scanner {
	if fsys == nil {
		fsys = OSFS{}
	}
	return &Scanner{fs: fsys, filter: newNameFilter(patterns, exclude)}
}

// Scan walks every root. Roots may contain glob patterns. Children are
// visited in lexical order so repeated scans of an unchanged tree agree.
func (s *Scanner) Scan(ctx context.Context, roots []string) (ScanTotals, error) {
	var totals ScanTotals
	for _, root := range expandRoots(s.fs, roots) {
		if err := ctx.Err(); err != nil {
			return totals, err
		}
		info, err := s.fs.Lstat(root)
		if err != nil {
			if Classify(err) != NotFound {
				totals.Skipped++
			}
			continue
		}
		linked, err := linkedDir(s.fs, root, info)
		if err != nil {
			if Classify(err) != NotFound {
				totals.Skipped++
			}
			continue
		}
		if !linked && (!info.IsDir() || isLink(root, info)) {
			s.countFile(&totals, root, info)
			continue
		}
		if err := s.scanDir(ctx, root, &totals); err != nil {
			return totals, err
		}
	}
	return totals, nil
}

func (s *Scanner) scanDir(ctx context.Context, dir string, totals *ScanTotals) error {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if Classify(err) != NotFound {
			totals.Skipped++
		}
		return nil
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		child := filepath.Join(dir, e.Name())
		info, err := s.fs.Lstat(child)
		if err != nil {
			if Classify(err) != NotFound {
				totals.Skipped++
			}
			continue
		}
		if info.IsDir() && !isLink(child, info) {
			if err := s.scanDir(ctx, child, totals); err != nil {
				return err
			}
			continue
		}
		s.countFile(totals, child, info)
	}
	return nil
}

func (s *Scanner) countFile(totals *ScanTotals, path string, info fs.FileInfo) {
	if !s.filter.match(path) {
		return
	}
	totals.Files++
	if size := info.Size(); size > 0 && !info.IsDir() {
		totals.Bytes += uint64(size)
	}
}

// expandRoots resolves glob roots and drops duplicates, keeping order.
func expandRoots(fsys FS, roots []string) []string {
	seen := make(map[string]bool, len(roots))
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		key := normalizeKey(p)
		if !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}
	for _, r := range roots {
		if r == "" {
			continue
		}
		if !hasGlobMeta(r) {
			add(r)
			continue
		}
		matches, err := fsys.Glob(r)
		if err != nil {
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out
}
