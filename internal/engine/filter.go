package engine

import (
	"path/filepath"
	"strings"

	"github.com/IGLOU-EU/go-wildcard"
)

// nameFilter decides which file entries belong to a target. Include patterns
// come from Target.Patterns, exclude patterns from configuration. Both match
// the lower-cased base name.
type nameFilter struct {
	include []string
	exclude []string
}

func newNameFilter(include, exclude []string) nameFilter {
	return nameFilter{include: lowerAll(include), exclude: lowerAll(exclude)}
}

func (f nameFilter) match(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, p := range f.exclude {
		if wildcard.Match(p, name) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if wildcard.Match(p, name) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}
