package config

import (
	"fmt"
	"strings"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

// Select picks targets by ID and by category, keeping catalog order and
// dropping duplicates. With no ids and no categories it returns nothing.
func Select(targets []engine.Target, ids, categories []string) ([]engine.Target, error) {
	want := map[string]bool{}
	for _, id := range splitList(ids) {
		t, ok := Lookup(targets, id)
		if !ok {
			return nil, fmt.Errorf("unknown target %q (run 'wcc list' to see available targets)", id)
		}
		want[strings.ToLower(t.ID)] = true
	}
	for _, c := range splitList(categories) {
		matched := GetTargetsByCategory(targets, c)
		if len(matched) == 0 {
			return nil, fmt.Errorf("unknown category %q", c)
		}
		for _, t := range matched {
			want[strings.ToLower(t.ID)] = true
		}
	}

	var out []engine.Target
	for _, t := range targets {
		if want[strings.ToLower(t.ID)] {
			out = append(out, t)
		}
	}
	return out, nil
}

// splitList flattens comma-separated flag values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
