package parser

import (
	"sort"
	"strings"
)

// ListKeys returns every distinct key present in a solution file, skipping
// the header line.
func ListKeys(lines []string) []string {
	return collectKeys(lines, func(string) bool { return true })
}

// FindKeysContaining returns the keys of every line whose text contains
// substr, e.g. all variables that mention a technology.
func FindKeysContaining(lines []string, substr string) []string {
	return collectKeys(lines, func(line string) bool {
		return strings.Contains(line, substr)
	})
}

func collectKeys(lines []string, keep func(string) bool) []string {
	seen := make(map[string]struct{})
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || !keep(line) {
			continue
		}
		key, _, _ := strings.Cut(line, "[")
		seen[key] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
