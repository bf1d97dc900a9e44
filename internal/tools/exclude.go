package tools

import (
	"path"
	"path/filepath"
	"strings"
)

// ExcludePatterns extracts the -e/--exclude values from a formatter argument
// vector.
func ExcludePatterns(args []string) []string {
	var patterns []string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-e" || args[i] == "--exclude" {
			patterns = append(patterns, args[i+1])
		}
	}
	return patterns
}

// IsExcluded reports whether the workspace-relative path matches any exclude
// pattern. A pattern matches the file itself or any of its parent
// directories.
func IsExcluded(relPath string, patterns []string) bool {
	relPath = filepath.ToSlash(relPath)
	relPath = strings.TrimPrefix(relPath, "./")
	relPath = strings.Trim(relPath, "/")

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		pattern = strings.TrimPrefix(pattern, "./")
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}
		if ok, err := path.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if ok, err := path.Match(pattern, path.Base(relPath)); err == nil && ok {
			return true
		}
		for dir := path.Dir(relPath); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if ok, err := path.Match(pattern, dir); err == nil && ok {
				return true
			}
		}
	}
	return false
}
