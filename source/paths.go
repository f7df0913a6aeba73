package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveInputs expands glob patterns to input files.
// Supports both single-level wildcards (*) and recursive wildcards (**).
//
// Examples:
//   - "graphs/*.gfa" → every .gfa file directly under graphs
//   - "graphs/**/*.gfa.gz" → compressed graphs at any depth
//   - "chr1.gfa" → ["chr1.gfa"]
//
// Directories are skipped. The result is sorted and free of duplicates.
func ResolveInputs(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	sort.Strings(resolved)
	return resolved, nil
}

// resolvePattern expands a single glob pattern to files.
func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory: %s", pattern)
		}
		return []string{filepath.Clean(pattern)}, nil
	}

	if !doublestar.ValidatePathPattern(pattern) {
		return nil, fmt.Errorf("invalid pattern: %w", doublestar.ErrBadPattern)
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	return matches, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// OutputName returns the output file name for input inside dir: the input
// base name with compression and GFA extensions replaced by ext.
func OutputName(dir, input, ext string) string {
	base := filepath.Base(input)
	for _, suffix := range []string{".gz", ".zst", ".gfa", ".gfa1"} {
		base = strings.TrimSuffix(base, suffix)
	}
	return filepath.Join(dir, base+ext)
}
