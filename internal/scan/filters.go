// Package scan builds the in-memory project tree by walking a root directory
// and applying ignore and discard filters.
package scan

import (
	"strings"

	"projscan/internal/utils"
)

// defaultIgnoreNames lists the build, dependency, and cache directory names
// skipped when no explicit ignore set is configured.
var defaultIgnoreNames = []string{
	"node_modules",
	".git",
	"__pycache__",
	".venv",
	"venv",
	".next",
	"dist",
	"build",
	".nuxt",
	".pytest_cache",
	".mypy_cache",
}

// DefaultIgnoreNames returns a copy of the default ignore set.
func DefaultIgnoreNames() []string {
	return append([]string(nil), defaultIgnoreNames...)
}

// FilterSet holds the four recognized filter options. Ignore and discardFiles
// match bare entry names at any depth; discardFilesIn and discardAllIn match
// forward-slash relative paths computed against the scan root.
type FilterSet struct {
	ignoreNames         map[string]struct{}
	discardFilePrefixes []string
	discardAllPaths     map[string]struct{}
	discardFileNames    map[string]struct{}
}

// FilterOptions carries the raw filter configuration used to build a FilterSet.
type FilterOptions struct {
	IgnoreNames         []string
	DiscardFilePrefixes []string
	DiscardAllPaths     []string
	DiscardFileNames    []string
}

// NewFilterSet normalizes the provided options into a FilterSet. A nil
// IgnoreNames slice selects the default ignore set; an explicit empty slice
// disables name-based ignoring entirely.
func NewFilterSet(options FilterOptions) FilterSet {
	ignoreNames := options.IgnoreNames
	if ignoreNames == nil {
		ignoreNames = defaultIgnoreNames
	}
	return FilterSet{
		ignoreNames:         utils.NewStringSet(ignoreNames),
		discardFilePrefixes: normalizePrefixes(options.DiscardFilePrefixes),
		discardAllPaths:     utils.NewStringSet(normalizePrefixes(options.DiscardAllPaths)),
		discardFileNames:    utils.NewStringSet(options.DiscardFileNames),
	}
}

// normalizePrefixes converts prefixes to forward-slash form without trailing
// separators and drops empty entries.
func normalizePrefixes(prefixes []string) []string {
	normalized := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		trimmedPrefix := strings.TrimSpace(strings.ReplaceAll(prefix, "\\", "/"))
		trimmedPrefix = strings.TrimSuffix(trimmedPrefix, "/")
		if trimmedPrefix == "" {
			continue
		}
		normalized = append(normalized, trimmedPrefix)
	}
	return utils.DeduplicateNames(normalized)
}

// ShouldIgnoreName reports whether a bare entry name is in the ignore set.
// Ignored entries produce no node and, for directories, no descent.
func (filters FilterSet) ShouldIgnoreName(entryName string) bool {
	_, ignored := filters.ignoreNames[entryName]
	return ignored
}

// ShouldDiscardAll reports whether a directory's relative path exactly
// matches a discard-all entry. Such directories are recorded with empty
// children and never descended into.
func (filters FilterSet) ShouldDiscardAll(relativePath string) bool {
	_, discarded := filters.discardAllPaths[relativePath]
	return discarded
}

// ShouldDiscardFile reports whether a file entry is suppressed, either
// because its bare name is in the discard-files set or because its relative
// path falls under a discard-files-in prefix. Prefix suppression applies at
// any depth: a file is discarded when its relative path equals the prefix or
// begins with the prefix followed by a separator.
func (filters FilterSet) ShouldDiscardFile(relativePath string, baseName string) bool {
	if _, discarded := filters.discardFileNames[baseName]; discarded {
		return true
	}
	for _, prefix := range filters.discardFilePrefixes {
		if relativePath == prefix || strings.HasPrefix(relativePath, prefix+"/") {
			return true
		}
	}
	return false
}
