package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"projscan/internal/manifest"
	"projscan/internal/types"
	"projscan/internal/utils"
)

const (
	// errAbsolutePathFormat is used when the absolute path cannot be determined.
	errAbsolutePathFormat = "getting absolute path for %s: %w"
	// errRootNotDirectoryFormat is used when the scan root precondition fails.
	errRootNotDirectoryFormat = "scan root %s is not an existing directory"
	// errStatRootFormat is used when the scan root cannot be inspected.
	errStatRootFormat = "inspecting scan root %s: %w"

	// warningSkipSubdirFormat is used when a subdirectory cannot be listed mid-walk.
	warningSkipSubdirFormat = "skipping contents of %s: %v"
	// warningManifestFormat is used when a recognized manifest cannot be extracted.
	warningManifestFormat = "could not read manifest %s: %v"
)

// Builder performs the depth-first walk producing the project tree. The walk
// is strictly sequential; the only side effects are manifest file reads and
// messages emitted through the Warn sink.
type Builder struct {
	Filters     FilterSet
	Recognizers *manifest.Registry
	// Warn receives human-readable warnings for recoverable per-entry
	// failures. A nil sink discards them.
	Warn func(message string)
}

// NewBuilder constructs a Builder with the given filters, the default
// recognizer registry, and a discarding warn sink.
func NewBuilder(filters FilterSet) *Builder {
	return &Builder{
		Filters:     filters,
		Recognizers: manifest.NewRegistry(),
	}
}

// Build validates the scan root and walks it, returning the root directory
// node and the root directory's base name. Root validation is the single
// fatal precondition; every later anomaly is recovered and warned about.
func (builder *Builder) Build(rootPath string) (*types.Node, string, error) {
	absoluteRootPath, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return nil, "", fmt.Errorf(errAbsolutePathFormat, rootPath, absoluteError)
	}

	rootInfo, statError := os.Stat(absoluteRootPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return nil, "", fmt.Errorf(errRootNotDirectoryFormat, absoluteRootPath)
		}
		return nil, "", fmt.Errorf(errStatRootFormat, absoluteRootPath, statError)
	}
	if !rootInfo.IsDir() {
		return nil, "", fmt.Errorf(errRootNotDirectoryFormat, absoluteRootPath)
	}

	rootNode := builder.buildDirectory(absoluteRootPath, absoluteRootPath)
	return rootNode, filepath.Base(absoluteRootPath), nil
}

// buildDirectory recursively materializes the node for currentPath. Children
// are ordered directories first, then files, each group sorted
// case-insensitively by name.
func (builder *Builder) buildDirectory(currentPath string, rootPath string) *types.Node {
	relativePath := utils.RelativePathOrSelf(currentPath, rootPath)
	directoryNode := types.NewDirectoryNode(relativePath)

	if builder.Filters.ShouldDiscardAll(relativePath) {
		return directoryNode
	}

	directoryEntries, readError := os.ReadDir(currentPath)
	if readError != nil {
		builder.warnf(warningSkipSubdirFormat, currentPath, readError)
		return directoryNode
	}

	sortEntries(directoryEntries)

	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if builder.Filters.ShouldIgnoreName(entryName) {
			continue
		}

		childPath := filepath.Join(currentPath, entryName)
		childRelativePath := utils.JoinRelative(relativePath, entryName)

		if directoryEntry.IsDir() {
			directoryNode.Children.Set(entryName, builder.buildDirectory(childPath, rootPath))
			continue
		}

		if builder.Filters.ShouldDiscardFile(childRelativePath, entryName) {
			continue
		}

		directoryNode.Children.Set(entryName, builder.buildFile(childPath, childRelativePath, entryName))
	}

	return directoryNode
}

// buildFile materializes a file node, extracting manifest metadata when the
// bare name matches a registered recognizer. Extraction failures produce one
// warning and a node without manifest fields.
func (builder *Builder) buildFile(filePath string, relativePath string, baseName string) *types.Node {
	fileNode := types.NewFileNode(relativePath)
	if builder.Recognizers == nil {
		return fileNode
	}
	extractedInfo, recognized, extractError := builder.Recognizers.ExtractFile(filePath, baseName)
	if !recognized {
		return fileNode
	}
	if extractError != nil {
		builder.warnf(warningManifestFormat, filePath, extractError)
		return fileNode
	}
	extractedInfo.Apply(fileNode)
	return fileNode
}

// sortEntries orders directory entries for deterministic output across runs
// and platforms: directories before files, case-insensitive names within
// each group.
func sortEntries(directoryEntries []os.DirEntry) {
	sort.SliceStable(directoryEntries, func(firstIndex, secondIndex int) bool {
		firstEntry, secondEntry := directoryEntries[firstIndex], directoryEntries[secondIndex]
		if firstEntry.IsDir() != secondEntry.IsDir() {
			return firstEntry.IsDir()
		}
		return strings.ToLower(firstEntry.Name()) < strings.ToLower(secondEntry.Name())
	})
}

// warnf formats and delivers a warning through the configured sink.
func (builder *Builder) warnf(format string, arguments ...interface{}) {
	if builder.Warn == nil {
		return
	}
	builder.Warn(fmt.Sprintf(format, arguments...))
}
