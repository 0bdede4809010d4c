package scan_test

import (
	"testing"

	"projscan/internal/scan"
)

// TestDefaultIgnoreNamesCoverCommonDirectories verifies the default set is
// selected when no explicit ignore list is provided.
func TestDefaultIgnoreNamesCoverCommonDirectories(testingInstance *testing.T) {
	filters := scan.NewFilterSet(scan.FilterOptions{})
	for _, ignoredName := range []string{"node_modules", ".git", "__pycache__", "dist", "build"} {
		if !filters.ShouldIgnoreName(ignoredName) {
			testingInstance.Errorf("expected %q to be ignored by default", ignoredName)
		}
	}
	if filters.ShouldIgnoreName("src") {
		testingInstance.Error("src unexpectedly ignored")
	}
}

// TestExplicitEmptyIgnoreDisablesDefaults verifies that an explicit empty
// ignore list disables name-based ignoring.
func TestExplicitEmptyIgnoreDisablesDefaults(testingInstance *testing.T) {
	filters := scan.NewFilterSet(scan.FilterOptions{IgnoreNames: []string{}})
	if filters.ShouldIgnoreName("node_modules") {
		testingInstance.Error("defaults still active despite explicit empty ignore list")
	}
}

// TestShouldDiscardFileMatchesPrefixesAtAnyDepth verifies the prefix rule
// against boundary cases.
func TestShouldDiscardFileMatchesPrefixesAtAnyDepth(testingInstance *testing.T) {
	filters := scan.NewFilterSet(scan.FilterOptions{
		DiscardFilePrefixes: []string{"src/legacy/"},
	})

	testCases := []struct {
		relativePath string
		discarded    bool
	}{
		{"src/legacy/a.txt", true},
		{"src/legacy/sub/b.txt", true},
		{"src/legacypatch/c.txt", false},
		{"src/current.txt", false},
		{"legacy/d.txt", false},
	}
	for _, testCase := range testCases {
		if actual := filters.ShouldDiscardFile(testCase.relativePath, ""); actual != testCase.discarded {
			testingInstance.Errorf("%s: expected discarded=%v, got %v", testCase.relativePath, testCase.discarded, actual)
		}
	}
}

// TestShouldDiscardFileByName verifies bare-name discarding independent of path.
func TestShouldDiscardFileByName(testingInstance *testing.T) {
	filters := scan.NewFilterSet(scan.FilterOptions{
		DiscardFileNames: []string{"Thumbs.db"},
	})
	if !filters.ShouldDiscardFile("deep/nested/Thumbs.db", "Thumbs.db") {
		testingInstance.Error("named file not discarded")
	}
	if filters.ShouldDiscardFile("deep/nested/keep.db", "keep.db") {
		testingInstance.Error("unrelated file discarded")
	}
}

// TestShouldDiscardAllMatchesExactPath verifies discard-all matches the
// exact relative path only.
func TestShouldDiscardAllMatchesExactPath(testingInstance *testing.T) {
	filters := scan.NewFilterSet(scan.FilterOptions{
		DiscardAllPaths: []string{"target"},
	})
	if !filters.ShouldDiscardAll("target") {
		testingInstance.Error("exact discard-all path not matched")
	}
	if filters.ShouldDiscardAll("target/debug") {
		testingInstance.Error("descendant path unexpectedly matched")
	}
}
