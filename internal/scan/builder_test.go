package scan_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"projscan/internal/scan"
	"projscan/internal/types"
)

// writeTestFile creates a file with parent directories inside a fixture tree.
func writeTestFile(testingInstance *testing.T, rootDirectory string, relativePath string, content string) {
	testingInstance.Helper()
	fullPath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
	if directoryError := os.MkdirAll(filepath.Dir(fullPath), 0o755); directoryError != nil {
		testingInstance.Fatalf("creating fixture directory: %v", directoryError)
	}
	if writeError := os.WriteFile(fullPath, []byte(content), 0o644); writeError != nil {
		testingInstance.Fatalf("creating fixture file: %v", writeError)
	}
}

// newCollectingBuilder returns a builder that records warnings.
func newCollectingBuilder(options scan.FilterOptions) (*scan.Builder, *[]string) {
	builder := scan.NewBuilder(scan.NewFilterSet(options))
	var warnings []string
	builder.Warn = func(message string) {
		warnings = append(warnings, message)
	}
	return builder, &warnings
}

// TestBuildFailsOnMissingRoot verifies the fatal root precondition.
func TestBuildFailsOnMissingRoot(testingInstance *testing.T) {
	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{}))
	if _, _, buildError := builder.Build(filepath.Join(testingInstance.TempDir(), "missing")); buildError == nil {
		testingInstance.Fatal("expected error for missing root")
	}
}

// TestBuildFailsOnFileRoot verifies that a file root is rejected.
func TestBuildFailsOnFileRoot(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "plain.txt", "content")

	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{}))
	if _, _, buildError := builder.Build(filepath.Join(rootDirectory, "plain.txt")); buildError == nil {
		testingInstance.Fatal("expected error for file root")
	}
}

// TestBuildOrdersDirectoriesBeforeFiles verifies deterministic child ordering:
// directories first, case-insensitive names within each group.
func TestBuildOrdersDirectoriesBeforeFiles(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "beta.txt", "")
	writeTestFile(testingInstance, rootDirectory, "Alpha.txt", "")
	writeTestFile(testingInstance, rootDirectory, "zeta/keep.txt", "")
	writeTestFile(testingInstance, rootDirectory, "Delta/keep.txt", "")

	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{}))
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}

	expectedOrder := []string{"Delta", "zeta", "Alpha.txt", "beta.txt"}
	actualOrder := rootNode.Children.Names()
	if len(actualOrder) != len(expectedOrder) {
		testingInstance.Fatalf("expected children %v, got %v", expectedOrder, actualOrder)
	}
	for nameIndex, expectedName := range expectedOrder {
		if actualOrder[nameIndex] != expectedName {
			testingInstance.Errorf("child %d: expected %q, got %q", nameIndex, expectedName, actualOrder[nameIndex])
		}
	}
}

// TestBuildSkipsIgnoredNames verifies that a root containing only an ignored
// directory yields zero children with the default ignore set.
func TestBuildSkipsIgnoredNames(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "node_modules/index.js", "module.exports = {}")

	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{}))
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}
	if rootNode.Children.Len() != 0 {
		testingInstance.Errorf("expected zero children, got %v", rootNode.Children.Names())
	}
}

// TestBuildDiscardAllRecordsEmptyDirectory verifies that a discard-all
// directory is recorded without descent.
func TestBuildDiscardAllRecordsEmptyDirectory(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "generated/deep/artifact.bin", "")

	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{
		DiscardAllPaths: []string{"generated"},
	}))
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}

	generatedNode, exists := rootNode.Children.Get("generated")
	if !exists {
		testingInstance.Fatal("generated directory node missing")
	}
	if !generatedNode.IsDirectory() || generatedNode.Children.Len() != 0 {
		testingInstance.Errorf("expected empty directory node, got %v", generatedNode.Children.Names())
	}
}

// TestBuildDiscardFilesInSuppressesFilesAtAnyDepth verifies the authoritative
// prefix rule: files under the prefix disappear at any depth while the
// directory structure is preserved.
func TestBuildDiscardFilesInSuppressesFilesAtAnyDepth(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "src/legacy/a.txt", "")
	writeTestFile(testingInstance, rootDirectory, "src/legacy/sub/b.txt", "")
	writeTestFile(testingInstance, rootDirectory, "src/current.txt", "")

	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{
		DiscardFilePrefixes: []string{"src/legacy"},
	}))
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}

	sourceNode, _ := rootNode.Children.Get("src")
	if sourceNode == nil {
		testingInstance.Fatal("src directory node missing")
	}
	if _, exists := sourceNode.Children.Get("current.txt"); !exists {
		testingInstance.Error("current.txt outside the prefix was suppressed")
	}

	legacyNode, _ := sourceNode.Children.Get("legacy")
	if legacyNode == nil {
		testingInstance.Fatal("legacy directory node missing")
	}
	if _, exists := legacyNode.Children.Get("a.txt"); exists {
		testingInstance.Error("a.txt under the prefix was not suppressed")
	}

	subNode, exists := legacyNode.Children.Get("sub")
	if !exists {
		testingInstance.Fatal("sub directory under the prefix missing")
	}
	if _, exists := subNode.Children.Get("b.txt"); exists {
		testingInstance.Error("b.txt below the prefix was not suppressed")
	}
}

// TestBuildDiscardFileNamesAppliesGlobally verifies bare-name file discarding
// regardless of location.
func TestBuildDiscardFileNamesAppliesGlobally(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, ".DS_Store", "")
	writeTestFile(testingInstance, rootDirectory, "nested/.DS_Store", "")
	writeTestFile(testingInstance, rootDirectory, "nested/keep.txt", "")

	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{
		DiscardFileNames: []string{".DS_Store"},
	}))
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}

	if _, exists := rootNode.Children.Get(".DS_Store"); exists {
		testingInstance.Error("root-level discarded file present")
	}
	nestedNode, _ := rootNode.Children.Get("nested")
	if nestedNode == nil {
		testingInstance.Fatal("nested directory node missing")
	}
	if _, exists := nestedNode.Children.Get(".DS_Store"); exists {
		testingInstance.Error("nested discarded file present")
	}
	if _, exists := nestedNode.Children.Get("keep.txt"); !exists {
		testingInstance.Error("kept file missing")
	}
}

// TestBuildRelativePathsAreSlashNormalized verifies that node paths are
// relative and forward-slash separated.
func TestBuildRelativePathsAreSlashNormalized(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "pkg/inner/file.txt", "")

	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{}))
	rootNode, rootName, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}
	if rootName != filepath.Base(rootDirectory) {
		testingInstance.Errorf("unexpected root name %q", rootName)
	}
	if rootNode.Path != "." {
		testingInstance.Errorf("unexpected root path %q", rootNode.Path)
	}

	packageNode, _ := rootNode.Children.Get("pkg")
	innerNode, _ := packageNode.Children.Get("inner")
	fileNode, _ := innerNode.Children.Get("file.txt")
	if fileNode == nil || fileNode.Path != "pkg/inner/file.txt" {
		testingInstance.Errorf("unexpected file path: %#v", fileNode)
	}
	if strings.Contains(innerNode.Path, "\\") || filepath.IsAbs(innerNode.Path) {
		testingInstance.Errorf("path not relative slash-normalized: %q", innerNode.Path)
	}
}

// TestBuildExtractsPackageManifest verifies that a partial package.json
// attaches only the fields present in the document.
func TestBuildExtractsPackageManifest(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "package.json", `{"scripts": {"build": "x"}}`)

	builder, warnings := newCollectingBuilder(scan.FilterOptions{})
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}
	if len(*warnings) != 0 {
		testingInstance.Errorf("unexpected warnings: %v", *warnings)
	}

	manifestNode, _ := rootNode.Children.Get("package.json")
	if manifestNode == nil {
		testingInstance.Fatal("package.json node missing")
	}
	if manifestNode.Scripts == nil || manifestNode.Scripts["build"] != "x" {
		testingInstance.Errorf("scripts not extracted: %#v", manifestNode.Scripts)
	}
	if manifestNode.Dependencies != nil || manifestNode.DevDependencies != nil {
		testingInstance.Error("absent manifest fields materialized")
	}
}

// TestBuildWarnsOnceOnInvalidManifest verifies that an unparsable manifest
// produces exactly one warning and a plain file node without aborting.
func TestBuildWarnsOnceOnInvalidManifest(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "package.json", "{ not json")
	writeTestFile(testingInstance, rootDirectory, "other.txt", "")

	builder, warnings := newCollectingBuilder(scan.FilterOptions{})
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}
	if len(*warnings) != 1 {
		testingInstance.Fatalf("expected exactly one warning, got %v", *warnings)
	}

	manifestNode, exists := rootNode.Children.Get("package.json")
	if !exists {
		testingInstance.Fatal("file node for invalid manifest missing")
	}
	if manifestNode.Scripts != nil || manifestNode.Dependencies != nil || manifestNode.DevDependencies != nil {
		testingInstance.Error("manifest fields attached despite parse failure")
	}
	if _, exists := rootNode.Children.Get("other.txt"); !exists {
		testingInstance.Error("scan did not continue past the invalid manifest")
	}
}

// TestBuildManifestShapeFailureIsRecovered verifies that a well-formed JSON
// document with a mismatched shape is treated like a parse failure.
func TestBuildManifestShapeFailureIsRecovered(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "package.json", `{"scripts": "not-a-map"}`)

	builder, warnings := newCollectingBuilder(scan.FilterOptions{})
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}
	if len(*warnings) != 1 {
		testingInstance.Fatalf("expected exactly one warning, got %v", *warnings)
	}
	manifestNode, _ := rootNode.Children.Get("package.json")
	if manifestNode == nil || manifestNode.Scripts != nil {
		testingInstance.Errorf("expected plain file node, got %#v", manifestNode)
	}
}

// TestBuildDiscardedManifestIsNeverRead verifies that filters run before any
// file read: a discarded malformed manifest triggers no warning.
func TestBuildDiscardedManifestIsNeverRead(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "vendor/package.json", "{ not json")

	builder, warnings := newCollectingBuilder(scan.FilterOptions{
		DiscardFilePrefixes: []string{"vendor"},
	})
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}
	if len(*warnings) != 0 {
		testingInstance.Errorf("discarded manifest was read: %v", *warnings)
	}
	vendorNode, _ := rootNode.Children.Get("vendor")
	if vendorNode == nil || vendorNode.Children.Len() != 0 {
		testingInstance.Errorf("unexpected vendor contents: %#v", vendorNode)
	}
}

// TestBuildTreeIsSerializableRoundTrip verifies the end-to-end invariant:
// encoding a built tree and decoding it yields the same types, paths, and
// child-name sets at every level.
func TestBuildTreeIsSerializableRoundTrip(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeTestFile(testingInstance, rootDirectory, "src/main.go", "package main")
	writeTestFile(testingInstance, rootDirectory, "package.json", `{"dependencies": {"left-pad": "^1.0.0"}}`)

	builder := scan.NewBuilder(scan.NewFilterSet(scan.FilterOptions{}))
	rootNode, _, buildError := builder.Build(rootDirectory)
	if buildError != nil {
		testingInstance.Fatalf("build failed: %v", buildError)
	}

	encoded, encodeError := rootNode.MarshalJSON()
	if encodeError != nil {
		testingInstance.Fatalf("marshal failed: %v", encodeError)
	}
	var decodedNode types.Node
	if decodeError := decodedNode.UnmarshalJSON(encoded); decodeError != nil {
		testingInstance.Fatalf("unmarshal failed: %v", decodeError)
	}
	assertTreesEqual(testingInstance, rootNode, &decodedNode)
}

// assertTreesEqual walks two trees asserting identical type, path, and child
// name order at every level.
func assertTreesEqual(testingInstance *testing.T, expectedNode *types.Node, actualNode *types.Node) {
	testingInstance.Helper()
	if expectedNode.Type != actualNode.Type || expectedNode.Path != actualNode.Path {
		testingInstance.Errorf("node mismatch: expected %s %q, got %s %q", expectedNode.Type, expectedNode.Path, actualNode.Type, actualNode.Path)
		return
	}
	if !expectedNode.IsDirectory() {
		return
	}
	expectedNames := expectedNode.Children.Names()
	actualNames := actualNode.Children.Names()
	if len(expectedNames) != len(actualNames) {
		testingInstance.Errorf("children mismatch at %q: expected %v, got %v", expectedNode.Path, expectedNames, actualNames)
		return
	}
	for nameIndex, entryName := range expectedNames {
		if actualNames[nameIndex] != entryName {
			testingInstance.Errorf("child order mismatch at %q: expected %v, got %v", expectedNode.Path, expectedNames, actualNames)
			return
		}
		expectedChild, _ := expectedNode.Children.Get(entryName)
		actualChild, _ := actualNode.Children.Get(entryName)
		assertTreesEqual(testingInstance, expectedChild, actualChild)
	}
}
