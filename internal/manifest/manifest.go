// Package manifest recognizes package-manifest files by name and extracts
// script and dependency metadata from them.
package manifest

import (
	"fmt"
	"os"

	"projscan/internal/types"
)

const (
	// errUnknownRecognizerFormat reports an activation request for an unknown recognizer.
	errUnknownRecognizerFormat = "unknown manifest recognizer %q"
	// errReadManifestFormat reports a manifest file that could not be read.
	errReadManifestFormat = "reading manifest %s: %w"
)

// Info carries the extracted manifest metadata. Each field is nil when the
// corresponding key was absent from the manifest document; a non-nil empty
// map records a key that was present but empty.
type Info struct {
	Scripts         map[string]string
	Dependencies    map[string]string
	DevDependencies map[string]string
}

// IsEmpty reports whether no manifest field was extracted.
func (info Info) IsEmpty() bool {
	return info.Scripts == nil && info.Dependencies == nil && info.DevDependencies == nil
}

// Apply attaches the extracted fields to a file node.
func (info Info) Apply(fileNode *types.Node) {
	fileNode.Scripts = info.Scripts
	fileNode.Dependencies = info.Dependencies
	fileNode.DevDependencies = info.DevDependencies
}

// Recognizer extracts manifest metadata from the raw content of a file whose
// bare name matches FileName.
type Recognizer interface {
	FileName() string
	Extract(content []byte) (Info, error)
}

// Registry dispatches manifest extraction by bare file name. The package.json
// recognizer is always registered; others are activated on request so the
// default observable behavior stays limited to the single reserved name.
type Registry struct {
	recognizersByFileName map[string]Recognizer
}

// NewRegistry constructs a registry with the package.json recognizer active.
func NewRegistry() *Registry {
	registry := &Registry{recognizersByFileName: make(map[string]Recognizer)}
	registry.Register(PackageJSONRecognizer{})
	return registry
}

// Register adds a recognizer, replacing any recognizer for the same file name.
func (registry *Registry) Register(recognizer Recognizer) {
	registry.recognizersByFileName[recognizer.FileName()] = recognizer
}

// optionalRecognizers maps activation names to recognizer constructors.
var optionalRecognizers = map[string]func() Recognizer{
	"cargo":     func() Recognizer { return CargoRecognizer{} },
	"pyproject": func() Recognizer { return PyProjectRecognizer{} },
	"gomod":     func() Recognizer { return GoModRecognizer{} },
}

// Activate registers the optional recognizers identified by the given names.
func (registry *Registry) Activate(recognizerNames []string) error {
	for _, recognizerName := range recognizerNames {
		constructor, known := optionalRecognizers[recognizerName]
		if !known {
			return fmt.Errorf(errUnknownRecognizerFormat, recognizerName)
		}
		registry.Register(constructor())
	}
	return nil
}

// Recognizes reports whether the bare file name matches a registered recognizer.
func (registry *Registry) Recognizes(baseName string) bool {
	_, recognized := registry.recognizersByFileName[baseName]
	return recognized
}

// ExtractFile reads the file and extracts manifest metadata through the
// recognizer registered for its bare name. The second return value is false
// when no recognizer matches; extraction errors are returned for the caller
// to surface as warnings.
func (registry *Registry) ExtractFile(filePath string, baseName string) (Info, bool, error) {
	recognizer, recognized := registry.recognizersByFileName[baseName]
	if !recognized {
		return Info{}, false, nil
	}
	content, readError := os.ReadFile(filePath)
	if readError != nil {
		return Info{}, true, fmt.Errorf(errReadManifestFormat, filePath, readError)
	}
	extractedInfo, extractError := recognizer.Extract(content)
	if extractError != nil {
		return Info{}, true, extractError
	}
	return extractedInfo, true, nil
}
