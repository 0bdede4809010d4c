package manifest

import (
	"encoding/json"
	"fmt"

	"projscan/internal/types"
)

// errParsePackageJSONFormat reports a package.json document that could not be decoded.
const errParsePackageJSONFormat = "parse %s: %w"

// packageJSONDocument models the three recognized top-level fields. Decoding
// leaves a field nil when its key is absent, preserving the absence-versus-
// empty distinction carried through to the file node.
type packageJSONDocument struct {
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// PackageJSONRecognizer extracts metadata from npm package.json manifests.
type PackageJSONRecognizer struct{}

// FileName returns the reserved manifest name.
func (PackageJSONRecognizer) FileName() string {
	return types.PackageManifestFileName
}

// Extract decodes the three recognized fields. Any shape mismatch, including
// a non-string value inside one of the maps, fails the whole extraction.
func (PackageJSONRecognizer) Extract(content []byte) (Info, error) {
	var document packageJSONDocument
	if decodeError := json.Unmarshal(content, &document); decodeError != nil {
		return Info{}, fmt.Errorf(errParsePackageJSONFormat, types.PackageManifestFileName, decodeError)
	}
	return Info{
		Scripts:         document.Scripts,
		Dependencies:    document.Dependencies,
		DevDependencies: document.DevDependencies,
	}, nil
}
