package manifest

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	// CargoManifestFileName is the Rust manifest recognized by the cargo recognizer.
	CargoManifestFileName = "Cargo.toml"

	// errParseTOMLFormat reports a TOML manifest that could not be decoded.
	errParseTOMLFormat = "parse %s: %w"

	// tomlVersionKey is the version entry of a table-form dependency specification.
	tomlVersionKey = "version"
)

// cargoDocument models the dependency tables of a Cargo manifest. Values are
// either plain version strings or tables carrying a version key.
type cargoDocument struct {
	Dependencies    map[string]interface{} `toml:"dependencies"`
	DevDependencies map[string]interface{} `toml:"dev-dependencies"`
}

// CargoRecognizer extracts dependency metadata from Cargo.toml manifests.
type CargoRecognizer struct{}

// FileName returns the recognized manifest name.
func (CargoRecognizer) FileName() string {
	return CargoManifestFileName
}

// Extract maps the [dependencies] and [dev-dependencies] tables onto the
// common manifest shape. Cargo manifests carry no script entries.
func (CargoRecognizer) Extract(content []byte) (Info, error) {
	var document cargoDocument
	if decodeError := toml.Unmarshal(content, &document); decodeError != nil {
		return Info{}, fmt.Errorf(errParseTOMLFormat, CargoManifestFileName, decodeError)
	}
	return Info{
		Dependencies:    flattenTOMLDependencies(document.Dependencies),
		DevDependencies: flattenTOMLDependencies(document.DevDependencies),
	}, nil
}

// flattenTOMLDependencies renders a TOML dependency table as name to version
// string. Table-form specifications contribute their version entry when
// present and an empty string otherwise. A nil input stays nil so an absent
// table never materializes a manifest field.
func flattenTOMLDependencies(dependencyTable map[string]interface{}) map[string]string {
	if dependencyTable == nil {
		return nil
	}
	flattened := make(map[string]string, len(dependencyTable))
	for dependencyName, specification := range dependencyTable {
		switch specificationValue := specification.(type) {
		case string:
			flattened[dependencyName] = specificationValue
		case map[string]interface{}:
			versionValue, _ := specificationValue[tomlVersionKey].(string)
			flattened[dependencyName] = versionValue
		default:
			flattened[dependencyName] = fmt.Sprintf("%v", specification)
		}
	}
	return flattened
}
