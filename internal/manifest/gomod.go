package manifest

import (
	"fmt"

	"golang.org/x/mod/modfile"
)

const (
	// GoModManifestFileName is the Go manifest recognized by the gomod recognizer.
	GoModManifestFileName = "go.mod"

	// errParseGoModFormat reports a go.mod file that could not be parsed.
	errParseGoModFormat = "parse %s: %w"
)

// GoModRecognizer extracts dependency metadata from go.mod manifests.
type GoModRecognizer struct{}

// FileName returns the recognized manifest name.
func (GoModRecognizer) FileName() string {
	return GoModManifestFileName
}

// Extract maps require directives onto the common manifest shape: direct
// requirements become dependencies and indirect requirements become
// devDependencies. The dependencies field is present whenever the file
// parses; devDependencies only when an indirect requirement exists.
func (GoModRecognizer) Extract(content []byte) (Info, error) {
	parsedModFile, parseError := modfile.Parse(GoModManifestFileName, content, nil)
	if parseError != nil {
		return Info{}, fmt.Errorf(errParseGoModFormat, GoModManifestFileName, parseError)
	}

	directRequirements := make(map[string]string)
	var indirectRequirements map[string]string
	for _, requirement := range parsedModFile.Require {
		if requirement.Indirect {
			if indirectRequirements == nil {
				indirectRequirements = make(map[string]string)
			}
			indirectRequirements[requirement.Mod.Path] = requirement.Mod.Version
			continue
		}
		directRequirements[requirement.Mod.Path] = requirement.Mod.Version
	}

	return Info{
		Dependencies:    directRequirements,
		DevDependencies: indirectRequirements,
	}, nil
}
