package manifest

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// PyProjectManifestFileName is the Python manifest recognized by the pyproject recognizer.
const PyProjectManifestFileName = "pyproject.toml"

// requirementNameTerminators are the characters that end the distribution
// name inside a PEP 508 requirement string.
const requirementNameTerminators = " <>=!~;[("

// pyProjectDocument models the PEP 621 project table and the Poetry tool
// tables of a pyproject manifest.
type pyProjectDocument struct {
	Project *struct {
		Dependencies []string          `toml:"dependencies"`
		Scripts      map[string]string `toml:"scripts"`
	} `toml:"project"`
	Tool *struct {
		Poetry *struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
			Group        map[string]struct {
				Dependencies map[string]interface{} `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// PyProjectRecognizer extracts dependency and script metadata from
// pyproject.toml manifests, covering both PEP 621 and Poetry layouts.
type PyProjectRecognizer struct{}

// FileName returns the recognized manifest name.
func (PyProjectRecognizer) FileName() string {
	return PyProjectManifestFileName
}

// Extract maps project dependencies and scripts onto the common manifest
// shape. Poetry's dev group populates devDependencies.
func (PyProjectRecognizer) Extract(content []byte) (Info, error) {
	var document pyProjectDocument
	if decodeError := toml.Unmarshal(content, &document); decodeError != nil {
		return Info{}, fmt.Errorf(errParseTOMLFormat, PyProjectManifestFileName, decodeError)
	}

	var extractedInfo Info
	if document.Project != nil {
		extractedInfo.Scripts = document.Project.Scripts
		if document.Project.Dependencies != nil {
			extractedInfo.Dependencies = splitRequirementStrings(document.Project.Dependencies)
		}
	}
	if document.Tool != nil && document.Tool.Poetry != nil {
		if document.Tool.Poetry.Dependencies != nil {
			extractedInfo.Dependencies = flattenTOMLDependencies(document.Tool.Poetry.Dependencies)
		}
		if developmentGroup, hasDevelopmentGroup := document.Tool.Poetry.Group["dev"]; hasDevelopmentGroup && developmentGroup.Dependencies != nil {
			extractedInfo.DevDependencies = flattenTOMLDependencies(developmentGroup.Dependencies)
		}
	}
	return extractedInfo, nil
}

// splitRequirementStrings converts PEP 508 requirement strings such as
// "requests>=2.31" into a name to specifier mapping.
func splitRequirementStrings(requirements []string) map[string]string {
	dependencies := make(map[string]string, len(requirements))
	for _, requirement := range requirements {
		trimmedRequirement := strings.TrimSpace(requirement)
		if trimmedRequirement == "" {
			continue
		}
		terminatorIndex := strings.IndexAny(trimmedRequirement, requirementNameTerminators)
		if terminatorIndex < 0 {
			dependencies[trimmedRequirement] = ""
			continue
		}
		requirementName := trimmedRequirement[:terminatorIndex]
		dependencies[requirementName] = strings.TrimSpace(trimmedRequirement[terminatorIndex:])
	}
	return dependencies
}
