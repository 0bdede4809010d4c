// Package types defines every cross‑package data structure used by the projscan CLI.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	// DefaultOutputFileName is the default name of the structure document.
	DefaultOutputFileName = "project_structure.json"

	// PackageManifestFileName is the reserved manifest name recognized by default.
	PackageManifestFileName = "package.json"
)

// errUnexpectedChildrenToken reports a malformed children object during decoding.
const errUnexpectedChildrenToken = "decoding children: unexpected token %v"

// Node represents one entry of the scanned tree. The Type tag discriminates
// directory nodes from file nodes. Path is always relative to the scan root
// and uses forward slashes on every platform. Description is reserved for
// annotation by external tooling and is never populated by the scanner.
//
// Manifest fields are attached only to file nodes recognized as package
// manifests, and each field is present only when the corresponding key exists
// in the manifest document. A nil map means the key is omitted from the
// serialized form; an empty non-nil map serializes as an empty object. The
// absence-versus-empty distinction is an observable contract.
type Node struct {
	Type            string            `json:"type"`
	Path            string            `json:"path"`
	Description     string            `json:"description"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Children        *ChildMap         `json:"children,omitempty"`
}

// NewDirectoryNode constructs an empty directory node for the given relative path.
func NewDirectoryNode(relativePath string) *Node {
	return &Node{
		Type:     NodeTypeDirectory,
		Path:     relativePath,
		Children: NewChildMap(),
	}
}

// NewFileNode constructs a file node for the given relative path.
func NewFileNode(relativePath string) *Node {
	return &Node{
		Type: NodeTypeFile,
		Path: relativePath,
	}
}

// IsDirectory reports whether the node represents a directory.
func (node *Node) IsDirectory() bool {
	return node.Type == NodeTypeDirectory
}

// MarshalJSON serializes the node with a fixed field order and preserves the
// absence-versus-empty distinction on manifest fields, which the standard
// omitempty handling cannot express for empty maps.
func (node *Node) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')

	writeField := func(fieldName string, fieldValue interface{}) error {
		if buffer.Len() > 1 {
			buffer.WriteByte(',')
		}
		encodedName, nameError := json.Marshal(fieldName)
		if nameError != nil {
			return nameError
		}
		buffer.Write(encodedName)
		buffer.WriteByte(':')
		encodedValue, valueError := json.Marshal(fieldValue)
		if valueError != nil {
			return valueError
		}
		buffer.Write(encodedValue)
		return nil
	}

	if fieldError := writeField("type", node.Type); fieldError != nil {
		return nil, fieldError
	}
	if fieldError := writeField("path", node.Path); fieldError != nil {
		return nil, fieldError
	}
	if fieldError := writeField("description", node.Description); fieldError != nil {
		return nil, fieldError
	}
	if node.Scripts != nil {
		if fieldError := writeField("scripts", node.Scripts); fieldError != nil {
			return nil, fieldError
		}
	}
	if node.Dependencies != nil {
		if fieldError := writeField("dependencies", node.Dependencies); fieldError != nil {
			return nil, fieldError
		}
	}
	if node.DevDependencies != nil {
		if fieldError := writeField("devDependencies", node.DevDependencies); fieldError != nil {
			return nil, fieldError
		}
	}
	if node.IsDirectory() {
		children := node.Children
		if children == nil {
			children = NewChildMap()
		}
		if fieldError := writeField("children", children); fieldError != nil {
			return nil, fieldError
		}
	}

	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// nodeDecodingAlias mirrors Node for decoding without recursing into the
// custom UnmarshalJSON implementation.
type nodeDecodingAlias struct {
	Type            string            `json:"type"`
	Path            string            `json:"path"`
	Description     string            `json:"description"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Children        *ChildMap         `json:"children"`
}

// UnmarshalJSON decodes the node. Standard decoding already distinguishes a
// missing manifest key (nil map) from an empty object (non-nil empty map).
func (node *Node) UnmarshalJSON(data []byte) error {
	var alias nodeDecodingAlias
	if decodeError := json.Unmarshal(data, &alias); decodeError != nil {
		return decodeError
	}
	node.Type = alias.Type
	node.Path = alias.Path
	node.Description = alias.Description
	node.Scripts = alias.Scripts
	node.Dependencies = alias.Dependencies
	node.DevDependencies = alias.DevDependencies
	node.Children = alias.Children
	return nil
}

// ChildMap is an ordered mapping from entry name to child node. Insertion
// order is the builder's sort order and is preserved through JSON encoding
// and decoding so every renderer observes the same child order.
type ChildMap struct {
	orderedNames []string
	nodesByName  map[string]*Node
}

// NewChildMap constructs an empty child mapping.
func NewChildMap() *ChildMap {
	return &ChildMap{nodesByName: make(map[string]*Node)}
}

// Set stores the child under the given name, appending the name to the order
// on first insertion. Entry names are unique within a parent directory.
func (childMap *ChildMap) Set(entryName string, childNode *Node) {
	if childMap.nodesByName == nil {
		childMap.nodesByName = make(map[string]*Node)
	}
	if _, exists := childMap.nodesByName[entryName]; !exists {
		childMap.orderedNames = append(childMap.orderedNames, entryName)
	}
	childMap.nodesByName[entryName] = childNode
}

// Get returns the child stored under the given name.
func (childMap *ChildMap) Get(entryName string) (*Node, bool) {
	if childMap == nil || childMap.nodesByName == nil {
		return nil, false
	}
	childNode, exists := childMap.nodesByName[entryName]
	return childNode, exists
}

// Names returns the entry names in insertion order.
func (childMap *ChildMap) Names() []string {
	if childMap == nil {
		return nil
	}
	return childMap.orderedNames
}

// Len returns the number of children.
func (childMap *ChildMap) Len() int {
	if childMap == nil {
		return 0
	}
	return len(childMap.orderedNames)
}

// MarshalJSON serializes the mapping as a JSON object whose keys appear in
// insertion order.
func (childMap *ChildMap) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for nameIndex, entryName := range childMap.Names() {
		if nameIndex > 0 {
			buffer.WriteByte(',')
		}
		encodedName, nameError := json.Marshal(entryName)
		if nameError != nil {
			return nil, nameError
		}
		buffer.Write(encodedName)
		buffer.WriteByte(':')
		encodedChild, childError := json.Marshal(childMap.nodesByName[entryName])
		if childError != nil {
			return nil, childError
		}
		buffer.Write(encodedChild)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the mapping, recording keys in
// document order via token-level decoding.
func (childMap *ChildMap) UnmarshalJSON(data []byte) error {
	childMap.orderedNames = nil
	childMap.nodesByName = make(map[string]*Node)

	decoder := json.NewDecoder(bytes.NewReader(data))
	openingToken, openingError := decoder.Token()
	if openingError != nil {
		return openingError
	}
	if delimiter, isDelimiter := openingToken.(json.Delim); !isDelimiter || delimiter != '{' {
		return fmt.Errorf(errUnexpectedChildrenToken, openingToken)
	}

	for decoder.More() {
		keyToken, keyError := decoder.Token()
		if keyError != nil {
			return keyError
		}
		entryName, isString := keyToken.(string)
		if !isString {
			return fmt.Errorf(errUnexpectedChildrenToken, keyToken)
		}
		var childNode Node
		if decodeError := decoder.Decode(&childNode); decodeError != nil {
			return decodeError
		}
		childMap.Set(entryName, &childNode)
	}

	closingToken, closingError := decoder.Token()
	if closingError != nil {
		return closingError
	}
	if delimiter, isDelimiter := closingToken.(json.Delim); !isDelimiter || delimiter != '}' {
		return fmt.Errorf(errUnexpectedChildrenToken, closingToken)
	}
	return nil
}
