// Package output renders a built project tree as a JSON document, a plain
// text tree, and a styled console tree. Every projection preserves the
// builder's child order.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"projscan/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	// errDecodeStructureFormat reports a structure document that could not be decoded.
	errDecodeStructureFormat = "decoding structure document: %w"
	// errStructureShapeMessage reports a document whose top level is not a single-entry object.
	errStructureShapeMessage = "structure document must be a single-entry object"
)

// StructureDocument is the serialized form of a scan: a single-entry mapping
// from the root directory's name to its directory node.
type StructureDocument struct {
	RootName string
	Root     *types.Node
}

// NewStructureDocument wraps a built tree in its document form.
func NewStructureDocument(rootName string, rootNode *types.Node) StructureDocument {
	return StructureDocument{RootName: rootName, Root: rootNode}
}

// MarshalJSON serializes the single-entry top-level object.
func (document StructureDocument) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	encodedName, nameError := json.Marshal(document.RootName)
	if nameError != nil {
		return nil, nameError
	}
	buffer.Write(encodedName)
	buffer.WriteByte(':')
	encodedRoot, rootError := json.Marshal(document.Root)
	if rootError != nil {
		return nil, rootError
	}
	buffer.Write(encodedRoot)
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalJSON decodes the single-entry top-level object.
func (document *StructureDocument) UnmarshalJSON(data []byte) error {
	var topLevel map[string]*types.Node
	if decodeError := json.Unmarshal(data, &topLevel); decodeError != nil {
		return fmt.Errorf(errDecodeStructureFormat, decodeError)
	}
	if len(topLevel) != 1 {
		return fmt.Errorf(errStructureShapeMessage)
	}
	for rootName, rootNode := range topLevel {
		document.RootName = rootName
		document.Root = rootNode
	}
	return nil
}

// RenderStructureJSON encodes the document with two-space indentation.
func RenderStructureJSON(document StructureDocument) (string, error) {
	encoded, encodeError := json.MarshalIndent(document, indentPrefix, indentSpacer)
	if encodeError != nil {
		return "", encodeError
	}
	return string(encoded), nil
}
