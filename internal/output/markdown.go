package output

import (
	"bytes"
	"fmt"

	"projscan/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// directorySuffix marks directory entries in textual renderings.
	directorySuffix = "/"

	// markdownTreeTitle heads the markdown tree document.
	markdownTreeTitle = "# Project Tree"
	// markdownFence delimits the embedded tree rendering.
	markdownFence = "```"
)

// RenderTreePlain produces an indented, branch-drawn textual tree with no
// color codes. It is a pure function of the tree and suitable for embedding
// in documentation.
func RenderTreePlain(rootName string, rootNode *types.Node) string {
	var buffer bytes.Buffer
	buffer.WriteString(rootName + directorySuffix + "\n")
	writePlainChildren(&buffer, rootNode, "")
	return buffer.String()
}

// writePlainChildren renders the children of a directory node under the
// given line prefix, in builder order.
func writePlainChildren(buffer *bytes.Buffer, directoryNode *types.Node, prefix string) {
	childNames := directoryNode.Children.Names()
	for nameIndex, entryName := range childNames {
		childNode, _ := directoryNode.Children.Get(entryName)
		isLastChild := nameIndex == len(childNames)-1

		connector := treeBranchConnector
		childPadding := treeBranchPadding
		if isLastChild {
			connector = treeLastConnector
			childPadding = treeLastPadding
		}

		if childNode.IsDirectory() {
			fmt.Fprintf(buffer, "%s%s%s%s\n", prefix, connector, entryName, directorySuffix)
			writePlainChildren(buffer, childNode, prefix+childPadding)
			continue
		}
		fmt.Fprintf(buffer, "%s%s%s\n", prefix, connector, entryName)
	}
}

// RenderTreeMarkdown wraps the plain tree in a titled section with a fenced
// code block.
func RenderTreeMarkdown(rootName string, rootNode *types.Node) string {
	var buffer bytes.Buffer
	buffer.WriteString(markdownTreeTitle + "\n\n")
	buffer.WriteString(markdownFence + "\n")
	buffer.WriteString(RenderTreePlain(rootName, rootNode))
	buffer.WriteString(markdownFence + "\n")
	return buffer.String()
}
