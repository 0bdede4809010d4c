package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"projscan/internal/types"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorWhite = lipgloss.Color("255")
	colorDim   = lipgloss.Color("240")

	// styleDirectory renders directory entries.
	styleDirectory = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// styleFile renders file entries.
	styleFile = lipgloss.NewStyle().Foreground(colorGreen)
	// styleRoot renders the scan root line.
	styleRoot = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	// styleConnector renders the tree guidelines.
	styleConnector = lipgloss.NewStyle().Foreground(colorDim)
)

// RenderTreeStyled writes a colorized tree to the given writer for operator
// inspection. The traversal and child order match the plain renderer; only
// the styling differs.
func RenderTreeStyled(writer io.Writer, rootName string, rootNode *types.Node) {
	fmt.Fprintln(writer, styleRoot.Render(rootName+directorySuffix))
	writeStyledChildren(writer, rootNode, "")
}

// writeStyledChildren renders the children of a directory node under the
// given line prefix, in builder order.
func writeStyledChildren(writer io.Writer, directoryNode *types.Node, prefix string) {
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
			fmt.Fprintf(writer, "%s%s\n", styleConnector.Render(prefix+connector), styleDirectory.Render(entryName+directorySuffix))
			writeStyledChildren(writer, childNode, prefix+childPadding)
			continue
		}
		fmt.Fprintf(writer, "%s%s\n", styleConnector.Render(prefix+connector), styleFile.Render(entryName))
	}
}
