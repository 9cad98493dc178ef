package cli

import (
	"fmt"
	"io"

	"github.com/agentx-labs/treeforge/internal/tree"
	"github.com/spf13/cobra"
)

var showFile string

func init() {
	addLayoutFlag(showCmd, &showFile)
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [root]",
	Short: "Print a layout as a tree",
	Long: `Print the entries a layout describes in the style of tree(1), without
touching the filesystem. Directories end with a slash.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := loadLayout(cmd, showFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s/\n", resolveRoot(args, doc))
		renderEntries(out, doc.Tree, "")

		dirs, files := doc.Tree.Count()
		printer.Fprintf(out, "\n%d directories, %d files\n", dirs, files)
		return nil
	},
}

func renderEntries(out io.Writer, entries []tree.Entry, prefix string) {
	for i, e := range entries {
		last := i == len(entries)-1
		renderLine(out, prefix, e.Name, e.Node.IsDir(), last)

		child := prefix + "│   "
		if last {
			child = prefix + "    "
		}
		switch e.Node.Kind {
		case tree.KindDirectory:
			renderEntries(out, e.Node.Children, child)
		case tree.KindFileList:
			for j, name := range e.Node.Files {
				renderLine(out, child, name, false, j == len(e.Node.Files)-1)
			}
		}
	}
}

func renderLine(out io.Writer, prefix, name string, dir, last bool) {
	branch := "├── "
	if last {
		branch = "└── "
	}
	if dir {
		name += "/"
	}
	fmt.Fprintf(out, "%s%s%s\n", prefix, branch, name)
}
