package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/agentx-labs/treeforge/internal/branding"
	"github.com/agentx-labs/treeforge/internal/config"
	"github.com/agentx-labs/treeforge/internal/tree"
	"github.com/spf13/cobra"
)

const builtinSource = "built-in layout"

// addLayoutFlag registers --file on a command that reads a layout.
func addLayoutFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "file", "f", "",
		"Layout file, YAML or JSON ('-' reads stdin; default: the spec config key, then the built-in layout)")
}

// layoutPath picks the layout location: the flag, then the spec config key.
// Empty means the built-in layout.
func layoutPath(flag string) string {
	if flag != "" {
		return flag
	}
	return config.Get(config.KeySpec)
}

// readLayout returns the raw layout bytes and a description of where they
// came from.
func readLayout(cmd *cobra.Command, flag string) ([]byte, string, error) {
	switch path := layoutPath(flag); path {
	case "":
		return tree.DefaultLayout(), builtinSource, nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("reading layout from stdin: %w", err)
		}
		return data, "stdin", nil
	default:
		data, err := readFile(path)
		return data, path, err
	}
}

// loadLayout reads and parses the layout selected by flag.
func loadLayout(cmd *cobra.Command, flag string) (*tree.Document, string, error) {
	path := layoutPath(flag)
	if path != "" && path != "-" {
		doc, err := tree.ParseFile(path)
		return doc, path, err
	}

	data, source, err := readLayout(cmd, flag)
	if err != nil {
		return nil, "", err
	}
	doc, err := tree.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("loading layout from %s: %w", source, err)
	}
	return doc, source, nil
}

// resolveRoot picks the target directory: the argument, the layout's own
// root, the default_root config key, then the branded default.
func resolveRoot(args []string, doc *tree.Document) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if doc != nil && doc.Root != "" {
		return doc.Root
	}
	if root := config.Get(config.KeyDefaultRoot); root != "" {
		return root
	}
	return branding.DefaultRoot()
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout %s: %w", path, err)
	}
	return data, nil
}
