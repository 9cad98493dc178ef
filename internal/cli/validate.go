package cli

import (
	"fmt"

	"github.com/agentx-labs/treeforge/internal/tree"
	"github.com/spf13/cobra"
)

var validateFile string

func init() {
	addLayoutFlag(validateCmd, &validateFile)
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a layout without creating anything",
	Long: `Check a layout against the layout schema and the naming rules and list
every problem found. Exits non-zero when the layout is invalid.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, source, err := readLayout(cmd, validateFile)
		if err != nil {
			return err
		}

		result, err := tree.Validate(data)
		if err != nil {
			return fmt.Errorf("validating %s: %w", source, err)
		}

		out := cmd.OutOrStdout()
		if !result.Valid {
			fmt.Fprintf(out, "%s is invalid:\n", source)
			for _, issue := range result.Issues {
				msg := issue.Message
				if issue.Path != "" {
					msg = issue.Path + ": " + msg
				}
				fmt.Fprintf(out, "  - %s\n", msg)
			}
			return fmt.Errorf("%s: %d issue(s) found", source, len(result.Issues))
		}

		doc, err := tree.Parse(data)
		if err != nil {
			return fmt.Errorf("loading layout from %s: %w", source, err)
		}
		dirs, files := doc.Tree.Count()
		printer.Fprintf(out, "%s is valid: %d directories, %d files\n", source, dirs, files)
		return nil
	},
}
