package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentx-labs/treeforge/internal/config"
	"github.com/agentx-labs/treeforge/internal/scaffold"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	applyFile     string
	applyDryRun   bool
	applyVerbose  bool
	applyDirMode  string
	applyFileMode string
)

var printer = message.NewPrinter(language.English)

func init() {
	addLayoutFlag(applyCmd, &applyFile)
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be created without touching the filesystem")
	applyCmd.Flags().BoolVarP(&applyVerbose, "verbose", "v", false, "Print one line per entry")
	applyCmd.Flags().StringVar(&applyDirMode, "dir-mode", "", "Permissions for created directories, octal (default: dir_mode config key or 0755)")
	applyCmd.Flags().StringVar(&applyFileMode, "file-mode", "", "Permissions for created files, octal (default: file_mode config key or 0644)")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply [root]",
	Short: "Create the directories and empty files a layout describes",
	Long: `Create every directory and empty file described by a layout under root.

Missing directories are created with all their parents. Missing files are
created empty. Entries that already exist are left untouched, and nothing
that the layout does not describe is removed. The run stops at the first
filesystem error; entries created before it are kept.

Examples:
  treeforge apply                          # built-in layout
  treeforge apply ./my-app -f layout.yaml
  cat layout.json | treeforge apply out -f -
  treeforge apply -f layout.yaml --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, source, err := loadLayout(cmd, applyFile)
		if err != nil {
			return err
		}

		opts, err := applyOptions()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if applyVerbose || applyDryRun {
			opts.Log = out
		}

		root, err := filepath.Abs(resolveRoot(args, doc))
		if err != nil {
			return fmt.Errorf("resolving root: %w", err)
		}

		s := scaffold.New(afero.NewOsFs(), opts)
		result, err := s.Materialize(cmd.Context(), root, doc.Tree)
		if err != nil {
			return err
		}

		printApplyResult(out, source, result)
		return nil
	},
}

// applyOptions builds scaffold options from flags, falling back to config.
func applyOptions() (scaffold.Options, error) {
	dirMode, err := modeFrom(applyDirMode, config.KeyDirMode, scaffold.DefaultDirMode)
	if err != nil {
		return scaffold.Options{}, fmt.Errorf("--dir-mode: %w", err)
	}
	fileMode, err := modeFrom(applyFileMode, config.KeyFileMode, scaffold.DefaultFileMode)
	if err != nil {
		return scaffold.Options{}, fmt.Errorf("--file-mode: %w", err)
	}
	return scaffold.Options{
		DirMode:  dirMode,
		FileMode: fileMode,
		DryRun:   applyDryRun,
	}, nil
}

func modeFrom(flag, key string, def os.FileMode) (os.FileMode, error) {
	if flag != "" {
		return config.ParseMode(flag)
	}
	return config.Mode(key, def)
}

func printApplyResult(out io.Writer, source string, result *scaffold.Result) {
	if result.DryRun {
		printer.Fprintf(out, "Dry run: %d entries would be created at %s from %s (%d already present)\n",
			len(result.Created), result.Root, source, len(result.Existing))
		return
	}
	fmt.Fprintf(out, "Folder structure created at: %s\n", result.Root)
	printer.Fprintf(out, "  %d created, %d already present\n", len(result.Created), len(result.Existing))
}
