package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dict-id> [file.jsonl]",
	Short: "Import dictionary entries from a JSONL file",
	Long: `Import entries into a registered dictionary.

Each line of the file is a JSON object:
  {"headword": "中国", "reading": "zhōng guó", "definitions": ["China"], "tags": ["noun"]}

Blank lines are ignored; malformed lines are skipped and counted.
When no file is given, the dictionary's 'source' from dictionaries.yaml is
used, relative to the config directory.

Example:
  dsearch import zh-en cedict.jsonl --replace`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("replace", false, "delete existing entries of the dictionary first")
}

func runImport(cmd *cobra.Command, args []string) error {
	b, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	d, ok := b.registry.Lookup(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", dict.ErrUnknownDictionary, args[0])
	}

	path := d.Source
	if len(args) == 2 {
		path = args[1]
	}
	if path == "" {
		return fmt.Errorf("no file given and dictionary %s has no source", d.ID)
	}
	if len(args) < 2 && !filepath.IsAbs(path) {
		path = filepath.Join(getConfigDir(), path)
	}

	replace, _ := cmd.Flags().GetBool("replace")
	stats, err := b.service.Import(cmd.Context(), d.ID, path, replace)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(out, "Imported %d entries into %s\n", stats.Imported, d.ID)
	fmt.Fprintf(out, "  read:    %d\n", stats.Read)
	fmt.Fprintf(out, "  skipped: %d\n", stats.Skipped)
	if replace {
		fmt.Fprintf(out, "  cleared: %d\n", stats.Cleared)
	}
	return nil
}
