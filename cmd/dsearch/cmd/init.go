package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/dsearch/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dsearch configuration",
	Long: `Initialize dsearch configuration files in your config directory.

This creates:
  - dictionaries.yaml  (the dictionaries you can search)
  - dsearch.yaml       (default target, result limit, database and font paths)

Then import entries with 'dsearch import <dict-id> <file.jsonl>'.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	dictsPath := filepath.Join(configDir, config.DictionariesFile)

	if _, err := os.Stat(dictsPath); err == nil && !force {
		return fmt.Errorf("config already exists: %s\nUse --force to overwrite", dictsPath)
	}

	if err := config.EnsureDir(configDir); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initializing dsearch configuration in %s\n\n", configDir)

	if err := config.SaveDictionaries(dictsPath, config.DefaultDictionaries()); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Created %s\n", config.DictionariesFile)

	if err := config.SaveSettings(filepath.Join(configDir, config.SettingsFile), config.DefaultSettings()); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Created %s\n", config.SettingsFile)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration initialized!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit dictionaries.yaml to list your dictionaries")
	fmt.Fprintln(out, "  2. Run 'dsearch import <dict-id> <file.jsonl>' to load entries")
	fmt.Fprintln(out, "  3. Run 'dsearch' to start searching")

	return nil
}
