package cmd

import (
	"fmt"
	"io"

	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var dictsCmd = &cobra.Command{
	Use:   "dicts",
	Short: "List registered dictionaries and their entry counts",
	Args:  cobra.NoArgs,
	RunE:  runDicts,
}

func init() {
	rootCmd.AddCommand(dictsCmd)
}

func runDicts(cmd *cobra.Command, args []string) error {
	b, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	counts, err := b.service.Counts(cmd.Context())
	if err != nil {
		return err
	}

	printDictionaries(cmd.OutOrStdout(), b.registry.Dictionaries(), counts, b.defaultTarget())
	return nil
}

// printDictionaries writes a fixed-width table of dictionaries, marking the default target.
func printDictionaries(w io.Writer, dicts []dict.Dictionary, counts map[string]int, target dict.Target) {
	if len(dicts) == 0 {
		fmt.Fprintln(w, "No dictionaries configured. Run 'dsearch init'.")
		return
	}

	color.New(color.Bold).Fprintf(w, "  %-10s %-24s %-8s %8s\n", "ID", "Name", "Lang", "Entries")
	for _, d := range dicts {
		marker := " "
		if d.Target() == target {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-10s %s %-8s %8d\n",
			marker,
			d.ID,
			runewidth.FillRight(runewidth.Truncate(d.Label(), 24, "…"), 24),
			d.Language+"→"+d.Gloss,
			counts[d.ID],
		)
	}
}
