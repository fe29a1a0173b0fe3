package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/f3rmion/dsearch/internal/dict"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search dictionaries and print ranked results",
	Long: `Search one dictionary, or all of them, and print ranked results.

Example:
  dsearch search run
  dsearch search --target zh-en zhongguo
  dsearch search --target '*' --limit 5 中国`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("target", "t", "", "dictionary ID or '*' for all (default from settings)")
	searchCmd.Flags().IntP("limit", "n", 0, "maximum number of results (default from settings)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	b, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	target := b.defaultTarget()
	if t, _ := cmd.Flags().GetString("target"); t != "" {
		target = dict.Target(t)
	}

	svc := b.service
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		svc = dict.NewService(b.registry, b.store, limit)
	}

	query := strings.Join(args, " ")
	results, err := svc.Search(cmd.Context(), target, query)
	if err != nil {
		return err
	}

	printResults(cmd.OutOrStdout(), query, results, target == dict.AllTarget)
	return nil
}

var (
	headwordColor = color.New(color.FgYellow, color.Bold)
	readingColor  = color.New(color.FgCyan)
	dictColor     = color.New(color.Faint)
	mutedColor    = color.New(color.FgHiBlack)
)

// printResults writes one block per result: headword line, then numbered senses.
func printResults(w io.Writer, query string, results []dict.Result, showDict bool) {
	if len(results) == 0 {
		mutedColor.Fprintf(w, "No results for %q\n", query)
		return
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}

		headwordColor.Fprint(w, r.Headword)
		if r.Reading != "" && r.Reading != r.Headword {
			fmt.Fprint(w, " ")
			readingColor.Fprint(w, r.Reading)
		}
		if showDict {
			fmt.Fprint(w, " ")
			dictColor.Fprintf(w, "[%s]", r.DictID)
		}
		fmt.Fprintln(w)

		if r.Definition != "" {
			for j, sense := range strings.Split(r.Definition, "; ") {
				fmt.Fprintf(w, "  %d. %s\n", j+1, sense)
			}
		}
		if r.Tags != "" {
			mutedColor.Fprintf(w, "  %s\n", strings.ReplaceAll(r.Tags, ",", ", "))
		}
	}
}
