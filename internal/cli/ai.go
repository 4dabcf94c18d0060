package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ohare93/readhub/internal/compare"
	"github.com/spf13/cobra"
)

var compareFocus string

var summarizeCmd = &cobra.Command{
	Use:   "summarize <paper-id>",
	Short: "Ask the hub for a summary of a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

var compareCmd = &cobra.Command{
	Use:   "compare <paper-id> <paper-id>...",
	Short: "Compare two to five papers",
	Long: `Compare two to five papers side by side.

Duplicate IDs are ignored. Every paper is looked up before the comparison
is requested, so a typo fails fast.

Examples:
  readhub compare 1706.03762 1810.04805
  readhub compare 1706.03762 1810.04805 2006.11239 --focus "training cost"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	summary, err := env.client.Summarize(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to summarize: %w", err)
	}

	if GlobalOpts.JSON {
		return printJSON(cmd, summary)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleLabel.Render("Summary of "+summary.PaperID))
	fmt.Fprintln(out, summary.Text)
	if len(summary.KeyPoints) > 0 {
		fmt.Fprintln(out)
		for _, point := range summary.KeyPoints {
			fmt.Fprintf(out, "  • %s\n", point)
		}
	}
	if summary.Model != "" {
		fmt.Fprintln(out, StyleDim.Render("model: "+summary.Model))
	}
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	ids, err := compare.Validate(args)
	if err != nil {
		return err
	}

	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	result, err := compare.Run(cmd.Context(), env.client, ids, compareFocus)
	if err != nil {
		var fetchErr *compare.FetchError
		if errors.As(err, &fetchErr) {
			return fmt.Errorf("could not load papers for comparison: %w", err)
		}
		return fmt.Errorf("failed to compare: %w", err)
	}

	if GlobalOpts.JSON {
		return printJSON(cmd, result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleLabel.Render(fmt.Sprintf("Comparing %d papers", len(result.Papers))))
	for _, p := range result.Papers {
		fmt.Fprintf(out, "  %s  %s\n", StyleID.Render(p.ID), p.Title)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, result.Comparison.Analysis)

	if len(result.Comparison.Highlights) > 0 {
		keys := make([]string, 0, len(result.Comparison.Highlights))
		for k := range result.Comparison.Highlights {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(out, StyleLabel.Render("Highlights:"))
		for _, k := range keys {
			fmt.Fprintf(out, "  %s %s\n", StyleID.Render(k+":"), result.Comparison.Highlights[k])
		}
	}
	return nil
}

func init() {
	compareCmd.Flags().StringVar(&compareFocus, "focus", "", "Aspect to focus the comparison on")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(compareCmd)
}
