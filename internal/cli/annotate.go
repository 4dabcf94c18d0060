package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/spf13/cobra"
)

var (
	annotateComment string
	annotatePage    int
	annotateColor   string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Highlight quotes on papers",
	Long: `Highlight quotes on papers with an optional comment, page and color.

Examples:
  readhub annotate add 1706.03762 "Attention is all you need" --comment "the title says it" --page 1
  readhub annotate list 1706.03762
  readhub annotate delete <annotation-id>`,
}

var annotateAddCmd = &cobra.Command{
	Use:   "add <paper-id> <quote...>",
	Short: "Add an annotation to a paper",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAnnotateAdd,
}

var annotateListCmd = &cobra.Command{
	Use:   "list <paper-id>",
	Short: "List a paper's annotations",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotateList,
}

var annotateDeleteCmd = &cobra.Command{
	Use:     "delete <annotation-id>",
	Aliases: []string{"rm"},
	Short:   "Delete an annotation",
	Args:    cobra.ExactArgs(1),
	RunE:    runAnnotateDelete,
}

func runAnnotateAdd(cmd *cobra.Command, args []string) error {
	a := &hub.Annotation{
		PaperID: args[0],
		Quote:   strings.TrimSpace(strings.Join(args[1:], " ")),
		Comment: annotateComment,
		Color:   strings.ToLower(annotateColor),
	}
	if cmd.Flags().Changed("page") {
		page := annotatePage
		a.PageNumber = &page
	}
	if err := hub.Validate(a); err != nil {
		return err
	}

	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	created, err := env.client.CreateAnnotation(cmd.Context(), a)
	if err != nil {
		return fmt.Errorf("failed to create annotation: %w", err)
	}
	env.logger.Info("annotation created", "id", created.ID, "paper", created.PaperID)

	if GlobalOpts.JSON {
		return printJSON(cmd, created)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Annotated %s (%s)\n",
		StyleSuccess.Render("✓"), StyleID.Render(created.PaperID), StyleDim.Render(created.ID))
	return nil
}

func runAnnotateList(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	annotations, err := env.client.ListAnnotations(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list annotations: %w", err)
	}

	if GlobalOpts.JSON {
		return printJSON(cmd, annotations)
	}

	out := cmd.OutOrStdout()
	if len(annotations) == 0 {
		fmt.Fprintln(out, StyleDim.Render("No annotations on "+args[0]))
		return nil
	}
	for _, a := range annotations {
		printAnnotation(out, a)
	}
	return nil
}

func printAnnotation(out io.Writer, a *hub.Annotation) {
	prefix := "  "
	if a.PageNumber != nil {
		prefix = fmt.Sprintf("  p.%d ", *a.PageNumber)
	}
	fmt.Fprintf(out, "%s%s %s\n", prefix, annotationStyle(a.Color).Render("“"+a.Quote+"”"), StyleDim.Render(a.ID))
	if a.Comment != "" {
		fmt.Fprintf(out, "      %s\n", a.Comment)
	}
}

func runAnnotateDelete(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.client.DeleteAnnotation(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	env.logger.Info("annotation deleted", "id", args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted annotation %s\n", StyleSuccess.Render("✓"), StyleID.Render(args[0]))
	return nil
}

func init() {
	annotateAddCmd.Flags().StringVar(&annotateComment, "comment", "", "Comment on the quote")
	annotateAddCmd.Flags().IntVar(&annotatePage, "page", 0, "Page number the quote is on")
	annotateAddCmd.Flags().StringVar(&annotateColor, "color", "", "Highlight color: yellow, green, blue or pink")

	annotateCmd.AddCommand(annotateAddCmd)
	annotateCmd.AddCommand(annotateListCmd)
	annotateCmd.AddCommand(annotateDeleteCmd)
	rootCmd.AddCommand(annotateCmd)
}
