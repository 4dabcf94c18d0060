package cli

import (
	"fmt"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories [tag...]",
	Aliases: []string{"cats"},
	Short:   "Map tags to arXiv categories",
	Long: `Map free-form tags to arXiv category codes.

Without arguments, lists every known tag and its category. Category codes
such as cs.lg are accepted and printed in canonical form.

Examples:
  readhub categories
  readhub categories "machine learning" nlp cs.cv`,
	RunE: runCategories,
}

type categoryMapping struct {
	Tag      string `json:"tag"`
	Category string `json:"category,omitempty"`
}

func runCategories(cmd *cobra.Command, args []string) error {
	tags := args
	if len(tags) == 0 {
		tags = hub.KnownTags()
	}

	mappings := make([]categoryMapping, 0, len(tags))
	for _, tag := range tags {
		code, _ := hub.CategoryForTag(tag)
		mappings = append(mappings, categoryMapping{Tag: tag, Category: code})
	}

	if GlobalOpts.JSON {
		return printJSON(cmd, mappings)
	}

	out := cmd.OutOrStdout()
	for _, m := range mappings {
		if m.Category == "" {
			fmt.Fprintf(out, "  %-28s %s\n", m.Tag, StyleWarning.Render("(no category)"))
			continue
		}
		fmt.Fprintf(out, "  %-28s %s\n", m.Tag, StyleCategory.Render(m.Category))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
