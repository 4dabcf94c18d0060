package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/spf13/cobra"
)

var (
	papersTags  string
	papersPage  int
	papersLimit int
)

var papersCmd = &cobra.Command{
	Use:     "papers",
	Aliases: []string{"paper", "p"},
	Short:   "List, search and show arXiv papers",
	Long: `List, search and show arXiv papers.

Tags given with --tags or as #words in a search map to arXiv categories
(e.g. "machine learning" → cs.LG). See 'readhub categories'.

Examples:
  readhub papers list --tags "nlp,computer vision"
  readhub papers search diffusion #machine-learning
  readhub papers show 1706.03762`,
	RunE: runPapersList,
}

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers",
	Args:  cobra.NoArgs,
	RunE:  runPapersList,
}

var papersSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search papers by text and #tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPapersSearch,
}

var papersShowCmd = &cobra.Command{
	Use:   "show <paper-id>",
	Short: "Show a paper with its annotations",
	Args:  cobra.ExactArgs(1),
	RunE:  runPapersShow,
}

func paperQueryFromFlags(cfg *hub.Config) hub.PaperQuery {
	q := hub.PaperQuery{Page: papersPage, Limit: papersLimit}
	if q.Limit == 0 {
		q.Limit = cfg.PageSize
	}
	if papersTags != "" {
		q.Categories, _ = hub.CategoriesForTags(hub.ParseTags(papersTags))
	}
	return q
}

func runPapersList(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	papers, err := env.client.ListPapers(cmd.Context(), paperQueryFromFlags(env.config))
	if err != nil {
		return fmt.Errorf("failed to list papers: %w", err)
	}
	return printPapers(cmd, papers)
}

func runPapersSearch(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	q := paperQueryFromFlags(env.config)
	text, tags := splitQuery(strings.Join(args, " "))
	categories, unmapped := hub.CategoriesForTags(tags)
	q.Categories = append(q.Categories, categories...)
	q.Query = strings.TrimSpace(text + " " + strings.Join(unmapped, " "))
	if q.Query == "" {
		return fmt.Errorf("search needs some text besides category tags; use 'papers list --tags' instead")
	}

	papers, err := env.client.SearchPapers(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("failed to search papers: %w", err)
	}
	return printPapers(cmd, papers)
}

// splitQuery separates #tags from the rest of a search.
func splitQuery(input string) (string, []string) {
	var words, tags []string
	for _, field := range strings.Fields(input) {
		if tag, ok := strings.CutPrefix(field, "#"); ok {
			if tag != "" {
				tags = append(tags, tag)
			}
			continue
		}
		words = append(words, field)
	}
	return strings.Join(words, " "), tags
}

func printPapers(cmd *cobra.Command, papers []*hub.Paper) error {
	if GlobalOpts.JSON {
		return printJSON(cmd, papers)
	}

	out := cmd.OutOrStdout()
	if len(papers) == 0 {
		fmt.Fprintln(out, StyleDim.Render("No papers found"))
		return nil
	}
	for _, p := range papers {
		fmt.Fprintf(out, "%s  %s %s  %s\n",
			StyleID.Render(fmt.Sprintf("%-12s", p.ID)),
			likeBadge(p.Liked, p.LikeCount),
			bookmarkBadge(p.Bookmarked),
			p.Title,
		)
		if len(p.Categories) > 0 {
			fmt.Fprintf(out, "              %s\n", StyleCategory.Render(strings.Join(p.Categories, " ")))
		}
	}
	return nil
}

func runPapersShow(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	paper, err := env.client.GetPaper(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get paper: %w", err)
	}
	annotations, err := env.client.ListAnnotations(cmd.Context(), paper.ID)
	if err != nil {
		return fmt.Errorf("failed to list annotations: %w", err)
	}

	if GlobalOpts.JSON {
		return printJSON(cmd, struct {
			*hub.Paper
			Annotations []*hub.Annotation `json:"annotations"`
		}{paper, annotations})
	}

	out := cmd.OutOrStdout()
	printPaperDetail(out, paper)
	if len(annotations) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, StyleLabel.Render(fmt.Sprintf("Annotations (%d):", len(annotations))))
		for _, a := range annotations {
			printAnnotation(out, a)
		}
	}
	return nil
}

func printPaperDetail(out io.Writer, p *hub.Paper) {
	fmt.Fprintln(out, StyleHighlight.Render(p.Title))
	fmt.Fprintf(out, "%s %s\n", StyleLabel.Render("arXiv:"), StyleID.Render(p.ID))
	if len(p.Authors) > 0 {
		fmt.Fprintf(out, "%s %s\n", StyleLabel.Render("Authors:"), strings.Join(p.Authors, ", "))
	}
	if len(p.Categories) > 0 {
		fmt.Fprintf(out, "%s %s\n", StyleLabel.Render("Categories:"), StyleCategory.Render(strings.Join(p.Categories, ", ")))
	}
	if !p.Published.IsZero() {
		fmt.Fprintf(out, "%s %s\n", StyleLabel.Render("Published:"), p.Published.Format("2006-01-02"))
	}
	if p.PDFURL != "" {
		fmt.Fprintf(out, "%s %s\n", StyleLabel.Render("PDF:"), p.PDFURL)
	}
	fmt.Fprintf(out, "%s %s  %s\n", StyleLabel.Render("Likes:"), likeBadge(p.Liked, p.LikeCount), bookmarkBadge(p.Bookmarked))
	if p.Abstract != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, p.Abstract)
	}
}

func init() {
	for _, c := range []*cobra.Command{papersCmd, papersListCmd, papersSearchCmd} {
		c.Flags().StringVar(&papersTags, "tags", "", "Comma-separated tags or arXiv codes to filter by")
		c.Flags().IntVar(&papersPage, "page", 0, "Page number (1-based)")
		c.Flags().IntVar(&papersLimit, "limit", 0, "Results per page (default from config page_size)")
	}

	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersSearchCmd)
	papersCmd.AddCommand(papersShowCmd)
	rootCmd.AddCommand(papersCmd)
}
