package cli

import (
	"fmt"
	"strings"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/spf13/cobra"
)

var (
	articlesTag   string
	articlesPage  int
	articlesLimit int
)

var articlesCmd = &cobra.Command{
	Use:     "articles",
	Aliases: []string{"article", "a"},
	Short:   "List and show articles",
	RunE:    runArticlesList,
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles, optionally by tag",
	Args:  cobra.NoArgs,
	RunE:  runArticlesList,
}

var articlesShowCmd = &cobra.Command{
	Use:   "show <article-id>",
	Short: "Show an article",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticlesShow,
}

func runArticlesList(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	q := hub.ArticleQuery{Tag: strings.TrimPrefix(articlesTag, "#"), Page: articlesPage, Limit: articlesLimit}
	if q.Limit == 0 {
		q.Limit = env.config.PageSize
	}

	articles, err := env.client.ListArticles(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	if GlobalOpts.JSON {
		return printJSON(cmd, articles)
	}

	out := cmd.OutOrStdout()
	if len(articles) == 0 {
		fmt.Fprintln(out, StyleDim.Render("No articles found"))
		return nil
	}
	for _, a := range articles {
		fmt.Fprintf(out, "%s  %s %s  %s %s\n",
			StyleID.Render(a.ID),
			likeBadge(a.Liked, a.LikeCount),
			bookmarkBadge(a.Bookmarked),
			a.Title,
			StyleDim.Render("by "+a.Author),
		)
	}
	return nil
}

func runArticlesShow(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	article, err := env.client.GetArticle(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get article: %w", err)
	}

	if GlobalOpts.JSON {
		return printJSON(cmd, article)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleHighlight.Render(article.Title))
	fmt.Fprintf(out, "%s %s\n", StyleLabel.Render("Author:"), article.Author)
	if len(article.Tags) > 0 {
		fmt.Fprintf(out, "%s %s\n", StyleLabel.Render("Tags:"), strings.Join(article.Tags, ", "))
	}
	if !article.CreatedAt.IsZero() {
		fmt.Fprintf(out, "%s %s\n", StyleLabel.Render("Posted:"), article.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(out, "%s %s  %s\n", StyleLabel.Render("Likes:"), likeBadge(article.Liked, article.LikeCount), bookmarkBadge(article.Bookmarked))
	if article.Body != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, article.Body)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{articlesCmd, articlesListCmd} {
		c.Flags().StringVar(&articlesTag, "tag", "", "Only articles with this tag")
		c.Flags().IntVar(&articlesPage, "page", 0, "Page number (1-based)")
		c.Flags().IntVar(&articlesLimit, "limit", 0, "Results per page (default from config page_size)")
	}

	articlesCmd.AddCommand(articlesListCmd)
	articlesCmd.AddCommand(articlesShowCmd)
	rootCmd.AddCommand(articlesCmd)
}
