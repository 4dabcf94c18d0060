package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/hubapi"
	"github.com/ohare93/readhub/internal/interaction"
	"github.com/ohare93/readhub/internal/optimistic"
	"github.com/spf13/cobra"
)

var likeCmd = &cobra.Command{
	Use:   "like <paper|article> <id>",
	Short: "Like or unlike a paper or article",
	Long: `Like or unlike a paper or article.

The like is flipped and the count moved immediately; if the hub refuses
the change both are restored and the command fails.

Examples:
  readhub like paper 1706.03762
  readhub like article a-reading-transformers`,
	Args: cobra.ExactArgs(2),
	RunE: runLike,
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <paper|article> <id>",
	Short: "Bookmark or un-bookmark a paper or article",
	Args:  cobra.ExactArgs(2),
	RunE:  runBookmark,
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List bookmarked papers and articles",
	Args:  cobra.NoArgs,
	RunE:  runBookmarks,
}

// likeTarget is the current server state of an entity.
type likeTarget struct {
	title      string
	liked      bool
	count      int
	bookmarked bool
}

func fetchTarget(ctx context.Context, client *hubapi.Client, kind hub.EntityKind, id string) (likeTarget, error) {
	switch kind {
	case hub.KindPaper:
		p, err := client.GetPaper(ctx, id)
		if err != nil {
			return likeTarget{}, err
		}
		return likeTarget{title: p.Title, liked: p.Liked, count: p.LikeCount, bookmarked: p.Bookmarked}, nil
	default:
		a, err := client.GetArticle(ctx, id)
		if err != nil {
			return likeTarget{}, err
		}
		return likeTarget{title: a.Title, liked: a.Liked, count: a.LikeCount, bookmarked: a.Bookmarked}, nil
	}
}

// toggleResult is the --json output of like and bookmark.
type toggleResult struct {
	Kind       hub.EntityKind `json:"kind"`
	ID         string         `json:"id"`
	Liked      *bool          `json:"liked,omitempty"`
	LikeCount  *int           `json:"like_count,omitempty"`
	Bookmarked *bool          `json:"bookmarked,omitempty"`
}

func runLike(cmd *cobra.Command, args []string) error {
	kind, err := hub.ParseKind(args[0])
	if err != nil {
		return err
	}
	id := args[1]

	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	target, err := fetchTarget(cmd.Context(), env.client, kind, id)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}

	var opts []optimistic.Option
	if env.config.StrictOrdering {
		opts = append(opts, optimistic.WithSequenceGuard())
	}
	like := interaction.NewLike(env.client, kind, id, target.liked, target.count, opts...)

	if err := like.Toggle(cmd.Context()); err != nil {
		env.logger.Warn("like rolled back", "kind", kind, "id", id, "error", err)
		if errors.Is(err, optimistic.ErrReconciliation) {
			return fmt.Errorf("like not saved, still %s: %w", likeBadge(like.Liked(), like.Count()), err)
		}
		return err
	}
	env.logger.Info("like toggled", "kind", kind, "id", id, "liked", like.Liked(), "count", like.Count())

	if GlobalOpts.JSON {
		liked, count := like.Liked(), like.Count()
		return printJSON(cmd, toggleResult{Kind: kind, ID: id, Liked: &liked, LikeCount: &count})
	}

	verb := "Unliked"
	if like.Liked() {
		verb = "Liked"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s  %s\n",
		StyleSuccess.Render(verb), StyleID.Render(id), likeBadge(like.Liked(), like.Count()), target.title)
	return nil
}

func runBookmark(cmd *cobra.Command, args []string) error {
	kind, err := hub.ParseKind(args[0])
	if err != nil {
		return err
	}
	id := args[1]

	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	target, err := fetchTarget(cmd.Context(), env.client, kind, id)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}

	bookmark := interaction.NewBookmark(env.client, kind, id, target.bookmarked)
	if err := bookmark.Toggle(cmd.Context()); err != nil {
		env.logger.Warn("bookmark rolled back", "kind", kind, "id", id, "error", err)
		return fmt.Errorf("bookmark not saved: %w", err)
	}
	env.logger.Info("bookmark toggled", "kind", kind, "id", id, "bookmarked", bookmark.Bookmarked())

	if GlobalOpts.JSON {
		bookmarked := bookmark.Bookmarked()
		return printJSON(cmd, toggleResult{Kind: kind, ID: id, Bookmarked: &bookmarked})
	}

	verb := "Removed bookmark"
	if bookmark.Bookmarked() {
		verb = "Bookmarked"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s  %s\n",
		StyleSuccess.Render(verb), StyleID.Render(id), bookmarkBadge(bookmark.Bookmarked()), target.title)
	return nil
}

func runBookmarks(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	bookmarks, err := env.client.ListBookmarks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list bookmarks: %w", err)
	}

	if GlobalOpts.JSON {
		return printJSON(cmd, bookmarks)
	}

	out := cmd.OutOrStdout()
	if len(bookmarks) == 0 {
		fmt.Fprintln(out, StyleDim.Render("No bookmarks yet"))
		return nil
	}
	for _, b := range bookmarks {
		fmt.Fprintf(out, "%s %-8s %s  %s\n",
			bookmarkBadge(true),
			string(b.Kind),
			StyleID.Render(b.EntityID),
			b.Title,
		)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(bookmarksCmd)
}
