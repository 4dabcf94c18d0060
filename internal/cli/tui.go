package cli

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/hubapi"
	"github.com/ohare93/readhub/internal/tui"
	"github.com/ohare93/readhub/internal/watcher"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch an interactive terminal user interface for the reading hub.

Navigation:
  ↑/k        Move up
  ↓/j        Move down
  Enter      Open paper or article
  b/Esc      Back to list (or exit from list)
  Tab        Next list (papers → articles → bookmarks → notes)

Papers and Articles:
  l          Like / unlike
  m          Bookmark / remove bookmark
  /          Search (#tags map to arXiv categories)
  space      Mark paper for comparison
  c          Compare marked papers
  s          Summarize (paper detail)
  a          Annotate (paper detail)
  n          New note attached to the selection

Notes:
  e          Edit in $EDITOR
  x          Delete (with confirmation)
  o          Cycle sort
  p          Toggle pinned only

Other:
  R          Refresh (shift+r)
  ?          Toggle help
  q          Quit

Edits to config.json or .env are picked up while the UI is running.`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv()
	if err != nil {
		return err
	}
	defer env.close()

	opts := GetConfigOptions()

	// Hot reload is best effort; the UI works without it
	var fileWatcher *watcher.Watcher
	if w, err := watcher.New(); err != nil {
		env.logger.Warn("config watcher unavailable", "error", err)
	} else if err := w.WatchConfig(opts); err != nil {
		env.logger.Warn("config watcher unavailable", "error", err)
		w.Close()
	} else {
		w.Start()
		defer w.Stop()
		fileWatcher = w
	}

	model := tui.New(tui.Options{
		Client:        env.client,
		Config:        env.config,
		ConfigOptions: opts,
		NewClient:     clientFactory(env.logger),
		Watcher:       fileWatcher,
		Logger:        env.logger,
	})

	env.logger.Info("tui started", "base_url", env.config.BaseURL)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

// clientFactory rebuilds the hub client after a config reload. The
// --base-url flag keeps winning over the file.
func clientFactory(logger *slog.Logger) func(cfg *hub.Config) (tui.Hub, error) {
	return func(cfg *hub.Config) (tui.Hub, error) {
		if GlobalOpts.BaseURL != "" {
			cfg.BaseURL = GlobalOpts.BaseURL
		}
		client, err := hubapi.NewFromConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
