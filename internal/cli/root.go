package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/hubapi"
	"github.com/ohare93/readhub/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "readhub",
	Short: "Browse AI papers and articles from the terminal",
	Long: `readhub is a terminal client for an AI paper and article reading hub.

Browse and search arXiv papers, read articles, like and bookmark them,
keep notes and annotations, and ask the hub to summarize or compare papers.

Getting started:
- Launch the interactive UI: readhub
- List recent papers: readhub papers list
- Search with tags: readhub papers search diffusion #machine-learning
- Try it offline: readhub dev-server, then readhub --base-url http://localhost:8787

Likes and bookmarks are shown as changed immediately and undone if the hub
refuses the change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// GlobalOptions holds global flags
type GlobalOptions struct {
	ConfigHome string // Override for the home directory holding .readhub
	BaseURL    string // Override for the configured hub address
	JSON       bool   // Emit indented JSON instead of styled text
}

// GlobalOpts holds the parsed global flags (exported for testing)
var GlobalOpts GlobalOptions

// GetConfigOptions returns ConfigOptions based on global flags
func GetConfigOptions() hub.ConfigOptions {
	opts := hub.DefaultConfigOptions()
	if GlobalOpts.ConfigHome != "" {
		opts.ConfigHome = GlobalOpts.ConfigHome
	}
	return opts
}

// LoadConfigForCommand loads Config with options from global flags
func LoadConfigForCommand() (*hub.Config, error) {
	cfg, err := hub.LoadConfigWithOptions(GetConfigOptions())
	if err != nil {
		return nil, err
	}
	if GlobalOpts.BaseURL != "" {
		cfg.BaseURL = GlobalOpts.BaseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// commandEnv is what most subcommands need: config, a logger on the log
// file and a client.
type commandEnv struct {
	config *hub.Config
	logger *slog.Logger
	client *hubapi.Client
	close  func() error
}

func newCommandEnv() (*commandEnv, error) {
	cfg, err := LoadConfigForCommand()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog := openLog(cfg)

	client, err := hubapi.NewFromConfig(cfg, logger)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to create hub client: %w", err)
	}

	return &commandEnv{config: cfg, logger: logger, client: client, close: closeLog}, nil
}

// openLog returns the file logger, or a discarding one when the log file
// cannot be opened.
func openLog(cfg *hub.Config) (*slog.Logger, func() error) {
	path, err := GetConfigOptions().LogPath()
	if err != nil {
		return logging.Discard(), func() error { return nil }
	}
	logger, closeFn, _ := logging.OpenFile(path, cfg.LogLevel)
	return logger, closeFn
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&GlobalOpts.ConfigHome, "config-home", "", "Override home directory holding .readhub (for testing)")
	rootCmd.PersistentFlags().StringVar(&GlobalOpts.BaseURL, "base-url", "", "Hub address (overrides config and READHUB_BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&GlobalOpts.JSON, "json", false, "Output JSON")
}
