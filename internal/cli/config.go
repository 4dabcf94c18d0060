package cli

import (
	"fmt"
	"strings"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change readhub configuration",
	Long: `Show and change readhub configuration.

Without arguments, displays all current configuration entries. Values
coming from READHUB_* environment variables or a .env file are marked and
are never written back to config.json.

Commands:
  config show                 Show effective configuration
  config set <key> <value>    Change a value in config.json
  config path                 Print the config file location

Keys: base_url, token, timeout_seconds, requests_per_second, log_level,
editor, page_size, strict_ordering`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfigForCommand()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if GlobalOpts.JSON {
		return printJSON(cmd, cfg)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleLabel.Render("Configuration:"))
	fmt.Fprintln(out)

	token := "(not set)"
	if cfg.Token != "" {
		token = maskToken(cfg.Token)
	}
	editor := cfg.Editor
	if editor == "" {
		editor = "(from $EDITOR)"
	}

	entries := []struct {
		key   string
		value string
	}{
		{"base_url", cfg.BaseURL},
		{"token", token},
		{"timeout_seconds", fmt.Sprint(cfg.TimeoutSeconds)},
		{"requests_per_second", fmt.Sprint(cfg.RequestsPerSecond)},
		{"log_level", cfg.LogLevel},
		{"editor", editor},
		{"page_size", fmt.Sprint(cfg.PageSize)},
		{"strict_ordering", fmt.Sprint(cfg.StrictOrdering)},
	}
	for _, e := range entries {
		line := fmt.Sprintf("  %s: %s", StyleID.Render(e.key), e.value)
		if cfg.Overridden(e.key) {
			line += " " + StyleDim.Render("(from environment)")
		}
		fmt.Fprintln(out, line)
	}
	if GlobalOpts.BaseURL != "" {
		fmt.Fprintln(out, StyleDim.Render("  base_url set by --base-url"))
	}

	// Show warnings for unknown fields
	unknownFields := cfg.GetUnknownFields()
	if len(unknownFields) > 0 {
		fmt.Fprintln(out)
		for _, key := range unknownFields {
			fmt.Fprintln(out, StyleWarning.Render(fmt.Sprintf("Unknown config key: %s", key)))
		}
	}

	return nil
}

// maskToken keeps only the last four characters visible.
func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	opts := GetConfigOptions()

	// File values only, so environment overrides never end up on disk
	cfg, err := hub.LoadFileConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.SaveWithOptions(opts); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	shown := value
	if key == "token" {
		shown = maskToken(value)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", StyleSuccess.Render("✓"), key, shown)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := GetConfigOptions().Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
