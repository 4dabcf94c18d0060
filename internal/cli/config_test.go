package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/hubfake"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliEnv is the config home and hub address a test invocation uses.
type cliEnv struct {
	home    string
	baseURL string
}

// clearReadhubEnv keeps the developer's environment out of the test.
func clearReadhubEnv(t *testing.T) {
	t.Helper()
	t.Setenv(hub.EnvBaseURL, "")
	t.Setenv(hub.EnvToken, "")
	t.Setenv(hub.EnvLogLevel, "")
}

// setupConfigHome points the CLI at an empty temp config home.
func setupConfigHome(t *testing.T) cliEnv {
	t.Helper()
	clearReadhubEnv(t)
	t.Cleanup(func() { GlobalOpts = GlobalOptions{} })
	return cliEnv{home: t.TempDir()}
}

// setupTestHub starts a fake hub and points the CLI at it.
func setupTestHub(t *testing.T) (*hubfake.Server, cliEnv) {
	t.Helper()

	env := setupConfigHome(t)
	fake := hubfake.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	env.baseURL = srv.URL
	return fake, env
}

// resetFlags restores every flag to its default so state from one
// invocation does not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// runCLI executes the root command with the test's hub and config home.
func runCLI(t *testing.T, env cliEnv, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	full := []string{"--config-home", env.home}
	if env.baseURL != "" {
		full = append(full, "--base-url", env.baseURL)
	}
	full = append(full, args...)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(full)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigShow_Defaults(t *testing.T) {
	env := setupConfigHome(t)
	home := env.home

	out, err := runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	for _, want := range []string{"base_url", hub.DefaultBaseURL, "page_size", "(not set)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	// Loading writes the defaults back
	if _, err := os.Stat(filepath.Join(home, ".readhub", hub.ConfigFileName)); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}

func TestConfigShow_MarksEnvironmentOverride(t *testing.T) {
	env := setupConfigHome(t)
	t.Setenv(hub.EnvBaseURL, "http://env.example:9000")

	out, err := runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "http://env.example:9000") {
		t.Errorf("expected env base URL, got:\n%s", out)
	}
	if !strings.Contains(out, "(from environment)") {
		t.Errorf("expected env marker, got:\n%s", out)
	}
}

func TestConfigShow_UnknownFieldWarning(t *testing.T) {
	env := setupConfigHome(t)
	home := env.home

	dir := filepath.Join(home, ".readhub")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	content := `{"base_url": "http://localhost:8080", "timeout_seconds": 15, "log_level": "info", "page_size": 25, "theme": "dark"}`
	if err := os.WriteFile(filepath.Join(dir, hub.ConfigFileName), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	out, err := runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "Unknown config key: theme") {
		t.Errorf("expected unknown key warning, got:\n%s", out)
	}
}

func TestConfigSet(t *testing.T) {
	env := setupConfigHome(t)
	home := env.home

	if _, err := runCLI(t, env, "config", "set", "page_size", "50"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	out, err := runCLI(t, env, "config", "set", "token", "secret-token-1234")
	if err != nil {
		t.Fatalf("config set token failed: %v", err)
	}
	if strings.Contains(out, "secret-token") {
		t.Errorf("token should be masked in output, got: %s", out)
	}

	cfg, err := hub.LoadFileConfig(hub.ConfigOptions{ConfigHome: home, ReadhubDirName: ".readhub"})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.PageSize != 50 {
		t.Errorf("expected page_size 50, got %d", cfg.PageSize)
	}
	if cfg.Token != "secret-token-1234" {
		t.Errorf("expected token to be saved, got %q", cfg.Token)
	}
}

func TestConfigSet_InvalidValue(t *testing.T) {
	env := setupConfigHome(t)

	if _, err := runCLI(t, env, "config", "set", "log_level", "loud"); err == nil {
		t.Error("expected error for invalid log level")
	}
	if _, err := runCLI(t, env, "config", "set", "colour", "blue"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfigSet_DoesNotPersistEnvironment(t *testing.T) {
	env := setupConfigHome(t)
	home := env.home
	t.Setenv(hub.EnvBaseURL, "http://env.example:9000")

	if _, err := runCLI(t, env, "config", "set", "editor", "vim"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	cfg, err := hub.LoadFileConfig(hub.ConfigOptions{ConfigHome: home, ReadhubDirName: ".readhub"})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.BaseURL != hub.DefaultBaseURL {
		t.Errorf("environment base URL leaked into file: %q", cfg.BaseURL)
	}
	if cfg.Editor != "vim" {
		t.Errorf("expected editor vim, got %q", cfg.Editor)
	}
}

func TestConfigPath(t *testing.T) {
	env := setupConfigHome(t)
	home := env.home

	out, err := runCLI(t, env, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	want := filepath.Join(home, ".readhub", hub.ConfigFileName)
	if strings.TrimSpace(out) != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestMaskToken(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"abc":       "***",
		"abcd":      "****",
		"abcdefgh":  "****efgh",
		"tok-12345": "*****2345",
	}
	for in, want := range tests {
		if got := maskToken(in); got != want {
			t.Errorf("maskToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigShow_JSON(t *testing.T) {
	_, env := setupTestHub(t)

	out, err := runCLI(t, env, "--json", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if _, ok := decoded["base_url"]; !ok {
		t.Errorf("expected base_url key, got %v", decoded)
	}
}
