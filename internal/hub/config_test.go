package hub

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func testOptions(t *testing.T) ConfigOptions {
	t.Helper()
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvLogLevel, "")
	return ConfigOptions{
		ConfigHome:     t.TempDir(),
		ReadhubDirName: ".readhub",
		WorkingDir:     t.TempDir(),
	}
}

func TestLoadConfigCreatesDefaults(t *testing.T) {
	opts := testOptions(t)

	config, err := LoadConfigWithOptions(opts)
	if err != nil {
		t.Fatalf("LoadConfigWithOptions failed: %v", err)
	}

	if config.BaseURL != DefaultBaseURL {
		t.Errorf("expected base url %s, got %s", DefaultBaseURL, config.BaseURL)
	}
	if config.PageSize != DefaultPageSize {
		t.Errorf("expected page size %d, got %d", DefaultPageSize, config.PageSize)
	}

	path, _ := opts.Path()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file was not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestLoadConfigPreservesUnknownFields(t *testing.T) {
	opts := testOptions(t)
	path, _ := opts.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	content := `{"base_url": "https://hub.example.com", "page_size": 50, "theme": "dark"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigWithOptions(opts)
	if err != nil {
		t.Fatalf("LoadConfigWithOptions failed: %v", err)
	}
	if config.BaseURL != "https://hub.example.com" {
		t.Errorf("unexpected base url %s", config.BaseURL)
	}
	if config.PageSize != 50 {
		t.Errorf("expected page size 50, got %d", config.PageSize)
	}
	if config.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("missing key should keep default, got %d", config.TimeoutSeconds)
	}
	if got := config.GetUnknownFields(); len(got) != 1 || got[0] != "theme" {
		t.Errorf("expected unknown field theme, got %v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["theme"] != "dark" {
		t.Errorf("unknown field lost on save: %v", raw)
	}
	if _, ok := raw["timeout_seconds"]; !ok {
		t.Error("saved config should list every known field")
	}
}

func TestLoadConfigEnvOverridesAreNotSaved(t *testing.T) {
	opts := testOptions(t)
	t.Setenv(EnvToken, "secret-token")
	t.Setenv(EnvBaseURL, "https://env.example.com")

	config, err := LoadConfigWithOptions(opts)
	if err != nil {
		t.Fatalf("LoadConfigWithOptions failed: %v", err)
	}
	if config.Token != "secret-token" || !config.Overridden("token") {
		t.Errorf("token override not applied: %q", config.Token)
	}
	if config.BaseURL != "https://env.example.com" {
		t.Errorf("base url override not applied: %q", config.BaseURL)
	}

	path, _ := opts.Path()
	data, _ := os.ReadFile(path)
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["token"]; ok {
		t.Error("environment token must not be written to disk")
	}
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	opts := testOptions(t)
	envPath := filepath.Join(opts.WorkingDir, ".env")
	if err := os.WriteFile(envPath, []byte("READHUB_LOG_LEVEL=DEBUG\n"), 0600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigWithOptions(opts)
	if err != nil {
		t.Fatalf("LoadConfigWithOptions failed: %v", err)
	}
	if config.LogLevel != "debug" {
		t.Errorf("expected log level debug from .env, got %q", config.LogLevel)
	}
	if os.Getenv(EnvLogLevel) != "" {
		t.Error(".env values must not leak into the process environment")
	}

	// Edits are picked up by the next load.
	if err := os.WriteFile(envPath, []byte("READHUB_LOG_LEVEL=warn\n"), 0600); err != nil {
		t.Fatal(err)
	}
	config, err = LoadConfigWithOptions(opts)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if config.LogLevel != "warn" {
		t.Errorf("expected reloaded log level warn, got %q", config.LogLevel)
	}
}

func TestLoadConfigDotEnvPrecedence(t *testing.T) {
	opts := testOptions(t)
	dir, _ := opts.Dir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	home := "READHUB_BASE_URL=https://home.example.com\nREADHUB_TOKEN=home-token\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(home), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(opts.WorkingDir, ".env"), []byte("READHUB_BASE_URL=https://project.example.com\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvToken, "process-token")

	config, err := LoadConfigWithOptions(opts)
	if err != nil {
		t.Fatalf("LoadConfigWithOptions failed: %v", err)
	}
	if config.BaseURL != "https://project.example.com" {
		t.Errorf("working dir .env should win, got %q", config.BaseURL)
	}
	if config.Token != "process-token" {
		t.Errorf("process environment should win, got %q", config.Token)
	}
}

func TestLoadFileConfigIgnoresEnvironment(t *testing.T) {
	opts := testOptions(t)
	t.Setenv(EnvBaseURL, "https://env.example.com")

	config, err := LoadFileConfig(opts)
	if err != nil {
		t.Fatalf("LoadFileConfig failed: %v", err)
	}
	if config.BaseURL != DefaultBaseURL {
		t.Errorf("expected file value, got %q", config.BaseURL)
	}
	if config.Overridden("base_url") {
		t.Error("file config should report no overrides")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	opts := testOptions(t)
	path, _ := opts.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"page_size": 0}`), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfigWithOptions(opts); err == nil {
		t.Error("expected validation error for page_size 0")
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(c *Config) bool
	}{
		{"base_url", "https://hub.example.org", false, func(c *Config) bool { return c.BaseURL == "https://hub.example.org" }},
		{"base_url", "not a url", true, nil},
		{"page_size", "40", false, func(c *Config) bool { return c.PageSize == 40 }},
		{"page_size", "abc", true, nil},
		{"log_level", "WARN", false, func(c *Config) bool { return c.LogLevel == "warn" }},
		{"log_level", "verbose", true, nil},
		{"strict_ordering", "true", false, func(c *Config) bool { return c.StrictOrdering }},
		{"requests_per_second", "0", false, func(c *Config) bool { return c.RequestsPerSecond == 0 }},
		{"colour", "red", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			c := DefaultConfig()
			err := c.Set(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(c) {
				t.Errorf("value not applied: %+v", c)
			}
		})
	}
}

func TestReadConfigDoesNotWrite(t *testing.T) {
	opts := testOptions(t)

	config, err := ReadConfigWithOptions(opts)
	if err != nil {
		t.Fatalf("ReadConfigWithOptions failed: %v", err)
	}
	if config.PageSize != DefaultPageSize {
		t.Errorf("expected default page size, got %d", config.PageSize)
	}

	path, _ := opts.Path()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("ReadConfigWithOptions must not create the config file")
	}
}
