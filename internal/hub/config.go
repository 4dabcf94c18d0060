package hub

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ConfigFileName is the name of the config file inside the readhub dir.
	ConfigFileName = "config.json"
	// EnvFileName is the dotenv file read from the working and readhub dirs.
	EnvFileName = ".env"

	logFileName = "readhub.log"

	DefaultBaseURL           = "http://localhost:8080"
	DefaultTimeoutSeconds    = 15
	DefaultRequestsPerSecond = 10
	DefaultLogLevel          = "info"
	DefaultPageSize          = 25
)

// Environment variables that override the config file.
const (
	EnvBaseURL  = "READHUB_BASE_URL"
	EnvToken    = "READHUB_TOKEN"
	EnvLogLevel = "READHUB_LOG_LEVEL"
)

// ConfigOptions holds configurable options for locating the config
type ConfigOptions struct {
	ConfigHome     string // Override for the home directory
	ReadhubDirName string // Name of the readhub directory (default: ".readhub")
	WorkingDir     string // Where to look for a project .env (default: cwd)
}

// DefaultConfigOptions returns the default config options
func DefaultConfigOptions() ConfigOptions {
	home, _ := os.UserHomeDir()
	return ConfigOptions{
		ConfigHome:     home,
		ReadhubDirName: ".readhub",
	}
}

// Dir returns the readhub directory for these options.
func (o ConfigOptions) Dir() (string, error) {
	if o.ConfigHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		o.ConfigHome = home
	}
	name := o.ReadhubDirName
	if name == "" {
		name = ".readhub"
	}
	return filepath.Join(o.ConfigHome, name), nil
}

// Path returns the config file path for these options.
func (o ConfigOptions) Path() (string, error) {
	dir, err := o.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// LogPath returns the log file path for these options.
func (o ConfigOptions) LogPath() (string, error) {
	dir, err := o.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

// Config holds readhub client configuration
type Config struct {
	BaseURL           string `json:"base_url" validate:"required,url"`
	Token             string `json:"token,omitempty"`
	TimeoutSeconds    int    `json:"timeout_seconds" validate:"min=1,max=300"`
	RequestsPerSecond int    `json:"requests_per_second" validate:"min=0,max=1000"`
	LogLevel          string `json:"log_level" validate:"oneof=debug info warn error"`
	Editor            string `json:"editor,omitempty"`
	PageSize          int    `json:"page_size" validate:"min=1,max=200"`
	// StrictOrdering drops like responses that are older than the newest
	// toggle instead of letting the last response to arrive win.
	StrictOrdering bool `json:"strict_ordering,omitempty"`

	// UnknownFields stores any fields from the config file that aren't recognized.
	// These are preserved when saving to avoid data loss.
	UnknownFields map[string]interface{} `json:"-"`

	// overridden lists the keys whose value came from the environment.
	overridden map[string]bool
}

// knownConfigFields lists the field names we recognize in config JSON
var knownConfigFields = map[string]bool{
	"base_url":            true,
	"token":               true,
	"timeout_seconds":     true,
	"requests_per_second": true,
	"log_level":           true,
	"editor":              true,
	"page_size":           true,
	"strict_ordering":     true,
}

// UnmarshalJSON implements custom JSON unmarshaling to capture unknown fields
func (c *Config) UnmarshalJSON(data []byte) error {
	var rawMap map[string]interface{}
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	// Start from defaults so missing keys keep sane values
	type configAlias Config
	alias := configAlias(*DefaultConfig())
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*c = Config(alias)

	c.UnknownFields = make(map[string]interface{})
	for key, value := range rawMap {
		if !knownConfigFields[key] {
			c.UnknownFields[key] = value
		}
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling to preserve unknown fields
func (c *Config) MarshalJSON() ([]byte, error) {
	result := make(map[string]interface{})
	for key, value := range c.UnknownFields {
		result[key] = value
	}

	result["base_url"] = c.BaseURL
	result["timeout_seconds"] = c.TimeoutSeconds
	result["requests_per_second"] = c.RequestsPerSecond
	result["log_level"] = c.LogLevel
	result["page_size"] = c.PageSize
	if c.Token != "" {
		result["token"] = c.Token
	}
	if c.Editor != "" {
		result["editor"] = c.Editor
	}
	if c.StrictOrdering {
		result["strict_ordering"] = true
	}

	return json.Marshal(result)
}

// GetUnknownFields returns the sorted list of unrecognized field names
func (c *Config) GetUnknownFields() []string {
	keys := make([]string, 0, len(c.UnknownFields))
	for key := range c.UnknownFields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DefaultConfig returns a configuration pointing at a local hub
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		TimeoutSeconds:    DefaultTimeoutSeconds,
		RequestsPerSecond: DefaultRequestsPerSecond,
		LogLevel:          DefaultLogLevel,
		PageSize:          DefaultPageSize,
		UnknownFields:     make(map[string]interface{}),
	}
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks field ranges and formats.
func (c *Config) Validate() error {
	if err := Validate(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Overridden reports whether key was set from the environment.
func (c *Config) Overridden(key string) bool {
	return c.overridden[key]
}

// LoadConfig loads configuration from ~/.readhub/config.json
func LoadConfig() (*Config, error) {
	return LoadConfigWithOptions(DefaultConfigOptions())
}

// LoadConfigWithOptions loads configuration with custom options.
// The file is created with defaults when missing and saved back after
// loading so it always lists every known field. Environment overrides
// (including .env files) are applied afterwards and never written to disk.
func LoadConfigWithOptions(opts ConfigOptions) (*Config, error) {
	config, err := LoadFileConfig(opts)
	if err != nil {
		return nil, err
	}

	if err := config.SaveWithOptions(opts); err != nil {
		return nil, fmt.Errorf("failed to save config with defaults: %w", err)
	}
	return config.finish(opts)
}

// ReadConfigWithOptions loads configuration like LoadConfigWithOptions but
// never writes the file. Reloads triggered by a file watcher use it so that
// loading does not itself produce another change event.
func ReadConfigWithOptions(opts ConfigOptions) (*Config, error) {
	config, err := LoadFileConfig(opts)
	if err != nil {
		return nil, err
	}
	return config.finish(opts)
}

func (c *Config) finish(opts ConfigOptions) (*Config, error) {
	fileEnv, err := loadEnvFiles(opts)
	if err != nil {
		return nil, err
	}
	c.applyEnv(fileEnv)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFileConfig reads only the config file, without environment
// overrides. Commands that write the config back start from this so that
// environment values never reach the file.
func LoadFileConfig(opts ConfigOptions) (*Config, error) {
	configPath, err := opts.Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.UnknownFields == nil {
		config.UnknownFields = make(map[string]interface{})
	}
	return config, nil
}

// loadEnvFiles reads .env from the readhub directory and then the working
// directory; the working directory wins on conflicts. The files are parsed
// rather than loaded into the process so that edits are picked up on reload.
func loadEnvFiles(opts ConfigOptions) (map[string]string, error) {
	dir, err := opts.Dir()
	if err != nil {
		return nil, err
	}
	workingDir := opts.WorkingDir
	if workingDir == "" {
		workingDir, _ = os.Getwd()
	}

	candidates := []string{filepath.Join(dir, EnvFileName)}
	if workingDir != "" && workingDir != dir {
		candidates = append(candidates, filepath.Join(workingDir, EnvFileName))
	}

	values := make(map[string]string)
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		parsed, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		for k, v := range parsed {
			values[k] = v
		}
	}
	return values, nil
}

// applyEnv applies overrides. The process environment wins over .env files.
func (c *Config) applyEnv(fileEnv map[string]string) {
	c.overridden = make(map[string]bool)
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileEnv[key]
	}

	if v := lookup(EnvBaseURL); v != "" {
		c.BaseURL = v
		c.overridden["base_url"] = true
	}
	if v := lookup(EnvToken); v != "" {
		c.Token = v
		c.overridden["token"] = true
	}
	if v := lookup(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
		c.overridden["log_level"] = true
	}
}

// SaveWithOptions persists the configuration with custom options
func (c *Config) SaveWithOptions(opts ConfigOptions) error {
	configPath, err := opts.Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file may hold a bearer token
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Set updates a known field from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "base_url":
		c.BaseURL = value
	case "token":
		c.Token = value
	case "editor":
		c.Editor = value
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "timeout_seconds", "requests_per_second", "page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		switch key {
		case "timeout_seconds":
			c.TimeoutSeconds = n
		case "requests_per_second":
			c.RequestsPerSecond = n
		default:
			c.PageSize = n
		}
	case "strict_ordering":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("strict_ordering must be true or false: %w", err)
		}
		c.StrictOrdering = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return c.Validate()
}
