package integration_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ohare93/readhub/internal/cli"
	"github.com/ohare93/readhub/internal/hub"
	"github.com/ohare93/readhub/internal/hubapi"
	"github.com/ohare93/readhub/internal/hubfake"
)

// TestEnv holds the test environment setup
type TestEnv struct {
	ConfigHome    string
	Hub           *hubfake.Server
	Server        *httptest.Server
	Client        *hubapi.Client
	OriginalFlags cli.GlobalOptions
}

// SetupTestEnv starts a fake hub, a client pointed at it and an isolated
// config home.
func SetupTestEnv(t *testing.T, opts ...hubfake.Option) *TestEnv {
	t.Helper()

	t.Setenv(hub.EnvBaseURL, "")
	t.Setenv(hub.EnvToken, "")
	t.Setenv(hub.EnvLogLevel, "")

	configHome := filepath.Join(t.TempDir(), "config")
	if err := os.MkdirAll(configHome, 0755); err != nil {
		t.Fatalf("Failed to create config home: %v", err)
	}

	fake := hubfake.New(opts...)
	srv := httptest.NewServer(fake.Handler())

	client, err := hubapi.New(hubapi.Options{BaseURL: srv.URL})
	if err != nil {
		srv.Close()
		t.Fatalf("Failed to create client: %v", err)
	}

	env := &TestEnv{
		ConfigHome:    configHome,
		Hub:           fake,
		Server:        srv,
		Client:        client,
		OriginalFlags: cli.GlobalOpts,
	}

	cli.GlobalOpts = cli.GlobalOptions{
		ConfigHome: configHome,
		BaseURL:    srv.URL,
	}

	t.Cleanup(func() { CleanupTestEnv(t, env) })
	return env
}

// CleanupTestEnv stops the hub and restores original settings
func CleanupTestEnv(t *testing.T, env *TestEnv) {
	t.Helper()
	cli.GlobalOpts = env.OriginalFlags
	env.Server.Close()
}

// ConfigOptions returns options pointing at the test config home.
func (env *TestEnv) ConfigOptions() hub.ConfigOptions {
	return hub.ConfigOptions{ConfigHome: env.ConfigHome, ReadhubDirName: ".readhub", WorkingDir: env.ConfigHome}
}

// Paper fetches a paper and fails the test on error.
func (env *TestEnv) Paper(t *testing.T, id string) *hub.Paper {
	t.Helper()
	p, err := env.Client.GetPaper(t.Context(), id)
	if err != nil {
		t.Fatalf("Failed to get paper %s: %v", id, err)
	}
	return p
}
