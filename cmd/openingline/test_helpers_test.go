package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"openingline/internal/prompt"
)

type cliTestEnv struct {
	baseDir    string
	dataDir    string
	configPath string
}

type cliServers struct {
	tmdbURL          string
	openSubtitlesURL string
}

func setupCLITestEnv(t *testing.T, servers cliServers) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv("TMDB_API_KEY", "tmdb-test")
	t.Setenv("OPEN_SUBTITLES_API_KEY", "os-test")
	t.Setenv("NO_COLOR", "1")

	env := &cliTestEnv{
		baseDir:    base,
		dataDir:    filepath.Join(base, "data"),
		configPath: filepath.Join(base, "openingline.toml"),
	}
	tmdbURL := servers.tmdbURL
	if tmdbURL == "" {
		tmdbURL = "http://127.0.0.1:1/3"
	}
	osURL := servers.openSubtitlesURL
	if osURL == "" {
		osURL = "http://127.0.0.1:1/api/v1"
	}
	contents := fmt.Sprintf(`[paths]
data_dir = %q

[tmdb]
base_url = %q

[opensubtitles]
base_url = %q

[logging]
level = "error"
`, env.dataDir, tmdbURL, osURL)
	if err := os.WriteFile(env.configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) moviesPath() string {
	return filepath.Join(e.dataDir, "movies.json")
}

func (e *cliTestEnv) entriesPath() string {
	return filepath.Join(e.dataDir, "entries.json")
}

func runCLI(t *testing.T, env *cliTestEnv, p prompt.Prompter, args ...string) (string, string, error) {
	t.Helper()
	opts := []rootOption{withEnvFile(filepath.Join(env.baseDir, ".env"))}
	if p != nil {
		opts = append(opts, withPrompter(p))
	}
	cmd := newRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}
