package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"openingline/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths controls where the dataset files and optional log file live.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	MoviesFile  string `toml:"movies_file"`
	EntriesFile string `toml:"entries_file"`
	LogDir      string `toml:"log_dir"`
}

// TMDB contains configuration for The Movie Database discover API.
type TMDB struct {
	APIKey           string `toml:"api_key"`
	BaseURL          string `toml:"base_url"`
	WebURL           string `toml:"web_url"`
	OriginalLanguage string `toml:"original_language"`
	MinVoteCount     int    `toml:"min_vote_count"`
	SortBy           string `toml:"sort_by"`
}

// OpenSubtitles contains configuration for subtitle search and download.
type OpenSubtitles struct {
	APIKey              string   `toml:"api_key"`
	BaseURL             string   `toml:"base_url"`
	UserAgent           string   `toml:"user_agent"`
	Languages           []string `toml:"languages"`
	TrustedSourcesOnly  bool     `toml:"trusted_sources_only"`
	ExcludeForeignParts bool     `toml:"exclude_foreign_parts"`
}

// Curation controls how subtitle lines are offered to the operator.
type Curation struct {
	ChoiceCount        int    `toml:"choice_count"`
	SkipLabel          string `toml:"skip_label"`
	DropAdvertisements bool   `toml:"drop_advertisements"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for openingline.
//
// Configuration sections by subsystem:
//   - Paths: dataset directory and file names, optional log directory
//   - TMDB: candidate discovery via The Movie Database
//   - OpenSubtitles: subtitle search and download
//   - Curation: operator-facing line selection
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	TMDB          TMDB          `toml:"tmdb"`
	OpenSubtitles OpenSubtitles `toml:"opensubtitles"`
	Curation      Curation      `toml:"curation"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error: defaults plus
// environment variables are used instead.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// LoadDotEnv reads KEY=value pairs from path into the process environment.
// Variables that are already set win over the file, and a missing file is ignored.
func LoadDotEnv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// MoviesPath returns the absolute path of the candidate collection.
func (c *Config) MoviesPath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.MoviesFile)
}

// EntriesPath returns the absolute path of the curated entry collection.
func (c *Config) EntriesPath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.EntriesFile)
}

// EnsureDirectories creates the data directory (and log directory when configured).
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
