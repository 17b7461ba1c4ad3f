package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeOpenSubtitles()
	c.normalizeCuration()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	c.Paths.MoviesFile = strings.TrimSpace(c.Paths.MoviesFile)
	if c.Paths.MoviesFile == "" {
		c.Paths.MoviesFile = defaultMoviesFile
	}
	c.Paths.EntriesFile = strings.TrimSpace(c.Paths.EntriesFile)
	if c.Paths.EntriesFile == "" {
		c.Paths.EntriesFile = defaultEntriesFile
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if value, ok := lookupEnv(EnvTMDBAPIKey); ok {
		c.TMDB.APIKey = value
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.WebURL = strings.TrimRight(strings.TrimSpace(c.TMDB.WebURL), "/")
	if c.TMDB.WebURL == "" {
		c.TMDB.WebURL = defaultTMDBWebURL
	}
	c.TMDB.OriginalLanguage = canonicalLanguage(c.TMDB.OriginalLanguage)
	if c.TMDB.OriginalLanguage == "" {
		c.TMDB.OriginalLanguage = defaultTMDBOriginalLanguage
	}
	c.TMDB.SortBy = strings.TrimSpace(c.TMDB.SortBy)
	if c.TMDB.SortBy == "" {
		c.TMDB.SortBy = defaultTMDBSortBy
	}
}

func (c *Config) normalizeOpenSubtitles() {
	if value, ok := lookupEnv(EnvOpenSubtitlesAPIKey); ok {
		c.OpenSubtitles.APIKey = value
	} else if value, ok := lookupEnv(envOpenSubtitlesAPIKeyAlt); ok {
		c.OpenSubtitles.APIKey = value
	}
	c.OpenSubtitles.APIKey = strings.TrimSpace(c.OpenSubtitles.APIKey)
	c.OpenSubtitles.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenSubtitles.BaseURL), "/")
	if c.OpenSubtitles.BaseURL == "" {
		c.OpenSubtitles.BaseURL = defaultOpenSubtitlesBaseURL
	}
	c.OpenSubtitles.UserAgent = strings.TrimSpace(c.OpenSubtitles.UserAgent)
	if c.OpenSubtitles.UserAgent == "" {
		c.OpenSubtitles.UserAgent = defaultOpenSubtitlesUserAgent
	}
	langs := make([]string, 0, len(c.OpenSubtitles.Languages))
	seen := make(map[string]struct{}, len(c.OpenSubtitles.Languages))
	for _, lang := range c.OpenSubtitles.Languages {
		normalized := canonicalLanguage(lang)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		langs = append(langs, normalized)
	}
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	c.OpenSubtitles.Languages = langs
}

func (c *Config) normalizeCuration() {
	if c.Curation.ChoiceCount <= 0 {
		c.Curation.ChoiceCount = defaultChoiceCount
	}
	c.Curation.SkipLabel = strings.TrimSpace(c.Curation.SkipLabel)
	if c.Curation.SkipLabel == "" {
		c.Curation.SkipLabel = defaultSkipLabel
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// canonicalLanguage reduces a language tag to its lowercase base subtag
// ("en-US" -> "en"). Unparseable values are returned lowercased so Validate
// can report them.
func canonicalLanguage(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	tag, err := language.Parse(value)
	if err != nil {
		return value
	}
	base, _ := tag.Base()
	return base.String()
}

func lookupEnv(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
