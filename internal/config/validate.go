package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"openingline/internal/services"
)

// Validate ensures the configuration is usable. Missing API keys are reported as
// configuration errors naming the environment variable to set.
func (c *Config) Validate() error {
	if err := c.validateSecrets(); err != nil {
		return err
	}
	for _, check := range []func() error{
		c.validateTMDB,
		c.validateOpenSubtitles,
		c.validateCuration,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
		}
	}
	return nil
}

func (c *Config) validateSecrets() error {
	if c.TMDB.APIKey == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Sprintf("%s is not set; export it or add it to .env (or set tmdb.api_key)", EnvTMDBAPIKey), nil)
	}
	if c.OpenSubtitles.APIKey == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate",
			fmt.Sprintf("%s is not set; export it or add it to .env (or set opensubtitles.api_key)", EnvOpenSubtitlesAPIKey), nil)
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if err := validateURL("tmdb.base_url", c.TMDB.BaseURL); err != nil {
		return err
	}
	if err := validateURL("tmdb.web_url", c.TMDB.WebURL); err != nil {
		return err
	}
	if c.TMDB.MinVoteCount < 0 {
		return errors.New("tmdb.min_vote_count must be >= 0")
	}
	if _, err := language.ParseBase(c.TMDB.OriginalLanguage); err != nil {
		return fmt.Errorf("tmdb.original_language %q is not a valid language code", c.TMDB.OriginalLanguage)
	}
	return nil
}

func (c *Config) validateOpenSubtitles() error {
	if err := validateURL("opensubtitles.base_url", c.OpenSubtitles.BaseURL); err != nil {
		return err
	}
	if len(c.OpenSubtitles.Languages) == 0 {
		return errors.New("opensubtitles.languages must include at least one language")
	}
	for _, lang := range c.OpenSubtitles.Languages {
		if _, err := language.ParseBase(lang); err != nil {
			return fmt.Errorf("opensubtitles.languages entry %q is not a valid language code", lang)
		}
	}
	return nil
}

func (c *Config) validateCuration() error {
	if c.Curation.ChoiceCount <= 0 {
		return errors.New("curation.choice_count must be positive")
	}
	if strings.TrimSpace(c.Curation.SkipLabel) == "" {
		return errors.New("curation.skip_label must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

func validateURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url, got %q", field, value)
	}
	return nil
}
