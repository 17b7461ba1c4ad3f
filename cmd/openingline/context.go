package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"openingline/internal/config"
	"openingline/internal/logging"
	"openingline/internal/prompt"
	"openingline/internal/services"
)

type rootOption func(*commandContext)

// withPrompter replaces the terminal prompter, mainly for tests.
func withPrompter(p prompt.Prompter) rootOption {
	return func(c *commandContext) {
		c.prompter = p
	}
}

// withEnvFile changes the .env file consulted before config loading.
func withEnvFile(path string) rootOption {
	return func(c *commandContext) {
		c.envFile = path
	}
}

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	envFile      string
	runID        string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	prompter prompt.Prompter
}

func newCommandContext(configFlag, logLevelFlag *string, opts ...rootOption) *commandContext {
	c := &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		envFile:      ".env",
		runID:        uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if level := c.logLevelOverride(); level != "" {
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrIO, "cli", "prepare directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "cli", "logger", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) logLevelOverride() string {
	if c.logLevelFlag == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
}

// runContext returns the command's context tagged with the run id and stage.
func (c *commandContext) runContext(cmd *cobra.Command, stage string) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithRequestID(ctx, c.runID)
	return services.WithStage(ctx, stage)
}

func (c *commandContext) prompterFor(cmd *cobra.Command) prompt.Prompter {
	if c.prompter != nil {
		return c.prompter
	}
	return prompt.NewTerminal()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
