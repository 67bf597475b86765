package main

import (
	"io"
	"sync"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"mkvmux/command"
	"mkvmux/command/merge"
	"mkvmux/config"
	"mkvmux/internal/language"
	"mkvmux/internal/logging"
	"mkvmux/mkvprobe"
)

// commandContext carries the loaded configuration and the collaborators built
// from it to every subcommand.
type commandContext struct {
	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
	logger     *zap.Logger

	proberOnce sync.Once
	prober     mkvprobe.Prober

	// Overrides used by tests.
	baseProber mkvprobe.Prober
	runner     command.Runner
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig(fs *pflag.FlagSet) (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, err := config.LoadConfig(fs)
		if err != nil {
			c.configErr = err
			return
		}
		logger, err := logging.New(cfg.LogLevel)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.logger = logger
		c.logger.Debug("configuration loaded", zap.String("source", path))
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	if c.config == nil {
		return config.DefaultConfig()
	}
	return c.config
}

func (c *commandContext) loggerValue() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func (c *commandContext) languages() *language.List {
	return language.NewList(c.configValue().LanguageFile)
}

// probeClient returns the prober shared by all commands of one invocation.
// Results are cached when probe_cache_ttl is positive, so a file identified
// while warming up is not identified again on import.
func (c *commandContext) probeClient() mkvprobe.Prober {
	c.proberOnce.Do(func() {
		cfg := c.configValue()
		base := c.baseProber
		if base == nil {
			base = mkvprobe.NewExecProber(cfg.MkvmergePath, c.loggerValue())
		}
		c.prober = base
		if ttl, err := cfg.CacheTTL(); err == nil && ttl > 0 {
			c.prober = mkvprobe.NewCachedProber(base, ttl, c.loggerValue())
		}
	})
	return c.prober
}

func (c *commandContext) processRunner(stdout, stderr io.Writer) command.Runner {
	if c.runner != nil {
		return c.runner
	}
	return &command.ExecRunner{Stdout: stdout, Stderr: stderr}
}

func (c *commandContext) builderOptions(stdout, stderr io.Writer) []merge.Option {
	return []merge.Option{
		merge.WithMkvmergePath(c.configValue().MkvmergePath),
		merge.WithProber(c.probeClient()),
		merge.WithRunner(c.processRunner(stdout, stderr)),
		merge.WithLanguages(c.languages()),
		merge.WithLogger(c.loggerValue()),
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
