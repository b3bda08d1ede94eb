package main

import (
	"context"
	"sync"

	"holoframe-backend/internal/app"
	"holoframe-backend/internal/config"
	"holoframe-backend/internal/logger"
)

type commandContext struct {
	verbose *bool

	logOnce sync.Once
	log     *logger.Logger

	loadConfig func() *config.Config
}

func newCommandContext(verbose *bool, loadConfig func() *config.Config) *commandContext {
	return &commandContext{verbose: verbose, loadConfig: loadConfig}
}

func (c *commandContext) logger() *logger.Logger {
	c.logOnce.Do(func() {
		mode := "production"
		if c.verbose != nil && *c.verbose {
			mode = "development"
		}
		l, err := logger.New(mode)
		if err != nil {
			l = logger.Nop()
		}
		c.log = l
	})
	return c.log
}

// validConfig loads the full configuration and fails on missing settings.
func (c *commandContext) validConfig() (*config.Config, error) {
	cfg := c.loadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *commandContext) withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := c.validConfig()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, c.logger())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
