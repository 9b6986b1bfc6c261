package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"devportal/internal/config"
	"devportal/internal/configsource"
	"devportal/internal/links"
	"devportal/internal/logging"
	"devportal/internal/portal"
	"devportal/internal/router"
	"devportal/internal/server"
	"devportal/internal/theme"
	"devportal/internal/tui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("load config", "err", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatal("build logger", "err", err)
	}

	src, err := configsource.Load(cfg.AppConfigPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("app config not found, using defaults", "event", "app_config_missing", "path", cfg.AppConfigPath)
		src = configsource.Empty()
	case err != nil:
		logger.Fatal("load app config", "event", "app_config_invalid", "path", cfg.AppConfigPath, "err", err)
	}

	th := theme.Build()
	resolver := links.NewResolver(logger)

	web, err := portal.NewHandler(portal.Options{
		Title:    cfg.Title,
		Source:   src,
		Theme:    th,
		Resolver: resolver,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("build portal handler", "err", err)
	}

	sessions := tui.Handler(tui.SessionOptions{
		Title:    cfg.Title,
		Source:   src,
		Theme:    th,
		Host:     cfg.PublicRuntimeHost(),
		Resolver: resolver,
		Logger:   logger,
	})

	runtime, err := server.New(cfg, logger, web.Routes(), sessions, router.DefaultChain(cfg.RateLimitPerMin, cfg.RateLimitBurst, logger))
	if err != nil {
		logger.Fatal("build runtime", "err", err)
	}

	if err := runtime.Run(context.Background()); err != nil {
		logger.Fatal("run portal", "err", err)
	}
}
