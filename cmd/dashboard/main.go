// Command dashboard serves a small app showing the Supabase session resolved
// from the request cookies.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sbauth/app/dashboard"
	"github.com/dmitrymomot/sbauth/core/config"
	"github.com/dmitrymomot/sbauth/core/logger"
	"github.com/dmitrymomot/sbauth/middleware"
)

func main() {
	var cfg dashboard.Config
	config.MustLoad(&cfg)

	envOpt := logger.WithDevelopment(cfg.AppName)
	switch cfg.Env {
	case "production":
		envOpt = logger.WithProduction(cfg.AppName)
	case "staging":
		envOpt = logger.WithStaging(cfg.AppName)
	}
	log := logger.New(
		envOpt,
		logger.WithLevel(cfg.Level()),
		logger.WithContextExtractors(middleware.RequestIDExtractor()),
	)
	logger.SetAsDefault(log)

	app, err := dashboard.New(cfg, dashboard.WithLogger(log))
	if err != nil {
		log.Error("failed to build app", logger.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(app.Run(ctx))

	log.Info("dashboard started", slog.String("addr", cfg.Server.Addr), slog.String("env", cfg.Env))
	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("dashboard stopped")
}
