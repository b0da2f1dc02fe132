package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vvnews/internal/app"
	"vvnews/internal/config"
	"vvnews/internal/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("VVNEWS_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	logger.Info("vvnewsd starting",
		"keyword", cfg.Keyword,
		"window", cfg.Window(),
		"interval", cfg.Interval.Std(),
		"port", cfg.HTTPPort)

	if err := a.Serve(ctx); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
