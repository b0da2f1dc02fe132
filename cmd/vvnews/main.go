package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vvnews/internal/app"
	"vvnews/internal/config"
	"vvnews/internal/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("VVNEWS_CONFIG"), "path to YAML config file")
	once := flag.Bool("once", false, "run a single scan and exit")
	timeout := flag.Duration("timeout", 10*time.Minute, "single-run timeout")
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

	if *once {
		runCtx, cancel := context.WithTimeout(ctx, *timeout)
		defer cancel()

		report, err := a.RunOnce(runCtx)
		if err != nil {
			logger.Error("run failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("keyword=%s candidates=%d admitted=%d notified=%v\n",
			report.Keyword, report.TotalCandidates, len(report.Admitted), report.Notified)
		return
	}

	logger.Info("vvnews looping",
		"keyword", cfg.Keyword,
		"window", cfg.Window(),
		"interval", cfg.Interval.Std())
	if err := a.RunLoop(ctx); err != nil {
		logger.Error("loop exited", "error", err)
		os.Exit(1)
	}
}
