package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"vvnews/internal/config"
	"vvnews/internal/domain"
	"vvnews/internal/httpapi"
	"vvnews/internal/infrastructure/notify"
	"vvnews/internal/infrastructure/scheduler"
	"vvnews/internal/infrastructure/sources"
	"vvnews/internal/infrastructure/storage"
	"vvnews/internal/metrics"
	"vvnews/internal/ports"
	"vvnews/internal/pubtime"
	"vvnews/internal/scanner"
	"vvnews/internal/usecase"
)

// App owns the wired pipeline and its long-running surfaces.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	runner   *usecase.Runner
	sched    ports.Scheduler
	server   *httpapi.Server
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	pg       *storage.PostgresStore
}

// New wires every component from configuration. The Postgres store is
// optional; without a DSN duplicate suppression is run-scoped only.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	client := scanner.NewClient(nil)
	reg := scanner.NewRegistry()
	for _, a := range buildAdapters(cfg, client, logger) {
		reg.Register(a)
	}

	fileStore := storage.NewFileStore(cfg.ResultsDir)

	var notified ports.NotifiedStore
	var pg *storage.PostgresStore
	if cfg.PostgresDSN != "" {
		var err error
		pg, err = storage.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("notified store: %w", err)
		}
		notified = pg
		logger.Info("cross-run duplicate suppression enabled")
	}

	providers := buildProviders(cfg)
	dispatcher := notify.NewDispatcher(providers, cfg.Email.Recipients, fileStore, logger)

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	runner := usecase.NewRunner(usecase.RunnerDeps{
		Registry:   reg,
		Sources:    enabledSources(cfg.Sources),
		Resolver:   pubtime.New(client, logger),
		Policy:     usecase.DefaultPolicy(cfg.Window()),
		Dispatcher: dispatcher,
		Artifacts:  fileStore,
		Notified:   notified,
		Logger:     logger.With("component", "runner"),
		Keyword:    cfg.Keyword,
	})

	app := &App{
		cfg:      cfg,
		logger:   logger,
		runner:   runner,
		sched:    scheduler.NewInterval(cfg.Interval.Std(), logger),
		metrics:  m,
		registry: promReg,
		pg:       pg,
	}

	info := httpapi.StatusInfo{
		Keyword:   cfg.Keyword,
		Window:    cfg.Window().String(),
		Sources:   sourceNames(reg, cfg.Sources),
		Providers: providerNames(providers),
	}
	app.server = httpapi.NewServer(app.RunOnce, info, promReg, logger)
	return app, nil
}

// RunOnce executes a single pipeline run and records its metrics.
func (a *App) RunOnce(ctx context.Context) (*domain.RunReport, error) {
	started := time.Now()
	report, err := a.runner.Run(ctx)
	a.metrics.RunDuration.Observe(time.Since(started).Seconds())

	switch {
	case err != nil:
		a.metrics.Runs.WithLabelValues("error").Inc()
	case len(report.Admitted) == 0:
		a.metrics.Runs.WithLabelValues("success_no_news").Inc()
	default:
		a.metrics.Runs.WithLabelValues("success").Inc()
		a.metrics.AdmittedItems.Add(float64(len(report.Admitted)))
		if !report.Notified {
			a.metrics.NotifyFailures.Inc()
		}
	}
	return report, err
}

// RunLoop runs the scheduler alone until ctx is cancelled, for deployments
// that do not expose the HTTP surface.
func (a *App) RunLoop(ctx context.Context) error {
	err := a.sched.Start(ctx, func(time.Time) {
		runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		if _, err := a.RunOnce(runCtx); err != nil {
			a.logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.sched.Stop(stopCtx)
}

// Serve runs the scheduler and the HTTP surface until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	err := a.sched.Start(ctx, func(time.Time) {
		runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		if _, err := a.RunOnce(runCtx); err != nil {
			a.logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serveErr := a.server.Listen(ctx, a.cfg.HTTPPort)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if stopErr := a.sched.Stop(stopCtx); stopErr != nil && !errors.Is(stopErr, context.DeadlineExceeded) {
		a.logger.Warn("scheduler stop", "error", stopErr)
	}
	return serveErr
}

// Close releases held resources.
func (a *App) Close() error {
	if a.pg != nil {
		return a.pg.Close()
	}
	return nil
}

func buildAdapters(cfg *config.Config, client *scanner.Client, log *slog.Logger) []scanner.Adapter {
	return []scanner.Adapter{
		sources.NewGoogleNews(client, log),
		sources.NewHK01(client, log),
		sources.NewOnCC(client, log),
		sources.NewSingTao(client, log),
		sources.NewMingPao(client, log),
		sources.NewMPWeekly(client, log),
		sources.NewWenWeiPo(client, log),
		sources.NewTVB(client, log, cfg.TVB.KnownURLs),
		sources.NewYouTube(client, log, cfg.YouTube.Channels),
		sources.NewAM730(client, log),
	}
}

func buildProviders(cfg *config.Config) []notify.Provider {
	sender := cfg.Email.ZohoEmail
	if sender == "" {
		sender = cfg.Email.GmailEmail
	}
	return []notify.Provider{
		notify.NewZoho(cfg.Email.ZohoEmail, cfg.Email.ZohoAppPass),
		notify.NewSendGrid(cfg.Email.SendGridAPIKey, sender),
		notify.NewGmail(cfg.Email.GmailEmail, cfg.Email.GmailPassword),
	}
}

func enabledSources(names []string) []domain.Source {
	out := make([]domain.Source, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Source(n))
	}
	return out
}

func sourceNames(reg *scanner.Registry, enabled []string) []string {
	if len(enabled) > 0 {
		return enabled
	}
	var out []string
	for _, a := range reg.All() {
		out = append(out, string(a.Source()))
	}
	return out
}

func providerNames(providers []notify.Provider) []string {
	var out []string
	for _, p := range providers {
		if p.Configured() {
			out = append(out, p.Name())
		}
	}
	return out
}
