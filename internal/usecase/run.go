package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vvnews/internal/domain"
	"vvnews/internal/ports"
	"vvnews/internal/pubtime"
	"vvnews/internal/scanner"
)

// Resolver derives a publish time for a candidate's page.
type Resolver interface {
	Resolve(ctx context.Context, pageURL string) (time.Time, bool)
}

// RunnerDeps wires the driven adapters into the pipeline.
type RunnerDeps struct {
	Registry   *scanner.Registry
	Sources    []domain.Source // enabled subset; empty means all registered
	Resolver   Resolver
	Policy     Policy
	Dispatcher ports.Dispatcher
	Artifacts  ports.ArtifactStore
	Notified   ports.NotifiedStore // optional cross-run suppression
	Logger     *slog.Logger
	Now        func() time.Time
	Keyword    string
	PerSource  int // candidate cap handed to each adapter
}

// Runner orchestrates one discovery-notify cycle. Each run is independent:
// it reads only the keyword and window configuration and writes only new
// artifacts, so the process is restart-safe.
type Runner struct {
	deps RunnerDeps
}

// NewRunner constructs the orchestration component.
func NewRunner(deps RunnerDeps) *Runner {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.PerSource == 0 {
		deps.PerSource = 8
	}
	return &Runner{deps: deps}
}

// Run executes fetch, resolve, filter, dedupe, report, notify, persist.
// Adapter and dispatcher faults never propagate; a run completes even when
// every source and every provider failed.
func (r *Runner) Run(ctx context.Context) (*domain.RunReport, error) {
	d := r.deps
	now := d.Now().In(domain.HongKong)
	threshold := now.Add(-d.Policy.Window)

	report := &domain.RunReport{
		Keyword:     d.Keyword,
		WindowStart: threshold,
		WindowEnd:   now,
		PerSource:   map[domain.Source]domain.SourceCount{},
	}

	req := scanner.Request{Keyword: d.Keyword, Now: now, Window: d.Policy.Window, Limit: d.PerSource}

	// Fetching: adapters run sequentially in registration order so runs are
	// reproducible.
	var candidates []scanner.Candidate
	for _, adapter := range d.Registry.Enabled(d.Sources) {
		res := adapter.Fetch(ctx, req)
		if res.Err != nil {
			r.log().Warn("source fetch degraded", "source", res.Source, "error", res.Err)
		}
		count := report.PerSource[res.Source]
		count.Candidates += len(res.Candidates)
		report.PerSource[res.Source] = count
		candidates = append(candidates, res.Candidates...)
		r.log().Info("source done", "source", res.Source, "candidates", len(res.Candidates))
	}
	report.TotalCandidates = len(candidates)

	// Resolving and filtering.
	var admitted []domain.NewsItem
	for _, c := range candidates {
		item := domain.NewsItem{
			Title:        c.Title,
			URL:          c.URL,
			Source:       c.Source,
			Keyword:      d.Keyword,
			DiscoveredAt: now,
		}
		if c.PublishedAt != nil {
			t := pubtime.Normalize(*c.PublishedAt)
			item.PublishedAt = &t
		} else if d.Resolver != nil {
			if t, ok := d.Resolver.Resolve(ctx, c.URL); ok {
				item.PublishedAt = &t
			}
		}

		if !d.Policy.Admit(item, threshold) {
			r.log().Debug("item outside window", "source", item.Source, "url", item.URL)
			continue
		}
		admitted = append(admitted, item)
	}

	// Deduping: run-scoped, optionally seeded with previously-notified URLs.
	seen := map[string]struct{}{}
	if d.Notified != nil {
		urls := make([]string, len(admitted))
		for i, it := range admitted {
			urls[i] = it.URL
		}
		if known, err := d.Notified.Seen(ctx, urls); err != nil {
			r.log().Warn("notified-store lookup failed", "error", err)
		} else {
			for u, ok := range known {
				if ok {
					seen[u] = struct{}{}
				}
			}
		}
	}
	report.Admitted = Dedupe(admitted, seen)
	for _, item := range report.Admitted {
		count := report.PerSource[item.Source]
		count.Admitted++
		report.PerSource[item.Source] = count
	}

	// Notifying: skipped entirely on an empty report.
	if len(report.Admitted) > 0 && d.Dispatcher != nil {
		err := d.Dispatcher.Dispatch(ctx, report)
		switch {
		case err == nil:
			report.Notified = true
			if d.Notified != nil {
				if mErr := d.Notified.MarkNotified(ctx, report.Admitted); mErr != nil {
					r.log().Warn("notified-store update failed", "error", mErr)
				}
			}
		case errors.Is(err, domain.ErrNotificationFailed):
			r.log().Error("notification failed on every provider", "error", err)
		default:
			r.log().Error("notification failed", "error", err)
		}
	}

	r.persist(report)

	r.log().Info("run complete",
		"candidates", report.TotalCandidates,
		"admitted", len(report.Admitted),
		"notified", report.Notified)
	return report, nil
}

func (r *Runner) persist(report *domain.RunReport) {
	if r.deps.Artifacts == nil {
		return
	}
	if len(report.Admitted) > 0 {
		if path, err := r.deps.Artifacts.SaveResults(report); err != nil {
			r.log().Warn("save results failed", "error", err)
		} else {
			r.log().Info("results saved", "path", path)
		}
	}
	if _, err := r.deps.Artifacts.SaveRunLog(report); err != nil {
		r.log().Warn("save run log failed", "error", err)
	}
}

func (r *Runner) log() *slog.Logger {
	if r.deps.Logger != nil {
		return r.deps.Logger
	}
	return slog.Default()
}
