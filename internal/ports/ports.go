package ports

import (
	"context"
	"time"

	"vvnews/internal/domain"
)

// Dispatcher delivers a run report to a human. A nil error means one
// provider accepted the message; domain.ErrNotificationFailed means every
// provider failed and a local backup was written.
type Dispatcher interface {
	Dispatch(ctx context.Context, report *domain.RunReport) error
}

// ArtifactStore persists per-run outputs (results JSON, run log, backups).
type ArtifactStore interface {
	SaveResults(report *domain.RunReport) (string, error)
	SaveRunLog(report *domain.RunReport) (string, error)
}

// NotifiedStore is the optional cross-run duplicate suppression extension:
// URLs notified in earlier runs are filtered out of new reports.
type NotifiedStore interface {
	Seen(ctx context.Context, urls []string) (map[string]bool, error)
	MarkNotified(ctx context.Context, items []domain.NewsItem) error
}

// Scheduler drives recurring pipeline executions.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
