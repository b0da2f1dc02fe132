package notify

import (
	"context"
	"fmt"
	"log/slog"

	"vvnews/internal/domain"
	"vvnews/internal/ports"
)

// BackupWriter persists a message that every provider refused, so the run's
// output is never silently lost.
type BackupWriter interface {
	SaveFailedMessage(subject, body string) (string, error)
}

// Dispatcher walks an ordered provider chain and stops at the first success.
// Unconfigured providers are skipped. When the whole chain fails the message
// is written to a backup file and ErrNotificationFailed is returned.
type Dispatcher struct {
	providers  []Provider
	recipients []string
	backup     BackupWriter
	logger     *slog.Logger
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(providers []Provider, recipients []string, backup BackupWriter, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		providers:  providers,
		recipients: recipients,
		backup:     backup,
		logger:     log.With("component", "dispatcher"),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, report *domain.RunReport) error {
	// Composed before any delivery checks so the body survives as a backup
	// artifact even when the chain cannot run at all.
	msg := Compose(report, d.recipients)

	if len(d.recipients) == 0 {
		d.saveBackup(msg)
		return fmt.Errorf("%w: no recipients configured", domain.ErrNotificationFailed)
	}

	attempted := 0
	for _, p := range d.providers {
		if !p.Configured() {
			d.logger.Debug("provider not configured, skipping", "provider", p.Name())
			continue
		}
		attempted++
		if err := p.Send(ctx, msg); err != nil {
			d.logger.Warn("provider failed", "provider", p.Name(), "error", err)
			continue
		}
		d.logger.Info("notification sent", "provider", p.Name(), "recipients", len(msg.To))
		return nil
	}

	d.saveBackup(msg)
	if attempted == 0 {
		return fmt.Errorf("%w: no providers configured", domain.ErrNotificationFailed)
	}
	return fmt.Errorf("%w: all %d provider(s) failed", domain.ErrNotificationFailed, attempted)
}

func (d *Dispatcher) saveBackup(msg Message) {
	path, err := d.backup.SaveFailedMessage(msg.Subject, msg.Body)
	if err != nil {
		d.logger.Error("backup write failed", "error", err)
		return
	}
	d.logger.Warn("message saved to backup file", "path", path)
}
