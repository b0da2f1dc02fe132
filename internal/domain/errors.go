package domain

import "errors"

// Failure classes recorded by adapters and the dispatcher. None of them is
// fatal to a run; the runner logs them and keeps going.
var (
	// ErrSourceUnavailable: network failure, timeout, or non-200 from a source.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrParseMismatch: the expected structure was absent from a fetched page.
	ErrParseMismatch = errors.New("parse mismatch")
	// ErrProviderFailure: one notification provider rejected or failed.
	ErrProviderFailure = errors.New("notification provider failure")
	// ErrNotificationFailed: every configured provider failed (or none was
	// configured); the message body has been written to a local backup.
	ErrNotificationFailed = errors.New("all notification providers failed")
)
