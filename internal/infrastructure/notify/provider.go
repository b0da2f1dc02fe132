package notify

import "context"

// Message is a composed notification ready for delivery.
type Message struct {
	Subject string
	Body    string
	To      []string
}

// Provider is one delivery channel in the failover chain.
type Provider interface {
	Name() string
	// Configured reports whether the provider has the credentials it needs.
	// Unconfigured providers are skipped without counting as failures.
	Configured() bool
	Send(ctx context.Context, msg Message) error
}
