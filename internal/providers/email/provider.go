package email

import (
	"context"

	"github.com/google/uuid"
)

// Provider delivers a single message and returns the delivery identifier
// reported back to the caller.
type Provider interface {
	// Configured reports whether the provider has the credentials it needs.
	// Callers check this before composing anything so a missing setup is
	// surfaced as a configuration problem, not a delivery failure.
	Configured() bool
	Send(ctx context.Context, to []string, subject string, htmlBody string) (string, error)
}

// NoOpProvider accepts every message without delivering it. Used in tests
// and local development without an SMTP setup.
type NoOpProvider struct{}

func (p *NoOpProvider) Configured() bool { return true }

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) (string, error) {
	return uuid.NewString(), nil
}
