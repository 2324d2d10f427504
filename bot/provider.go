package bot

import "context"

// Provider is a message delivery backend. The real WhatsApp provider
// and the development web chat both implement it; main selects one at
// startup so callers never branch on the transport.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// SendMessage delivers text to a recipient (phone number or
	// web-chat session id, depending on the transport).
	SendMessage(ctx context.Context, to, text string) error
	// IsConfigured reports whether the provider has the credentials
	// it needs to deliver messages.
	IsConfigured() bool
}
