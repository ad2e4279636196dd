package mail

import (
	"context"
	"io"
)

// Message is an email payload. HTMLBody must already be escaped by the caller.
type Message struct {
	// From overrides the configured sender.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail sends messages.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
