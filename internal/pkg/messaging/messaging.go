package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrHandlerRequired is returned when Consume is called with a nil handler.
var ErrHandlerRequired = errors.New("messaging: handler is required")

// Messaging is a broker client that can publish and consume.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a destination (topic or subject).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes messages from a source until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message. With auto ack enabled a nil error acks
// and a non-nil error nacks.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to publish.
type OutgoingMessage struct {
	Body []byte
	// Key selects the Kafka partition; other brokers ignore it.
	Key     []byte
	Headers []Header
}

// Header is a message header.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries what the broker reports about an accepted message.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	Body() []byte
	Headers() []Header
	// Header returns the first value for key, matched case-insensitively.
	Header(key string) string
	ID() string
	Topic() string

	// Ack and Nack settle the message. Only the first call has an effect.
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}
