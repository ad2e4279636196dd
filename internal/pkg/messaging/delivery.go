package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"go.uber.org/atomic"

	"github.com/shandysiswandi/formgate/internal/pkg/stacktrace"
)

// delivery is the Message implementation shared by every driver.
type delivery struct {
	id      string
	topic   string
	body    []byte
	headers []Header

	responded atomic.Bool
	ack       func(ctx context.Context) error
	nack      func(ctx context.Context) error
}

func (d *delivery) Body() []byte      { return d.body }
func (d *delivery) Headers() []Header { return d.headers }
func (d *delivery) ID() string        { return d.id }
func (d *delivery) Topic() string     { return d.topic }

func (d *delivery) Header(key string) string {
	for _, h := range d.headers {
		if strings.EqualFold(h.Key, key) {
			return string(h.Value)
		}
	}
	return ""
}

func (d *delivery) Ack(ctx context.Context) error {
	return d.settle(ctx, d.ack)
}

func (d *delivery) Nack(ctx context.Context) error {
	return d.settle(ctx, d.nack)
}

func (d *delivery) settle(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !d.responded.CompareAndSwap(false, true) {
		return nil
	}
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// dispatch runs handler and, with autoAck, settles the message by its result.
// The returned error is a settle failure; handler errors are only logged.
func dispatch(ctx context.Context, kind string, d *delivery, handler Handler, autoAck bool) error {
	herr := callHandlerWithRecover(ctx, kind, func() error {
		return handler(ctx, d)
	})
	if herr != nil {
		slog.WarnContext(ctx, "messaging handler failed", "kind", kind, "topic", d.topic, "message_id", d.id, "error", herr)
	}

	if !autoAck || d.responded.Load() {
		return nil
	}
	if herr == nil {
		return d.Ack(ctx)
	}
	return d.Nack(ctx)
}

func callHandlerWithRecover(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", kind, rvr)
		}
	}()

	return fn()
}
