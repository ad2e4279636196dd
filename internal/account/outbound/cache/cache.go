package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
)

const (
	prefixThrottle = "account:remind:throttle:"
	prefixAuthKey  = "account:remind:key:"
)

type Cache struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func NewCache(client *redis.Client, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("account.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Throttle claims the reminder slot for email. It reports false while an
// earlier claim is still inside window.
func (c *Cache) Throttle(ctx context.Context, email string, window time.Duration) (_ bool, err error) {
	ctx, span := c.startSpan(ctx, "Throttle")
	defer func() { c.endSpan(span, err) }()

	if window <= 0 {
		return true, nil
	}

	ok, err := c.client.SetNX(ctx, prefixThrottle+email, 1, window).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (c *Cache) SaveAuthKey(ctx context.Context, email string, key entity.AuthKey, ttl time.Duration) (err error) {
	ctx, span := c.startSpan(ctx, "SaveAuthKey")
	defer func() { c.endSpan(span, err) }()

	data, err := json.Marshal(key)
	if err != nil {
		return err
	}

	err = c.client.Set(ctx, prefixAuthKey+email, data, ttl).Err()
	return err
}

func (c *Cache) GetAuthKey(ctx context.Context, email string) (_ *entity.AuthKey, err error) {
	ctx, span := c.startSpan(ctx, "GetAuthKey")
	defer func() { c.endSpan(span, err) }()

	data, err := c.client.Get(ctx, prefixAuthKey+email).Bytes()
	if errors.Is(err, redis.Nil) {
		err = goerror.ErrNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	var key entity.AuthKey
	if err = json.Unmarshal(data, &key); err != nil {
		return nil, err
	}

	return &key, nil
}

func (c *Cache) DeleteAuthKey(ctx context.Context, email string) (err error) {
	ctx, span := c.startSpan(ctx, "DeleteAuthKey")
	defer func() { c.endSpan(span, err) }()

	err = c.client.Del(ctx, prefixAuthKey+email).Err()
	return err
}
