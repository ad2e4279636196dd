package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/messaging"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/shandysiswandi/formgate/internal/shared/event"
)

const defaultConcurrency = 10

type consumer struct {
	name    string
	topic   string // destination where publisher sent message
	handler messaging.Handler
}

// options resolves the broker specific consumer names. Each one falls back to
// the consumer name, e.g. modules.notification.consumers.<name>.kafka_group.
func (c consumer) options(cfg config.Config) []messaging.ConsumeOption {
	name := func(key string) string {
		if v := cfg.GetString("modules.notification.consumers." + c.name + "." + key); v != "" {
			return v
		}
		return c.name
	}

	concurrency := cfg.GetInt("modules.notification.concurrency")
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return []messaging.ConsumeOption{
		messaging.WithChannel(name("nsq_channel")),
		messaging.WithQueueGroup(name("nats_queue_group")),
		messaging.WithGroup(name("kafka_group")),
		messaging.WithSubscription(name("pubsub_subscription")),
		messaging.WithAutoAck(true),
		messaging.WithConcurrency(concurrency),
		messaging.WithMaxInFlight(concurrency),
	}
}

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	consumers := []consumer{
		{
			name:    event.AccountPasswordRemindConsumerNotification,
			topic:   event.AccountPasswordRemindDestination,
			handler: mqHandler.PasswordRemindNotification,
		},
		{
			name:    event.AccountPasswordReissuedConsumerNotification,
			topic:   event.AccountPasswordReissuedDestination,
			handler: mqHandler.PasswordReissuedNotification,
		},
	}

	for _, c := range consumers {
		if !slices.Contains(enableConsumerNames, c.name) {
			continue
		}

		opts := c.options(cfg)
		err := routine.Go(ctx, "consumer:"+c.name, func(pCtx context.Context) error {
			slog.InfoContext(pCtx, "Running job for handling consumer", "consumer", c.name)
			return messenger.Consume(pCtx, c.topic, c.handler, opts...)
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to start consumer", "consumer", c.name, "error", err)
		}
	}
}
