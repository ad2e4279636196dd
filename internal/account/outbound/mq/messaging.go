package mq

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/formgate/internal/account/usecase"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/messaging"
	"github.com/shandysiswandi/formgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishPasswordRemind(ctx context.Context, msg usecase.PasswordRemindEvent) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, "PublishPasswordRemind")
	defer span.End()

	return m.publish(ctx, span, event.AccountPasswordRemindDestination, event.AccountPasswordRemindMessage{
		Email:     msg.Email,
		AuthKey:   msg.AuthKey,
		ExpiresAt: msg.ExpiresAt,
	})
}

func (m *Messaging) PublishPasswordReissued(ctx context.Context, msg usecase.PasswordReissuedEvent) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, "PublishPasswordReissued")
	defer span.End()

	return m.publish(ctx, span, event.AccountPasswordReissuedDestination, event.AccountPasswordReissuedMessage{
		Email:    msg.Email,
		Password: msg.Password,
	})
}

func (m *Messaging) publish(ctx context.Context, span trace.Span, destination string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
