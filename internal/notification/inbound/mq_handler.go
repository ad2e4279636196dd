package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/formgate/internal/notification/usecase"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/messaging"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/shandysiswandi/formgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) PasswordRemindNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PasswordRemindNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: password remind notification", "msg_id", msg.ID())

	var payload event.AccountPasswordRemindMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of password remind notification", "msg_id", msg.ID(), "error", err)
		return nil
	}

	if err := h.uc.ConsumePasswordRemind(ctx, usecase.ConsumePasswordRemindInput{
		Email:     payload.Email,
		AuthKey:   payload.AuthKey,
		ExpiresAt: payload.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume password remind", "msg_id", msg.ID(), "error", err)
		return err
	}

	return nil
}

// PasswordReissuedNotification never logs the body; it carries a plaintext
// password.
func (h *MQHandler) PasswordReissuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PasswordReissuedNotification")
	defer span.End()

	slog.InfoContext(ctx, "consume: password reissued notification", "msg_id", msg.ID())

	var payload event.AccountPasswordReissuedMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of password reissued notification", "msg_id", msg.ID(), "error", err)
		return nil
	}

	if err := h.uc.ConsumePasswordReissued(ctx, usecase.ConsumePasswordReissuedInput{
		Email:    payload.Email,
		Password: payload.Password,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume password reissued", "msg_id", msg.ID(), "error", err)
		return err
	}

	return nil
}
