package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/authkey"
	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
	"github.com/shandysiswandi/formgate/internal/pkg/rule"
)

type PasswordRemindInput struct {
	Email string
}

// PasswordRemind mails an auth key to a registered address. The outcome is
// the same for unknown and throttled addresses so the endpoint does not
// reveal which emails are registered.
func (s *Usecase) PasswordRemind(ctx context.Context, in PasswordRemindInput) error {
	ctx, span := s.startSpan(ctx, "PasswordRemind")
	defer span.End()

	es := errstore.New()
	rule.Required(es, entity.FieldEmail, in.Email)
	if !es.Has(entity.FieldEmail) {
		rule.Email(es, entity.FieldEmail, in.Email)
	}
	if !es.Empty() {
		return goerror.NewInvalidInput(es)
	}

	allowed, err := s.repoCache.Throttle(ctx, in.Email, s.cfg.GetSecond("account.remind.throttle_seconds"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo throttle password remind", "email", in.Email, "error", err)
		return transient(es)
	}
	if !allowed {
		slog.WarnContext(ctx, "password remind throttled", "email", in.Email)
		return nil
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password remind requested for unavailable user", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return transient(es)
	}

	key, err := authkey.Generate(authkey.DefaultLength)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate auth key", "error", err)
		return transient(es)
	}

	ttl := s.cfg.GetMinute("account.remind.key_ttl_minutes")
	ak := entity.AuthKey{Key: key, ExpiresAt: s.clock.Now().Add(ttl)}

	// The cache entry outlives ExpiresAt so an expired key is told apart from
	// a missing one.
	if err := s.repoCache.SaveAuthKey(ctx, user.Email, ak, 2*ttl+time.Minute); err != nil {
		slog.ErrorContext(ctx, "failed to repo save auth key", "user_id", user.ID, "error", err)
		return transient(es)
	}

	if err := s.repoMessaging.PublishPasswordRemind(ctx, PasswordRemindEvent{
		Email:     user.Email,
		AuthKey:   ak.Key,
		ExpiresAt: ak.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish password remind", "user_id", user.ID, "error", err)
		es.Set(errstore.CommonKey, msgcat.MailFailed)
		return goerror.NewInvalidInput(es)
	}

	return nil
}

func transient(es *errstore.Store) error {
	es.Set(errstore.CommonKey, msgcat.Transient)
	return goerror.NewInvalidInput(es)
}
