package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/authkey"
	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
	"github.com/shandysiswandi/formgate/internal/pkg/rule"
)

type PasswordRemindVerifyInput struct {
	Email string
	Token string
}

// PasswordRemindVerify checks the mailed auth key and, when it matches and
// has not expired, replaces the password with a generated one and mails it.
func (s *Usecase) PasswordRemindVerify(ctx context.Context, in PasswordRemindVerifyInput) error {
	ctx, span := s.startSpan(ctx, "PasswordRemindVerify")
	defer span.End()

	es := errstore.New()
	rule.Required(es, entity.FieldEmail, in.Email)
	if !es.Has(entity.FieldEmail) {
		rule.Email(es, entity.FieldEmail, in.Email)
	}
	rule.Required(es, entity.FieldToken, in.Token)
	if !es.Has(entity.FieldToken) {
		rule.HalfWidth(es, entity.FieldToken, in.Token)
		rule.MinLen(es, entity.FieldToken, in.Token, authkey.DefaultLength)
		rule.MaxLen(es, entity.FieldToken, in.Token, authkey.DefaultLength)
	}
	if !es.Empty() {
		return goerror.NewInvalidInput(es)
	}

	stored, err := s.repoCache.GetAuthKey(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		es.Set(entity.FieldToken, msgcat.AuthKeyMismatch)
		return goerror.NewInvalidInput(es)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get auth key", "email", in.Email, "error", err)
		return transient(es)
	}

	if subtle.ConstantTimeCompare([]byte(stored.Key), []byte(in.Token)) != 1 {
		es.Set(entity.FieldToken, msgcat.AuthKeyMismatch)
		return goerror.NewInvalidInput(es)
	}
	if stored.Expired(s.clock.Now()) {
		es.Set(entity.FieldToken, msgcat.AuthKeyExpired)
		return goerror.NewInvalidInput(es)
	}

	password, err := authkey.Generate(entity.ReissuedPasswordLength)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate password", "error", err)
		return transient(es)
	}

	hashed, err := s.bcrypt.Hash(password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return transient(es)
	}

	err = s.repoDB.UpdatePassword(ctx, in.Email, hashed)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "auth key matched for unavailable user", "email", in.Email)
		es.Set(entity.FieldToken, msgcat.AuthKeyMismatch)
		return goerror.NewInvalidInput(es)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update password", "email", in.Email, "error", err)
		return transient(es)
	}

	if err := s.repoCache.DeleteAuthKey(ctx, in.Email); err != nil {
		slog.WarnContext(ctx, "failed to repo delete auth key", "email", in.Email, "error", err)
	}

	if err := s.repoMessaging.PublishPasswordReissued(ctx, PasswordReissuedEvent{
		Email:    in.Email,
		Password: password,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish password reissued", "email", in.Email, "error", err)
		es.Set(errstore.CommonKey, msgcat.MailFailed)
		return goerror.NewInvalidInput(es)
	}

	return nil
}
