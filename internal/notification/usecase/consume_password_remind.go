package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/formgate/internal/pkg/mail"
)

type ConsumePasswordRemindInput struct {
	Email     string    `validate:"required,email"`
	AuthKey   string    `validate:"required,halfwidth"`
	ExpiresAt time.Time `validate:"required"`
}

// ConsumePasswordRemind mails the auth key. A key that has already expired is
// dropped.
func (s *Usecase) ConsumePasswordRemind(ctx context.Context, in ConsumePasswordRemindInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasswordRemind")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid password remind message", "error", err)
		return nil
	}

	if !s.clock.Now().Before(in.ExpiresAt) {
		slog.WarnContext(ctx, "password remind message arrived after expiry", "email", in.Email)
		return nil
	}

	body := render(
		in.Email+" 様",
		[]paragraph{
			{text: "パスワード再発行のリクエストを受け付けました。"},
			{text: "認証キー: %s", values: []string{in.AuthKey}},
			{text: "有効期限: %s", values: []string{formatExpiry(in.ExpiresAt)}},
			{
				text: "以下のページで認証キーを入力してください。",
				link: verifyURL(s.cfg.GetString("app.web"), in.Email),
			},
		},
		"お心当たりのない場合は、このメールを破棄してください。",
	)

	return s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  "【" + s.cfg.GetString("app.name") + "】パスワード再発行の認証キー",
		TextBody: body.Text,
		HTMLBody: body.HTML,
	})
}
