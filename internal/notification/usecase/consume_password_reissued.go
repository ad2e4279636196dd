package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/formgate/internal/pkg/mail"
)

type ConsumePasswordReissuedInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (s *Usecase) ConsumePasswordReissued(ctx context.Context, in ConsumePasswordReissuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasswordReissued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid password reissued message", "error", err)
		return nil
	}

	body := render(
		in.Email+" 様",
		[]paragraph{
			{text: "パスワードを再発行しました。"},
			{text: "新しいパスワード: %s", values: []string{in.Password}},
			{text: "ログイン後、パスワードを変更してください。"},
		},
		"お心当たりのない場合は、至急お問い合わせください。",
	)

	return s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  "【" + s.cfg.GetString("app.name") + "】パスワード再発行のお知らせ",
		TextBody: body.Text,
		HTMLBody: body.HTML,
	})
}
