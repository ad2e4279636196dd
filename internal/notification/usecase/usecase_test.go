package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/mail"
	"github.com/shandysiswandi/formgate/internal/pkg/validator"
)

var testNow = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

type fakeMail struct {
	sent []mail.Message
	err  error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestUsecase(t *testing.T) (*Usecase, *fakeMail) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
app:
  name: FormGate
  web: https://formgate.example/
`))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	fm := &fakeMail{}
	return NewNotification(Dependency{
		Config:     cfg,
		Clock:      clock.Fixed(testNow),
		Validator:  v,
		RepoMail:   fm,
		Instrument: instrument.NewNoop(),
	}), fm
}

func TestConsumePasswordRemind(t *testing.T) {
	t.Run("sends key", func(t *testing.T) {
		uc, fm := newTestUsecase(t)

		require.NoError(t, uc.ConsumePasswordRemind(context.Background(), ConsumePasswordRemindInput{
			Email:     "taro@example.com",
			AuthKey:   "AbCd1234",
			ExpiresAt: testNow.Add(30 * time.Minute),
		}))

		require.Len(t, fm.sent, 1)
		msg := fm.sent[0]
		assert.Equal(t, []string{"taro@example.com"}, msg.To)
		assert.Equal(t, "【FormGate】パスワード再発行の認証キー", msg.Subject)
		assert.Contains(t, msg.TextBody, "認証キー: AbCd1234")
		assert.Contains(t, msg.TextBody, "有効期限: 2024/04/01 18:30")
		assert.Contains(t, msg.TextBody, "https://formgate.example/password/remind/verify?email=taro%40example.com")
		assert.Contains(t, msg.HTMLBody, "<strong>AbCd1234</strong>")
	})

	t.Run("expired key is dropped", func(t *testing.T) {
		uc, fm := newTestUsecase(t)

		require.NoError(t, uc.ConsumePasswordRemind(context.Background(), ConsumePasswordRemindInput{
			Email:     "taro@example.com",
			AuthKey:   "AbCd1234",
			ExpiresAt: testNow,
		}))
		assert.Empty(t, fm.sent)
	})

	t.Run("invalid message is dropped", func(t *testing.T) {
		uc, fm := newTestUsecase(t)

		require.NoError(t, uc.ConsumePasswordRemind(context.Background(), ConsumePasswordRemindInput{
			Email:     "taro",
			AuthKey:   "AbCd1234",
			ExpiresAt: testNow.Add(time.Minute),
		}))
		assert.Empty(t, fm.sent)
	})

	t.Run("mail failure is returned", func(t *testing.T) {
		uc, fm := newTestUsecase(t)
		fm.err = errors.New("421 service not available")

		err := uc.ConsumePasswordRemind(context.Background(), ConsumePasswordRemindInput{
			Email:     "taro@example.com",
			AuthKey:   "AbCd1234",
			ExpiresAt: testNow.Add(time.Minute),
		})
		assert.EqualError(t, err, "421 service not available")
	})
}

func TestConsumePasswordReissued(t *testing.T) {
	uc, fm := newTestUsecase(t)

	require.NoError(t, uc.ConsumePasswordReissued(context.Background(), ConsumePasswordReissuedInput{
		Email:    "taro@example.com",
		Password: "Xy12Ab34Cd",
	}))

	require.Len(t, fm.sent, 1)
	assert.Equal(t, "【FormGate】パスワード再発行のお知らせ", fm.sent[0].Subject)
	assert.Contains(t, fm.sent[0].TextBody, "新しいパスワード: Xy12Ab34Cd")
	assert.Contains(t, fm.sent[0].HTMLBody, "<strong>Xy12Ab34Cd</strong>")
}

func TestRender_EscapesHTML(t *testing.T) {
	body := render(
		`<script>alert("x")</script>`,
		[]paragraph{{text: "value: %s", values: []string{`a&b 'c'`}, link: `https://x.example/?a=1&b=<2>`}},
		"bye",
	)

	assert.Contains(t, body.Text, `<script>alert("x")</script>`)
	assert.Contains(t, body.Text, `value: a&b 'c'`)

	assert.NotContains(t, body.HTML, "<script>")
	assert.Contains(t, body.HTML, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;")
	assert.Contains(t, body.HTML, "<strong>a&amp;b &#039;c&#039;</strong>")
	assert.Contains(t, body.HTML, `<a href="https://x.example/?a=1&amp;b=&lt;2&gt;">`)
}
