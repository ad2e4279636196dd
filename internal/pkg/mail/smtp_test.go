package mail

import (
	"context"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTP(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "localhost"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@formgate.local"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:1025", s.addr)
	assert.NoError(t, s.Close())
}

func TestSMTP_Send(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@formgate.local"})
	require.NoError(t, err)

	var (
		gotFrom string
		gotTo   []string
		gotRaw  []byte
	)
	s.send = func(_ string, _ smtp.Auth, from string, to []string, raw []byte) error {
		gotFrom, gotTo, gotRaw = from, to, raw
		return nil
	}

	err = s.Send(context.Background(), Message{
		To:       []string{"a@b.co"},
		Bcc:      []string{"audit@b.co"},
		Subject:  "パスワード再発行",
		TextBody: "key: Ab3dEf7h",
		HTMLBody: "<p>key: Ab3dEf7h</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "noreply@formgate.local", gotFrom)
	assert.Equal(t, []string{"a@b.co", "audit@b.co"}, gotTo)

	parsed, err := mail.ReadMessage(strings.NewReader(string(gotRaw)))
	require.NoError(t, err)
	assert.Empty(t, parsed.Header.Get("Bcc"))

	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "パスワード再発行", subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(parsed.Body, params["boundary"])
	var bodies []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		// multipart.Reader does not decode base64 parts by itself.
		raw, err := io.ReadAll(part)
		require.NoError(t, err)
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(strings.TrimSpace(string(raw)), "\r\n", ""))
		require.NoError(t, err)
		bodies = append(bodies, string(decoded))
	}
	assert.Equal(t, []string{"key: Ab3dEf7h", "<p>key: Ab3dEf7h</p>"}, bodies)
}

func TestSMTP_Send_Errors(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025})
	require.NoError(t, err)
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}

	assert.ErrorIs(t, s.Send(context.Background(), Message{Subject: "x"}), ErrSMTPNoRecipients)
	assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@b.co"}}), ErrSMTPNoSender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: []string{"a@b.co"}, From: "x@b.co"}), context.Canceled)
}
