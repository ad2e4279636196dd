package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestLogger_MasksSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{ServiceName: "formgate", MaskFields: []string{"pass", " Token "}}, nil)

	form := url.Values{"email": {"a@b.co"}, "pass": {"secret1"}}
	logger.Info("signup", "form", form, "token", "Ab3dEf7h", "body", `{"pass":"x","nested":{"token":"y"}}`)

	line := decodeLine(t, &buf)
	assert.Equal(t, "***", line["token"])
	assert.Equal(t, map[string]any{"email": "a@b.co", "pass": "***"}, line["form"])
	assert.JSONEq(t, `{"pass":"***","nested":{"token":"***"}}`, line["body"].(string))
	assert.Equal(t, "formgate", line["service"])
	assert.Contains(t, line, "ts")
	assert.Contains(t, line, "severity")
}

func TestLogger_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{ServiceName: "formgate"}, nil)

	ctx := SetCorrelationID(context.Background(), "cid-123")
	logger.InfoContext(ctx, "hello")

	line := decodeLine(t, &buf)
	assert.Equal(t, "cid-123", line["_cID"])
	assert.Equal(t, "cid-123", GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogLevel: "warn"}, nil)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())

	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
}
