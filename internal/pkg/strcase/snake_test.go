package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"Email":      "email",
		"AuthKey":    "auth_key",
		"PassRe":     "pass_re",
		"UserID":     "user_id",
		"HTTPServer": "http_server",
		"Pic2Path":   "pic2_path",
	}

	for in, want := range tests {
		assert.Equal(t, want, ToLowerSnake(in), in)
	}
}
