package rule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
	"github.com/stretchr/testify/assert"
)

type finderFunc func(ctx context.Context, email string) (bool, error)

func (f finderFunc) ExistsActiveEmail(ctx context.Context, email string) (bool, error) {
	return f(ctx, email)
}

func TestDupChecker_EmailDup(t *testing.T) {
	errDB := errors.New("connection refused")

	tests := []struct {
		name    string
		email   string
		finder  finderFunc
		timeout time.Duration
		want    map[string]msgcat.Code
	}{
		{
			name:  "free address",
			email: "new@example.com",
			finder: func(context.Context, string) (bool, error) {
				return false, nil
			},
			want: map[string]msgcat.Code{},
		},
		{
			name:  "taken address",
			email: "taken@example.com",
			finder: func(context.Context, string) (bool, error) {
				return true, nil
			},
			want: map[string]msgcat.Code{"email": msgcat.Duplicate},
		},
		{
			name:  "database failure goes to common",
			email: "x@example.com",
			finder: func(context.Context, string) (bool, error) {
				return false, errDB
			},
			want: map[string]msgcat.Code{errstore.CommonKey: msgcat.Transient},
		},
		{
			name:    "timeout goes to common",
			email:   "slow@example.com",
			timeout: 10 * time.Millisecond,
			finder: func(ctx context.Context, _ string) (bool, error) {
				<-ctx.Done()
				return false, ctx.Err()
			},
			want: map[string]msgcat.Code{errstore.CommonKey: msgcat.Transient},
		},
		{
			name:  "empty email skips lookup",
			email: "",
			finder: func(context.Context, string) (bool, error) {
				panic("must not be called")
			},
			want: map[string]msgcat.Code{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := errstore.New()
			NewDupChecker(tt.finder, tt.timeout).EmailDup(context.Background(), es, "email", tt.email)
			assert.Equal(t, tt.want, es.Snapshot())
		})
	}
}
