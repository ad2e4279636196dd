package rule

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
)

// DefaultLookupTimeout bounds the uniqueness query when none is configured.
const DefaultLookupTimeout = 3 * time.Second

// UserFinder reports whether a non-deleted user already owns email.
type UserFinder interface {
	ExistsActiveEmail(ctx context.Context, email string) (bool, error)
}

// DupChecker runs the email uniqueness rule against persisted users.
type DupChecker struct {
	finder  UserFinder
	timeout time.Duration
}

// NewDupChecker returns a checker whose lookups are bounded by timeout.
func NewDupChecker(finder UserFinder, timeout time.Duration) *DupChecker {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &DupChecker{finder: finder, timeout: timeout}
}

// EmailDup writes Duplicate under key when the address is taken. A failed or
// timed out lookup writes Transient under errstore.CommonKey.
func (d *DupChecker) EmailDup(ctx context.Context, es *errstore.Store, key, email string) {
	if email == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	found, err := d.finder.ExistsActiveEmail(ctx, email)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to check email uniqueness", "key", key, "error", err)
		es.Set(errstore.CommonKey, msgcat.Transient)
		return
	}

	if found {
		es.Set(key, msgcat.Duplicate)
	}
}
