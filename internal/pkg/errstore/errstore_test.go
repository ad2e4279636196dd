package errstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
	"github.com/stretchr/testify/assert"
)

func TestStore_LastWriteWins(t *testing.T) {
	s := New()
	assert.True(t, s.Empty())

	s.Set("pass", msgcat.NotHalfWidth)
	s.Set("pass", msgcat.TooShort)

	code, ok := s.Get("pass")
	assert.True(t, ok)
	assert.Equal(t, msgcat.TooShort, code)
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Has("email"))
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := New()
	s.Set("email", msgcat.Required)

	snap := s.Snapshot()
	snap["email"] = msgcat.Duplicate
	snap["other"] = msgcat.TooLong

	code, _ := s.Get("email")
	assert.Equal(t, msgcat.Required, code)
	assert.Equal(t, 1, s.Len())
}

func TestStore_KeysAndError(t *testing.T) {
	s := New()
	assert.Equal(t, "errstore: no errors", s.Error())

	s.Set("pass", msgcat.TooShort)
	s.Set("email", msgcat.InvalidEmail)

	assert.Equal(t, []string{"email", "pass"}, s.Keys())
	assert.Equal(t, "errstore: email=invalid_email, pass=too_short", s.Error())
}

func TestStore_ConcurrentWrites(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			s.Set(fmt.Sprintf("field_%d", i%10), msgcat.Required)
			_ = s.Snapshot()
		})
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
}
