// Package errstore holds the per-request mapping from field key to message code.
//
// A Store is created empty at the start of one request, written by validators and
// the upload pipeline, and read once by the presentation layer. It is never shared
// between requests.
package errstore

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
)

// CommonKey records failures that do not belong to a single field.
const CommonKey = "common"

// Store is safe for concurrent use. Last write for a key wins.
type Store struct {
	mu   sync.RWMutex
	errs map[string]msgcat.Code
}

// New returns an empty Store.
func New() *Store {
	return &Store{errs: make(map[string]msgcat.Code)}
}

// Set records code under key, replacing any earlier code for that key.
func (s *Store) Set(key string, code msgcat.Code) {
	s.mu.Lock()
	s.errs[key] = code
	s.mu.Unlock()
}

// Get returns the code recorded under key.
func (s *Store) Get(key string) (msgcat.Code, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code, ok := s.errs[key]
	return code, ok
}

// Has reports whether key currently has an error.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Len returns the number of keys with an error.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.errs)
}

// Empty reports whether no error has been recorded.
func (s *Store) Empty() bool {
	return s.Len() == 0
}

// Keys returns the keys with an error in lexical order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := lo.Keys(s.errs)
	s.mu.RUnlock()

	slices.Sort(keys)
	return keys
}

// Snapshot returns a copy of the recorded codes.
func (s *Store) Snapshot() map[string]msgcat.Code {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.errs)
}

// Error implements error so a non-empty Store can be carried through goerror.
func (s *Store) Error() string {
	keys := s.Keys()
	if len(keys) == 0 {
		return "errstore: no errors"
	}

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		code, _ := s.Get(key)
		parts = append(parts, key+"="+code.String())
	}
	return "errstore: " + strings.Join(parts, ", ")
}
