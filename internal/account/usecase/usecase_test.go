package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/castore"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
	"github.com/shandysiswandi/formgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/formgate/internal/pkg/hash"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/rule"
	"github.com/shandysiswandi/formgate/internal/pkg/upload"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{7}, 32)...)
	testNow   = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	errInfra  = errors.New("connection refused")
	testEmail = "taro@example.com"
)

type fakeDB struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	existsErr error
	createErr error
	getErr    error
	updateErr error
	created   []entity.NewUser
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: map[string]*entity.User{}}
}

func (f *fakeDB) ExistsActiveEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.users[email]
	return ok, nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeDB) CreateUser(_ context.Context, user entity.NewUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, user)
	f.users[user.Email] = &entity.User{ID: user.ID, Email: user.Email, Password: user.Password, Pic: user.Pic}
	return nil
}

func (f *fakeDB) UpdatePassword(_ context.Context, email, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[email]
	if !ok {
		return goerror.ErrNotFound
	}
	u.Password = hash
	return nil
}

type fakeCache struct {
	mu        sync.Mutex
	throttled map[string]bool
	keys      map[string]entity.AuthKey
	ttl       time.Duration
	err       error
}

func newFakeCache() *fakeCache {
	return &fakeCache{throttled: map[string]bool{}, keys: map[string]entity.AuthKey{}}
}

func (f *fakeCache) Throttle(_ context.Context, email string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.throttled[email] {
		return false, nil
	}
	f.throttled[email] = true
	return true, nil
}

func (f *fakeCache) SaveAuthKey(_ context.Context, email string, key entity.AuthKey, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[email] = key
	f.ttl = ttl
	return nil
}

func (f *fakeCache) GetAuthKey(_ context.Context, email string) (*entity.AuthKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k, ok := f.keys[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &k, nil
}

func (f *fakeCache) DeleteAuthKey(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, email)
	return nil
}

type fakeMQ struct {
	mu         sync.Mutex
	reminds    []PasswordRemindEvent
	reissues   []PasswordReissuedEvent
	publishErr error
}

func (f *fakeMQ) PublishPasswordRemind(_ context.Context, msg PasswordRemindEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.reminds = append(f.reminds, msg)
	return nil
}

func (f *fakeMQ) PublishPasswordReissued(_ context.Context, msg PasswordReissuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.reissues = append(f.reissues, msg)
	return nil
}

type fakeObject struct {
	mu    sync.Mutex
	files []entity.StoredFile
}

func (f *fakeObject) Replicate(_ context.Context, file entity.StoredFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, file)
	return nil
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return 1000 + s.n
}

type fixture struct {
	uc     *Usecase
	db     *fakeDB
	cache  *fakeCache
	mq     *fakeMQ
	object *fakeObject
	store  *castore.Store
	gm     *goroutine.Manager
	bcrypt hash.Hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
account:
  remind:
    key_ttl_minutes: 30
    throttle_seconds: 60
`))
	require.NoError(t, err)

	store, err := castore.New(t.TempDir())
	require.NoError(t, err)

	orch, err := upload.New(store, time.Second, instrument.NewNoop())
	require.NoError(t, err)

	f := &fixture{
		db:     newFakeDB(),
		cache:  newFakeCache(),
		mq:     &fakeMQ{},
		object: &fakeObject{},
		store:  store,
		gm:     goroutine.NewManager(4),
		bcrypt: hash.NewBcrypt(bcrypt.MinCost),
	}

	f.uc = New(Dependency{
		RepoDB:        f.db,
		RepoCache:     f.cache,
		RepoMessaging: f.mq,
		RepoObject:    f.object,
		Uploader:      orch,
		DupChecker:    rule.NewDupChecker(f.db, time.Second),
		Config:        cfg,
		Bcrypt:        f.bcrypt,
		UID:           &seqID{},
		Clock:         clock.Fixed(testNow),
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.gm,
	})

	return f
}

func (f *fixture) seedUser(t *testing.T, email, password string) {
	t.Helper()
	hashed, err := f.bcrypt.Hash(password)
	require.NoError(t, err)
	f.db.users[email] = &entity.User{ID: 1, Email: email, Password: hashed}
}

func pngFile() upload.File {
	return upload.File{Status: upload.StatusOK, Content: bytes.NewReader(pngBytes), Name: "me.jpg", Size: int64(len(pngBytes))}
}

// fieldErrors extracts the store carried by an invalid input error.
func fieldErrors(t *testing.T, err error) *errstore.Store {
	t.Helper()
	var es *errstore.Store
	require.ErrorAs(t, err, &es)
	return es
}
