package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/formgate/internal/pkg/hash"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/shandysiswandi/formgate/internal/pkg/upload"
)

type PasswordRemindEvent struct {
	Email     string
	AuthKey   string
	ExpiresAt time.Time
}

type PasswordReissuedEvent struct {
	Email    string
	Password string
}

type repoDB interface {
	ExistsActiveEmail(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	CreateUser(ctx context.Context, user entity.NewUser) error
	UpdatePassword(ctx context.Context, email, hash string) error
}

type repoCache interface {
	// Throttle reports false when email was already throttled within window.
	Throttle(ctx context.Context, email string, window time.Duration) (bool, error)
	SaveAuthKey(ctx context.Context, email string, key entity.AuthKey, ttl time.Duration) error
	GetAuthKey(ctx context.Context, email string) (*entity.AuthKey, error)
	DeleteAuthKey(ctx context.Context, email string) error
}

type repoMessaging interface {
	PublishPasswordRemind(ctx context.Context, msg PasswordRemindEvent) error
	PublishPasswordReissued(ctx context.Context, msg PasswordReissuedEvent) error
}

type repoObject interface {
	Replicate(ctx context.Context, file entity.StoredFile) error
}

type uploader interface {
	Ingest(ctx context.Context, es *errstore.Store, key string, f upload.File) upload.Result
}

type emailDupChecker interface {
	EmailDup(ctx context.Context, es *errstore.Store, key, email string)
}

type Usecase struct {
	repoDB        repoDB
	repoCache     repoCache
	repoMessaging repoMessaging
	repoObject    repoObject
	uploader      uploader
	dup           emailDupChecker
	cfg           config.Config
	bcrypt        hash.Hash
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoCache     repoCache
	RepoMessaging repoMessaging
	// RepoObject is nil when object storage replication is disabled.
	RepoObject repoObject
	Uploader   uploader
	DupChecker emailDupChecker
	Config     config.Config
	Bcrypt     hash.Hash
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Goroutine  *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoCache:     dep.RepoCache,
		repoMessaging: dep.RepoMessaging,
		repoObject:    dep.RepoObject,
		uploader:      dep.Uploader,
		dup:           dep.DupChecker,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

// replicate mirrors a stored upload in the background. Failures are logged
// and never reach the uploader.
func (s *Usecase) replicate(ctx context.Context, res upload.Result, size int64) {
	if s.repoObject == nil || !res.Stored() {
		return
	}

	file := entity.StoredFile{
		Path:        res.Path,
		Name:        res.Fingerprint + res.Type.Ext(),
		ContentType: res.Type.MIME(),
		Size:        size,
	}

	err := s.goroutine.Go(context.WithoutCancel(ctx), "replicate-upload", func(ctx context.Context) error {
		if err := s.repoObject.Replicate(ctx, file); err != nil {
			slog.ErrorContext(ctx, "failed to replicate upload", "path", file.Path, "error", err)
		}
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "upload replication not scheduled", "path", file.Path, "error", err)
	}
}
