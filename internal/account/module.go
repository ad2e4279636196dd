package account

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shandysiswandi/formgate/internal/account/inbound"
	"github.com/shandysiswandi/formgate/internal/account/outbound/cache"
	"github.com/shandysiswandi/formgate/internal/account/outbound/db"
	"github.com/shandysiswandi/formgate/internal/account/outbound/mq"
	"github.com/shandysiswandi/formgate/internal/account/outbound/objectstore"
	"github.com/shandysiswandi/formgate/internal/account/usecase"
	"github.com/shandysiswandi/formgate/internal/pkg/castore"
	"github.com/shandysiswandi/formgate/internal/pkg/clock"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/formgate/internal/pkg/hash"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/messaging"
	"github.com/shandysiswandi/formgate/internal/pkg/router"
	"github.com/shandysiswandi/formgate/internal/pkg/rule"
	"github.com/shandysiswandi/formgate/internal/pkg/storage"
	"github.com/shandysiswandi/formgate/internal/pkg/uid"
	"github.com/shandysiswandi/formgate/internal/pkg/upload"
	"github.com/shandysiswandi/formgate/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Files      *castore.Store             `validate:"required"`
	Uploader   *upload.Orchestrator       `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	// Storage is nil when replication to object storage is disabled.
	Storage storage.Storage
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoCache := cache.NewCache(dep.CacheConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	ucDep := usecase.Dependency{
		RepoDB:        repoDB,
		RepoCache:     repoCache,
		RepoMessaging: repoMsg,
		Uploader:      dep.Uploader,
		DupChecker:    rule.NewDupChecker(repoDB, dep.Config.GetSecond("validation.lookup_timeout_seconds")),
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	}
	if dep.Storage != nil {
		ucDep.RepoObject = objectstore.NewObjectStore(dep.Storage, dep.Files, dep.Config, dep.Instrument)
	}

	inbound.RegisterHTTPEndpoint(dep.Router, usecase.New(ucDep), dep.Files, dep.Config)

	return nil
}
