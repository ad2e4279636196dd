package objectstore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/storage"
)

const maxRetries = 3

type fileOpener interface {
	Open(publicPath string) (*os.File, error)
}

// ObjectStore mirrors uploads from the local content-addressed store into a
// bucket.
type ObjectStore struct {
	client  storage.Storage
	files   fileOpener
	cfg     config.Config
	ins     instrument.Instrumentation
	backoff time.Duration
}

func NewObjectStore(client storage.Storage, files fileOpener, cfg config.Config, ins instrument.Instrumentation) *ObjectStore {
	return &ObjectStore{
		client:  client,
		files:   files,
		cfg:     cfg,
		ins:     ins,
		backoff: 200 * time.Millisecond,
	}
}

func (o *ObjectStore) key(file entity.StoredFile) string {
	return path.Join(o.cfg.GetString("storage.prefix"), file.Name)
}

// Replicate uploads file unless the bucket already holds an object with the
// same content-derived key.
func (o *ObjectStore) Replicate(ctx context.Context, file entity.StoredFile) (err error) {
	ctx, span := o.ins.Tracer("account.outbound.objectstore").Start(ctx, "Replicate")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	bucket := o.cfg.GetString("storage.bucket")
	key := o.key(file)

	_, err = o.client.StatObject(ctx, bucket, key)
	if err == nil {
		slog.DebugContext(ctx, "upload already replicated", "bucket", bucket, "key", key)
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "failed to stat replicated upload", "bucket", bucket, "key", key, "error", err)
	}

	b := retry.NewExponential(o.backoff)
	b = retry.WithMaxRetries(maxRetries, b)

	err = retry.Do(ctx, b, func(ctx context.Context) error {
		f, err := o.files.Open(file.Path)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := o.client.PutObject(ctx, bucket, key, f, storage.PutOptions{
			Size:        file.Size,
			ContentType: file.ContentType,
		}); err != nil {
			slog.WarnContext(ctx, "failed to put upload, retrying", "bucket", bucket, "key", key, "error", err)
			return retry.RetryableError(err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "upload replicated", "bucket", bucket, "key", key, "size", file.Size)
	return nil
}
