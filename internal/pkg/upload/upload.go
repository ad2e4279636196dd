// Package upload ingests untrusted uploaded files into the content-addressed
// store. Failures are recorded in the request's error store under the upload's
// field key and never returned to the caller as errors.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/shandysiswandi/formgate/internal/pkg/castore"
	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
	"github.com/shandysiswandi/formgate/internal/pkg/sniff"
)

// DefaultMoveTimeout bounds persisting one file when no timeout is configured.
const DefaultMoveTimeout = 10 * time.Second

// Status is the transport-level outcome of receiving a file.
type Status uint8

const (
	StatusOK Status = iota
	StatusNoFile
	StatusTooLarge
	StatusFormTooLarge
	StatusPartial
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoFile:
		return "no_file"
	case StatusTooLarge:
		return "too_large"
	case StatusFormTooLarge:
		return "form_too_large"
	case StatusPartial:
		return "partial"
	default:
		return "failed"
	}
}

// File is an uploaded file handed over by the transport layer. Content is the
// transport's temporary copy and is only read.
type File struct {
	Status  Status
	Content io.ReadSeeker
	// Name is the client supplied file name, used for logging only.
	Name string
	Size int64
}

// State is a step of the ingestion pipeline.
type State uint8

const (
	StateReceived State = iota
	StateErrorChecked
	StateTypeSniffed
	StateAddressed
	StatePersisted
	StatePermissioned
	StateDone
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateErrorChecked:
		return "error_checked"
	case StateTypeSniffed:
		return "type_sniffed"
	case StateAddressed:
		return "addressed"
	case StatePersisted:
		return "persisted"
	case StatePermissioned:
		return "permissioned"
	case StateDone:
		return "done"
	default:
		return "rejected"
	}
}

// Result describes how an ingestion ended.
type Result struct {
	// State is StateDone or StateRejected.
	State State
	// Last is the last state reached before a rejection.
	Last        State
	Path        string
	Type        sniff.Type
	Fingerprint string
	// Code is the code written to the error store on rejection.
	Code msgcat.Code
	// Err is the underlying cause, for logging.
	Err error
}

// Stored reports whether the file was fully persisted.
func (r Result) Stored() bool {
	return r.State == StateDone
}

// Store is the subset of the content-addressed store the orchestrator drives.
type Store interface {
	Address(r io.Reader, t sniff.Type) (castore.Address, error)
	Persist(ctx context.Context, r io.Reader, addr castore.Address) (bool, error)
	Permission(addr castore.Address, created bool) error
}

// Orchestrator sequences error checking, sniffing, addressing, persistence and
// permissioning.
type Orchestrator struct {
	store       Store
	moveTimeout time.Duration
	outcomes    metric.Int64Counter
}

// New creates an orchestrator. A non-positive moveTimeout uses DefaultMoveTimeout.
func New(store Store, moveTimeout time.Duration, ins instrument.Instrumentation) (*Orchestrator, error) {
	if moveTimeout <= 0 {
		moveTimeout = DefaultMoveTimeout
	}
	if ins == nil {
		ins = instrument.NewNoop()
	}

	outcomes, err := ins.Meter("formgate/upload").Int64Counter(
		"upload.ingest.outcomes",
		metric.WithDescription("Upload ingestion results by terminal state and reason"),
	)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{store: store, moveTimeout: moveTimeout, outcomes: outcomes}, nil
}

// Ingest runs f through the pipeline. On rejection exactly one code is written
// to es under key and the returned Result has no path.
func (o *Orchestrator) Ingest(ctx context.Context, es *errstore.Store, key string, f File) Result {
	var (
		state   = StateReceived
		typ     sniff.Type
		addr    castore.Address
		created bool
	)

	reject := func(code msgcat.Code, err error) Result {
		es.Set(key, code)
		o.record(ctx, StateRejected, code)
		if err != nil {
			slog.WarnContext(ctx, "upload rejected",
				"field", key,
				"file_name", f.Name,
				"state", state.String(),
				"reason", code.String(),
				"error", err,
			)
		}
		return Result{State: StateRejected, Last: state, Code: code, Err: err}
	}

	for {
		switch state {
		case StateReceived:
			switch f.Status {
			case StatusOK:
			case StatusNoFile:
				return reject(msgcat.UploadNoFile, nil)
			case StatusTooLarge, StatusFormTooLarge:
				return reject(msgcat.UploadTooLarge, nil)
			default:
				return reject(msgcat.Transient, errors.New("upload: transport status "+f.Status.String()))
			}
			if f.Content == nil {
				return reject(msgcat.UploadNoFile, nil)
			}
			state = StateErrorChecked

		case StateErrorChecked:
			if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
				return reject(msgcat.Transient, err)
			}
			t, err := sniff.Reader(f.Content)
			if err != nil {
				return reject(msgcat.Transient, err)
			}
			if t == sniff.Unknown {
				return reject(msgcat.UploadUnrecognized, nil)
			}
			typ = t
			state = StateTypeSniffed

		case StateTypeSniffed:
			if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
				return reject(msgcat.Transient, err)
			}
			a, err := o.store.Address(f.Content, typ)
			if err != nil {
				return reject(msgcat.Transient, err)
			}
			addr = a
			state = StateAddressed

		case StateAddressed:
			if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
				return reject(msgcat.Transient, err)
			}
			var err error
			created, err = o.persist(ctx, f.Content, addr)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return reject(msgcat.Transient, err)
				}
				return reject(msgcat.UploadStorage, err)
			}
			state = StatePersisted

		case StatePersisted:
			if err := o.store.Permission(addr, created); err != nil {
				return reject(msgcat.UploadStorage, err)
			}
			state = StatePermissioned

		case StatePermissioned:
			state = StateDone

		case StateDone:
			o.record(ctx, StateDone, msgcat.CodeUnknown)
			return Result{
				State:       StateDone,
				Last:        StatePermissioned,
				Path:        addr.Path(),
				Type:        typ,
				Fingerprint: addr.Fingerprint,
			}

		default:
			return reject(msgcat.Transient, errors.New("upload: unexpected state "+state.String()))
		}
	}
}

func (o *Orchestrator) persist(ctx context.Context, r io.Reader, addr castore.Address) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, o.moveTimeout)
	defer cancel()

	return o.store.Persist(ctx, r, addr)
}

func (o *Orchestrator) record(ctx context.Context, state State, code msgcat.Code) {
	attrs := []attribute.KeyValue{attribute.String("state", state.String())}
	if state == StateRejected {
		attrs = append(attrs, attribute.String("reason", code.String()))
	}
	o.outcomes.Add(ctx, 1, metric.WithAttributes(attrs...))
}
