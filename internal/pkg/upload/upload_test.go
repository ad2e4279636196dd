package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shandysiswandi/formgate/internal/pkg/castore"
	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/instrument"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
	"github.com/shandysiswandi/formgate/internal/pkg/sniff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, []byte("IHDR-data")...)

func newOrchestrator(t *testing.T, store Store) *Orchestrator {
	t.Helper()
	o, err := New(store, time.Second, instrument.NewNoop())
	require.NoError(t, err)
	return o
}

func newDiskStore(t *testing.T) *castore.Store {
	t.Helper()
	s, err := castore.New(t.TempDir())
	require.NoError(t, err)
	return s
}

func files(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

// failingStore delegates to a real store but fails at a chosen step.
type failingStore struct {
	*castore.Store
	persistErr    error
	permissionErr error
}

func (f *failingStore) Persist(ctx context.Context, r io.Reader, addr castore.Address) (bool, error) {
	if f.persistErr != nil {
		return false, f.persistErr
	}
	return f.Store.Persist(ctx, r, addr)
}

func (f *failingStore) Permission(addr castore.Address, created bool) error {
	if f.permissionErr != nil {
		if created {
			_ = os.Remove(filepath.Join(f.Dir(), addr.Name()))
		}
		return f.permissionErr
	}
	return f.Store.Permission(addr, created)
}

type slowStore struct {
	*castore.Store
}

func (s *slowStore) Persist(ctx context.Context, _ io.Reader, _ castore.Address) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func TestOrchestrator_Ingest_SniffedTypeWins(t *testing.T) {
	disk := newDiskStore(t)
	o := newOrchestrator(t, disk)
	es := errstore.New()

	res := o.Ingest(context.Background(), es, "pic", File{
		Status:  StatusOK,
		Content: bytes.NewReader(pngBytes),
		Name:    "holiday.jpg",
		Size:    int64(len(pngBytes)),
	})

	require.True(t, res.Stored())
	assert.True(t, es.Empty())
	assert.Equal(t, sniff.PNG, res.Type)
	assert.Equal(t, "uploads/"+res.Fingerprint+".png", res.Path)
	assert.Equal(t, []string{res.Fingerprint + ".png"}, files(t, disk.Dir()))
}

func TestOrchestrator_Ingest_Idempotent(t *testing.T) {
	disk := newDiskStore(t)
	o := newOrchestrator(t, disk)

	first := o.Ingest(context.Background(), errstore.New(), "pic", File{Status: StatusOK, Content: bytes.NewReader(pngBytes)})
	es := errstore.New()
	second := o.Ingest(context.Background(), es, "pic", File{Status: StatusOK, Content: bytes.NewReader(pngBytes)})

	require.True(t, first.Stored())
	require.True(t, second.Stored())
	assert.True(t, es.Empty())
	assert.Equal(t, first.Path, second.Path)
	assert.Len(t, files(t, disk.Dir()), 1)
}

func TestOrchestrator_Ingest_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		file     File
		wantCode msgcat.Code
		wantLast State
	}{
		{
			name:     "no file",
			file:     File{Status: StatusNoFile},
			wantCode: msgcat.UploadNoFile,
			wantLast: StateReceived,
		},
		{
			name:     "too large",
			file:     File{Status: StatusTooLarge},
			wantCode: msgcat.UploadTooLarge,
			wantLast: StateReceived,
		},
		{
			name:     "form too large",
			file:     File{Status: StatusFormTooLarge},
			wantCode: msgcat.UploadTooLarge,
			wantLast: StateReceived,
		},
		{
			name:     "partial transfer",
			file:     File{Status: StatusPartial},
			wantCode: msgcat.Transient,
			wantLast: StateReceived,
		},
		{
			name:     "script named as image",
			file:     File{Status: StatusOK, Name: "shell.png", Content: bytes.NewReader([]byte("<?php system($_GET['c']); ?>"))},
			wantCode: msgcat.UploadUnrecognized,
			wantLast: StateErrorChecked,
		},
		{
			name:     "empty content",
			file:     File{Status: StatusOK, Name: "empty.gif", Content: bytes.NewReader(nil)},
			wantCode: msgcat.UploadUnrecognized,
			wantLast: StateErrorChecked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disk := newDiskStore(t)
			o := newOrchestrator(t, disk)
			es := errstore.New()

			res := o.Ingest(context.Background(), es, "pic", tt.file)

			assert.False(t, res.Stored())
			assert.Equal(t, StateRejected, res.State)
			assert.Equal(t, tt.wantLast, res.Last)
			assert.Empty(t, res.Path)
			assert.Equal(t, map[string]msgcat.Code{"pic": tt.wantCode}, es.Snapshot())
			assert.Empty(t, files(t, disk.Dir()))
		})
	}
}

func TestOrchestrator_Ingest_StorageFailureLeavesNothing(t *testing.T) {
	tests := []struct {
		name  string
		store func(*castore.Store) Store
		last  State
	}{
		{
			name: "persist fails",
			store: func(s *castore.Store) Store {
				return &failingStore{Store: s, persistErr: errors.New("read-only file system")}
			},
			last: StateAddressed,
		},
		{
			name: "permission fails",
			store: func(s *castore.Store) Store {
				return &failingStore{Store: s, permissionErr: errors.New("operation not permitted")}
			},
			last: StatePersisted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disk := newDiskStore(t)
			o := newOrchestrator(t, tt.store(disk))
			es := errstore.New()

			res := o.Ingest(context.Background(), es, "pic", File{Status: StatusOK, Content: bytes.NewReader(pngBytes)})

			assert.False(t, res.Stored())
			assert.Equal(t, tt.last, res.Last)
			assert.Equal(t, 1, es.Len())
			assert.Equal(t, map[string]msgcat.Code{"pic": msgcat.UploadStorage}, es.Snapshot())
			assert.Empty(t, files(t, disk.Dir()))
		})
	}
}

func TestOrchestrator_Ingest_MoveTimeout(t *testing.T) {
	disk := newDiskStore(t)
	o, err := New(&slowStore{Store: disk}, 10*time.Millisecond, nil)
	require.NoError(t, err)
	es := errstore.New()

	res := o.Ingest(context.Background(), es, "pic", File{Status: StatusOK, Content: bytes.NewReader(pngBytes)})

	assert.False(t, res.Stored())
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Equal(t, map[string]msgcat.Code{"pic": msgcat.Transient}, es.Snapshot())
	assert.Empty(t, files(t, disk.Dir()))
}

func TestStatusAndState_String(t *testing.T) {
	assert.Equal(t, "no_file", StatusNoFile.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "type_sniffed", StateTypeSniffed.String())
	assert.Equal(t, "rejected", StateRejected.String())
}
