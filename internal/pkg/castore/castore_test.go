package castore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/shandysiswandi/formgate/internal/pkg/sniff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHead = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func pngContent(tail string) []byte {
	return append(append([]byte{}, pngHead...), tail...)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStore_Address(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	content := pngContent("body")
	sum := sha256.Sum256(content)

	addr, err := s.Address(bytes.NewReader(content), sniff.PNG)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), addr.Fingerprint)
	assert.Equal(t, "uploads/"+hex.EncodeToString(sum[:])+".png", addr.Path())

	_, err = s.Address(bytes.NewReader(content), sniff.Unknown)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestStore_Put(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	content := pngContent("picture")
	addr, err := s.Put(context.Background(), bytes.NewReader(content), sniff.PNG)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(s.Dir(), addr.Name()))
	require.NoError(t, err)
	assert.Equal(t, content, got)

	info, err := os.Stat(filepath.Join(s.Dir(), addr.Name()))
	require.NoError(t, err)
	assert.Equal(t, FileMode, info.Mode().Perm())
	assert.Equal(t, []string{addr.Name()}, listDir(t, s.Dir()))
}

func TestStore_Persist_Idempotent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	content := pngContent("same")
	addr, err := s.Address(bytes.NewReader(content), sniff.PNG)
	require.NoError(t, err)

	created, err := s.Persist(context.Background(), bytes.NewReader(content), addr)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.Persist(context.Background(), bytes.NewReader(content), addr)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Len(t, listDir(t, s.Dir()), 1)
}

func TestStore_Persist_CanceledLeavesNothing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	content := pngContent("cancel")
	addr, err := s.Address(bytes.NewReader(content), sniff.PNG)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	created, err := s.Persist(ctx, bytes.NewReader(content), addr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, created)
	assert.Empty(t, listDir(t, s.Dir()))
}

func TestStore_Persist_RenameFailure(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	s.rename = func(string, string) error { return errors.New("disk full") }

	content := pngContent("rename")
	addr, err := s.Address(bytes.NewReader(content), sniff.PNG)
	require.NoError(t, err)

	_, err = s.Persist(context.Background(), bytes.NewReader(content), addr)
	var pe *fs.PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "rename", pe.Op)
	assert.Empty(t, listDir(t, s.Dir()))
}

func TestStore_Permission(t *testing.T) {
	errChmod := errors.New("operation not permitted")

	tests := []struct {
		name      string
		created   bool
		wantFiles int
	}{
		{name: "created by this call is removed", created: true, wantFiles: 0},
		{name: "pre-existing file is kept", created: false, wantFiles: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(t.TempDir())
			require.NoError(t, err)

			content := pngContent(tt.name)
			addr, err := s.Address(bytes.NewReader(content), sniff.PNG)
			require.NoError(t, err)
			_, err = s.Persist(context.Background(), bytes.NewReader(content), addr)
			require.NoError(t, err)

			s.chmod = func(string, fs.FileMode) error { return errChmod }
			err = s.Permission(addr, tt.created)
			assert.ErrorIs(t, err, errChmod)
			assert.Len(t, listDir(t, s.Dir()), tt.wantFiles)
		})
	}
}

func TestStore_Open(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	addr, err := s.Put(context.Background(), bytes.NewReader(pngContent("open")), sniff.PNG)
	require.NoError(t, err)

	f, err := s.Open(addr.Path())
	require.NoError(t, err)
	_ = f.Close()

	for _, bad := range []string{"../etc/passwd", "uploads/abc.png", "uploads/" + addr.Fingerprint + ".php"} {
		_, err := s.Open(bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}
