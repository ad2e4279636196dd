// Package castore persists files under names derived from their content.
//
// A stored file lives at <root>/uploads/<sha256 hex><ext>, where ext comes from
// the sniffed type. Bytes are written to a temporary file in the same directory,
// synced, and renamed into place, so the final name never shows a partial file.
package castore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/shandysiswandi/formgate/internal/pkg/sniff"
)

const (
	// DirName is the public directory stored files are served from.
	DirName = "uploads"
	// FileMode is applied to every stored file.
	FileMode fs.FileMode = 0o644
	// DirMode is used when creating the uploads directory.
	DirMode fs.FileMode = 0o755
)

var (
	// ErrUnknownType is returned when asked to address an unsniffed file.
	ErrUnknownType = errors.New("castore: unknown content type")
	// ErrInvalidName is returned for names that are not content addresses.
	ErrInvalidName = errors.New("castore: invalid stored file name")
)

var namePattern = regexp.MustCompile(`^[0-9a-f]{64}\.(gif|jpg|png)$`)

// Address identifies where a file's bytes are stored.
type Address struct {
	// Fingerprint is the lowercase hex SHA-256 of the content.
	Fingerprint string
	// Type is the sniffed type the extension is derived from.
	Type sniff.Type
}

// Name returns the stored file name.
func (a Address) Name() string {
	return a.Fingerprint + a.Type.Ext()
}

// Path returns the public path, e.g. uploads/<fingerprint>.png.
func (a Address) Path() string {
	return path.Join(DirName, a.Name())
}

// Store is a content-addressed file store. It exclusively owns its directory.
type Store struct {
	dir    string
	rename func(oldpath, newpath string) error
	chmod  func(name string, mode fs.FileMode) error
}

// New creates the uploads directory below root if needed.
func New(root string) (*Store, error) {
	dir := filepath.Join(root, DirName)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return nil, &fs.PathError{Op: "mkdir", Path: dir, Err: err}
	}

	return &Store{
		dir:    dir,
		rename: os.Rename,
		chmod:  os.Chmod,
	}, nil
}

// Dir returns the directory holding stored files.
func (s *Store) Dir() string {
	return s.dir
}

// Address hashes everything r yields.
func (s *Store) Address(r io.Reader, t sniff.Type) (Address, error) {
	if t == sniff.Unknown {
		return Address{}, ErrUnknownType
	}

	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return Address{}, err
	}

	return Address{Fingerprint: hex.EncodeToString(h.Sum(nil)), Type: t}, nil
}

// Persist writes r under addr. When a file with the same name already exists its
// content is identical by construction, and Persist returns created=false without
// writing. On any failure no file is left under the final name.
func (s *Store) Persist(ctx context.Context, r io.Reader, addr Address) (created bool, err error) {
	if !namePattern.MatchString(addr.Name()) {
		return false, ErrInvalidName
	}

	final := filepath.Join(s.dir, addr.Name())
	if _, err := os.Stat(final); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, &fs.PathError{Op: "stat", Path: final, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return false, &fs.PathError{Op: "create", Path: s.dir, Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(op string, err error) (bool, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return false, &fs.PathError{Op: op, Path: tmpPath, Err: err}
	}

	if _, err := io.Copy(tmp, readerWithCtx(ctx, r)); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return false, &fs.PathError{Op: "close", Path: tmpPath, Err: err}
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpPath)
		return false, err
	}
	if err := s.rename(tmpPath, final); err != nil {
		_ = os.Remove(tmpPath)
		return false, &fs.PathError{Op: "rename", Path: final, Err: err}
	}

	//nolint:errcheck // best effort, the rename already happened
	_ = syncDir(s.dir)

	return true, nil
}

// Permission sets FileMode on a persisted file. If it fails and the file was
// created by this request, the file is removed again.
func (s *Store) Permission(addr Address, created bool) error {
	final := filepath.Join(s.dir, addr.Name())
	if err := s.chmod(final, FileMode); err != nil {
		if created {
			_ = os.Remove(final)
		}
		return &fs.PathError{Op: "chmod", Path: final, Err: err}
	}
	return nil
}

// Put addresses, persists and permissions the content of r in one call.
func (s *Store) Put(ctx context.Context, r io.ReadSeeker, t sniff.Type) (Address, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Address{}, err
	}
	addr, err := s.Address(r, t)
	if err != nil {
		return Address{}, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Address{}, err
	}
	created, err := s.Persist(ctx, r, addr)
	if err != nil {
		return Address{}, err
	}

	if err := s.Permission(addr, created); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// Open opens a stored file by its public path or bare name.
func (s *Store) Open(publicPath string) (*os.File, error) {
	name := path.Base(publicPath)
	if !namePattern.MatchString(name) {
		return nil, ErrInvalidName
	}
	return os.Open(filepath.Join(s.dir, name))
}

func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
