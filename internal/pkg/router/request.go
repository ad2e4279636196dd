package router

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
	"github.com/shandysiswandi/formgate/internal/pkg/upload"
)

// DefaultMaxMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files owned by net/http.
const DefaultMaxMemory int64 = 32 << 20

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	*http.Request

	formTooLarge bool
}

// GetParam reads a path parameter stored by httprouter.
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// DecodeBody decodes a single JSON document into dst.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}

// ParseForm parses a urlencoded or multipart body of at most maxBytes. A body
// over the limit is not an error: every field reads as empty and FormFile
// reports upload.StatusFormTooLarge, so field checks still run.
func (r *Request) ParseForm(maxBytes int64) error {
	if maxBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	}

	err := r.ParseMultipartForm(DefaultMaxMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		r.formTooLarge = true
		r.cleanup()
		r.Form = map[string][]string{}
		r.PostForm = map[string][]string{}
		r.MultipartForm = nil
		return nil
	}

	return goerror.NewInvalidFormat()
}

// FormTooLarge reports whether ParseForm hit its limit.
func (r *Request) FormTooLarge() bool {
	return r.formTooLarge
}

// Field returns the posted value of name. Only the body is consulted, never
// the query string.
func (r *Request) Field(name string) string {
	if r.PostForm == nil {
		return ""
	}
	return r.PostForm.Get(name)
}

// FormFile maps the multipart file under name to an upload.File. The returned
// func closes the file and is never nil.
func (r *Request) FormFile(name string, maxFileBytes int64) (upload.File, func()) {
	noop := func() {}

	if r.formTooLarge {
		return upload.File{Status: upload.StatusFormTooLarge}, noop
	}

	f, fh, err := r.Request.FormFile(name)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return upload.File{Status: upload.StatusNoFile}, noop
	case err != nil:
		slog.WarnContext(r.Context(), "failed to open uploaded file", "field", name, "error", err)
		return upload.File{Status: upload.StatusFailed}, noop
	}

	closeFn := func() {
		if err := f.Close(); err != nil {
			slog.WarnContext(r.Context(), "failed to close uploaded file", "field", name, "error", err)
		}
	}

	if maxFileBytes > 0 && fh.Size > maxFileBytes {
		closeFn()
		return upload.File{Status: upload.StatusTooLarge, Name: fh.Filename, Size: fh.Size}, noop
	}

	return upload.File{
		Status:  upload.StatusOK,
		Content: f,
		Name:    fh.Filename,
		Size:    fh.Size,
	}, closeFn
}

// HasFile reports whether the multipart body carries a file under name.
func (r *Request) HasFile(name string) bool {
	if r.formTooLarge {
		return true
	}
	return r.MultipartForm != nil && len(r.MultipartForm.File[name]) > 0
}

func (r *Request) cleanup() {
	if r.MultipartForm == nil {
		return
	}
	if err := r.MultipartForm.RemoveAll(); err != nil {
		slog.WarnContext(r.Context(), "failed to remove multipart temp files", "error", err)
	}
}
