package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
	"github.com/shandysiswandi/formgate/internal/pkg/upload"
)

func TestSignup_FieldErrors(t *testing.T) {
	tests := []struct {
		name string
		in   SignupInput
		seed bool
		want map[string]msgcat.Code
	}{
		{
			name: "all empty",
			in:   SignupInput{Pic: upload.File{Status: upload.StatusNoFile}},
			want: map[string]msgcat.Code{"email": msgcat.Required, "pass": msgcat.Required, "pass_re": msgcat.Required},
		},
		{
			name: "bad email and short passwords",
			in:   SignupInput{Email: "taro", Pass: "ab1", PassRe: "ab1", Pic: upload.File{Status: upload.StatusNoFile}},
			want: map[string]msgcat.Code{"email": msgcat.InvalidEmail, "pass": msgcat.TooShort, "pass_re": msgcat.TooShort},
		},
		{
			name: "symbols in password",
			in:   SignupInput{Email: testEmail, Pass: "Passw0rd!", PassRe: "Passw0rd!", Pic: upload.File{Status: upload.StatusNoFile}},
			want: map[string]msgcat.Code{"pass": msgcat.NotHalfWidth},
		},
		{
			name: "mismatch",
			in:   SignupInput{Email: testEmail, Pass: "Passw0rd", PassRe: "Passw0rx", Pic: upload.File{Status: upload.StatusNoFile}},
			want: map[string]msgcat.Code{"pass_re": msgcat.Mismatch},
		},
		{
			name: "duplicate email",
			in:   SignupInput{Email: testEmail, Pass: "Passw0rd", PassRe: "Passw0rd", Pic: upload.File{Status: upload.StatusNoFile}},
			seed: true,
			want: map[string]msgcat.Code{"email": msgcat.Duplicate},
		},
		{
			name: "rejected upload reported alongside field errors",
			in:   SignupInput{Email: "", Pass: "Passw0rd", PassRe: "Passw0rd", Pic: upload.File{Status: upload.StatusFormTooLarge}},
			want: map[string]msgcat.Code{"email": msgcat.Required, "pic": msgcat.UploadTooLarge},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.seed {
				f.seedUser(t, testEmail, "Passw0rd")
			}

			out, err := f.uc.Signup(context.Background(), tt.in)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, tt.want, fieldErrors(t, err).Snapshot())
			assert.Empty(t, f.db.created)
		})
	}
}

func TestSignup_Success(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Signup(context.Background(), SignupInput{
		Email:  testEmail,
		Pass:   "Passw0rd",
		PassRe: "Passw0rd",
		Pic:    pngFile(),
	})
	require.NoError(t, err)
	require.NoError(t, f.gm.Wait())

	assert.Equal(t, int64(1001), out.ID)
	assert.Equal(t, testEmail, out.Email)
	assert.Regexp(t, `^uploads/[0-9a-f]{64}\.png$`, out.Pic)
	assert.FileExists(t, filepath.Join(f.store.Dir(), filepath.Base(out.Pic)))

	require.Len(t, f.db.created, 1)
	assert.True(t, f.bcrypt.Verify(f.db.created[0].Password, "Passw0rd"))
	assert.Equal(t, out.Pic, f.db.created[0].Pic)

	require.Len(t, f.object.files, 1)
	assert.Equal(t, "image/png", f.object.files[0].ContentType)
	assert.Equal(t, filepath.Base(out.Pic), f.object.files[0].Name)
}

func TestSignup_InvalidFormLeavesNoUpload(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Signup(context.Background(), SignupInput{
		Email:  "taro",
		Pass:   "Passw0rd",
		PassRe: "Passw0rd",
		Pic:    pngFile(),
	})
	require.Error(t, err)

	entries, err := os.ReadDir(f.store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSignup_Infrastructure(t *testing.T) {
	t.Run("lookup failure is transient", func(t *testing.T) {
		f := newFixture(t)
		f.db.existsErr = errInfra

		_, err := f.uc.Signup(context.Background(), SignupInput{Email: testEmail, Pass: "Passw0rd", PassRe: "Passw0rd"})
		es := fieldErrors(t, err)
		code, ok := es.Get(errstore.CommonKey)
		require.True(t, ok)
		assert.Equal(t, msgcat.Transient, code)
	})

	t.Run("insert race maps to duplicate", func(t *testing.T) {
		f := newFixture(t)
		f.db.createErr = goerror.ErrConflict

		_, err := f.uc.Signup(context.Background(), SignupInput{Email: testEmail, Pass: "Passw0rd", PassRe: "Passw0rd"})
		assert.Equal(t, map[string]msgcat.Code{"email": msgcat.Duplicate}, fieldErrors(t, err).Snapshot())
	})

	t.Run("insert failure is transient", func(t *testing.T) {
		f := newFixture(t)
		f.db.createErr = errInfra

		_, err := f.uc.Signup(context.Background(), SignupInput{Email: testEmail, Pass: "Passw0rd", PassRe: "Passw0rd"})
		assert.Equal(t, map[string]msgcat.Code{"common": msgcat.Transient}, fieldErrors(t, err).Snapshot())
	})
}
