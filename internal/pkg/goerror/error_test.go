package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
)

func TestError_Constructors(t *testing.T) {
	errDB := errors.New("db down")

	tests := []struct {
		name    string
		err     error
		typ     Type
		code    Code
		status  int
		message string
	}{
		{"server", NewServer(errDB), TypeServer, CodeInternal, http.StatusInternalServerError, "db down"},
		{"business", NewBusiness("email taken", CodeConflict), TypeBusiness, CodeConflict, http.StatusConflict, "email taken"},
		{"format", NewInvalidFormat(), TypeValidation, CodeInvalidFormat, http.StatusBadRequest, "Invalid request body"},
		{"format msg", NewInvalidFormat("bad json"), TypeValidation, CodeInvalidFormat, http.StatusBadRequest, "bad json"},
		{"too large", NewTooLarge(nil), TypeValidation, CodeTooLarge, http.StatusRequestEntityTooLarge, "Request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ge *Error
			require.ErrorAs(t, tt.err, &ge)
			assert.Equal(t, tt.typ, ge.Type())
			assert.Equal(t, tt.code, ge.Code())
			assert.Equal(t, tt.status, ge.StatusCode())
			assert.Equal(t, tt.message, ge.Error())
		})
	}
}

func TestNewInvalidInput_CarriesStore(t *testing.T) {
	es := errstore.New()
	es.Set("email", msgcat.Required)

	err := NewInvalidInput(es)

	var ge *Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusUnprocessableEntity, ge.StatusCode())

	var got *errstore.Store
	require.ErrorAs(t, err, &got)
	assert.Same(t, es, got)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "ERROR_TYPE_UNKNOWN", Type(9).String())
	assert.Equal(t, "ERROR_CODE_INTERNAL", Code(99).String())
	assert.Equal(t, "ERROR_CODE_TOO_LARGE", CodeTooLarge.String())
	assert.Contains(t, NewServer(errors.New("x")).(*Error).String(), "ERROR_TYPE_SERVER")
}
