package inbound

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/account/usecase"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/router"
)

// HTTPEndpoint exposes the account form handlers.
type HTTPEndpoint struct {
	uc    uc
	files fileOpener
	cfg   config.Config
}

func (h *HTTPEndpoint) parseForm(r *router.Request) error {
	return r.ParseForm(h.cfg.GetInt64("upload.form_max_bytes"))
}

// Signup registers an account from a form with an optional picture.
// @Summary Sign up
// @Description Validates email, pass and pass_re, optionally stores pic, and creates the account.
// @Tags Account
// @Accept multipart/form-data
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param pass formData string true "Password"
// @Param pass_re formData string true "Password confirmation"
// @Param pic formData file false "Profile picture (gif, jpeg, png)"
// @Success 201 {object} router.successResponse{data=SignupResponse} "Created account"
// @Failure 400 {object} router.errorResponse "Malformed form"
// @Failure 422 {object} router.errorResponse "Field errors"
// @Router /api/v1/account/signup [post]
func (h *HTTPEndpoint) Signup(r *router.Request) (any, error) {
	if err := h.parseForm(r); err != nil {
		return nil, err
	}

	pic, closePic := r.FormFile(entity.FieldPic, h.cfg.GetInt64("upload.max_bytes"))
	defer closePic()

	resp, err := h.uc.Signup(r.Context(), usecase.SignupInput{
		Email:  r.Field(entity.FieldEmail),
		Pass:   r.Field(entity.FieldPass),
		PassRe: r.Field(entity.FieldPassRe),
		Pic:    pic,
	})
	if err != nil {
		return nil, err
	}

	return SignupResponse{ID: resp.ID, Email: resp.Email, Pic: resp.Pic}, nil
}

// UploadImage stores an image under its content fingerprint.
// @Summary Upload image
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param pic formData file true "Image (gif, jpeg, png)"
// @Success 201 {object} router.successResponse{data=UploadImageResponse} "Stored image"
// @Failure 422 {object} router.errorResponse "Field errors"
// @Router /api/v1/uploads/images [post]
func (h *HTTPEndpoint) UploadImage(r *router.Request) (any, error) {
	if err := h.parseForm(r); err != nil {
		return nil, err
	}

	pic, closePic := r.FormFile(entity.FieldPic, h.cfg.GetInt64("upload.max_bytes"))
	defer closePic()

	resp, err := h.uc.UploadImage(r.Context(), usecase.UploadImageInput{Pic: pic})
	if err != nil {
		return nil, err
	}

	return UploadImageResponse{Path: resp.Path, Type: resp.Type, Size: resp.Size}, nil
}

// PasswordRemind mails an auth key to a registered email.
// @Summary Request password reminder
// @Tags Account
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Success 200 {object} router.successResponse{data=PasswordRemindResponse}
// @Failure 422 {object} router.errorResponse "Field errors"
// @Router /api/v1/account/password/remind [post]
func (h *HTTPEndpoint) PasswordRemind(r *router.Request) (any, error) {
	if err := h.parseForm(r); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordRemind(r.Context(), usecase.PasswordRemindInput{
		Email: r.Field(entity.FieldEmail),
	}); err != nil {
		return nil, err
	}

	return PasswordRemindResponse{}, nil
}

// PasswordRemindVerify checks the auth key and reissues the password.
// @Summary Verify password reminder
// @Tags Account
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param token formData string true "Auth key"
// @Success 200 {object} router.successResponse{data=PasswordRemindVerifyResponse}
// @Failure 422 {object} router.errorResponse "Field errors"
// @Router /api/v1/account/password/remind/verify [post]
func (h *HTTPEndpoint) PasswordRemindVerify(r *router.Request) (any, error) {
	if err := h.parseForm(r); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordRemindVerify(r.Context(), usecase.PasswordRemindVerifyInput{
		Email: r.Field(entity.FieldEmail),
		Token: r.Field(entity.FieldToken),
	}); err != nil {
		return nil, err
	}

	return PasswordRemindVerifyResponse{}, nil
}

// ServeUpload streams a stored upload. Names are content fingerprints, so the
// response can be cached forever.
func (h *HTTPEndpoint) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := path.Base(r.URL.Path)

	f, err := h.files.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(r.Context(), "failed to open upload", "name", name, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, name, time.Time{}, f)
}
