package inbound

import (
	"context"
	"net/http"
	"os"

	"github.com/shandysiswandi/formgate/internal/account/usecase"
	"github.com/shandysiswandi/formgate/internal/pkg/config"
	"github.com/shandysiswandi/formgate/internal/pkg/router"
)

type uc interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.SignupOutput, error)
	UploadImage(ctx context.Context, in usecase.UploadImageInput) (*usecase.UploadImageOutput, error)

	PasswordRemind(ctx context.Context, in usecase.PasswordRemindInput) error
	PasswordRemindVerify(ctx context.Context, in usecase.PasswordRemindVerifyInput) error
}

type fileOpener interface {
	Open(publicPath string) (*os.File, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, files fileOpener, cfg config.Config) {
	end := &HTTPEndpoint{uc: uc, files: files, cfg: cfg}

	r.POST("/api/v1/account/signup", end.Signup)
	r.POST("/api/v1/uploads/images", end.UploadImage)

	r.POST("/api/v1/account/password/remind", end.PasswordRemind)
	r.POST("/api/v1/account/password/remind/verify", end.PasswordRemindVerify)

	// stored uploads are public and immutable
	r.GETRaw("/uploads/:name", http.HandlerFunc(end.ServeUpload))
}
