package usecase

import (
	"context"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
	"github.com/shandysiswandi/formgate/internal/pkg/upload"
)

type UploadImageInput struct {
	Pic upload.File
}

type UploadImageOutput struct {
	Path        string
	Type        string
	Size        int64
	Fingerprint string
}

func (s *Usecase) UploadImage(ctx context.Context, in UploadImageInput) (*UploadImageOutput, error) {
	ctx, span := s.startSpan(ctx, "UploadImage")
	defer span.End()

	es := errstore.New()
	res := s.uploader.Ingest(ctx, es, entity.FieldPic, in.Pic)
	if !res.Stored() {
		return nil, goerror.NewInvalidInput(es)
	}

	s.replicate(ctx, res, in.Pic.Size)

	return &UploadImageOutput{
		Path:        res.Path,
		Type:        res.Type.MIME(),
		Size:        in.Pic.Size,
		Fingerprint: res.Fingerprint,
	}, nil
}
