package inbound

import (
	"context"

	"github.com/shandysiswandi/formgate/internal/notification/usecase"
)

type uc interface {
	ConsumePasswordRemind(ctx context.Context, in usecase.ConsumePasswordRemindInput) error
	ConsumePasswordReissued(ctx context.Context, in usecase.ConsumePasswordReissuedInput) error
}
