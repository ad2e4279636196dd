package db

import (
	"context"

	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
)

const updatePassword = `UPDATE users
SET password = $2, updated_at = now()
WHERE email = $1 AND delete_flag = false`

func (s *DB) UpdatePassword(ctx context.Context, email, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdatePassword")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, updatePassword, email, hash)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}
