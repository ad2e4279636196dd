package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shandysiswandi/formgate/internal/account/entity"
)

const existsActiveEmail = `SELECT EXISTS (
	SELECT 1 FROM users WHERE email = $1 AND delete_flag = false
)`

// ExistsActiveEmail reports whether a user that has not been deleted owns email.
func (s *DB) ExistsActiveEmail(ctx context.Context, email string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ExistsActiveEmail")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	if err = s.conn.QueryRow(ctx, existsActiveEmail, email).Scan(&exists); err != nil {
		return false, s.mapError(err)
	}

	return exists, nil
}

const getUserByEmail = `SELECT id, email, password, pic, login_time, created_at, updated_at
FROM users
WHERE email = $1 AND delete_flag = false`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var (
		user      entity.User
		pic       pgtype.Text
		loginTime pgtype.Timestamptz
	)
	err = s.conn.QueryRow(ctx, getUserByEmail, email).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&pic,
		&loginTime,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	user.Pic = pic.String
	if loginTime.Valid {
		t := loginTime.Time
		user.LoginTime = &t
	}

	return &user, nil
}
