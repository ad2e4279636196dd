package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shandysiswandi/formgate/internal/account/entity"
)

const createUser = `INSERT INTO users (id, email, password, pic)
VALUES ($1, $2, $3, $4)`

// CreateUser inserts a user. A concurrent signup for the same email surfaces
// as goerror.ErrConflict.
func (s *DB) CreateUser(ctx context.Context, in entity.NewUser) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	pic := pgtype.Text{String: in.Pic, Valid: in.Pic != ""}
	_, err = s.conn.Exec(ctx, createUser, in.ID, in.Email, in.Password, pic)
	err = s.mapError(err)
	return err
}
