package usecase

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/pkg/errstore"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
	"github.com/shandysiswandi/formgate/internal/pkg/msgcat"
	"github.com/shandysiswandi/formgate/internal/pkg/rule"
	"github.com/shandysiswandi/formgate/internal/pkg/upload"
)

type SignupInput struct {
	Email  string
	Pass   string
	PassRe string
	// Pic is optional; StatusNoFile means none was sent.
	Pic upload.File
}

type SignupOutput struct {
	ID    int64
	Email string
	Pic   string
}

func (s *Usecase) Signup(ctx context.Context, in SignupInput) (*SignupOutput, error) {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	es := errstore.New()

	var g errgroup.Group
	g.Go(func() error {
		s.checkSignupEmail(ctx, es, in.Email)
		return nil
	})
	g.Go(func() error {
		rule.Required(es, entity.FieldPass, in.Pass)
		if !es.Has(entity.FieldPass) {
			rule.Password(es, entity.FieldPass, in.Pass)
		}
		return nil
	})
	g.Go(func() error {
		checkPasswordConfirm(es, in.Pass, in.PassRe)
		return nil
	})
	//nolint:errcheck // field checks only write to es
	_ = g.Wait()

	// A rejected transfer is recorded even when other fields failed; an
	// acceptable file is only stored once the form is otherwise valid.
	var res upload.Result
	if picSent(in.Pic) && (es.Empty() || in.Pic.Status != upload.StatusOK) {
		res = s.uploader.Ingest(ctx, es, entity.FieldPic, in.Pic)
	}
	if !es.Empty() {
		return nil, goerror.NewInvalidInput(es)
	}

	hashed, err := s.bcrypt.Hash(in.Pass)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		es.Set(errstore.CommonKey, msgcat.Transient)
		return nil, goerror.NewInvalidInput(es)
	}

	user := entity.NewUser{
		ID:       s.uid.Generate(),
		Email:    in.Email,
		Password: hashed,
		Pic:      res.Path,
	}

	err = s.repoDB.CreateUser(ctx, user)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "email registered concurrently", "email", in.Email)
		es.Set(entity.FieldEmail, msgcat.Duplicate)
		return nil, goerror.NewInvalidInput(es)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		es.Set(errstore.CommonKey, msgcat.Transient)
		return nil, goerror.NewInvalidInput(es)
	}

	s.replicate(ctx, res, in.Pic.Size)

	return &SignupOutput{ID: user.ID, Email: user.Email, Pic: user.Pic}, nil
}

// checkSignupEmail runs Required, then Email and MaxLen, then the uniqueness
// lookup only while the address is still error free.
func (s *Usecase) checkSignupEmail(ctx context.Context, es *errstore.Store, email string) {
	rule.Required(es, entity.FieldEmail, email)
	if es.Has(entity.FieldEmail) {
		return
	}

	rule.Email(es, entity.FieldEmail, email)
	rule.MaxLen(es, entity.FieldEmail, email, entity.EmailMaxLen)
	if es.Has(entity.FieldEmail) {
		return
	}

	s.dup.EmailDup(ctx, es, entity.FieldEmail, email)
}

func checkPasswordConfirm(es *errstore.Store, pass, passRe string) {
	rule.Required(es, entity.FieldPassRe, passRe)
	if es.Has(entity.FieldPassRe) {
		return
	}

	rule.MaxLen(es, entity.FieldPassRe, passRe, rule.DefaultMaxLen)
	rule.MinLen(es, entity.FieldPassRe, passRe, rule.DefaultMinLen)
	if es.Has(entity.FieldPassRe) {
		return
	}

	rule.Match(es, entity.FieldPassRe, pass, passRe)
}

func picSent(f upload.File) bool {
	if f.Status == upload.StatusOK {
		return f.Content != nil
	}
	return f.Status != upload.StatusNoFile
}
