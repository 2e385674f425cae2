package tracker

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/stagetrack/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stagetrack/internal/app/system/inputval"
	"github.com/dalemusser/stagetrack/internal/app/system/normalize"
	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ListStudents returns all students in join order.
func (s *Service) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.students.List(ctx)
}

// ListStudentsBy lists students in the named order: "joined" (the default)
// or "name".
func (s *Service) ListStudentsBy(ctx context.Context, order string) ([]models.Student, error) {
	switch order {
	case "", "joined":
		return s.students.List(ctx)
	case "name":
		return s.students.ListByName(ctx)
	default:
		return nil, errs.Invalid("sort", "must be joined or name")
	}
}

// CreateStudent registers a student. Username must be unused; the optional
// password is stored only as a bcrypt hash.
func (s *Service) CreateStudent(ctx context.Context, in NewStudent) (models.Student, error) {
	st, err := buildStudent(in)
	if err != nil {
		return models.Student{}, err
	}
	st.JoinedAt = s.now()
	return s.students.Create(ctx, st)
}

// buildStudent cleans and validates in and hashes its password. It does no
// storage work, so callers can run it outside any storage deadline.
func buildStudent(in NewStudent) (models.Student, error) {
	in.Name = normalize.Name(htmlsanitize.StripTags(in.Name))
	in.Email = normalize.Email(in.Email)
	in.Username = normalize.Username(in.Username)
	in.Avatar = strings.TrimSpace(in.Avatar)

	if err := inputval.Validate(in).Err(); err != nil {
		return models.Student{}, err
	}

	st := models.Student{
		ID:       uuid.NewString(),
		Name:     in.Name,
		NameCI:   text.Fold(in.Name),
		Email:    in.Email,
		Username: in.Username,
		Avatar:   in.Avatar,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				return models.Student{}, errs.Invalid("password", "must be at most 72 bytes")
			}
			return models.Student{}, err
		}
		st.PasswordHash = string(hash)
	}
	return st, nil
}

// GetStudentByUsername looks a student up by exact username.
func (s *Service) GetStudentByUsername(ctx context.Context, username string) (models.Student, error) {
	if strings.TrimSpace(username) == "" {
		return models.Student{}, errs.Invalid("username", "is required")
	}
	return s.students.GetByUsername(ctx, username)
}

// DeleteStudent removes a student. Deleting an unknown id succeeds.
// Progress recorded under the student's username is kept.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.Invalid("id", "is required")
	}
	deleted, err := s.students.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		s.log.Debug("delete student: no such id", zap.String("student_id", id))
	}
	return nil
}
