package memstore

import (
	"context"
	"sort"

	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/stagetrack/internal/domain/models"
)

type StudentRepository struct {
	db *studentTable
}

func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db.students}
}

func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	if err := live(ctx, "list students"); err != nil {
		return nil, err
	}
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	out := make([]models.Student, len(r.db.rows))
	copy(out, r.db.rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *StudentRepository) ListByName(ctx context.Context) ([]models.Student, error) {
	out, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NameCI != out[j].NameCI {
			return out[i].NameCI < out[j].NameCI
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *StudentRepository) Create(ctx context.Context, st models.Student) (models.Student, error) {
	if err := live(ctx, "create student"); err != nil {
		return models.Student{}, err
	}
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, existing := range r.db.rows {
		if existing.Username == st.Username {
			return models.Student{}, errs.Conflict("create student", errs.ErrDuplicateUsername)
		}
	}
	r.db.rows = append(r.db.rows, st)
	return st, nil
}

func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (models.Student, error) {
	if err := live(ctx, "get student"); err != nil {
		return models.Student{}, err
	}
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, st := range r.db.rows {
		if st.Username == username {
			return st, nil
		}
	}
	return models.Student{}, errs.NotFound("get student", username)
}

func (r *StudentRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := live(ctx, "delete student"); err != nil {
		return false, err
	}
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for i, st := range r.db.rows {
		if st.ID == id {
			r.db.rows = append(r.db.rows[:i], r.db.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
