package memstore

import (
	"context"
	"sort"

	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/stagetrack/internal/domain/models"
)

type TaskRepository struct {
	db *taskTable
}

func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db.tasks}
}

func cloneTask(t models.Task) models.Task {
	t.Stages = append([]models.Stage(nil), t.Stages...)
	return t
}

func (r *TaskRepository) List(ctx context.Context) ([]models.Task, error) {
	if err := live(ctx, "list tasks"); err != nil {
		return nil, err
	}
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	out := make([]models.Task, 0, len(r.db.rows))
	for _, t := range r.db.rows {
		out = append(out, cloneTask(t))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TaskRepository) ListByTitle(ctx context.Context) ([]models.Task, error) {
	out, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TitleCI != out[j].TitleCI {
			return out[i].TitleCI < out[j].TitleCI
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *TaskRepository) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if err := live(ctx, "create task"); err != nil {
		return models.Task{}, err
	}
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.rows = append(r.db.rows, cloneTask(t))
	return t, nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (models.Task, error) {
	if err := live(ctx, "get task"); err != nil {
		return models.Task{}, err
	}
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, t := range r.db.rows {
		if t.ID == id {
			return cloneTask(t), nil
		}
	}
	return models.Task{}, errs.NotFound("get task", id)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := live(ctx, "delete task"); err != nil {
		return false, err
	}
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for i, t := range r.db.rows {
		if t.ID == id {
			r.db.rows = append(r.db.rows[:i], r.db.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Restore puts a deleted task back. A task already present is left as is.
func (r *TaskRepository) Restore(ctx context.Context, t models.Task) error {
	if err := live(ctx, "restore task"); err != nil {
		return err
	}
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, existing := range r.db.rows {
		if existing.ID == t.ID {
			return nil
		}
	}
	r.db.rows = append(r.db.rows, cloneTask(t))
	return nil
}
