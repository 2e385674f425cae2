package tracker

import (
	"context"

	"github.com/dalemusser/stagetrack/internal/domain/models"
)

// StudentRepository is the student catalog.
type StudentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	// ListByName orders by folded name, then id.
	ListByName(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, st models.Student) (models.Student, error)
	GetByUsername(ctx context.Context, username string) (models.Student, error)
	// Delete reports whether a student with id existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// TaskRepository is the task catalog.
type TaskRepository interface {
	List(ctx context.Context) ([]models.Task, error)
	// ListByTitle orders by folded title, then id.
	ListByTitle(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, t models.Task) (models.Task, error)
	Get(ctx context.Context, id string) (models.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	// Restore re-inserts a deleted task under its original id.
	Restore(ctx context.Context, t models.Task) error
}

// ProgressRepository is the progress ledger. Upsert and SetStage must be
// atomic per (studentUsername, taskId) key.
type ProgressRepository interface {
	List(ctx context.Context) ([]models.Progress, error)
	ListByStudent(ctx context.Context, username string) ([]models.Progress, error)
	Upsert(ctx context.Context, key models.ProgressKey, stages []string) (models.Progress, error)
	SetStage(ctx context.Context, key models.ProgressKey, stageID string, completed bool) (models.Progress, bool, error)
	DeleteByTask(ctx context.Context, taskID string) (int64, error)
}

// TxRunner groups writes into one transaction where the backend allows it.
// Atomic reports, from inside fn, whether the writes will roll back
// together on error.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	Atomic(ctx context.Context) bool
}

// direct runs fn with no transaction.
type direct struct{}

func (direct) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func (direct) Atomic(context.Context) bool { return false }
