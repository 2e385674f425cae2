// Package memstore keeps the three catalogs in process memory. It backs
// the service tests and the storage_backend=memory development mode.
package memstore

import (
	"context"
	"sync"

	"github.com/dalemusser/stagetrack/internal/app/system/keymutex"
	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/stagetrack/internal/domain/models"
)

type (
	DB struct {
		students *studentTable
		tasks    *taskTable
		progress *progressTable
	}

	studentTable struct {
		rows  []models.Student
		mutex sync.RWMutex
	}

	taskTable struct {
		rows  []models.Task
		mutex sync.RWMutex
	}

	progressTable struct {
		rows  map[models.ProgressKey]models.Progress
		mutex sync.RWMutex
		// locks serializes read-modify-write per composite key.
		locks keymutex.KeyMutex
	}
)

func Open() *DB {
	return &DB{
		students: &studentTable{},
		tasks:    &taskTable{},
		progress: &progressTable{rows: make(map[models.ProgressKey]models.Progress)},
	}
}

// live fails fast when ctx is already done, the way a driver call would.
func live(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return errs.Unavailable(op, err)
	}
	return nil
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Counts returns the number of students, tasks and progress rows held.
func (db *DB) Counts() (students, tasks, progress int) {
	db.students.mutex.RLock()
	students = len(db.students.rows)
	db.students.mutex.RUnlock()

	db.tasks.mutex.RLock()
	tasks = len(db.tasks.rows)
	db.tasks.mutex.RUnlock()

	db.progress.mutex.RLock()
	progress = len(db.progress.rows)
	db.progress.mutex.RUnlock()
	return students, tasks, progress
}
