package memstore

import (
	"context"
	"sort"

	"github.com/dalemusser/stagetrack/internal/domain/completion"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"github.com/google/uuid"
)

type ProgressRepository struct {
	db *progressTable
}

func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db.progress}
}

func cloneProgress(p models.Progress) models.Progress {
	p.CompletedStages = cloneStrings(p.CompletedStages)
	return p
}

func (r *ProgressRepository) query(keep func(models.Progress) bool) []models.Progress {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	out := make([]models.Progress, 0, len(r.db.rows))
	for _, p := range r.db.rows {
		if keep(p) {
			out = append(out, cloneProgress(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentUsername != out[j].StudentUsername {
			return out[i].StudentUsername < out[j].StudentUsername
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

func (r *ProgressRepository) List(ctx context.Context) ([]models.Progress, error) {
	if err := live(ctx, "list progress"); err != nil {
		return nil, err
	}
	return r.query(func(models.Progress) bool { return true }), nil
}

func (r *ProgressRepository) ListByStudent(ctx context.Context, username string) ([]models.Progress, error) {
	if err := live(ctx, "list student progress"); err != nil {
		return nil, err
	}
	return r.query(func(p models.Progress) bool { return p.StudentUsername == username }), nil
}

func (r *ProgressRepository) get(key models.ProgressKey) (models.Progress, bool) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	p, ok := r.db.rows[key]
	return p, ok
}

func (r *ProgressRepository) put(p models.Progress) models.Progress {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	r.db.rows[p.Key()] = cloneProgress(p)
	return p
}

// Upsert replaces the completed-stage set for key, keeping the document id
// of an existing row.
func (r *ProgressRepository) Upsert(ctx context.Context, key models.ProgressKey, stages []string) (models.Progress, error) {
	if err := live(ctx, "upsert progress"); err != nil {
		return models.Progress{}, err
	}
	unlock := r.db.locks.Lock(key.String())
	defer unlock()

	p, ok := r.get(key)
	if !ok {
		p = models.Progress{ID: uuid.NewString(), StudentUsername: key.StudentUsername, TaskID: key.TaskID}
	}
	p.CompletedStages = completion.NormalizeStages(stages)
	return cloneProgress(r.put(p)), nil
}

// SetStage adds or removes one stage. Removing from a key with no row is a
// no-op and reports ok=false.
func (r *ProgressRepository) SetStage(ctx context.Context, key models.ProgressKey, stageID string, completed bool) (models.Progress, bool, error) {
	if err := live(ctx, "toggle stage"); err != nil {
		return models.Progress{}, false, err
	}
	unlock := r.db.locks.Lock(key.String())
	defer unlock()

	p, ok := r.get(key)
	if !ok {
		if !completed {
			return models.Progress{}, false, nil
		}
		p = models.Progress{ID: uuid.NewString(), StudentUsername: key.StudentUsername, TaskID: key.TaskID}
	}
	p.CompletedStages = completion.ToggleStage(p.CompletedStages, stageID, completed)
	return cloneProgress(r.put(p)), true, nil
}

// DeleteByTask removes every row for taskID. Each row is deleted under its
// key lock, so an Upsert or SetStage already in flight for that key lands
// before the delete rather than after it.
func (r *ProgressRepository) DeleteByTask(ctx context.Context, taskID string) (int64, error) {
	if err := live(ctx, "delete task progress"); err != nil {
		return 0, err
	}

	r.db.mutex.RLock()
	var keys []models.ProgressKey
	for key := range r.db.rows {
		if key.TaskID == taskID {
			keys = append(keys, key)
		}
	}
	r.db.mutex.RUnlock()

	var n int64
	for _, key := range keys {
		if r.deleteKey(key) {
			n++
		}
	}
	return n, nil
}

func (r *ProgressRepository) deleteKey(key models.ProgressKey) bool {
	unlock := r.db.locks.Lock(key.String())
	defer unlock()

	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()
	if _, ok := r.db.rows[key]; !ok {
		return false
	}
	delete(r.db.rows, key)
	return true
}
