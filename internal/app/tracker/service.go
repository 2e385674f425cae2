// Package tracker is the progress-tracking core: the student and task
// catalogs, the progress ledger, and the derived completion reports.
//
// Every mutating operation validates its input completely before the
// first write. Storage is reached only through the repository interfaces
// so the same rules hold for the Mongo and in-memory backends.
package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stagetrack/internal/app/system/metrics"
	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Deps are the collaborators of a Service. Tx, Metrics and Log may be nil.
type Deps struct {
	Students StudentRepository
	Tasks    TaskRepository
	Progress ProgressRepository
	Tx       TxRunner
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

type Service struct {
	students StudentRepository
	tasks    TaskRepository
	progress ProgressRepository
	tx       TxRunner
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

func New(d Deps) *Service {
	s := &Service{
		students: d.Students,
		tasks:    d.Tasks,
		progress: d.Progress,
		tx:       d.Tx,
		metrics:  d.Metrics,
		log:      d.Log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	if s.tx == nil {
		s.tx = direct{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// AllData is the combined catalog returned by GET /api/data.
type AllData struct {
	Students []models.Student  `json:"students"`
	Tasks    []models.Task     `json:"tasks"`
	Progress []models.Progress `json:"progress"`
}

// GetAllData reads the three catalogs concurrently. Any failure fails the
// whole call; partial data is never returned.
func (s *Service) GetAllData(ctx context.Context) (AllData, error) {
	var out AllData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Students, err = s.students.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Tasks, err = s.tasks.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Progress, err = s.progress.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return AllData{}, err
	}
	return out, nil
}

// retryOnConflict runs fn again once if it lost a race on the same key.
func (s *Service) retryOnConflict(op string, key models.ProgressKey, fn func() error) error {
	err := fn()
	if !errors.Is(err, errs.ErrConflict) {
		return err
	}
	s.log.Warn(op+": conflict, retrying",
		zap.String("student_username", key.StudentUsername),
		zap.String("task_id", key.TaskID),
		zap.Error(err))
	s.metrics.ObserveConflictRetry()
	return fn()
}
