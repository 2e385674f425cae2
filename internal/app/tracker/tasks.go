package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/stagetrack/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stagetrack/internal/app/system/inputval"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListTasks returns all tasks in creation order.
func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.tasks.List(ctx)
}

// ListTasksBy lists tasks in the named order: "created" (the default) or
// "title".
func (s *Service) ListTasksBy(ctx context.Context, order string) ([]models.Task, error) {
	switch order {
	case "", "created":
		return s.tasks.List(ctx)
	case "title":
		return s.tasks.ListByTitle(ctx)
	default:
		return nil, errs.Invalid("sort", "must be created or title")
	}
}

// CreateTask adds a task with at least one stage. Stage order is kept;
// stages without an id get one, and ids must be unique within the task.
func (s *Service) CreateTask(ctx context.Context, in NewTask) (models.Task, error) {
	in.Title = htmlsanitize.StripTags(in.Title)
	in.Description = strings.TrimSpace(htmlsanitize.Sanitize(in.Description))
	for i := range in.Stages {
		in.Stages[i].ID = strings.TrimSpace(in.Stages[i].ID)
		in.Stages[i].Name = htmlsanitize.StripTags(in.Stages[i].Name)
	}

	ve := &errs.ValidationError{}
	for _, fe := range inputval.Validate(in).Errors {
		ve.Add(fe.Field, fe.Message)
	}
	seen := make(map[string]int, len(in.Stages))
	for i, st := range in.Stages {
		if st.ID == "" {
			continue
		}
		if first, dup := seen[st.ID]; dup {
			ve.Add(fmt.Sprintf("stages[%d].id", i), fmt.Sprintf("duplicates stages[%d].id", first))
			continue
		}
		seen[st.ID] = i
	}
	if err := ve.OrNil(); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		TitleCI:     text.Fold(in.Title),
		Description: in.Description,
		Stages:      make([]models.Stage, 0, len(in.Stages)),
		CreatedAt:   s.now(),
	}
	for _, st := range in.Stages {
		id := st.ID
		if id == "" {
			id = uuid.NewString()
		}
		task.Stages = append(task.Stages, models.Stage{ID: id, Name: st.Name})
	}

	return s.tasks.Create(ctx, task)
}

// DeleteTask removes a task together with every progress row for it.
//
// Inside a transaction the two deletes commit or roll back together.
// Without one, a failed progress cleanup puts the task back before the
// error is returned. Deleting an unknown id succeeds and still clears any
// progress left under that id.
//
// Progress writes do not check that the task exists, so a write for this
// task that starts after the cleanup has passed its key leaves a row
// behind. The next DeleteTask for the same id clears it.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.Invalid("id", "is required")
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		task, err := s.tasks.Get(ctx, id)
		found := err == nil
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return err
		}
		if found {
			if _, err := s.tasks.Delete(ctx, id); err != nil {
				return err
			}
		}

		n, err := s.progress.DeleteByTask(ctx, id)
		s.metrics.ObserveLedgerWrite("delete_by_task", err)
		if err != nil {
			if found && !s.tx.Atomic(ctx) {
				s.restoreTask(ctx, task, err)
			}
			return err
		}

		s.log.Info("task deleted",
			zap.String("task_id", id),
			zap.Bool("existed", found),
			zap.Int64("progress_removed", n))
		return nil
	})
}

// restoreTask undoes the task delete after the progress cleanup failed.
// It runs detached from ctx, which may be the reason the cleanup failed.
func (s *Service) restoreTask(ctx context.Context, task models.Task, cause error) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	if err := s.tasks.Restore(rctx, task); err != nil {
		s.log.Error("delete task: progress cleanup failed and task could not be restored",
			zap.String("task_id", task.ID),
			zap.NamedError("cause", cause),
			zap.Error(err))
		return
	}
	s.log.Error("delete task: progress cleanup failed; task restored",
		zap.String("task_id", task.ID),
		zap.Error(cause))
}
