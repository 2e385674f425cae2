package tracker

import (
	"context"
	"strings"

	"github.com/dalemusser/stagetrack/internal/app/system/inputval"
	"github.com/dalemusser/stagetrack/internal/domain/completion"
	"github.com/dalemusser/stagetrack/internal/domain/models"
)

// ListProgress returns every progress row.
func (s *Service) ListProgress(ctx context.Context) ([]models.Progress, error) {
	return s.progress.List(ctx)
}

// UpsertProgress stores in.CompletedStages as the complete set for the
// (student, task) key, creating the row if needed. Stage ids are not
// checked against the task.
func (s *Service) UpsertProgress(ctx context.Context, in ProgressUpdate) (models.Progress, error) {
	in.StudentUsername = strings.TrimSpace(in.StudentUsername)
	in.TaskID = strings.TrimSpace(in.TaskID)
	if err := inputval.Validate(in).Err(); err != nil {
		return models.Progress{}, err
	}

	key := models.ProgressKey{StudentUsername: in.StudentUsername, TaskID: in.TaskID}
	stages := completion.NormalizeStages(in.CompletedStages)

	var p models.Progress
	err := s.retryOnConflict("upsert progress", key, func() error {
		var err error
		p, err = s.progress.Upsert(ctx, key, stages)
		return err
	})
	s.metrics.ObserveLedgerWrite("upsert", err)
	if err != nil {
		return models.Progress{}, err
	}
	return p, nil
}

// ToggleStage marks one stage complete or incomplete. Marking a stage
// incomplete when the key has no row creates nothing and returns ok=false.
func (s *Service) ToggleStage(ctx context.Context, in StageToggle) (p models.Progress, ok bool, err error) {
	in.StudentUsername = strings.TrimSpace(in.StudentUsername)
	in.TaskID = strings.TrimSpace(in.TaskID)
	in.StageID = strings.TrimSpace(in.StageID)
	if err := inputval.Validate(in).Err(); err != nil {
		return models.Progress{}, false, err
	}

	key := models.ProgressKey{StudentUsername: in.StudentUsername, TaskID: in.TaskID}
	err = s.retryOnConflict("toggle stage", key, func() error {
		var err error
		p, ok, err = s.progress.SetStage(ctx, key, in.StageID, *in.Completed)
		return err
	})
	s.metrics.ObserveLedgerWrite("toggle", err)
	if err != nil {
		return models.Progress{}, false, err
	}
	return p, ok, nil
}
