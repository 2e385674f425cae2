package tracker

import (
	"context"
	"errors"
	"runtime"

	"github.com/dalemusser/stagetrack/internal/app/system/csvutil"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImportResult reports a bulk student import. Aborted is set when a
// storage failure stopped the import; every row from the failing one on is
// then listed in Failed.
type ImportResult struct {
	Created []models.Student   `json:"created"`
	Failed  []csvutil.RowError `json:"failed"`
	Aborted bool               `json:"aborted,omitempty"`
}

type builtRow struct {
	st  models.Student
	err error
}

// ImportStudents registers each parsed row independently. Rows rejected by
// validation or by a taken username are reported and skipped; any other
// error stops the import and is returned along with the partial result.
//
// Rows are validated and hashed up front on a bounded worker group. Each
// insert then runs under its own Short deadline, so the size of the file
// does not count against any single storage call.
func (s *Service) ImportStudents(ctx context.Context, rows []csvutil.StudentRow) (ImportResult, error) {
	res := ImportResult{Created: []models.Student{}, Failed: []csvutil.RowError{}}

	built := make([]builtRow, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, row := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			st, err := buildStudent(NewStudent{
				Name:     row.Name,
				Email:    row.Email,
				Username: row.Username,
				Password: row.Password,
			})
			built[i] = builtRow{st: st, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return s.abortImport(res, rows, 0, errs.Unavailable("import students", err))
	}

	for i, row := range rows {
		st, err := built[i].st, built[i].err
		if err == nil {
			if cerr := ctx.Err(); cerr != nil {
				return s.abortImport(res, rows, i, errs.Unavailable("import students", cerr))
			}
			st.JoinedAt = s.now()
			sctx, cancel := context.WithTimeout(ctx, timeouts.Short())
			st, err = s.students.Create(sctx, st)
			cancel()
		}
		switch {
		case err == nil:
			res.Created = append(res.Created, st)
		case errs.IsValidation(err), errors.Is(err, errs.ErrConflict):
			res.Failed = append(res.Failed, csvutil.RowError{Line: row.Line, Username: row.Username, Reason: err.Error()})
		default:
			return s.abortImport(res, rows, i, err)
		}
	}
	s.log.Info("students imported", zap.Int("created", len(res.Created)), zap.Int("failed", len(res.Failed)))
	return res, nil
}

// abortImport marks rows[from:] as not imported and returns cause.
func (s *Service) abortImport(res ImportResult, rows []csvutil.StudentRow, from int, cause error) (ImportResult, error) {
	reason := "not imported: internal error"
	if errors.Is(cause, errs.ErrStorageUnavailable) {
		reason = "not imported: storage unavailable"
	}
	for _, row := range rows[from:] {
		res.Failed = append(res.Failed, csvutil.RowError{Line: row.Line, Username: row.Username, Reason: reason})
	}
	res.Aborted = true
	s.log.Info("student import aborted",
		zap.Int("created", len(res.Created)),
		zap.Int("not_imported", len(rows)-from),
		zap.String("reason", reason))
	return res, cause
}
