package tracker

import (
	"context"

	"github.com/dalemusser/stagetrack/internal/domain/completion"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// CohortReport is the admin overview.
type CohortReport struct {
	completion.StatusCounts
	TotalStudents int                            `json:"totalStudents"`
	TotalTasks    int                            `json:"totalTasks"`
	Students      []completion.StudentCompletion `json:"students"`
}

// StudentReport is one student's dashboard.
type StudentReport struct {
	Username string                  `json:"username"`
	Name     string                  `json:"name"`
	Overall  int                     `json:"overall"`
	Tasks    []completion.TaskStatus `json:"tasks"`
}

// CohortAnalytics counts completed and pending (student, task) pairs and
// each student's overall completion.
func (s *Service) CohortAnalytics(ctx context.Context) (CohortReport, error) {
	data, err := s.GetAllData(ctx)
	if err != nil {
		return CohortReport{}, err
	}
	snap := completion.NewSnapshot(data.Students, data.Tasks, data.Progress)
	return CohortReport{
		StatusCounts:  snap.CohortTaskStatusCounts(),
		TotalStudents: len(data.Students),
		TotalTasks:    len(data.Tasks),
		Students:      snap.CohortPerformance(),
	}, nil
}

// StudentReport returns per-task status and overall completion for one
// registered student.
func (s *Service) StudentReport(ctx context.Context, username string) (StudentReport, error) {
	st, err := s.GetStudentByUsername(ctx, username)
	if err != nil {
		return StudentReport{}, err
	}

	var (
		tasks    []models.Task
		progress []models.Progress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = s.progress.ListByStudent(gctx, st.Username)
		return err
	})
	if err := g.Wait(); err != nil {
		return StudentReport{}, err
	}

	snap := completion.NewSnapshot([]models.Student{st}, tasks, progress)
	return StudentReport{
		Username: st.Username,
		Name:     st.Name,
		Overall:  snap.StudentOverallCompletion(st.Username),
		Tasks:    snap.StudentTaskReport(st.Username),
	}, nil
}
