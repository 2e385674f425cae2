package completion

import "github.com/dalemusser/stagetrack/internal/domain/models"

// StatusCounts is the cohort-wide split of (student, task) pairs.
type StatusCounts struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// TaskStatus is one row of a student's task list.
type TaskStatus struct {
	TaskID          string `json:"taskId"`
	Title           string `json:"title"`
	TotalStages     int    `json:"totalStages"`
	CompletedStages int    `json:"completedStages"`
	Percent         int    `json:"percent"`
	Completed       bool   `json:"completed"`
}

// StudentCompletion is one bar of the cohort performance chart.
type StudentCompletion struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	Completion int    `json:"completion"`
}

// Snapshot is a read-only view of the three catalogs with progress indexed
// by composite key.
type Snapshot struct {
	Students []models.Student
	Tasks    []models.Task
	Progress []models.Progress

	index map[models.ProgressKey]models.Progress
}

// NewSnapshot indexes progress by (studentUsername, taskId). If the ledger
// ever held two documents for one key, the first one listed wins.
func NewSnapshot(students []models.Student, tasks []models.Task, progress []models.Progress) *Snapshot {
	idx := make(map[models.ProgressKey]models.Progress, len(progress))
	for _, p := range progress {
		if _, ok := idx[p.Key()]; ok {
			continue
		}
		idx[p.Key()] = p
	}
	return &Snapshot{Students: students, Tasks: tasks, Progress: progress, index: idx}
}

// Lookup returns the progress document for (username, taskID), if any.
func (s *Snapshot) Lookup(username, taskID string) (models.Progress, bool) {
	p, ok := s.index[models.ProgressKey{StudentUsername: username, TaskID: taskID}]
	return p, ok
}

func (s *Snapshot) completed(username string, task models.Task) int {
	p, ok := s.Lookup(username, task.ID)
	if !ok {
		return 0
	}
	return CompletedCount(p.CompletedStages, task)
}

// StageCompletionPercent is the share of task's current stages the student
// has completed. A task with no stages is 0%.
func (s *Snapshot) StageCompletionPercent(username string, task models.Task) int {
	return Percent(s.completed(username, task), len(task.Stages))
}

// StudentOverallCompletion is completed stages over total stages summed
// across every task in the snapshot. With no stages anywhere it is 0.
func (s *Snapshot) StudentOverallCompletion(username string) int {
	done, total := 0, 0
	for _, t := range s.Tasks {
		total += len(t.Stages)
		done += s.completed(username, t)
	}
	return Percent(done, total)
}

// CohortTaskStatusCounts classifies every (student, task) pair. A pair is
// completed when the student has every stage of a task that has at least
// one stage; all other pairs, zero-stage tasks included, are pending.
func (s *Snapshot) CohortTaskStatusCounts() StatusCounts {
	var c StatusCounts
	for _, t := range s.Tasks {
		total := len(t.Stages)
		for _, st := range s.Students {
			if total > 0 && s.completed(st.Username, t) == total {
				c.Completed++
			} else {
				c.Pending++
			}
		}
	}
	return c
}

// StudentTaskReport lists every task with the student's progress on it,
// in task order.
func (s *Snapshot) StudentTaskReport(username string) []TaskStatus {
	out := make([]TaskStatus, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		done := s.completed(username, t)
		total := len(t.Stages)
		out = append(out, TaskStatus{
			TaskID:          t.ID,
			Title:           t.Title,
			TotalStages:     total,
			CompletedStages: done,
			Percent:         Percent(done, total),
			Completed:       total > 0 && done == total,
		})
	}
	return out
}

// CohortPerformance returns each student's overall completion, in student
// order.
func (s *Snapshot) CohortPerformance() []StudentCompletion {
	out := make([]StudentCompletion, 0, len(s.Students))
	for _, st := range s.Students {
		out = append(out, StudentCompletion{
			Username:   st.Username,
			Name:       st.Name,
			Completion: s.StudentOverallCompletion(st.Username),
		})
	}
	return out
}
