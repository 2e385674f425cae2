package completion_test

import (
	"testing"

	"github.com/dalemusser/stagetrack/internal/domain/completion"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id string, stageIDs ...string) models.Task {
	t := models.Task{ID: id, Title: "Task " + id}
	for _, s := range stageIDs {
		t.Stages = append(t.Stages, models.Stage{ID: s, Name: "Stage " + s})
	}
	return t
}

func student(username string) models.Student {
	return models.Student{ID: "id-" + username, Name: username, Username: username}
}

func progress(username, taskID string, stages ...string) models.Progress {
	return models.Progress{ID: username + "/" + taskID, StudentUsername: username, TaskID: taskID, CompletedStages: stages}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds away from zero
		{199, 200, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, completion.Percent(tt.done, tt.total), "Percent(%d, %d)", tt.done, tt.total)
	}
}

func TestStageCompletionPercent_ZeroStages(t *testing.T) {
	empty := task("t0")
	snap := completion.NewSnapshot(nil, []models.Task{empty}, []models.Progress{progress("alice", "t0", "s1")})

	assert.Equal(t, 0, snap.StageCompletionPercent("alice", empty))
	assert.Equal(t, 0, snap.StageCompletionPercent("nobody", empty))
}

func TestStageCompletionPercent_Scenario(t *testing.T) {
	t1 := task("t1", "s1", "s2", "s3")

	snap := completion.NewSnapshot(nil, []models.Task{t1}, []models.Progress{progress("alice", "t1", "s1", "s2")})
	assert.Equal(t, 67, snap.StageCompletionPercent("alice", t1))

	snap = completion.NewSnapshot(nil, []models.Task{t1}, []models.Progress{progress("alice", "t1", "s1", "s2", "s3")})
	assert.Equal(t, 100, snap.StageCompletionPercent("alice", t1))
}

func TestStageCompletionPercent_IgnoresUnknownStages(t *testing.T) {
	t1 := task("t1", "s1", "s2")
	// s9 was removed from the task; duplicates count once.
	snap := completion.NewSnapshot(nil, []models.Task{t1}, []models.Progress{progress("alice", "t1", "s1", "s9", "s1")})

	assert.Equal(t, 50, snap.StageCompletionPercent("alice", t1))
}

func TestStudentOverallCompletion(t *testing.T) {
	tasks := []models.Task{
		task("t1", "a", "b"),
		task("t2", "c", "d", "e", "f"),
		task("t3"),
	}
	prog := []models.Progress{
		progress("alice", "t1", "a", "b", "stale"),
		progress("alice", "t2", "c"),
		progress("bob", "t3", "x"),
	}
	snap := completion.NewSnapshot(nil, tasks, prog)

	assert.Equal(t, 50, snap.StudentOverallCompletion("alice")) // 3 of 6
	assert.Equal(t, 0, snap.StudentOverallCompletion("bob"))

	none := completion.NewSnapshot(nil, []models.Task{task("t3")}, prog)
	assert.Equal(t, 0, none.StudentOverallCompletion("alice"))
}

func TestCohortTaskStatusCounts(t *testing.T) {
	t1 := task("t1", "s1", "s2")
	snap := completion.NewSnapshot(
		[]models.Student{student("a"), student("b")},
		[]models.Task{t1},
		[]models.Progress{progress("a", "t1", "s1", "s2")},
	)

	assert.Equal(t, completion.StatusCounts{Completed: 1, Pending: 1}, snap.CohortTaskStatusCounts())
}

func TestCohortTaskStatusCounts_CountsPairs(t *testing.T) {
	tasks := []models.Task{task("t1", "s1"), task("t2", "s1"), task("t3")}
	students := []models.Student{student("a"), student("b")}
	prog := []models.Progress{
		progress("a", "t1", "s1"),
		progress("b", "t1", "s1"),
		progress("a", "t3"), // zero-stage task stays pending
	}
	counts := completion.NewSnapshot(students, tasks, prog).CohortTaskStatusCounts()

	assert.Equal(t, 6, counts.Completed+counts.Pending)
	assert.Equal(t, 2, counts.Completed)
	assert.Equal(t, 4, counts.Pending)
}

func TestStudentTaskReport(t *testing.T) {
	tasks := []models.Task{task("t1", "s1", "s2"), task("t2", "s1")}
	snap := completion.NewSnapshot(nil, tasks, []models.Progress{progress("alice", "t2", "s1")})

	report := snap.StudentTaskReport("alice")
	require.Len(t, report, 2)

	assert.Equal(t, "t1", report[0].TaskID)
	assert.Equal(t, 0, report[0].Percent)
	assert.False(t, report[0].Completed)

	assert.Equal(t, "t2", report[1].TaskID)
	assert.Equal(t, 1, report[1].CompletedStages)
	assert.Equal(t, 100, report[1].Percent)
	assert.True(t, report[1].Completed)
}

func TestCohortPerformance(t *testing.T) {
	tasks := []models.Task{task("t1", "s1", "s2", "s3", "s4")}
	students := []models.Student{student("a"), student("b")}
	snap := completion.NewSnapshot(students, tasks, []models.Progress{progress("b", "t1", "s1")})

	got := snap.CohortPerformance()
	require.Len(t, got, 2)
	assert.Equal(t, completion.StudentCompletion{Username: "a", Name: "a", Completion: 0}, got[0])
	assert.Equal(t, completion.StudentCompletion{Username: "b", Name: "b", Completion: 25}, got[1])
}

func TestNormalizeStages(t *testing.T) {
	assert.Equal(t, []string{}, completion.NormalizeStages(nil))
	assert.Equal(t, []string{"s2", "s1"}, completion.NormalizeStages([]string{"s2", "s1", "s2", "s1"}))
}

func TestToggleStage(t *testing.T) {
	tests := []struct {
		name      string
		set       []string
		stage     string
		completed bool
		want      []string
	}{
		{"add to empty", nil, "s1", true, []string{"s1"}},
		{"add new", []string{"s1"}, "s2", true, []string{"s1", "s2"}},
		{"add present is no-op", []string{"s1", "s2"}, "s1", true, []string{"s1", "s2"}},
		{"remove present", []string{"s1", "s2"}, "s1", false, []string{"s2"}},
		{"remove absent is no-op", []string{"s1"}, "s3", false, []string{"s1"}},
		{"remove from empty", nil, "s1", false, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, completion.ToggleStage(tt.set, tt.stage, tt.completed))
		})
	}
}

func TestToggleStage_DoesNotMutateInput(t *testing.T) {
	in := []string{"s1", "s2"}
	_ = completion.ToggleStage(in, "s1", false)
	assert.Equal(t, []string{"s1", "s2"}, in)
}
