package metricsstore_test

import (
	"testing"

	metricsstore "github.com/dalemusser/stagetrack/internal/app/store/metrics"
	"github.com/dalemusser/stagetrack/internal/testutil"
)

func TestFetchCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchCounts(ctx, db)

	if counts.Students != 0 {
		t.Errorf("Students: got %d, want 0", counts.Students)
	}
	if counts.Tasks != 0 {
		t.Errorf("Tasks: got %d, want 0", counts.Tasks)
	}
	if counts.Progress != 0 {
		t.Errorf("Progress: got %d, want 0", counts.Progress)
	}
}

func TestFetchCounts_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "Alice", "alice")
	fixtures.CreateStudent(ctx, "Bob", "bob")
	essay := fixtures.CreateTask(ctx, "Essay", "s1", "s2")
	quiz := fixtures.CreateTask(ctx, "Quiz", "q1")
	fixtures.CreateTask(ctx, "Lab", "l1")
	fixtures.CreateProgress(ctx, "alice", essay.ID, "s1")
	fixtures.CreateProgress(ctx, "bob", quiz.ID)

	counts := metricsstore.FetchCounts(ctx, db)

	if counts.Students != 2 {
		t.Errorf("Students: got %d, want 2", counts.Students)
	}
	if counts.Tasks != 3 {
		t.Errorf("Tasks: got %d, want 3", counts.Tasks)
	}
	if counts.Progress != 2 {
		t.Errorf("Progress: got %d, want 2", counts.Progress)
	}
}

func TestFetchCounts_CountsOrphanedProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Progress for a student that was never registered still counts.
	fixtures.CreateProgress(ctx, "ghost", "t1", "s1")

	counts := metricsstore.FetchCounts(ctx, db)
	if counts.Students != 0 || counts.Progress != 1 {
		t.Errorf("got %+v, want 0 students and 1 progress", counts)
	}
}
