package taskstore_test

import (
	"errors"
	"testing"
	"time"

	taskstore "github.com/dalemusser/stagetrack/internal/app/store/tasks"
	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"github.com/dalemusser/stagetrack/internal/testutil"
)

func TestStore_CreateGetList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	essay := testutil.Task("Essay", "s1", "s2", "s3")
	quiz := testutil.Task("Quiz", "q1")
	quiz.CreatedAt = essay.CreatedAt.Add(time.Second)

	// Insert out of creation order.
	if _, err := store.Create(ctx, quiz); err != nil {
		t.Fatalf("Create quiz failed: %v", err)
	}
	if _, err := store.Create(ctx, essay); err != nil {
		t.Fatalf("Create essay failed: %v", err)
	}

	got, err := store.Get(ctx, essay.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Stages) != 3 || got.Stages[0].ID != "s1" || got.Stages[2].ID != "s3" {
		t.Errorf("expected stages in insertion order, got %+v", got.Stages)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != essay.ID || list[1].ID != quiz.ID {
		t.Errorf("expected creation order [essay quiz], got %+v", list)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_DeleteAndRestore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Essay", "s1", "s2")

	deleted, err := store.Delete(ctx, task.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected deleted=true")
	}
	if _, err := store.Get(ctx, task.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected task gone, got %v", err)
	}

	if err := store.Restore(ctx, task); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	// Restoring twice is harmless.
	if err := store.Restore(ctx, task); err != nil {
		t.Fatalf("second Restore failed: %v", err)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get after Restore failed: %v", err)
	}
	if got.Title != "Essay" || len(got.Stages) != 2 {
		t.Errorf("restored task mismatch: %+v", got)
	}
}

func TestStore_ListByTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	quiz := testutil.Task("quiz", "q1")
	essay := testutil.Task("Essay", "e1")
	algebra := testutil.Task("Álgebra", "a1")
	for _, task := range []models.Task{quiz, essay, algebra} {
		if _, err := store.Create(ctx, task); err != nil {
			t.Fatalf("Create %s failed: %v", task.Title, err)
		}
	}

	got, err := store.ListByTitle(ctx)
	if err != nil {
		t.Fatalf("ListByTitle failed: %v", err)
	}
	if len(got) != 3 || got[0].ID != algebra.ID || got[1].ID != essay.ID || got[2].ID != quiz.ID {
		t.Errorf("expected folded title order [Álgebra Essay quiz], got %+v", got)
	}
}
