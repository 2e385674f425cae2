package progressstore_test

import (
	"sort"
	"sync"
	"testing"

	progressstore "github.com/dalemusser/stagetrack/internal/app/store/progress"
	"github.com/dalemusser/stagetrack/internal/app/system/indexes"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"github.com/dalemusser/stagetrack/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) (*progressstore.Store, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return progressstore.New(db), db
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func equalSets(a, b []string) bool {
	a, b = sorted(a), sorted(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var aliceT1 = models.ProgressKey{StudentUsername: "alice", TaskID: "t1"}

func TestStore_Upsert_CreatesThenUpdatesInPlace(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Upsert(ctx, aliceT1, []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected id to be assigned")
	}
	if !equalSets(created.CompletedStages, []string{"s1", "s2"}) {
		t.Errorf("stages: got %v", created.CompletedStages)
	}

	updated, err := store.Upsert(ctx, aliceT1, []string{"s3"})
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("expected same id, got %q then %q", created.ID, updated.ID)
	}
	if !equalSets(updated.CompletedStages, []string{"s3"}) {
		t.Errorf("expected full-set replace, got %v", updated.CompletedStages)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected one document per key, got %d", len(all))
	}
}

func TestStore_Upsert_EmptySet(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Upsert(ctx, aliceT1, nil)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if p.CompletedStages == nil || len(p.CompletedStages) != 0 {
		t.Errorf("expected empty non-nil set, got %#v", p.CompletedStages)
	}
}

func TestStore_SetStage(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Marking incomplete with no document is a no-op.
	_, ok, err := store.SetStage(ctx, aliceT1, "s1", false)
	if err != nil {
		t.Fatalf("SetStage(false) failed: %v", err)
	}
	if ok {
		t.Error("expected ok=false when nothing exists")
	}
	all, _ := store.List(ctx)
	if len(all) != 0 {
		t.Fatalf("expected no documents, got %d", len(all))
	}

	p, ok, err := store.SetStage(ctx, aliceT1, "s1", true)
	if err != nil || !ok {
		t.Fatalf("SetStage(true) failed: ok=%v err=%v", ok, err)
	}
	if !equalSets(p.CompletedStages, []string{"s1"}) {
		t.Errorf("stages: got %v", p.CompletedStages)
	}

	// Adding twice keeps set semantics.
	p, _, err = store.SetStage(ctx, aliceT1, "s1", true)
	if err != nil {
		t.Fatalf("SetStage(true) again failed: %v", err)
	}
	if len(p.CompletedStages) != 1 {
		t.Errorf("expected no duplicate, got %v", p.CompletedStages)
	}

	p, ok, err = store.SetStage(ctx, aliceT1, "s1", false)
	if err != nil || !ok {
		t.Fatalf("SetStage(false) failed: ok=%v err=%v", ok, err)
	}
	if len(p.CompletedStages) != 0 {
		t.Errorf("expected stage removed, got %v", p.CompletedStages)
	}
}

func TestStore_SetStage_ConcurrentDifferentStages(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Upsert(ctx, aliceT1, []string{}); err != nil {
		t.Fatalf("seed Upsert failed: %v", err)
	}

	stages := []string{"s1", "s2", "s3", "s4", "s5", "s6"}
	var wg sync.WaitGroup
	for _, id := range stages {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, _, err := store.SetStage(ctx, aliceT1, id, true); err != nil {
				t.Errorf("SetStage(%s) failed: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	all, err := store.ListByStudent(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByStudent failed: %v", err)
	}
	if len(all) != 1 || !equalSets(all[0].CompletedStages, stages) {
		t.Errorf("expected all stages recorded, got %+v", all)
	}
}

func TestStore_UniqueKeyEnforced(t *testing.T) {
	store, db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	fixtures.CreateProgress(ctx, "alice", "t1", "s1")

	_, err := db.Collection("progress").InsertOne(ctx, models.Progress{
		ID: "other", StudentUsername: "alice", TaskID: "t1", CompletedStages: []string{},
	})
	if err == nil {
		t.Fatal("expected unique index to reject second row")
	}

	// The store itself still resolves to the single row.
	p, err := store.Upsert(ctx, aliceT1, []string{"s2"})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if !equalSets(p.CompletedStages, []string{"s2"}) {
		t.Errorf("stages: got %v", p.CompletedStages)
	}
}

func TestStore_DeleteByTask(t *testing.T) {
	store, db := setup(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateProgress(ctx, "alice", "t1", "s1")
	fixtures.CreateProgress(ctx, "bob", "t1")
	fixtures.CreateProgress(ctx, "alice", "t2", "x1")

	n, err := store.DeleteByTask(ctx, "t1")
	if err != nil {
		t.Fatalf("DeleteByTask failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted: got %d, want 2", n)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 || all[0].TaskID != "t2" {
		t.Errorf("expected only t2 progress left, got %+v", all)
	}
}
