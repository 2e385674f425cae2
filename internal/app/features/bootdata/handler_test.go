package bootdata_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/stagetrack/internal/app/features/bootdata"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
	"github.com/dalemusser/stagetrack/internal/testutil"
	"go.uber.org/zap"
)

func TestServe_Empty(t *testing.T) {
	h := bootdata.NewHandler(testutil.NewMemoryService(t), zap.NewNop())

	rec := testutil.NewRecorder()
	h.Serve(rec, testutil.NewRequest("GET", "/api/data"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"students":[]`)
	rec.AssertContains(t, `"tasks":[]`)
	rec.AssertContains(t, `"progress":[]`)
}

func TestServe_ReturnsAllCatalogs(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewMemoryService(t)
	h := bootdata.NewHandler(svc, zap.NewNop())

	if _, err := svc.CreateStudent(ctx, tracker.NewStudent{Name: "Alice", Email: "alice@example.com", Username: "alice"}); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	task, err := svc.CreateTask(ctx, tracker.NewTask{Title: "Lab", Description: "Lab work", Stages: []tracker.NewStage{{ID: "s1", Name: "One"}}})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := svc.UpsertProgress(ctx, tracker.ProgressUpdate{StudentUsername: "alice", TaskID: task.ID, CompletedStages: []string{"s1"}}); err != nil {
		t.Fatalf("UpsertProgress: %v", err)
	}

	rec := testutil.NewRecorder()
	h.Serve(rec, testutil.NewRequest("GET", "/api/data"))
	rec.AssertStatus(t, http.StatusOK)

	var data tracker.AllData
	testutil.DecodeJSON(t, rec.ResponseRecorder, &data)
	if len(data.Students) != 1 || len(data.Tasks) != 1 || len(data.Progress) != 1 {
		t.Errorf("got %d students, %d tasks, %d progress; want 1 each",
			len(data.Students), len(data.Tasks), len(data.Progress))
	}
}
