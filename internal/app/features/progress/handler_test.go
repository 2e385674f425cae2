package progress_test

import (
	"net/http"
	"sort"
	"testing"

	"github.com/dalemusser/stagetrack/internal/app/features/progress"
	"github.com/dalemusser/stagetrack/internal/domain/models"
	"github.com/dalemusser/stagetrack/internal/testutil"
	"go.uber.org/zap"
)

func TestUpsert_CreatesThenReplaces(t *testing.T) {
	h := progress.NewHandler(testutil.NewMemoryService(t), zap.NewNop())

	first := testutil.NewRecorder()
	h.Upsert(first, testutil.NewJSONRequest(t, "POST", "/api/progress", map[string]any{
		"studentUsername": "alice", "taskId": "t1", "completedStages": []string{"a", "b"},
	}))
	first.AssertStatus(t, http.StatusOK)

	var created models.Progress
	testutil.DecodeJSON(t, first.ResponseRecorder, &created)

	second := testutil.NewRecorder()
	h.Upsert(second, testutil.NewJSONRequest(t, "POST", "/api/progress", map[string]any{
		"studentUsername": "alice", "taskId": "t1", "completedStages": []string{"c"},
	}))
	second.AssertStatus(t, http.StatusOK)

	var updated models.Progress
	testutil.DecodeJSON(t, second.ResponseRecorder, &updated)
	if updated.ID != created.ID {
		t.Errorf("id changed across upserts: %q then %q", created.ID, updated.ID)
	}
	if len(updated.CompletedStages) != 1 || updated.CompletedStages[0] != "c" {
		t.Errorf("completedStages: got %v, want [c]", updated.CompletedStages)
	}

	list := testutil.NewRecorder()
	h.List(list, testutil.NewRequest("GET", "/api/progress"))
	var all []models.Progress
	testutil.DecodeJSON(t, list.ResponseRecorder, &all)
	if len(all) != 1 {
		t.Errorf("expected one progress row, got %d", len(all))
	}
}

func TestUpsert_Validation(t *testing.T) {
	h := progress.NewHandler(testutil.NewMemoryService(t), zap.NewNop())

	rec := testutil.NewRecorder()
	h.Upsert(rec, testutil.NewJSONRequest(t, "POST", "/api/progress", map[string]any{
		"studentUsername": "", "taskId": "t1",
	}))

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"field":"studentUsername"`)
	rec.AssertContains(t, `"field":"completedStages"`)
}

func TestToggle(t *testing.T) {
	h := progress.NewHandler(testutil.NewMemoryService(t), zap.NewNop())

	toggle := func(stage string, completed bool) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		h.Toggle(rec, testutil.NewJSONRequest(t, "POST", "/api/progress/toggle", map[string]any{
			"studentUsername": "bob", "taskId": "t1", "stageId": stage, "completed": completed,
		}))
		return rec
	}

	// Unmarking on an absent key writes nothing.
	toggle("a", false).AssertStatus(t, http.StatusNoContent)

	toggle("a", true).AssertStatus(t, http.StatusOK)
	rec := toggle("b", true)
	rec.AssertStatus(t, http.StatusOK)

	var p models.Progress
	testutil.DecodeJSON(t, rec.ResponseRecorder, &p)
	got := append([]string(nil), p.CompletedStages...)
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("completedStages: got %v, want [a b]", got)
	}

	rec = toggle("a", false)
	rec.AssertStatus(t, http.StatusOK)
	testutil.DecodeJSON(t, rec.ResponseRecorder, &p)
	if len(p.CompletedStages) != 1 || p.CompletedStages[0] != "b" {
		t.Errorf("completedStages after unmark: got %v, want [b]", p.CompletedStages)
	}
}

func TestToggle_RequiresCompleted(t *testing.T) {
	h := progress.NewHandler(testutil.NewMemoryService(t), zap.NewNop())

	rec := testutil.NewRecorder()
	h.Toggle(rec, testutil.NewJSONRequest(t, "POST", "/api/progress/toggle", map[string]any{
		"studentUsername": "bob", "taskId": "t1", "stageId": "a",
	}))

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"field":"completed"`)
}
