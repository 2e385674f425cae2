package testutil

import (
	"testing"

	"github.com/dalemusser/stagetrack/internal/app/store/memstore"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
)

// NewMemoryService returns a tracker service over a fresh in-memory store,
// for handler tests that do not need MongoDB.
func NewMemoryService(t *testing.T) *tracker.Service {
	t.Helper()
	db := memstore.Open()
	return tracker.New(tracker.Deps{
		Students: memstore.NewStudentRepository(db),
		Tasks:    memstore.NewTaskRepository(db),
		Progress: memstore.NewProgressRepository(db),
	})
}
