// internal/app/features/tasks/handler.go
package tasks

import (
	"net/http"

	"github.com/dalemusser/stagetrack/internal/app/system/respond"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the task catalog under /api/tasks.
type Handler struct {
	Svc *tracker.Service
	Log *zap.Logger
}

func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// List handles GET /api/tasks. ?sort=title orders by folded title.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list tasks")
	defer cancel()

	out, err := h.Svc.ListTasksBy(ctx, r.URL.Query().Get("sort"))
	if err != nil {
		respond.Error(w, h.Log, "list tasks", err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/tasks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in tracker.NewTask
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "create task", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create task")
	defer cancel()

	task, err := h.Svc.CreateTask(ctx, in)
	if err != nil {
		respond.Error(w, h.Log, "create task", err)
		return
	}
	h.Log.Info("task created", zap.String("task_id", task.ID), zap.Int("stages", len(task.Stages)))
	respond.JSON(w, http.StatusCreated, task)
}

// Delete handles DELETE /api/tasks/{id} and removes the task's progress
// with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete task")
	defer cancel()

	if err := h.Svc.DeleteTask(ctx, chi.URLParam(r, "id")); err != nil {
		respond.Error(w, h.Log, "delete task", err)
		return
	}
	respond.NoContent(w)
}
