// internal/app/features/progress/handler.go
package progress

import (
	"net/http"

	"github.com/dalemusser/stagetrack/internal/app/system/respond"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler serves the progress ledger under /api/progress.
type Handler struct {
	Svc *tracker.Service
	Log *zap.Logger
}

func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// List handles GET /api/progress.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list progress")
	defer cancel()

	out, err := h.Svc.ListProgress(ctx)
	if err != nil {
		respond.Error(w, h.Log, "list progress", err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// Upsert handles POST /api/progress. The body carries the full set of
// completed stages; the stored row is returned whether it was created or
// updated.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in tracker.ProgressUpdate
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "upsert progress", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "upsert progress")
	defer cancel()

	p, err := h.Svc.UpsertProgress(ctx, in)
	if err != nil {
		respond.Error(w, h.Log, "upsert progress", err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// Toggle handles POST /api/progress/toggle. Responds 204 when a stage is
// marked incomplete on a key that has no progress yet.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	var in tracker.StageToggle
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "toggle stage", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "toggle stage")
	defer cancel()

	p, ok, err := h.Svc.ToggleStage(ctx, in)
	if err != nil {
		respond.Error(w, h.Log, "toggle stage", err)
		return
	}
	if !ok {
		respond.NoContent(w)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}
