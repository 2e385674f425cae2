// internal/app/features/bootdata/handler.go
package bootdata

import (
	"net/http"

	"github.com/dalemusser/stagetrack/internal/app/system/respond"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler serves GET /api/data, the one-shot fetch clients use to hydrate
// their state.
type Handler struct {
	Svc *tracker.Service
	Log *zap.Logger
}

func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "get all data")
	defer cancel()

	data, err := h.Svc.GetAllData(ctx)
	if err != nil {
		respond.Error(w, h.Log, "get all data", err)
		return
	}
	respond.JSON(w, http.StatusOK, data)
}
