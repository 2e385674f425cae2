// internal/app/features/analytics/handler.go
package analytics

import (
	"net/http"

	"github.com/dalemusser/stagetrack/internal/app/system/respond"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the derived completion views: the admin cohort overview
// and a single student's dashboard.
type Handler struct {
	Svc *tracker.Service
	Log *zap.Logger
}

func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// Cohort handles GET /api/analytics/cohort.
func (h *Handler) Cohort(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "cohort analytics")
	defer cancel()

	rep, err := h.Svc.CohortAnalytics(ctx)
	if err != nil {
		respond.Error(w, h.Log, "cohort analytics", err)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}

// Student handles GET /api/analytics/students/{username}.
func (h *Handler) Student(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "student report")
	defer cancel()

	rep, err := h.Svc.StudentReport(ctx, chi.URLParam(r, "username"))
	if err != nil {
		respond.Error(w, h.Log, "student report", err)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}
