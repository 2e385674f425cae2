// internal/app/features/students/handler.go
package students

import (
	"net/http"

	"github.com/dalemusser/stagetrack/internal/app/system/respond"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the student catalog under /api/students.
type Handler struct {
	Svc *tracker.Service
	Log *zap.Logger
}

func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// List handles GET /api/students. ?sort=name orders by folded name.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list students")
	defer cancel()

	out, err := h.Svc.ListStudentsBy(ctx, r.URL.Query().Get("sort"))
	if err != nil {
		respond.Error(w, h.Log, "list students", err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/students.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in tracker.NewStudent
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "create student", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create student")
	defer cancel()

	st, err := h.Svc.CreateStudent(ctx, in)
	if err != nil {
		respond.Error(w, h.Log, "create student", err)
		return
	}
	h.Log.Info("student created", zap.String("student_id", st.ID), zap.String("username", st.Username))
	respond.JSON(w, http.StatusCreated, st)
}

// ByUsername handles GET /api/students/by-username/{username}.
func (h *Handler) ByUsername(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get student")
	defer cancel()

	st, err := h.Svc.GetStudentByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		respond.Error(w, h.Log, "get student", err)
		return
	}
	respond.JSON(w, http.StatusOK, st)
}

// Delete handles DELETE /api/students/{id}. Progress is not touched.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete student")
	defer cancel()

	if err := h.Svc.DeleteStudent(ctx, chi.URLParam(r, "id")); err != nil {
		respond.Error(w, h.Log, "delete student", err)
		return
	}
	respond.NoContent(w)
}
