// internal/app/features/reports/handler.go
package reports

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/stagetrack/internal/app/system/csvutil"
	"github.com/dalemusser/stagetrack/internal/app/system/respond"
	"github.com/dalemusser/stagetrack/internal/app/system/timeouts"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler owns the downloadable reports.
type Handler struct {
	Svc            *tracker.Service
	Log            *zap.Logger
	ExportFilename string
}

// NewHandler constructs a reports Handler. filename is the default name
// offered for the student export.
func NewHandler(svc *tracker.Service, filename string, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger, ExportFilename: filename}
}

// ServeStudentsCSV handles GET /api/reports/students.csv.
func (h *Handler) ServeStudentsCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "students CSV")
	defer cancel()

	students, err := h.Svc.ListStudents(ctx)
	if err != nil {
		respond.Error(w, h.Log, "students CSV", err)
		return
	}

	// Render fully before writing headers so a failure can still become a
	// JSON error.
	var buf bytes.Buffer
	// UTF-8 BOM so Excel treats it as Unicode
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	if err := csvutil.WriteStudents(&buf, students); err != nil {
		respond.Error(w, h.Log, "students CSV", err)
		return
	}

	filename := h.filename(r)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	_, _ = w.Write(buf.Bytes())

	h.Log.Info("students CSV exported", zap.Int("rows", len(students)))
}

// filename returns the "filename" query param or the configured default,
// always ending in .csv.
func (h *Handler) filename(r *http.Request) string {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = h.ExportFilename
	}
	if filename == "" {
		filename = "students_export.csv"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		filename += ".csv"
	}
	return filename
}
