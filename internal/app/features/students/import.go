// internal/app/features/students/import.go
package students

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/stagetrack/internal/app/system/csvutil"
	"github.com/dalemusser/stagetrack/internal/app/system/respond"
	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"go.uber.org/zap"
)

// importResponse is the body of a completed or partly completed import.
type importResponse struct {
	Created int                `json:"created"`
	Failed  []csvutil.RowError `json:"failed"`
	Aborted bool               `json:"aborted,omitempty"`
}

// Import handles POST /api/students/import. The CSV arrives either as the
// raw request body or as the "file" part of a multipart form.
//
// If storage fails after some rows were stored, the response is still 200
// with aborted set and the unstored rows listed as failed. Each insert
// carries its own deadline inside the service, so the request itself has
// none.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			respond.Error(w, h.Log, "import students", errs.Invalid("file", "is required"))
			return
		}
		defer file.Close()
		src = file
	}

	parsed, err := csvutil.ParseStudentCSV(src, csvutil.DefaultParseOptions())
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			err = errs.Invalid("file", "is larger than the upload limit")
		case errors.Is(err, csvutil.ErrTooManyRows):
			err = errs.Invalid("file", err.Error())
		default:
			err = errs.Invalid("file", "is not valid CSV: "+err.Error())
		}
		respond.Error(w, h.Log, "import students", err)
		return
	}

	res, err := h.Svc.ImportStudents(r.Context(), parsed.Rows)
	if err != nil {
		if len(res.Created) == 0 {
			respond.Error(w, h.Log, "import students", err)
			return
		}
		h.Log.Error("import students: aborted after partial success",
			zap.Int("created", len(res.Created)),
			zap.Error(err))
	}

	failed := append([]csvutil.RowError{}, parsed.Errors...)
	failed = append(failed, res.Failed...)
	sort.Slice(failed, func(i, j int) bool { return failed[i].Line < failed[j].Line })
	h.Log.Info("student CSV imported", zap.Int("created", len(res.Created)), zap.Int("failed", len(failed)))
	respond.JSON(w, http.StatusOK, importResponse{Created: len(res.Created), Failed: failed, Aborted: res.Aborted})
}
