// Package respond writes JSON responses and maps tracker errors onto
// HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies accepted by Decode.
const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error    string              `json:"error"`
	Problems []errs.FieldProblem `json:"problems,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NoContent writes 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Decode reads a JSON body into dst. A missing or malformed body becomes
// a *errs.ValidationError on field "body".
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "must be a valid JSON object"
		if errors.Is(err, io.EOF) {
			msg = "is required"
		}
		return errs.Invalid("body", msg)
	}
	return nil
}

// Status returns the HTTP status for err.
func Status(err error) int {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error body. Validation problems are listed;
// internal errors are logged and reported without detail.
func Error(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	status := Status(err)
	body := errorBody{Error: err.Error()}

	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		body.Error = "validation failed"
		body.Problems = ve.Problems
	case status == http.StatusServiceUnavailable:
		log.Error(op+": storage unavailable", zap.Error(err))
		body.Error = "storage unavailable"
	case status == http.StatusInternalServerError:
		log.Error(op+" failed", zap.Error(err))
		body.Error = "internal error"
	}

	JSON(w, status, body)
}
