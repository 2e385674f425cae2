package reports_test

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/stagetrack/internal/app/features/reports"
	"github.com/dalemusser/stagetrack/internal/app/tracker"
	"github.com/dalemusser/stagetrack/internal/testutil"
	"go.uber.org/zap"
)

func TestServeStudentsCSV(t *testing.T) {
	svc := testutil.NewMemoryService(t)
	if _, err := svc.CreateStudent(context.Background(), tracker.NewStudent{
		Name: "Alice", Email: "alice@example.com", Username: "alice",
	}); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	h := reports.NewHandler(svc, "cohort.csv", zap.NewNop())

	rec := testutil.NewRecorder()
	h.ServeStudentsCSV(rec, testutil.NewRequest("GET", "/api/reports/students.csv"))
	rec.AssertStatus(t, http.StatusOK)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type: got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="cohort.csv"`) {
		t.Errorf("Content-Disposition: got %q", cd)
	}

	body := rec.Body.Bytes()
	if !bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("expected UTF-8 BOM")
	}
	text := string(bytes.TrimPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", text)
	}
	if lines[0] != "ID,Name,Username,Email,Joined At" {
		t.Errorf("header: got %q", lines[0])
	}
	if !strings.Contains(lines[1], ",Alice,alice,alice@example.com,") {
		t.Errorf("row: got %q", lines[1])
	}
}

func TestServeStudentsCSV_FilenameParam(t *testing.T) {
	h := reports.NewHandler(testutil.NewMemoryService(t), "", zap.NewNop())

	rec := testutil.NewRecorder()
	h.ServeStudentsCSV(rec, testutil.NewRequest("GET", "/api/reports/students.csv?filename=spring"))
	rec.AssertStatus(t, http.StatusOK)

	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="spring.csv"`) {
		t.Errorf("Content-Disposition: got %q", cd)
	}
}
