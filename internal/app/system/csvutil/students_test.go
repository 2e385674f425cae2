package csvutil

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/stagetrack/internal/domain/models"
)

func TestParseStudentCSV_ValidRows(t *testing.T) {
	in := `Name,Email,Username,Password
Ada Lovelace,ada@example.com,ada,secret
Alan Turing,alan@example.com,alan,`

	res, err := ParseStudentCSV(strings.NewReader(in), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseStudentCSV() error = %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(res.Rows))
	}
	if res.Rows[0].Username != "ada" || res.Rows[0].Password != "secret" || res.Rows[0].Line != 2 {
		t.Errorf("row 0 = %+v", res.Rows[0])
	}
	if res.Rows[1].Password != "" {
		t.Errorf("row 1 password = %q, want empty", res.Rows[1].Password)
	}
}

func TestParseStudentCSV_NoHeaderAndBOM(t *testing.T) {
	in := "\xEF\xBB\xBFAda,ada@example.com,ada\n\n  ,  ,  \nAlan,alan@example.com,alan\n"

	res, err := ParseStudentCSV(strings.NewReader(in), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseStudentCSV() error = %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(res.Rows))
	}
	if res.Rows[0].Name != "Ada" {
		t.Errorf("BOM not stripped: %q", res.Rows[0].Name)
	}
}

func TestParseStudentCSV_RowErrors(t *testing.T) {
	in := `name,email,username
Ada,ada@example.com,ada
,missing@example.com,nobody
Ada Again,ada2@example.com,ada
Bob,,`

	res, err := ParseStudentCSV(strings.NewReader(in), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseStudentCSV() error = %v", err)
	}
	if len(res.Rows) != 1 {
		t.Errorf("got %d rows, want 1", len(res.Rows))
	}

	want := []RowError{
		{Line: 3, Username: "nobody", Reason: "missing name"},
		{Line: 4, Username: "ada", Reason: "duplicate of line 2"},
		{Line: 5, Reason: "missing email, username"},
	}
	if len(res.Errors) != len(want) {
		t.Fatalf("got errors %+v, want %+v", res.Errors, want)
	}
	for i := range want {
		if res.Errors[i] != want[i] {
			t.Errorf("error %d = %+v, want %+v", i, res.Errors[i], want[i])
		}
	}
}

func TestParseStudentCSV_MaxRows(t *testing.T) {
	in := "a,a@x.com,a\nb,b@x.com,b\nc,c@x.com,c\n"
	_, err := ParseStudentCSV(strings.NewReader(in), ParseOptions{MaxRows: 2})
	if !errors.Is(err, ErrTooManyRows) {
		t.Errorf("expected ErrTooManyRows, got %v", err)
	}
}

func TestParseStudentCSV_Empty(t *testing.T) {
	res, err := ParseStudentCSV(strings.NewReader(""), DefaultParseOptions())
	if err != nil {
		t.Fatalf("ParseStudentCSV() error = %v", err)
	}
	if len(res.Rows) != 0 || res.HasErrors() {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestWriteStudents(t *testing.T) {
	joined := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	students := []models.Student{
		{ID: "id-1", Name: "Ada, Countess", Username: "ada", Email: "ada@example.com", JoinedAt: joined},
	}

	var buf bytes.Buffer
	if err := WriteStudents(&buf, students); err != nil {
		t.Fatalf("WriteStudents() error = %v", err)
	}

	want := "ID,Name,Username,Email,Joined At\r\n" +
		"id-1,\"Ada, Countess\",ada,ada@example.com,2024-03-01T09:30:00Z\r\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteStudents_EscapesFormulaCells(t *testing.T) {
	joined := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	students := []models.Student{
		{ID: "id-1", Name: "=HYPERLINK(\"http://x\")", Username: "+cmd", Email: "@sum", JoinedAt: joined},
		{ID: "id-2", Name: "-1", Username: "plain", Email: "a-b@example.com", JoinedAt: joined},
	}

	var buf bytes.Buffer
	if err := WriteStudents(&buf, students); err != nil {
		t.Fatalf("WriteStudents() error = %v", err)
	}

	want := "ID,Name,Username,Email,Joined At\r\n" +
		"id-1,\"'=HYPERLINK(\"\"http://x\"\")\",'+cmd,'@sum,2024-03-01T09:30:00Z\r\n" +
		"id-2,'-1,plain,a-b@example.com,2024-03-01T09:30:00Z\r\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestConstants(t *testing.T) {
	if MaxUploadSize != 5<<20 {
		t.Errorf("MaxUploadSize = %d", MaxUploadSize)
	}
	if DefaultParseOptions().MaxRows != MaxRows {
		t.Errorf("DefaultParseOptions().MaxRows = %d, want %d", DefaultParseOptions().MaxRows, MaxRows)
	}
}
