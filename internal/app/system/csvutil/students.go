// internal/app/system/csvutil/students.go
package csvutil

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dalemusser/stagetrack/internal/domain/models"
)

// ExportHeader is the header row of the student export.
var ExportHeader = []string{"ID", "Name", "Username", "Email", "Joined At"}

// ErrTooManyRows is returned when an upload exceeds ParseOptions.MaxRows.
var ErrTooManyRows = errors.New("too many rows")

// StudentRow is one normalized import row.
type StudentRow struct {
	Line     int // 1-based line in the uploaded file
	Name     string
	Email    string
	Username string
	Password string
}

// RowError describes one rejected import row.
type RowError struct {
	Line     int    `json:"line"`
	Username string `json:"username,omitempty"`
	Reason   string `json:"reason"`
}

// ParseResult holds the accepted rows and the rows rejected while parsing.
type ParseResult struct {
	Rows   []StudentRow
	Errors []RowError
}

// HasErrors reports whether any row was rejected.
func (r *ParseResult) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// ParseOptions bounds an import.
type ParseOptions struct {
	MaxRows int
}

// DefaultParseOptions returns the limits used by the import endpoint.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxRows: MaxRows}
}

// ParseStudentCSV reads "Name,Email,Username[,Password]" rows. A header row
// is detected and skipped, as is a UTF-8 BOM. Blank rows are ignored. Rows
// missing a column, or repeating an earlier username, are reported in
// Errors and left out of Rows. It never writes anywhere.
func ParseStudentCSV(r io.Reader, opts ParseOptions) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	res := &ParseResult{}
	seen := make(map[string]int)
	first := true
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}

		row := normalize(rec, line)
		if row.Name == "" && row.Email == "" && row.Username == "" {
			continue
		}
		if opts.MaxRows > 0 && len(res.Rows)+len(res.Errors) >= opts.MaxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, opts.MaxRows)
		}

		var missing []string
		if row.Name == "" {
			missing = append(missing, "name")
		}
		if row.Email == "" {
			missing = append(missing, "email")
		}
		if row.Username == "" {
			missing = append(missing, "username")
		}
		if len(missing) > 0 {
			res.Errors = append(res.Errors, RowError{Line: line, Username: row.Username, Reason: "missing " + strings.Join(missing, ", ")})
			continue
		}
		if prev, dup := seen[row.Username]; dup {
			res.Errors = append(res.Errors, RowError{Line: line, Username: row.Username, Reason: fmt.Sprintf("duplicate of line %d", prev)})
			continue
		}
		seen[row.Username] = line
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func isHeader(rec []string) bool {
	if len(rec) < 3 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return (first == "name" || first == "full name") &&
		strings.EqualFold(strings.TrimSpace(rec[1]), "email") &&
		strings.EqualFold(strings.TrimSpace(rec[2]), "username")
}

func normalize(rec []string, line int) StudentRow {
	col := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	return StudentRow{Line: line, Name: col(0), Email: col(1), Username: col(2), Password: col(3)}
}

// WriteStudents writes the export header and one row per student.
// Joined At is RFC 3339 in UTC. Text cells that a spreadsheet would
// evaluate as a formula are prefixed with a single quote.
func WriteStudents(w io.Writer, students []models.Student) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, st := range students {
		if err := cw.Write([]string{
			st.ID,
			safeCell(st.Name),
			safeCell(st.Username),
			safeCell(st.Email),
			st.JoinedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// safeCell neutralizes leading formula triggers (= + - @ tab CR).
func safeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
