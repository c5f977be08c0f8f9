package board

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

const (
	ExportFilename = "kanban_tasks.csv"
	ExportMIME     = "text/csv"
)

// CSVHeader is the first row of every export
var CSVHeader = []string{"id", "title", "description", "priority", "status", "due_date", "tags", "created_at"}

// WriteCSV writes tasks in the given order. Tags are joined with commas
// into one field and created_at is RFC 3339.
func WriteCSV(w io.Writer, tasks []models.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Description,
			strconv.Itoa(t.Priority),
			string(t.Status),
			t.DueDate,
			strings.Join(t.Tags, ","),
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToCSV renders tasks as a CSV document
func ToCSV(tasks []models.Task) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tasks); err != nil {
		return "", err
	}
	return buf.String(), nil
}
