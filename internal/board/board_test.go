package board

import (
	"encoding/csv"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

func sampleTasks() []models.Task {
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return []models.Task{
		{ID: 3, ProjectID: 1, Title: "Add auth flow", Description: "login, logout\nand refresh", Priority: 1, Status: models.StatusDoing, DueDate: "2024-06-11", Tags: []string{"backend", "urgent"}, CreatedAt: created},
		{ID: 2, ProjectID: 1, Title: "Fix typo", Description: "", Priority: 2, Status: models.StatusBacklog, Tags: []string{}, CreatedAt: created.Add(time.Hour)},
		{ID: 1, ProjectID: 1, Title: `Say "hi"`, Description: "greeting about AUTH", Priority: 3, Status: models.StatusDone, Tags: []string{"Frontend"}, CreatedAt: created.Add(2 * time.Hour)},
	}
}

func ids(tasks []models.Task) []int64 {
	out := []int64{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterTasks(t *testing.T) {
	tasks := sampleTasks()

	tests := []struct {
		name  string
		query string
		tag   string
		want  []int64
	}{
		{"no filters", "", "  ", []int64{3, 2, 1}},
		{"query in title", "auth", "", []int64{3, 1}},
		{"query is case insensitive", "TYPO", "", []int64{2}},
		{"query in description", "refresh", "", []int64{3}},
		{"tag exact match", "", "urgent", []int64{3}},
		{"tag ignores case", "", " FRONTEND ", []int64{1}},
		{"tag is not substring", "", "front", []int64{}},
		{"both filters", "auth", "frontend", []int64{1}},
		{"nothing matches", "zzz", "", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterTasks(tasks, tt.query, tt.tag))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterTasks(%q, %q) = %v, want %v", tt.query, tt.tag, got, tt.want)
			}
		})
	}
}

func TestFilterTasksAuthScenario(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Title: "Add auth flow"},
		{ID: 2, Title: "Fix typo"},
	}
	got := FilterTasks(tasks, "auth", "")
	if len(got) != 1 || got[0].Title != "Add auth flow" {
		t.Errorf("got %+v", got)
	}
}

func TestSplitByStatus(t *testing.T) {
	tasks := append(sampleTasks(), models.Task{ID: 9, Status: models.StatusDoing})
	cols := SplitByStatus(tasks)
	if got := ids(cols[models.StatusDoing]); !reflect.DeepEqual(got, []int64{3, 9}) {
		t.Errorf("DOING = %v", got)
	}
	if got := ids(cols[models.StatusBacklog]); !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("BACKLOG = %v", got)
	}
}

func TestToCSVRoundTrip(t *testing.T) {
	tasks := sampleTasks()
	out, err := ToCSV(tasks)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if len(records) != len(tasks)+1 {
		t.Fatalf("got %d records, want %d", len(records), len(tasks)+1)
	}
	if !reflect.DeepEqual(records[0], CSVHeader) {
		t.Errorf("header = %q", records[0])
	}

	for i, task := range tasks {
		row := records[i+1]
		want := []string{
			strconv.FormatInt(task.ID, 10),
			task.Title,
			task.Description,
			strconv.Itoa(task.Priority),
			string(task.Status),
			task.DueDate,
			strings.Join(task.Tags, ","),
			task.CreatedAt.Format(time.RFC3339),
		}
		if !reflect.DeepEqual(row, want) {
			t.Errorf("row %d = %q, want %q", i, row, want)
		}
	}
}

func TestToCSVEmpty(t *testing.T) {
	out, err := ToCSV(nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "id,title,description,priority,status,due_date,tags,created_at\n" {
		t.Errorf("got %q", out)
	}
}

func TestToCSVQuotesFields(t *testing.T) {
	out, err := ToCSV(sampleTasks()[:1])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"login, logout`+"\n"+`and refresh"`) {
		t.Errorf("description not quoted: %q", out)
	}
	if !strings.Contains(out, `"backend,urgent"`) {
		t.Errorf("tags not quoted: %q", out)
	}
}

func TestDeadlineBadge(t *testing.T) {
	today := time.Date(2024, 6, 10, 23, 45, 0, 0, time.Local)

	tests := []struct {
		due  string
		want models.Badge
	}{
		{"2024-06-08", models.BadgeOverdue},
		{"2024-06-09", models.BadgeOverdue},
		{"2024-06-10", models.BadgeNear},
		{"2024-06-11", models.BadgeNear},
		{"2024-06-12", models.BadgeNear},
		{"2024-06-13", models.BadgeNone},
		{"2024-06-20", models.BadgeNone},
		{"", models.BadgeNone},
		{"soon", models.BadgeNone},
		{"2024-02-30", models.BadgeNone},
	}
	for _, tt := range tests {
		if got := DeadlineBadge(tt.due, today); got != tt.want {
			t.Errorf("DeadlineBadge(%q) = %v, want %v", tt.due, got, tt.want)
		}
	}
}
