package validate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tgienger/taskflow/internal/errs"
	"github.com/tgienger/taskflow/internal/models"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"mixed case duplicates and blanks", []string{" Bug ", "bug", "URGENT", ""}, []string{"bug", "urgent"}},
		{"keeps first seen order", []string{"b", "a", "B", "c", "A"}, []string{"b", "a", "c"}},
		{"whitespace only dropped", []string{"  ", "\t"}, []string{}},
		{"nil input", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTagsInput(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"bug, Urgent ,school", []string{"bug", "Urgent", "school"}},
		{"a,,b, ,a", []string{"a", "b", "a"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		got := ParseTagsInput(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTagsInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProjectName(t *testing.T) {
	got, err := ProjectName("CreateProject", "  Home  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Home" {
		t.Errorf("got %q, want %q", got, "Home")
	}

	for _, bad := range []string{"", " ", " x ", "é"} {
		_, err := ProjectName("CreateProject", bad)
		if !errs.IsValidation(err) {
			t.Errorf("ProjectName(%q) error = %v, want validation error", bad, err)
		}
	}
}

func TestTask(t *testing.T) {
	tests := []struct {
		name      string
		in        models.NewTask
		wantField string
	}{
		{"valid", models.NewTask{Title: "Write docs", Priority: 3, DueDate: "2024-06-10"}, ""},
		{"no due date", models.NewTask{Title: "Write docs", Priority: 1}, ""},
		{"short title", models.NewTask{Title: " a ", Priority: 3}, "title"},
		{"priority too low", models.NewTask{Title: "ok", Priority: 0}, "priority"},
		{"priority too high", models.NewTask{Title: "ok", Priority: 6}, "priority"},
		{"bad date format", models.NewTask{Title: "ok", Priority: 2, DueDate: "10/06/2024"}, "due_date"},
		{"impossible date", models.NewTask{Title: "ok", Priority: 2, DueDate: "2024-02-30"}, "due_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Task("AddTask", tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var e *errs.Error
			if !errors.As(err, &e) || !errs.IsValidation(err) {
				t.Fatalf("error = %v, want validation error", err)
			}
			if e.Field != tt.wantField {
				t.Errorf("field = %q, want %q", e.Field, tt.wantField)
			}
		})
	}
}

func TestTaskCleansInput(t *testing.T) {
	got, err := Task("AddTask", models.NewTask{
		Title:       "  Add auth flow ",
		Description: "  needs tokens\n",
		Priority:    2,
		DueDate:     " 2024-06-11 ",
		Tags:        []string{"Auth", "auth", " API "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.NewTask{
		Title:       "Add auth flow",
		Description: "needs tokens",
		Priority:    2,
		DueDate:     "2024-06-11",
		Tags:        []string{"auth", "api"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Task() = %+v, want %+v", got, want)
	}
}

func TestStatus(t *testing.T) {
	got, err := Status("MoveTask", " doing ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != models.StatusDoing {
		t.Errorf("got %q, want %q", got, models.StatusDoing)
	}

	for _, bad := range []string{"", "todo", "DOINGS"} {
		if _, err := Status("MoveTask", bad); !errs.IsValidation(err) {
			t.Errorf("Status(%q) error = %v, want validation error", bad, err)
		}
	}
}
