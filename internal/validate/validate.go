// Package validate sanitises user input before it reaches the database.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tgienger/taskflow/internal/errs"
	"github.com/tgienger/taskflow/internal/models"
)

const (
	MinNameLength = 2
	MinPriority   = 1
	MaxPriority   = 5
	DateLayout    = "2006-01-02"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("label"); name != "" {
			return name
		}
		return strings.ToLower(f.Name)
	})
	return val
}

type projectInput struct {
	Name string `label:"name" validate:"min=2"`
}

type taskInput struct {
	Title    string `label:"title" validate:"min=2"`
	Priority int    `label:"priority" validate:"min=1,max=5"`
	DueDate  string `label:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type statusInput struct {
	Status string `label:"status" validate:"oneof=BACKLOG DOING DONE"`
}

var messages = map[string]string{
	"name":     "must be at least 2 characters",
	"title":    "must be at least 2 characters",
	"priority": "must be between 1 and 5",
	"due_date": "must be a date in YYYY-MM-DD form",
	"status":   "must be one of BACKLOG, DOING, DONE",
}

// ProjectName trims name and checks its length
func ProjectName(op, name string) (string, error) {
	in := projectInput{Name: strings.TrimSpace(name)}
	if err := check(op, in); err != nil {
		return "", err
	}
	return in.Name, nil
}

// Task returns a cleaned copy of t: trimmed title and description,
// normalized tags, and a validated due date.
func Task(op string, t models.NewTask) (models.NewTask, error) {
	out := models.NewTask{
		Title:       strings.TrimSpace(t.Title),
		Description: strings.TrimSpace(t.Description),
		Priority:    t.Priority,
		DueDate:     strings.TrimSpace(t.DueDate),
	}
	in := taskInput{Title: out.Title, Priority: out.Priority, DueDate: out.DueDate}
	if err := check(op, in); err != nil {
		return models.NewTask{}, err
	}
	out.Tags = NormalizeTags(t.Tags)
	return out, nil
}

// Status uppercases and trims raw, then checks it names a column
func Status(op, raw string) (models.Status, error) {
	in := statusInput{Status: strings.ToUpper(strings.TrimSpace(raw))}
	if err := check(op, in); err != nil {
		return "", err
	}
	return models.Status(in.Status), nil
}

func check(op string, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0].Field()
		return errs.Validation(op, field, messages[field])
	}
	return errs.Validation(op, "", err.Error())
}
