package ui

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/tgienger/taskflow/internal/models"
)

const lastProjectKey = "last_project_id"

// Session is the interaction state that outlives a single view: which
// project is active. Every repository call receives the project id from
// here explicitly.
type Session struct {
	ID      string
	Project *models.Project
}

func newSession() Session {
	return Session{ID: uuid.NewString()}
}

// ProjectID returns the active project's id, or 0 when none is selected
func (s Session) ProjectID() int64 {
	if s.Project == nil {
		return 0
	}
	return s.Project.ID
}

func (s Session) settingValue() string {
	if s.Project == nil {
		return ""
	}
	return strconv.FormatInt(s.Project.ID, 10)
}
