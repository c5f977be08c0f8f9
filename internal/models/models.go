package models

import "time"

// Status is a kanban column
type Status string

const (
	StatusBacklog Status = "BACKLOG"
	StatusDoing   Status = "DOING"
	StatusDone    Status = "DONE"
)

// Statuses lists the columns in workflow order
var Statuses = []Status{StatusBacklog, StatusDoing, StatusDone}

// Valid reports whether s is one of the known columns
func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusDoing, StatusDone:
		return true
	}
	return false
}

// Index returns the column position of s, or -1
func (s Status) Index() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Project owns a board of tasks
type Project struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Task is a single card on a project board
type Task struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	Priority    int // 1 is highest
	Status      Status
	DueDate     string // YYYY-MM-DD, empty when unset
	Tags        []string
	CreatedAt   time.Time
}

// NewTask holds user input for a task before validation
type NewTask struct {
	Title       string
	Description string
	Priority    int
	DueDate     string
	Tags        []string
}

// Badge annotates how close a task is to its due date
type Badge int

const (
	BadgeNone Badge = iota
	BadgeNear
	BadgeOverdue
)

func (b Badge) String() string {
	switch b {
	case BadgeNear:
		return "near"
	case BadgeOverdue:
		return "overdue"
	}
	return "none"
}

// Label is the text shown next to a task, empty for BadgeNone
func (b Badge) Label() string {
	switch b {
	case BadgeNear:
		return "due soon"
	case BadgeOverdue:
		return "overdue"
	}
	return ""
}
