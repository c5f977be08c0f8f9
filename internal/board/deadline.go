package board

import (
	"strings"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// NearDays is how many days ahead a due date counts as near
const NearDays = 2

// DeadlineBadge compares a YYYY-MM-DD due date with today's calendar date.
// Past dates are overdue, today through NearDays ahead are near, and
// anything later, blank or unparsable gets no badge.
func DeadlineBadge(dueDate string, today time.Time) models.Badge {
	dueDate = strings.TrimSpace(dueDate)
	if dueDate == "" {
		return models.BadgeNone
	}
	due, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		return models.BadgeNone
	}

	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	daysLeft := int(due.Sub(start).Hours() / 24)

	switch {
	case daysLeft < 0:
		return models.BadgeOverdue
	case daysLeft <= NearDays:
		return models.BadgeNear
	}
	return models.BadgeNone
}
