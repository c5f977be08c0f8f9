// Package board holds the pure, in-memory operations over a project's
// tasks: filtering, column bucketing, CSV export and deadline badges.
package board

import (
	"strings"

	"github.com/tgienger/taskflow/internal/models"
)

// FilterTasks keeps tasks whose title or description contains query and
// that carry tag. Both comparisons ignore case; a blank query or tag
// matches everything. Input order is preserved.
func FilterTasks(tasks []models.Task, query, tag string) []models.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	tg := strings.ToLower(strings.TrimSpace(tag))

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if q != "" && !strings.Contains(strings.ToLower(t.Title+" "+t.Description), q) {
			continue
		}
		if tg != "" && !hasTag(t, tg) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func hasTag(t models.Task, tag string) bool {
	for _, x := range t.Tags {
		if strings.ToLower(x) == tag {
			return true
		}
	}
	return false
}

// SplitByStatus buckets tasks into their columns, keeping order
func SplitByStatus(tasks []models.Task) map[models.Status][]models.Task {
	cols := make(map[models.Status][]models.Task, len(models.Statuses))
	for _, t := range tasks {
		cols[t.Status] = append(cols[t.Status], t)
	}
	return cols
}
