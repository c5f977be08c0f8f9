package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tgienger/taskflow/internal/errs"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/validate"
)

const taskColumns = `id, project_id, title, description, priority, status, due_date, tags_json, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (models.Task, error) {
	var t models.Task
	var due sql.NullString
	var tagsJSON string
	err := s.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Priority, &t.Status, &due, &tagsJSON, &t.CreatedAt)
	if err != nil {
		return t, err
	}
	t.DueDate = due.String
	t.Tags = decodeTags(tagsJSON)
	return t, nil
}

// AddTask validates in and stores it as a new BACKLOG task
func (db *DB) AddTask(projectID int64, in models.NewTask) (int64, error) {
	const op = "AddTask"
	clean, err := validate.Task(op, in)
	if err != nil {
		return 0, err
	}

	var due sql.NullString
	if clean.DueDate != "" {
		due = sql.NullString{String: clean.DueDate, Valid: true}
	}

	result, err := db.Exec(`
		INSERT INTO tasks (project_id, title, description, priority, status, due_date, tags_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, projectID, clean.Title, clean.Description, clean.Priority, models.StatusBacklog, due, encodeTags(clean.Tags), db.timestamp())
	if err != nil {
		return 0, wrapErr(op, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errs.Storage(op, err)
	}

	db.log.Debug().Int64("project_id", projectID).Int64("task_id", id).Msg("task added")
	return id, nil
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(id int64) (*models.Task, error) {
	t, err := scanTask(db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("GetTask", fmt.Sprintf("task %d", id))
	}
	if err != nil {
		return nil, errs.Storage("GetTask", err)
	}
	return &t, nil
}

// ListTasks returns all tasks for a project, highest priority first and
// newest first within a priority
func (db *DB) ListTasks(projectID int64) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE project_id = ?
		ORDER BY priority ASC, id DESC
	`, projectID)
	if err != nil {
		return nil, errs.Storage("ListTasks", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, errs.Storage("ListTasks", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("ListTasks", err)
	}
	return tasks, nil
}

// CountByStatus counts every task of a project per column
func (db *DB) CountByStatus(projectID int64) (map[models.Status]int, error) {
	rows, err := db.Query(`
		SELECT status, COUNT(*) FROM tasks WHERE project_id = ? GROUP BY status
	`, projectID)
	if err != nil {
		return nil, errs.Storage("CountByStatus", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int, len(models.Statuses))
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	for rows.Next() {
		var s models.Status
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, errs.Storage("CountByStatus", err)
		}
		counts[s] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("CountByStatus", err)
	}
	return counts, nil
}

// MoveTask changes a task's column. Moving into DOING fails with a
// capacity error when the project already has WIPLimit tasks there; a task
// already in DOING is not counted against itself. The check and the update
// run in one immediate transaction.
func (db *DB) MoveTask(projectID, taskID int64, status string) error {
	const op = "MoveTask"
	newStatus, err := validate.Status(op, status)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return errs.Storage(op, err)
	}
	defer tx.Rollback()

	var owner int64
	var current models.Status
	err = tx.QueryRow("SELECT project_id, status FROM tasks WHERE id = ?", taskID).Scan(&owner, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound(op, fmt.Sprintf("task %d", taskID))
	}
	if err != nil {
		return errs.Storage(op, err)
	}
	if owner != projectID {
		db.log.Info().Int64("project_id", projectID).Int64("task_id", taskID).Int64("owner", owner).Msg("move refused: wrong project")
		return errs.Ownership(op, taskID, projectID)
	}

	if newStatus == models.StatusDoing && current != models.StatusDoing {
		var doing int
		err := tx.QueryRow(
			"SELECT COUNT(*) FROM tasks WHERE project_id = ? AND status = ?",
			projectID, models.StatusDoing,
		).Scan(&doing)
		if err != nil {
			return errs.Storage(op, err)
		}
		if doing >= db.wipLimit {
			db.log.Info().Int64("project_id", projectID).Int64("task_id", taskID).Int("doing", doing).Msg("move refused: WIP limit")
			return errs.Capacity(op, db.wipLimit)
		}
	}

	if _, err := tx.Exec("UPDATE tasks SET status = ? WHERE id = ?", newStatus, taskID); err != nil {
		return errs.Storage(op, err)
	}
	if err := tx.Commit(); err != nil {
		return errs.Storage(op, err)
	}

	db.log.Debug().Int64("task_id", taskID).Str("from", string(current)).Str("to", string(newStatus)).Msg("task moved")
	return nil
}

// DeleteTask removes a task. A missing task is not an error.
func (db *DB) DeleteTask(projectID, taskID int64) error {
	const op = "DeleteTask"
	tx, err := db.Begin()
	if err != nil {
		return errs.Storage(op, err)
	}
	defer tx.Rollback()

	var owner int64
	err = tx.QueryRow("SELECT project_id FROM tasks WHERE id = ?", taskID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return errs.Storage(op, err)
	}
	if owner != projectID {
		db.log.Info().Int64("project_id", projectID).Int64("task_id", taskID).Int64("owner", owner).Msg("delete refused: wrong project")
		return errs.Ownership(op, taskID, projectID)
	}

	if _, err := tx.Exec("DELETE FROM tasks WHERE id = ?", taskID); err != nil {
		return errs.Storage(op, err)
	}
	if err := tx.Commit(); err != nil {
		return errs.Storage(op, err)
	}

	db.log.Debug().Int64("project_id", projectID).Int64("task_id", taskID).Msg("task deleted")
	return nil
}
