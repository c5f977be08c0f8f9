package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tgienger/taskflow/internal/errs"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/validate"
)

// CreateProject inserts a project and returns its id. It does not look for
// an existing project with the same name; a duplicate surfaces as a
// conflict from the unique index. Use EnsureProject for create-or-reuse.
func (db *DB) CreateProject(name string) (int64, error) {
	const op = "CreateProject"
	name, err := validate.ProjectName(op, name)
	if err != nil {
		return 0, err
	}

	result, err := db.Exec(`
		INSERT INTO projects (name, created_at) VALUES (?, ?)
	`, name, db.timestamp())
	if err != nil {
		return 0, wrapErr(op, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errs.Storage(op, err)
	}

	db.log.Debug().Int64("project_id", id).Str("name", name).Msg("project created")
	return id, nil
}

// EnsureProject returns the project called name, creating it when absent
func (db *DB) EnsureProject(name string) (*models.Project, bool, error) {
	existing, err := db.FindProjectByName(name)
	if err == nil {
		return existing, false, nil
	}
	if !errs.IsNotFound(err) {
		return nil, false, err
	}

	id, err := db.CreateProject(name)
	if err != nil {
		return nil, false, err
	}
	p, err := db.GetProject(id)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// GetProject retrieves a project by ID
func (db *DB) GetProject(id int64) (*models.Project, error) {
	p := &models.Project{}
	err := db.QueryRow(`
		SELECT id, name, created_at FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("GetProject", fmt.Sprintf("project %d", id))
	}
	if err != nil {
		return nil, errs.Storage("GetProject", err)
	}
	return p, nil
}

// FindProjectByName looks up a project by its exact trimmed name
func (db *DB) FindProjectByName(name string) (*models.Project, error) {
	p := &models.Project{}
	err := db.QueryRow(`
		SELECT id, name, created_at FROM projects WHERE name = ?
	`, strings.TrimSpace(name)).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("FindProjectByName", fmt.Sprintf("project %q", strings.TrimSpace(name)))
	}
	if err != nil {
		return nil, errs.Storage("FindProjectByName", err)
	}
	return p, nil
}

// ListProjects returns all projects, newest first
func (db *DB) ListProjects() ([]models.Project, error) {
	rows, err := db.Query(`
		SELECT id, name, created_at
		FROM projects ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, errs.Storage("ListProjects", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, errs.Storage("ListProjects", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("ListProjects", err)
	}
	return projects, nil
}

// RenameProject changes a project's name. Keeping the current name is
// allowed; taking another project's name is a conflict.
func (db *DB) RenameProject(id int64, newName string) error {
	const op = "RenameProject"
	newName, err := validate.ProjectName(op, newName)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return errs.Storage(op, err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM projects WHERE id = ?", id).Scan(&exists); err != nil {
		return errs.Storage(op, err)
	}
	if exists == 0 {
		return errs.NotFound(op, fmt.Sprintf("project %d", id))
	}

	var otherID int64
	err = tx.QueryRow("SELECT id FROM projects WHERE name = ? AND id != ?", newName, id).Scan(&otherID)
	switch {
	case err == nil:
		return errs.Conflict(op, fmt.Sprintf("another project is already called %q", newName))
	case !errors.Is(err, sql.ErrNoRows):
		return errs.Storage(op, err)
	}

	if _, err := tx.Exec("UPDATE projects SET name = ? WHERE id = ?", newName, id); err != nil {
		return wrapErr(op, err)
	}
	if err := tx.Commit(); err != nil {
		return errs.Storage(op, err)
	}

	db.log.Debug().Int64("project_id", id).Str("name", newName).Msg("project renamed")
	return nil
}
