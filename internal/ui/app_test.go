package ui

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/ui/views"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	database, err := db.Open(db.Options{Path: filepath.Join(t.TempDir(), "taskflow.db")})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewApp(database, zerolog.Nop(), views.BoardOptions{
		Today:     func() time.Time { return time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) },
		ExportDir: t.TempDir(),
	})
}

func TestAppStartsOnProjectList(t *testing.T) {
	a := newTestApp(t)
	a.Init()

	if a.currentView != ViewProjects {
		t.Errorf("currentView = %v, want ViewProjects", a.currentView)
	}
	if a.Session().ID == "" {
		t.Error("session should have an id")
	}
	if a.Session().ProjectID() != 0 {
		t.Error("no project should be active")
	}
}

func TestAppSelectRemembersProject(t *testing.T) {
	a := newTestApp(t)
	p, _, err := a.db.EnsureProject("Home")
	if err != nil {
		t.Fatalf("EnsureProject: %v", err)
	}

	a.Update(views.SelectedProject{Project: *p})
	if a.currentView != ViewBoard || a.board == nil {
		t.Fatal("selecting a project should open its board")
	}
	if a.Session().ProjectID() != p.ID {
		t.Errorf("session project = %d, want %d", a.Session().ProjectID(), p.ID)
	}

	saved, err := a.db.GetSetting(lastProjectKey)
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if saved != strconv.FormatInt(p.ID, 10) {
		t.Errorf("saved last project = %q, want %d", saved, p.ID)
	}

	a.Update(views.BackToProjects{})
	if a.currentView != ViewProjects || a.Session().Project != nil {
		t.Error("going back should clear the active project")
	}
	if saved, _ := a.db.GetSetting(lastProjectKey); saved != "" {
		t.Errorf("saved last project = %q after going back, want empty", saved)
	}
}

func TestAppRestoresLastProject(t *testing.T) {
	a := newTestApp(t)
	p, _, err := a.db.EnsureProject("School")
	if err != nil {
		t.Fatalf("EnsureProject: %v", err)
	}
	if err := a.db.SetSetting(lastProjectKey, strconv.FormatInt(p.ID, 10)); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}

	a.Init()
	if a.currentView != ViewBoard {
		t.Fatal("Init should reopen the last project")
	}
	if a.board.Project().ID != p.ID {
		t.Errorf("board project = %d, want %d", a.board.Project().ID, p.ID)
	}
}

func TestAppIgnoresStaleLastProject(t *testing.T) {
	a := newTestApp(t)
	if err := a.db.SetSetting(lastProjectKey, "999"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}

	a.Init()
	if a.currentView != ViewProjects {
		t.Error("a missing last project should fall back to the project list")
	}
}

func TestAppRenameUpdatesSession(t *testing.T) {
	a := newTestApp(t)
	p, _, err := a.db.EnsureProject("Old name")
	if err != nil {
		t.Fatalf("EnsureProject: %v", err)
	}
	a.Update(views.SelectedProject{Project: *p})

	renamed := *p
	renamed.Name = "New name"
	a.Update(views.ProjectRenamed{Project: renamed})

	if a.Session().Project.Name != "New name" {
		t.Errorf("session name = %q", a.Session().Project.Name)
	}
	if a.board.Project().Name != "New name" {
		t.Errorf("board name = %q", a.board.Project().Name)
	}
}
