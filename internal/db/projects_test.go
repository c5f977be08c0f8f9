package db

import (
	"testing"

	"github.com/tgienger/taskflow/internal/errs"
)

func TestCreateProjectThenFindByName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Given a plain name When created Then found as is", "Home", "Home"},
		{"Given padded name When created Then stored trimmed", "  Side project\t", "Side project"},
		{"Given two characters When created Then accepted", "ab", "ab"},
	}

	database := newTestDB(t, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := database.CreateProject(tt.input)
			if err != nil {
				t.Fatalf("CreateProject(%q): %v", tt.input, err)
			}
			p, err := database.FindProjectByName(tt.input)
			if err != nil {
				t.Fatalf("FindProjectByName(%q): %v", tt.input, err)
			}
			if p.ID != id || p.Name != tt.want {
				t.Errorf("got %+v, want id %d name %q", p, id, tt.want)
			}
			if !p.CreatedAt.After(testNow) {
				t.Errorf("CreatedAt = %v, want after %v", p.CreatedAt, testNow)
			}
		})
	}
}

func TestCreateProjectValidation(t *testing.T) {
	database := newTestDB(t, 0)
	for _, name := range []string{"", "a", "   b   "} {
		if _, err := database.CreateProject(name); !errs.IsValidation(err) {
			t.Errorf("CreateProject(%q) error = %v, want validation", name, err)
		}
	}
	projects, _ := database.ListProjects()
	if len(projects) != 0 {
		t.Errorf("invalid input created %d projects", len(projects))
	}
}

func TestCreateProjectDuplicateIsConflict(t *testing.T) {
	database := newTestDB(t, 0)
	mustProject(t, database, "Home")

	_, err := database.CreateProject(" Home ")
	if !errs.IsConflict(err) {
		t.Errorf("duplicate create error = %v, want conflict", err)
	}
}

func TestFindProjectMissing(t *testing.T) {
	database := newTestDB(t, 0)
	if _, err := database.FindProjectByName("nope"); !errs.IsNotFound(err) {
		t.Errorf("FindProjectByName error = %v, want not found", err)
	}
	if _, err := database.GetProject(42); !errs.IsNotFound(err) {
		t.Errorf("GetProject error = %v, want not found", err)
	}
}

func TestEnsureProjectReusesExisting(t *testing.T) {
	database := newTestDB(t, 0)

	first, created, err := database.EnsureProject("Work")
	if err != nil || !created {
		t.Fatalf("first EnsureProject = %v, %v", created, err)
	}
	second, created, err := database.EnsureProject(" Work ")
	if err != nil {
		t.Fatalf("second EnsureProject: %v", err)
	}
	if created {
		t.Error("second EnsureProject created a new project")
	}
	if second.ID != first.ID {
		t.Errorf("got project %d, want %d", second.ID, first.ID)
	}
}

func TestListProjectsNewestFirst(t *testing.T) {
	database := newTestDB(t, 0)
	a := mustProject(t, database, "Alpha")
	b := mustProject(t, database, "Beta")
	c := mustProject(t, database, "Gamma")

	projects, err := database.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	want := []int64{c, b, a}
	if len(projects) != len(want) {
		t.Fatalf("got %d projects, want %d", len(projects), len(want))
	}
	for i, p := range projects {
		if p.ID != want[i] {
			t.Errorf("projects[%d].ID = %d, want %d", i, p.ID, want[i])
		}
	}
}

func TestRenameProject(t *testing.T) {
	database := newTestDB(t, 0)
	home := mustProject(t, database, "Home")
	work := mustProject(t, database, "Work")

	t.Run("to a name held by another project", func(t *testing.T) {
		if err := database.RenameProject(home, "Work"); !errs.IsConflict(err) {
			t.Fatalf("error = %v, want conflict", err)
		}
		assertName(t, database, home, "Home")
		assertName(t, database, work, "Work")
	})

	t.Run("to its own name", func(t *testing.T) {
		if err := database.RenameProject(home, " Home "); err != nil {
			t.Fatalf("self rename: %v", err)
		}
		assertName(t, database, home, "Home")
	})

	t.Run("to a fresh name", func(t *testing.T) {
		if err := database.RenameProject(home, "  House "); err != nil {
			t.Fatalf("rename: %v", err)
		}
		assertName(t, database, home, "House")
	})

	t.Run("too short", func(t *testing.T) {
		if err := database.RenameProject(home, "x"); !errs.IsValidation(err) {
			t.Fatalf("error = %v, want validation", err)
		}
		assertName(t, database, home, "House")
	})

	t.Run("missing project", func(t *testing.T) {
		if err := database.RenameProject(999, "Garden"); !errs.IsNotFound(err) {
			t.Fatalf("error = %v, want not found", err)
		}
	})
}

func TestRenameProjectKeepsTasks(t *testing.T) {
	database := newTestDB(t, 0)
	pid := mustProject(t, database, "Home")
	mustTask(t, database, pid, "Fix sink", 2)

	if err := database.RenameProject(pid, "House"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	tasks, err := database.ListTasks(pid)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("ListTasks = %d tasks, %v", len(tasks), err)
	}
}

func assertName(t *testing.T, database *DB, id int64, want string) {
	t.Helper()
	p, err := database.GetProject(id)
	if err != nil {
		t.Fatalf("GetProject(%d): %v", id, err)
	}
	if p.Name != want {
		t.Errorf("project %d name = %q, want %q", id, p.Name, want)
	}
}
