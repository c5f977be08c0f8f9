package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// collect runs cmd and returns the messages it produced, flattening batches
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func newLoadedProjectList(t *testing.T) (*ProjectListView, func(string) []tea.Msg) {
	t.Helper()
	database := openDB(t, 3)
	v := NewProjectListView(database)
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	for _, msg := range collect(v.Init()) {
		v.Update(msg)
	}

	// type sends one key and returns what its command produced
	typeKey := func(keys string) []tea.Msg {
		var msg tea.KeyMsg
		switch keys {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+u":
			msg = tea.KeyMsg{Type: tea.KeyCtrlU}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
		}
		_, cmd := v.Update(msg)
		return collect(cmd)
	}
	return v, typeKey
}

func selected(msgs []tea.Msg) (SelectedProject, bool) {
	for _, m := range msgs {
		if s, ok := m.(SelectedProject); ok {
			return s, true
		}
	}
	return SelectedProject{}, false
}

func TestProjectListEmptyState(t *testing.T) {
	v, _ := newLoadedProjectList(t)
	if !strings.Contains(v.View(), "No Projects") {
		t.Error("empty list should show the empty state")
	}
}

func TestProjectListCreateReusesExisting(t *testing.T) {
	v, typeKey := newLoadedProjectList(t)

	typeKey("n")
	typeKey("  Work  ")
	first, ok := selected(typeKey("enter"))
	if !ok {
		t.Fatalf("create did not select a project, formErr = %q", v.formErr)
	}
	if first.Project.Name != "Work" {
		t.Errorf("name = %q, want trimmed %q", first.Project.Name, "Work")
	}

	typeKey("n")
	typeKey("Work")
	second, ok := selected(typeKey("enter"))
	if !ok {
		t.Fatalf("second create did not select a project, formErr = %q", v.formErr)
	}
	if second.Project.ID != first.Project.ID {
		t.Errorf("second create opened project %d, want existing %d", second.Project.ID, first.Project.ID)
	}
}

func TestProjectListCreateRejectsShortName(t *testing.T) {
	v, typeKey := newLoadedProjectList(t)

	typeKey("n")
	typeKey("x")
	if _, ok := selected(typeKey("enter")); ok {
		t.Fatal("one character name should be rejected")
	}
	if v.mode != formCreate || !strings.HasPrefix(v.formErr, "name:") {
		t.Errorf("mode = %v, formErr = %q", v.mode, v.formErr)
	}

	typeKey("esc")
	if v.mode != formNone {
		t.Error("esc should close the form")
	}
}

func TestProjectListRename(t *testing.T) {
	v, typeKey := newLoadedProjectList(t)
	if _, _, err := v.db.EnsureProject("Taken"); err != nil {
		t.Fatalf("EnsureProject: %v", err)
	}
	p, _, err := v.db.EnsureProject("Old")
	if err != nil {
		t.Fatalf("EnsureProject: %v", err)
	}
	for _, msg := range collect(v.Init()) {
		v.Update(msg)
	}

	// newest first, so "Old" is selected
	typeKey("r")
	if v.mode != formRename || v.renameTarget.ID != p.ID {
		t.Fatalf("rename form not opened for %q", p.Name)
	}

	typeKey("ctrl+u")
	typeKey("Taken")
	typeKey("enter")
	if v.mode != formRename || v.formErr == "" {
		t.Fatalf("duplicate rename should keep the form open with an error")
	}

	typeKey("ctrl+u")
	typeKey("New")
	var renamed *ProjectRenamed
	for _, msg := range typeKey("enter") {
		switch m := msg.(type) {
		case ProjectRenamed:
			renamed = &m
		case projectsLoadedMsg:
			v.Update(m)
		}
	}
	if renamed == nil || renamed.Project.ID != p.ID || renamed.Project.Name != "New" {
		t.Fatalf("ProjectRenamed = %+v", renamed)
	}

	got, err := v.db.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Name != "New" {
		t.Errorf("stored name = %q, want New", got.Name)
	}
}
