package ui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewBoard
)

type App struct {
	db          *db.DB
	log         zerolog.Logger
	session     Session
	boardOpts   views.BoardOptions
	currentView View
	projectList *views.ProjectListView
	board       *views.BoardView
	width       int
	height      int
}

// Creates a new application. boardOpts supplies the clock and export
// directory for every board the app opens.
func NewApp(database *db.DB, logger zerolog.Logger, boardOpts views.BoardOptions) *App {
	session := newSession()
	logger = logger.With().Str("session", session.ID).Logger()
	boardOpts.Logger = &logger

	return &App{
		db:          database,
		log:         logger,
		session:     session,
		boardOpts:   boardOpts,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(database),
	}
}

// Session returns the current interaction state
func (a *App) Session() Session {
	return a.session
}

func (a *App) Init() tea.Cmd {
	// Reopen the last active project
	lastProjectID, err := a.db.GetSetting(lastProjectKey)
	if err == nil && lastProjectID != "" {
		id, err := strconv.ParseInt(lastProjectID, 10, 64)
		if err == nil {
			project, err := a.db.GetProject(id)
			if err == nil {
				return a.openProject(*project)
			}
		}
	}

	return a.projectList.Init()
}

func (a *App) openProject(project models.Project) tea.Cmd {
	a.currentView = ViewBoard
	a.session.Project = &project
	a.board = views.NewBoardView(a.db, project, a.boardOpts)
	a.rememberProject()

	a.log.Info().Int64("project_id", project.ID).Str("name", project.Name).Msg("project opened")

	return tea.Batch(
		a.board.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) rememberProject() {
	if err := a.db.SetSetting(lastProjectKey, a.session.settingValue()); err != nil {
		a.log.Warn().Err(err).Msg("could not save last project")
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update project list size since it persists
		a.projectList.Update(msg)

	case views.SelectedProject:
		return a, a.openProject(msg.Project)

	case views.ProjectRenamed:
		if a.session.ProjectID() == msg.Project.ID {
			a.session.Project.Name = msg.Project.Name
			if a.board != nil {
				a.board.SetProjectName(msg.Project.Name)
			}
		}
		return a, nil

	case views.BackToProjects:
		a.currentView = ViewProjects
		a.session.Project = nil
		a.rememberProject()
		return a, tea.Batch(
			a.projectList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewBoard:
		_, cmd = a.board.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewBoard:
		if a.board != nil {
			return a.board.View()
		}
	}
	return a.projectList.View()
}
