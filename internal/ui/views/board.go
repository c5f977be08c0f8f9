package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/tgienger/taskflow/internal/board"
	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/errs"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/ui/keys"
	"github.com/tgienger/taskflow/internal/ui/styles"
	"github.com/tgienger/taskflow/internal/validate"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the board has focus
type FocusArea int

const (
	FocusColumns FocusArea = iota
	FocusSearchInput
	FocusTagInput
)

// add-task form fields, in tab order
const (
	fieldTitle = iota
	fieldTags
	fieldPriority
	fieldDue
	fieldDesc
	fieldCount
)

// BoardOptions configures a BoardView
type BoardOptions struct {
	Today     func() time.Time // date used for deadline badges
	ExportDir string           // where kanban_tasks.csv is written
	Logger    *zerolog.Logger
}

// BoardView shows a project's tasks in BACKLOG, DOING and DONE columns
type BoardView struct {
	db      *db.DB
	project models.Project
	opts    BoardOptions
	log     zerolog.Logger
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	all     []models.Task // unfiltered, for WIP counts
	columns map[models.Status][]models.Task
	counts  map[models.Status]int
	loaded  bool

	focus       FocusArea
	column      int
	cursor      [3]int
	searchInput textinput.Model
	tagInput    textinput.Model

	adding    bool
	form      [fieldCount]textinput.Model
	formFocus int

	confirmingDelete bool
	deleteTarget     models.Task

	flash    string
	flashErr bool

	showHelpPopup bool
}

// NewBoardView creates a board for project
func NewBoardView(database *db.DB, project models.Project, opts BoardOptions) *BoardView {
	if opts.Today == nil {
		opts.Today = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	search := textinput.New()
	search.Placeholder = "Search title/description..."
	search.CharLimit = 100

	tag := textinput.New()
	tag.Placeholder = "Tag filter"
	tag.CharLimit = 50

	v := &BoardView{
		db:          database,
		project:     project,
		opts:        opts,
		log:         logger,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		columns:     map[models.Status][]models.Task{},
		counts:      map[models.Status]int{},
		searchInput: search,
		tagInput:    tag,
	}

	placeholders := [fieldCount]string{"Title", "bug, urgent, school", "1-5", "YYYY-MM-DD", "Description (optional)"}
	limits := [fieldCount]int{200, 200, 1, 10, 1000}
	for i := range v.form {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		v.form[i] = in
	}
	return v
}

// BackToProjects signals to go back to project list
type BackToProjects struct{}

type tasksLoadedMsg struct {
	tasks  []models.Task
	counts map[models.Status]int
}

type flashMsg struct {
	text string
	err  bool
}

// actionFailedMsg reports a rejected mutation; the board reloads because
// its view of the project may be stale
type actionFailedMsg struct {
	taskID int64
	err    error
}

// Init initializes the view
func (v *BoardView) Init() tea.Cmd {
	return v.loadTasks
}

// Project returns the project this board shows
func (v *BoardView) Project() models.Project {
	return v.project
}

// SetProjectName updates the header after a rename
func (v *BoardView) SetProjectName(name string) {
	v.project.Name = name
}

func (v *BoardView) loadTasks() tea.Msg {
	tasks, err := v.db.ListTasks(v.project.ID)
	if err != nil {
		return ErrMsg{Err: err}
	}
	counts, err := v.db.CountByStatus(v.project.ID)
	if err != nil {
		return ErrMsg{Err: err}
	}
	return tasksLoadedMsg{tasks: tasks, counts: counts}
}

func (v *BoardView) applyFilters() {
	v.columns = board.SplitByStatus(v.filtered())
	for i, s := range models.Statuses {
		if v.cursor[i] >= len(v.columns[s]) {
			v.cursor[i] = max(0, len(v.columns[s])-1)
		}
	}
}

func (v *BoardView) filtered() []models.Task {
	return board.FilterTasks(v.all, v.searchInput.Value(), v.tagInput.Value())
}

// selected returns the task under the cursor in the focused column
func (v *BoardView) selected() (models.Task, bool) {
	col := v.columns[models.Statuses[v.column]]
	if len(col) == 0 {
		return models.Task{}, false
	}
	return col[v.cursor[v.column]], true
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tasksLoadedMsg:
		v.all = msg.tasks
		v.counts = msg.counts
		v.loaded = true
		v.applyFilters()
		return v, nil

	case flashMsg:
		v.flash, v.flashErr = msg.text, msg.err
		return v, nil

	case actionFailedMsg:
		v.flash, v.flashErr = errs.UserMessage(msg.err), true
		if errs.IsNotFound(msg.err) || errs.IsOwnership(msg.err) {
			v.log.Info().Err(msg.err).Int64("task_id", msg.taskID).Msg("stale board")
		}
		return v, v.loadTasks

	case ErrMsg:
		v.flash, v.flashErr = errs.UserMessage(msg.Err), true
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.adding {
			return v.updateAdding(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// don't process hotkeys while typing in a filter
	if v.focus == FocusSearchInput || v.focus == FocusTagInput {
		input := &v.searchInput
		if v.focus == FocusTagInput {
			input = &v.tagInput
		}
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			input.Blur()
			v.focus = FocusColumns
			return v, nil
		default:
			var cmd tea.Cmd
			*input, cmd = input.Update(msg)
			v.applyFilters()
			return v, cmd
		}
	}

	v.flash = ""

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Tab):
		v.column = (v.column + 1) % len(models.Statuses)
		return v, nil

	case msg.String() == "shift+tab":
		v.column = (v.column + len(models.Statuses) - 1) % len(models.Statuses)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor[v.column] > 0 {
			v.cursor[v.column]--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor[v.column] < len(v.columns[models.Statuses[v.column]])-1 {
			v.cursor[v.column]++
		}
		return v, nil

	case key.Matches(msg, v.keys.Left):
		return v, v.shiftSelected(-1)

	case key.Matches(msg, v.keys.Right):
		return v, v.shiftSelected(1)

	case key.Matches(msg, v.keys.ToBacklog):
		return v, v.moveSelected(models.StatusBacklog)

	case key.Matches(msg, v.keys.ToDoing):
		return v, v.moveSelected(models.StatusDoing)

	case key.Matches(msg, v.keys.ToDone):
		return v, v.moveSelected(models.StatusDone)

	case key.Matches(msg, v.keys.New):
		v.startAdding()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTarget = t
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusTagInput
		v.tagInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Export):
		return v, v.export

	case msg.String() == "?":
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

// shiftSelected moves the selected task one column left or right
func (v *BoardView) shiftSelected(delta int) tea.Cmd {
	t, ok := v.selected()
	if !ok {
		return nil
	}
	idx := t.Status.Index() + delta
	if idx < 0 || idx >= len(models.Statuses) {
		return nil
	}
	return v.moveSelected(models.Statuses[idx])
}

func (v *BoardView) moveSelected(to models.Status) tea.Cmd {
	t, ok := v.selected()
	if !ok || t.Status == to {
		return nil
	}
	projectID := v.project.ID
	return func() tea.Msg {
		if err := v.db.MoveTask(projectID, t.ID, string(to)); err != nil {
			return actionFailedMsg{taskID: t.ID, err: err}
		}
		return v.loadTasks()
	}
}

func (v *BoardView) export() tea.Msg {
	path := filepath.Join(v.opts.ExportDir, board.ExportFilename)
	f, err := os.Create(path)
	if err != nil {
		return flashMsg{text: err.Error(), err: true}
	}
	defer f.Close()

	tasks := v.filtered()
	if err := board.WriteCSV(f, tasks); err != nil {
		return flashMsg{text: err.Error(), err: true}
	}
	v.log.Info().Str("path", path).Int("tasks", len(tasks)).Msg("exported csv")
	return flashMsg{text: fmt.Sprintf("exported %d tasks to %s", len(tasks), path)}
}

func (v *BoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		target := v.deleteTarget
		projectID := v.project.ID
		return v, func() tea.Msg {
			if err := v.db.DeleteTask(projectID, target.ID); err != nil {
				return actionFailedMsg{taskID: target.ID, err: err}
			}
			return v.loadTasks()
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *BoardView) startAdding() {
	v.adding = true
	v.flash = ""
	for i := range v.form {
		v.form[i].Reset()
	}
	v.form[fieldPriority].SetValue("3")
	v.formFocus = fieldTitle
	v.updateFormFocus()
}

func (v *BoardView) updateFormFocus() {
	for i := range v.form {
		if i == v.formFocus {
			v.form[i].Focus()
		} else {
			v.form[i].Blur()
		}
	}
}

func (v *BoardView) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.adding = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v.submitTask()

	case msg.String() == "shift+tab", msg.String() == "up":
		v.formFocus = (v.formFocus + fieldCount - 1) % fieldCount
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab), msg.String() == "down":
		v.formFocus = (v.formFocus + 1) % fieldCount
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.formFocus == fieldCount-1 {
			return v.submitTask()
		}
		v.formFocus++
		v.updateFormFocus()
		return v, nil
	}

	var cmd tea.Cmd
	v.form[v.formFocus], cmd = v.form[v.formFocus].Update(msg)
	return v, cmd
}

func (v *BoardView) submitTask() (tea.Model, tea.Cmd) {
	priority, err := strconv.Atoi(strings.TrimSpace(v.form[fieldPriority].Value()))
	if err != nil {
		v.flash, v.flashErr = "priority: must be between 1 and 5", true
		return v, nil
	}

	in := models.NewTask{
		Title:       v.form[fieldTitle].Value(),
		Description: v.form[fieldDesc].Value(),
		Priority:    priority,
		DueDate:     v.form[fieldDue].Value(),
		Tags:        validate.ParseTagsInput(v.form[fieldTags].Value()),
	}
	id, err := v.db.AddTask(v.project.ID, in)
	if err != nil {
		v.flash, v.flashErr = errs.UserMessage(err), true
		return v, nil
	}

	v.adding = false
	v.flash, v.flashErr = fmt.Sprintf("task #%d created", id), false
	return v, v.loadTasks
}

// View renders the view
func (v *BoardView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.adding {
		return v.renderAddForm()
	}
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	parts := []string{v.renderHeader(), v.renderFilters(), v.renderColumns()}
	if v.flash != "" {
		parts = append(parts, v.renderFlash())
	}
	parts = append(parts, v.renderHelp())

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, parts...), v.width, v.height)
}

func (v *BoardView) renderHeader() string {
	s := v.styles
	return s.Title.Render(v.project.Name) + "  " + s.TitleMuted.Render(fmt.Sprintf(
		"WIP(DOING) limit %d • %s", v.db.WIPLimit(), v.opts.Today().Format("2006-01-02"),
	))
}

func (v *BoardView) renderFilters() string {
	s := v.styles
	searchStyle, tagStyle := s.Input, s.Input
	switch v.focus {
	case FocusSearchInput:
		searchStyle = s.InputFocused
	case FocusTagInput:
		tagStyle = s.InputFocused
	}
	contentWidth := styles.ContentWidth(v.width)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		searchStyle.Width(clamp(contentWidth/2, 20, 50)).Render(v.searchInput.View()),
		" ",
		tagStyle.Width(clamp(contentWidth/4, 14, 30)).Render(v.tagInput.View()),
	)
}

func (v *BoardView) renderColumns() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	colWidth := max(contentWidth/len(models.Statuses)-4, 16)
	limit := v.db.WIPLimit()

	cols := make([]string, 0, len(models.Statuses))
	for i, status := range models.Statuses {
		tasks := v.columns[status]

		header := s.ColumnHeader.Render(fmt.Sprintf("%s (%d)", status, len(tasks)))
		if status == models.StatusDoing {
			doing := v.counts[models.StatusDoing]
			label := fmt.Sprintf("%s (%d/%d)", status, doing, limit)
			if doing >= limit {
				header = s.WIPFull.Render(label + " full")
			} else {
				header = s.ColumnHeader.Render(label)
			}
		}

		lines := []string{header, ""}
		for j, t := range tasks {
			lines = append(lines, v.renderCard(t, colWidth, i == v.column && j == v.cursor[i]))
		}
		if len(tasks) == 0 {
			lines = append(lines, s.TitleMuted.Render("empty"))
		}

		style := s.Column
		if i == v.column && v.focus == FocusColumns {
			style = s.ColumnFocused
		}
		cols = append(cols, style.Width(colWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (v *BoardView) renderCard(t models.Task, width int, selected bool) string {
	s := v.styles
	title := fmt.Sprintf("#%d %s %s", t.ID, s.TaskPriority.Render(fmt.Sprintf("p%d", t.Priority)), s.TaskTitle.Render(t.Title))
	switch badge := board.DeadlineBadge(t.DueDate, v.opts.Today()); badge {
	case models.BadgeOverdue:
		title += " " + s.BadgeOverdue.Render(badge.Label())
	case models.BadgeNear:
		title += " " + s.BadgeNear.Render(badge.Label())
	}

	var meta []string
	if t.DueDate != "" {
		meta = append(meta, t.DueDate)
	}
	if len(t.Tags) > 0 {
		meta = append(meta, s.Tag.Render(strings.Join(t.Tags, ", ")))
	}

	lines := []string{title}
	if len(meta) > 0 {
		lines = append(lines, s.TaskMeta.Render(strings.Join(meta, " • ")))
	}
	if t.Description != "" {
		lines = append(lines, s.TaskMeta.Render(t.Description))
	}

	style := s.TaskItem
	if selected {
		style = s.TaskSelected
	}
	return style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *BoardView) renderFlash() string {
	if v.flashErr {
		return v.styles.ErrorText.Render(v.flash)
	}
	return v.styles.SuccessText.Render(v.flash)
}

func (v *BoardView) renderAddForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 20, 50)

	labels := [fieldCount]string{"Title:", "Tags (comma separated):", "Priority (1-5):", "Due (YYYY-MM-DD):", "Description:"}
	rows := []string{s.Title.Render("New Task"), ""}
	for i := range v.form {
		style := s.Input
		if i == v.formFocus {
			style = s.InputFocused
		}
		rows = append(rows, labels[i], style.Width(inputWidth).Render(v.form[i].View()))
	}
	rows = append(rows, "")
	if v.flash != "" && v.flashErr {
		rows = append(rows, s.ErrorText.Render(v.flash), "")
	}
	rows = append(rows, s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("#%d %s", v.deleteTarget.ID, v.deleteTarget.Title)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	k := v.styles.HelpKey.Render
	return v.styles.Help.Render(
		fmt.Sprintf("%s move • %s column • %s new • %s del • %s search • %s tag • %s export • %s back",
			k("h/l"), k("tab"), k("n"), k("d"), k("/"), k("f"), k("e"), k("esc"),
		),
	)
}

func (v *BoardView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("j/k") + "    select task",
		s.HelpKey.Render("tab") + "    next column",
		s.HelpKey.Render("h/l") + "    move task left/right",
		s.HelpKey.Render("1/2/3") + "  move to backlog/doing/done",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("f") + "      tag filter",
		s.HelpKey.Render("e") + "      export " + board.ExportFilename,
		s.HelpKey.Render("esc") + "    back to projects",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
