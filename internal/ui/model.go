// Package ui implements the interactive dashboard. The model never
// mutates the task sequence directly: every edit goes to the server,
// and the confirmed result is applied to the shared cache. Rendering
// always reads the cache fresh, so a timer-driven error clear only
// needs a repaint.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"minitask/internal/cache"
	"minitask/internal/service"
	"minitask/internal/task"
)

// StatusClearedMsg is sent from outside the program when the cache's
// error auto-clear fires, so the stale banner is repainted away without
// waiting for a keypress.
type StatusClearedMsg struct{}

// focus identifies where keyboard input goes.
type focus int

const (
	// focusList means keys navigate and act on the task list.
	focusList focus = iota
	// focusAdd means keystrokes go to the new-task input.
	focusAdd
	// focusEdit means keystrokes go to the title editor for one task.
	focusEdit
	// focusSearch means keystrokes go to the search input; the list
	// narrows live as the text changes.
	focusSearch
	// focusConfirm means a delete is pending a y/n answer.
	focusConfirm
)

// Messages for completed backend calls.
type (
	tasksMsg   []task.Task
	createdMsg task.Task
	updatedMsg task.Task
	deletedMsg string
	failedMsg  struct{ err error }
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Model is the dashboard's bubbletea model.
type Model struct {
	svc   service.Service
	cache *cache.Cache

	input  textinput.Model
	focus  focus
	filter cache.StatusFilter
	search string
	cursor int

	// editID and confirmID pin the task a pending edit or delete
	// applies to, so cursor movement cannot retarget it.
	editID    string
	confirmID string

	width  int
	height int
}

// New creates a dashboard model over the given service and cache.
func New(svc service.Service, c *cache.Cache) Model {
	input := textinput.New()
	input.CharLimit = task.MaxTitleLen
	return Model{
		svc:   svc,
		cache: c,
		input: input,
	}
}

// Init kicks off the initial list fetch.
func (m Model) Init() tea.Cmd {
	m.cache.BeginList()
	return m.loadTasks
}

func (m Model) loadTasks() tea.Msg {
	tasks, err := m.svc.ListTasks(context.Background())
	if err != nil {
		return failedMsg{err: err}
	}
	return tasksMsg(tasks)
}

func (m Model) createTask(title string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.svc.CreateTask(context.Background(), title)
		if err != nil {
			return failedMsg{err: err}
		}
		return createdMsg(t)
	}
}

func (m Model) updateTask(id string, patch task.Patch) tea.Cmd {
	return func() tea.Msg {
		t, err := m.svc.UpdateTask(context.Background(), id, patch)
		if err != nil {
			return failedMsg{err: err}
		}
		return updatedMsg(t)
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		deletedID, err := m.svc.DeleteTask(context.Background(), id)
		if err != nil {
			return failedMsg{err: err}
		}
		return deletedMsg(deletedID)
	}
}

// visible returns the tasks currently shown, in display order.
func (m Model) visible() []task.Task {
	return cache.Visible(m.cache.Tasks(), m.filter, m.search)
}

// selected returns the task under the cursor, if any.
func (m Model) selected() (task.Task, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return task.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tasksMsg:
		m.cache.ReplaceAll(msg)
		m.clampCursor()
		return m, nil

	case createdMsg:
		m.cache.ApplyCreate(task.Task(msg))
		return m, nil

	case updatedMsg:
		m.cache.ApplyUpdate(task.Task(msg))
		m.clampCursor()
		return m, nil

	case deletedMsg:
		m.cache.ApplyDelete(string(msg))
		m.clampCursor()
		return m, nil

	case failedMsg:
		// The client already normalized the error to a user-facing
		// message.
		m.cache.Fail(msg.err.Error())
		return m, nil

	case StatusClearedMsg:
		// The cache already cleared itself; rendering picks it up.
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusAdd, focusEdit:
			return m.handleInputKeys(msg)
		case focusSearch:
			return m.handleSearchKeys(msg)
		case focusConfirm:
			return m.handleConfirmKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		// Dropping the cache also cancels a pending error-clear timer,
		// so no callback outlives the program.
		m.cache.Clear()
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "a":
		m.focus = focusAdd
		m.input.Reset()
		m.input.Placeholder = "task title"
		m.input.Focus()

	case "e":
		if t, ok := m.selected(); ok {
			m.focus = focusEdit
			m.editID = t.ID
			m.input.Reset()
			m.input.SetValue(t.Title)
			m.input.CursorEnd()
			m.input.Focus()
		}

	case "/":
		m.focus = focusSearch
		m.input.Reset()
		m.input.Placeholder = "search"
		m.input.SetValue(m.search)
		m.input.CursorEnd()
		m.input.Focus()

	case "d":
		if t, ok := m.selected(); ok {
			m.focus = focusConfirm
			m.confirmID = t.ID
		}

	case " ", "enter", "x":
		if t, ok := m.selected(); ok {
			status := t.Status.Toggle()
			return m, m.updateTask(t.ID, task.Patch{Status: &status})
		}

	case "f":
		m.filter = m.filter.Next()
		m.clampCursor()

	case "r":
		m.cache.BeginList()
		return m, m.loadTasks

	case "esc":
		if m.search != "" {
			m.search = ""
			m.clampCursor()
		} else {
			m.cache.Reset()
		}
	}
	return m, nil
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusList
		m.editID = ""
		m.input.Blur()
		return m, nil

	case "enter":
		title := m.input.Value()
		// Reject a blank title locally; nothing goes to the server.
		if strings.TrimSpace(title) == "" {
			m.cache.Fail("Task title is required")
			return m, nil
		}
		var cmd tea.Cmd
		if m.focus == focusEdit {
			cmd = m.updateTask(m.editID, task.Patch{Title: &title})
		} else {
			cmd = m.createTask(title)
		}
		m.focus = focusList
		m.editID = ""
		m.input.Blur()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search = ""
		m.focus = focusList
		m.input.Blur()
		m.clampCursor()
		return m, nil

	case "enter":
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search = m.input.Value()
	m.clampCursor()
	return m, cmd
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.confirmID
		m.focus = focusList
		m.confirmID = ""
		return m, m.deleteTask(id)
	case "n", "N", "esc":
		m.focus = focusList
		m.confirmID = ""
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	header := "minitask"
	if m.search != "" {
		header += dimStyle.Render(fmt.Sprintf("  search: %q", m.search))
	}
	if m.filter != cache.FilterAll {
		header += dimStyle.Render("  filter: " + m.filter.String())
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("  no tasks"))
		b.WriteString("\n")
	}
	for i, t := range visible {
		cursor := "  "
		if i == m.cursor && m.focus != focusAdd {
			cursor = cursorStyle.Render("> ")
		}
		mark := "[ ]"
		line := t.Title
		if t.Status == task.StatusCompleted {
			mark = "[x]"
			line = doneStyle.Render(line)
		}
		if m.focus == focusConfirm && t.ID == m.confirmID {
			line += errorStyle.Render("  delete? (y/n)")
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, mark, line)
	}

	b.WriteString("\n")
	switch m.focus {
	case focusAdd:
		b.WriteString("add: " + m.input.View() + "\n")
	case focusEdit:
		b.WriteString("edit: " + m.input.View() + "\n")
	case focusSearch:
		b.WriteString("search: " + m.input.View() + "\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("a add · e edit · d delete · space toggle · / search · f filter · r reload · q quit"))
	b.WriteString("\n")
	return b.String()
}

// statusLine renders the status bar: a transient error wins over
// loading, which wins over the counts.
func (m Model) statusLine() string {
	st := m.cache.Status()
	if st.Error {
		return errorStyle.Render(st.Message)
	}
	if st.Loading {
		return dimStyle.Render("loading...")
	}
	c := cache.Count(m.cache.Tasks())
	return dimStyle.Render(fmt.Sprintf("%d total, %d pending, %d completed", c.Total, c.Pending, c.Completed))
}
