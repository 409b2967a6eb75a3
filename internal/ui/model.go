// Package ui provides the interactive terminal to-do list.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/todolist"
)

// Model is the bubbletea model. All controller access happens inside
// Update, on bubbletea's goroutine; store calls run as tea.Cmds.
type Model struct {
	ctx      context.Context
	ctrl     *todolist.Controller
	cursor   int
	input    bool // the new-task input has focus
	styles   Styles
	quitting bool
}

// NewModel wraps a controller. ctx bounds every store call.
func NewModel(ctx context.Context, ctrl *todolist.Controller, styles Styles) *Model {
	return &Model{ctx: ctx, ctrl: ctrl, styles: styles}
}

// Cursor returns the highlighted row index.
func (m *Model) Cursor() int { return m.cursor }

// InputFocused reports whether keystrokes go to the new-task input.
func (m *Model) InputFocused() bool { return m.input }

func (m *Model) Init() tea.Cmd {
	return m.lift(m.ctrl.Init())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todolist.Msg:
		m.ctrl.Apply(msg)
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		s := m.ctrl.State()
		switch {
		case s.EditingID != "":
			return m, m.editKey(msg, s)
		case m.input:
			return m, m.inputKey(msg, s)
		default:
			return m, m.listKey(msg, s)
		}
	}
	return m, nil
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return Render(m.ctrl.State(), m.cursor, m.input, m.styles)
}

// lift runs a controller command as a bubbletea command.
func (m *Model) lift(cmd todolist.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return cmd(ctx)
	}
}

func (m *Model) listKey(msg tea.KeyMsg, s todolist.State) tea.Cmd {
	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down", "j":
		if m.cursor < len(s.Tasks)-1 {
			m.cursor++
		}
		return nil
	case "a", "n":
		m.input = true
		return nil
	}

	if len(s.Tasks) == 0 {
		return nil
	}
	task := s.Tasks[m.cursor]
	switch msg.String() {
	case " ", "enter":
		return m.lift(m.ctrl.ToggleComplete(task.ID, task.Completed))
	case "e":
		m.ctrl.BeginEdit(task.ID, task.Text)
	case "d", "x":
		return m.lift(m.ctrl.Delete(task.ID))
	}
	return nil
}

func (m *Model) inputKey(msg tea.KeyMsg, s todolist.State) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.lift(m.ctrl.SubmitDraft())
	case tea.KeyEsc:
		m.input = false
	case tea.KeyBackspace:
		m.ctrl.SetDraft(dropLastRune(s.Draft))
	case tea.KeySpace:
		m.ctrl.SetDraft(s.Draft + " ")
	case tea.KeyRunes:
		m.ctrl.SetDraft(s.Draft + string(msg.Runes))
	}
	return nil
}

func (m *Model) editKey(msg tea.KeyMsg, s todolist.State) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.lift(m.ctrl.SaveEdit(s.EditingID))
	case tea.KeyEsc:
		m.ctrl.CancelEdit()
	case tea.KeyBackspace:
		m.ctrl.SetEditText(dropLastRune(s.EditingDraft))
	case tea.KeySpace:
		m.ctrl.SetEditText(s.EditingDraft + " ")
	case tea.KeyRunes:
		m.ctrl.SetEditText(s.EditingDraft + string(msg.Runes))
	}
	return nil
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.State().Tasks)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
