package ui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todo/internal/todolist"
)

// ErrNotTTY is returned by Run when out is not a terminal.
var ErrNotTTY = errors.New("ui requires a terminal")

// Run starts the interactive UI on the terminal until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, ctrl *todolist.Controller, in io.Reader, out io.Writer) error {
	if !IsTTY(out) {
		return ErrNotTTY
	}

	model := NewModel(ctx, ctrl, DefaultStyles(lipgloss.NewRenderer(out)))
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := program.Run()
	return err
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
