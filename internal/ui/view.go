package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/todolist"
)

const title = "Todo App"

// Styles holds the lipgloss styles used by Render.
type Styles struct {
	Title       lipgloss.Style
	Cursor      lipgloss.Style
	Completed   lipgloss.Style
	Editing     lipgloss.Style
	Placeholder lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns styles for the given renderer.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("#fda085")),
		Cursor:      r.NewStyle().Foreground(lipgloss.Color("#fda085")),
		Completed:   r.NewStyle().Strikethrough(true).Faint(true),
		Editing:     r.NewStyle().Underline(true),
		Placeholder: r.NewStyle().Faint(true),
		Help:        r.NewStyle().Faint(true),
	}
}

// PlainStyles returns styles that render no escape sequences.
func PlainStyles() Styles {
	return DefaultStyles(lipgloss.NewRenderer(io.Discard))
}

// Render projects the state onto the screen. Rows keep store order.
func Render(s todolist.State, cursor int, inputFocused bool, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(title) + "\n\n")

	writeInput(&b, s.Draft, inputFocused, st)

	switch {
	case !s.Loaded:
		b.WriteString("  Loading...\n")
	case len(s.Tasks) == 0:
		b.WriteString("  No tasks yet.\n")
	}

	for i, t := range s.Tasks {
		marker := "  "
		if i == cursor && !inputFocused {
			marker = st.Cursor.Render(">") + " "
		}

		if s.Editing(t.ID) {
			b.WriteString(marker + "✎ " + st.Editing.Render(s.EditingDraft+"_") + "\n")
			continue
		}

		box, text := "[ ]", t.Text
		if t.Completed {
			box = "[x]"
			text = st.Completed.Render(text)
		}
		b.WriteString(marker + box + " " + text + "\n")
	}

	b.WriteString("\n")
	b.WriteString(st.Help.Render(helpLine(s, inputFocused)) + "\n")
	return b.String()
}

func writeInput(b *strings.Builder, draft string, focused bool, st Styles) {
	prefix := "  + "
	if focused {
		prefix = st.Cursor.Render("> +") + " "
	}
	switch {
	case draft != "":
		text := draft
		if focused {
			text += "_"
		}
		b.WriteString(prefix + text + "\n\n")
	case focused:
		b.WriteString(prefix + "_\n\n")
	default:
		b.WriteString(prefix + st.Placeholder.Render("Add a new task") + "\n\n")
	}
}

func helpLine(s todolist.State, inputFocused bool) string {
	switch {
	case s.EditingID != "":
		return "enter save | esc cancel"
	case inputFocused:
		return "enter add | esc back"
	default:
		return "a add | space toggle | e edit | d delete | q quit"
	}
}
