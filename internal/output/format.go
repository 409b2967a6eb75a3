// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [{x| }] {TEXT}\n" (4-wide right-aligned number, two spaces,
// completion box, text)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task.Completed), NormalizeText(task.Text))
}

// FormatTaskWithID is FormatTask followed by the task ID, for --ids.
func FormatTaskWithID(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s  (%s)\n", num, checkbox(task.Completed), NormalizeText(task.Text), task.ID)
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// NormalizeText normalizes a task text for single-line display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
