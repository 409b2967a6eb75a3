// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single to-do item as acknowledged by the store.
type Task struct {
	ID        string
	Text      string
	Completed bool
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Text      *string
	Completed *bool
}

// TextPatch returns a Patch that only changes the text.
func TextPatch(text string) Patch {
	return Patch{Text: &text}
}

// CompletedPatch returns a Patch that only changes the completion flag.
func CompletedPatch(completed bool) Patch {
	return Patch{Completed: &completed}
}
