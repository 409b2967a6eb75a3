// Package todolist holds the to-do list controller: the in-memory view
// state, the commands that mirror user actions to a task store, and the
// merge of store responses back into the state.
package todolist

import (
	"slices"

	"todo/internal/service"
)

// State is the client-side view of the task list plus transient input.
// Tasks is a cache of the store; the other fields are never persisted.
type State struct {
	Tasks        []service.Task
	Draft        string
	EditingID    string // empty when no row is being edited
	EditingDraft string
	Loaded       bool // the initial fetch has completed, with or without error
}

// Editing reports whether the row with the given ID is in edit mode.
func (s State) Editing(id string) bool {
	return s.EditingID != "" && s.EditingID == id
}

// Index returns the position of the task with the given ID, or -1.
func (s State) Index(id string) int {
	return slices.IndexFunc(s.Tasks, func(t service.Task) bool { return t.ID == id })
}

// Find returns the task with the given ID.
func (s State) Find(id string) (service.Task, bool) {
	i := s.Index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return s.Tasks[i], true
}

// Clone returns a copy that shares no task storage with s.
func (s State) Clone() State {
	s.Tasks = slices.Clone(s.Tasks)
	return s
}
