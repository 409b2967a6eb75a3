package todolist

import (
	"slices"

	"todo/internal/service"
)

// The functions below are pure: they take a State by value and return the
// next one without touching the input's task storage.

func withTasks(s State, tasks []service.Task) State {
	s.Tasks = slices.Clone(tasks)
	if s.Tasks == nil {
		s.Tasks = []service.Task{}
	}
	s.Loaded = true
	return s
}

func markLoaded(s State) State {
	if s.Tasks == nil {
		s.Tasks = []service.Task{}
	}
	s.Loaded = true
	return s
}

// withAppended adds t at the end, or replaces the entry with the same ID so
// a task never appears twice.
func withAppended(s State, t service.Task) State {
	if s.Index(t.ID) >= 0 {
		return withReplaced(s, t)
	}
	tasks := make([]service.Task, 0, len(s.Tasks)+1)
	tasks = append(tasks, s.Tasks...)
	s.Tasks = append(tasks, t)
	return s
}

// withReplaced swaps in the server's version of t. Unknown IDs are ignored.
func withReplaced(s State, t service.Task) State {
	i := s.Index(t.ID)
	if i < 0 {
		return s
	}
	s.Tasks = slices.Clone(s.Tasks)
	s.Tasks[i] = t
	return s
}

func withRemoved(s State, id string) State {
	s.Tasks = slices.DeleteFunc(slices.Clone(s.Tasks), func(t service.Task) bool { return t.ID == id })
	if s.EditingID == id {
		s = withEditCleared(s)
	}
	return s
}

func withDraft(s State, text string) State {
	s.Draft = text
	return s
}

// withEditStarted moves the edit cursor to id. Any unsaved text for a
// previously edited row is dropped.
func withEditStarted(s State, id, text string) State {
	s.EditingID = id
	s.EditingDraft = text
	return s
}

func withEditText(s State, text string) State {
	if s.EditingID == "" {
		return s
	}
	s.EditingDraft = text
	return s
}

func withEditCleared(s State) State {
	s.EditingID = ""
	s.EditingDraft = ""
	return s
}
