package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"todo/internal/service"
	"todo/internal/todolist"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position in the fetched list, 0 if ID is set
	ID  string // task ID, empty if Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the task reference in args[0].
//
// An all-digit reference is a position in the list as printed by list.
// Anything else is taken as a task ID.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || args[0] == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return TaskRef{ID: ref}, nil
	}

	num, err := strconv.Atoi(ref)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
	}
	if num < 1 {
		return TaskRef{}, fmt.Errorf("task number out of range: %d", num)
	}
	return TaskRef{Num: num}, nil
}

// Resolve finds the referenced task in a loaded state.
func (r TaskRef) Resolve(s todolist.State) (service.Task, error) {
	if r.ID != "" {
		task, ok := s.Find(r.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("task not found: %s", r.ID)
		}
		return task, nil
	}

	if r.Num < 1 || r.Num > len(s.Tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", r.Num)
	}
	return s.Tasks[r.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
