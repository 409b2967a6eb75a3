// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"todo/internal/service"
)

// ErrNotFound is returned when a task is not found.
var ErrNotFound = errors.New("not found")

// Call records one store invocation.
type Call struct {
	Op    string // "list", "create", "update" or "delete"
	ID    string
	Text  string
	Patch service.Patch
}

// FakeStore is an in-memory implementation of service.Store for testing.
type FakeStore struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	calls  []Call

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// OmitCreatedID makes Create return a task without an ID.
	OmitCreatedID bool
}

// NewFakeStore creates a FakeStore holding the given tasks.
func NewFakeStore(tasks ...service.Task) *FakeStore {
	f := &FakeStore{}
	f.tasks = append(f.tasks, tasks...)
	f.nextID = len(tasks) + 1
	return f
}

// AddTask adds a task directly, bypassing call recording.
func (f *FakeStore) AddTask(id, text string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Text: text, Completed: completed})
}

// Tasks returns a copy of the stored tasks.
func (f *FakeStore) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns the recorded invocations in order.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]Call, len(f.calls))
	copy(result, f.calls)
	return result
}

// CallCount returns how many invocations of op were recorded.
func (f *FakeStore) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// List implements service.Store.
func (f *FakeStore) List(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// Create implements service.Store.
func (f *FakeStore) Create(ctx context.Context, text string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "create", Text: text})
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}

	task := service.Task{ID: fmt.Sprintf("%d", f.nextID), Text: text}
	f.nextID++
	f.tasks = append(f.tasks, task)
	if f.OmitCreatedID {
		task.ID = ""
	}
	return task, nil
}

// Update implements service.Store.
func (f *FakeStore) Update(ctx context.Context, id string, patch service.Patch) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "update", ID: id, Patch: patch})
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}

	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if patch.Text != nil {
			f.tasks[i].Text = *patch.Text
		}
		if patch.Completed != nil {
			f.tasks[i].Completed = *patch.Completed
		}
		return f.tasks[i], nil
	}
	return service.Task{}, ErrNotFound
}

// Delete implements service.Store.
func (f *FakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Entry is one recorded diagnostic.
type Entry struct {
	Level   string
	Msg     string
	KeyVals []any
}

// Field returns the value logged under key, or nil.
func (e Entry) Field(key string) any {
	for i := 0; i+1 < len(e.KeyVals); i += 2 {
		if k, ok := e.KeyVals[i].(string); ok && k == key {
			return e.KeyVals[i+1]
		}
	}
	return nil
}

// RecordingSink is a diag.Sink that keeps every entry for assertions.
type RecordingSink struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *RecordingSink) record(level string, msg any, keyvals []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: fmt.Sprint(msg), KeyVals: keyvals})
}

func (r *RecordingSink) Debug(msg any, keyvals ...any) { r.record("debug", msg, keyvals) }
func (r *RecordingSink) Info(msg any, keyvals ...any)  { r.record("info", msg, keyvals) }
func (r *RecordingSink) Warn(msg any, keyvals ...any)  { r.record("warn", msg, keyvals) }
func (r *RecordingSink) Error(msg any, keyvals ...any) { r.record("error", msg, keyvals) }

// Entries returns the recorded entries at the given level ("" for all).
func (r *RecordingSink) Entries(level string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Entry
	for _, e := range r.entries {
		if level == "" || e.Level == level {
			result = append(result, e)
		}
	}
	return result
}

// Contains reports whether any entry at level has a message containing s.
func (r *RecordingSink) Contains(level, s string) bool {
	for _, e := range r.Entries(level) {
		if strings.Contains(e.Msg, s) {
			return true
		}
	}
	return false
}
