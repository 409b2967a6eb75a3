package todolist

import (
	"context"
	"errors"
	"strings"

	"todo/internal/diag"
	"todo/internal/service"
)

// errNoID is reported when a create response carries no server-assigned ID.
var errNoID = errors.New("store returned task without id")

// Controller mediates between user input and a task store.
//
// A Controller is not safe for concurrent use. All methods must be called
// from the goroutine that owns the view; only the returned Cmds may run
// elsewhere.
type Controller struct {
	store service.Store
	sink  diag.Sink
	state State

	issued  map[string]uint64 // last sequence number handed out per task
	applied map[string]uint64 // last sequence number merged per task
}

// New creates a controller. A nil sink discards diagnostics.
func New(store service.Store, sink diag.Sink) *Controller {
	if sink == nil {
		sink = diag.Discard
	}
	return &Controller{
		store:   store,
		sink:    sink,
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return c.state.Clone()
}

// Init fetches all tasks.
func (c *Controller) Init() Cmd {
	store := c.store
	return func(ctx context.Context) Msg {
		tasks, err := store.List(ctx)
		return LoadedMsg{Tasks: tasks, Err: err}
	}
}

// SetDraft replaces the new-task input text.
func (c *Controller) SetDraft(text string) {
	c.state = withDraft(c.state, text)
}

// SubmitDraft creates a task from the current draft.
func (c *Controller) SubmitDraft() Cmd {
	return c.Create(c.state.Draft)
}

// Create issues a create request for text. Blank text issues nothing.
// The draft is cleared as soon as the request is issued.
func (c *Controller) Create(text string) Cmd {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	c.state = withDraft(c.state, "")

	store := c.store
	return func(ctx context.Context) Msg {
		task, err := store.Create(ctx, text)
		if err == nil && task.ID == "" {
			err = errNoID
		}
		return CreatedMsg{Text: text, Task: task, Err: err}
	}
}

// Delete issues a delete request. The row stays until it is acknowledged.
func (c *Controller) Delete(id string) Cmd {
	store := c.store
	return func(ctx context.Context) Msg {
		return DeletedMsg{ID: id, Err: store.Delete(ctx, id)}
	}
}

// ToggleComplete issues an update flipping the completion flag.
func (c *Controller) ToggleComplete(id string, completed bool) Cmd {
	return c.update(id, service.CompletedPatch(!completed))
}

// BeginEdit puts the row in edit mode with text as its buffer.
func (c *Controller) BeginEdit(id, text string) {
	c.state = withEditStarted(c.state, id, text)
}

// SetEditText replaces the edit buffer. It does nothing outside edit mode.
func (c *Controller) SetEditText(text string) {
	c.state = withEditText(c.state, text)
}

// CancelEdit leaves edit mode and drops the buffer.
func (c *Controller) CancelEdit() {
	c.state = withEditCleared(c.state)
}

// SaveEdit issues an update with the edit buffer for the row being edited.
// It issues nothing when id is not in edit mode.
func (c *Controller) SaveEdit(id string) Cmd {
	if !c.state.Editing(id) {
		c.sink.Debug("save ignored: row not in edit mode", "task_id", id)
		return nil
	}
	return c.update(id, service.TextPatch(c.state.EditingDraft))
}

func (c *Controller) update(id string, patch service.Patch) Cmd {
	c.issued[id]++
	seq := c.issued[id]

	store := c.store
	return func(ctx context.Context) Msg {
		task, err := store.Update(ctx, id, patch)
		return UpdatedMsg{ID: id, Seq: seq, Patch: patch, Task: task, Err: err}
	}
}

// Apply merges a command result into the state. Failures are logged and
// otherwise dropped.
func (c *Controller) Apply(msg Msg) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			c.sink.Error("error fetching todos", "err", msg.Err)
			c.state = markLoaded(c.state)
			return
		}
		c.state = withTasks(c.state, msg.Tasks)

	case CreatedMsg:
		if msg.Err != nil {
			c.sink.Error("error adding todo", "text", msg.Text, "err", msg.Err)
			return
		}
		c.state = withAppended(c.state, msg.Task)

	case DeletedMsg:
		if msg.Err != nil {
			c.sink.Error("error deleting todo", "task_id", msg.ID, "err", msg.Err)
			return
		}
		c.state = withRemoved(c.state, msg.ID)
		delete(c.issued, msg.ID)
		delete(c.applied, msg.ID)

	case UpdatedMsg:
		c.applyUpdate(msg)
	}
}

func (c *Controller) applyUpdate(msg UpdatedMsg) {
	if msg.Err != nil {
		if msg.IsEdit() {
			c.sink.Error("error editing todo", "task_id", msg.ID, "err", msg.Err)
		} else {
			c.sink.Error("error updating todo", "task_id", msg.ID, "err", msg.Err)
		}
		return
	}

	// A successful save ends edit mode even if a later response already
	// carried newer task data.
	if msg.IsEdit() && c.state.Editing(msg.ID) {
		c.state = withEditCleared(c.state)
	}

	if msg.Seq <= c.applied[msg.ID] {
		c.sink.Debug("discarding stale response", "task_id", msg.ID, "seq", msg.Seq, "applied", c.applied[msg.ID])
		return
	}
	c.applied[msg.ID] = msg.Seq

	task := msg.Task
	if task.ID == "" {
		task.ID = msg.ID
	}
	c.state = withReplaced(c.state, task)
}

// Run executes cmd synchronously and applies its result. It returns the
// result so sequential callers can inspect it; a nil cmd returns nil.
func (c *Controller) Run(ctx context.Context, cmd Cmd) Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd(ctx)
	c.Apply(msg)
	return msg
}
