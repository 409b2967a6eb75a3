package todolist

import (
	"context"

	"todo/internal/service"
)

// Cmd is an asynchronous store operation. Running it performs I/O only;
// the returned Msg is merged with Controller.Apply.
type Cmd func(ctx context.Context) Msg

// Msg is the result of a Cmd.
type Msg interface {
	// Failure returns the request error, or nil on success.
	Failure() error
}

// LoadedMsg is the result of the initial fetch.
type LoadedMsg struct {
	Tasks []service.Task
	Err   error
}

// CreatedMsg is the result of a create request.
type CreatedMsg struct {
	Text string
	Task service.Task
	Err  error
}

// DeletedMsg is the result of a delete request.
type DeletedMsg struct {
	ID  string
	Err error
}

// UpdatedMsg is the result of an update request. Seq orders responses for
// the same task by issue time.
type UpdatedMsg struct {
	ID    string
	Seq   uint64
	Patch service.Patch
	Task  service.Task
	Err   error
}

func (m LoadedMsg) Failure() error  { return m.Err }
func (m CreatedMsg) Failure() error { return m.Err }
func (m DeletedMsg) Failure() error { return m.Err }
func (m UpdatedMsg) Failure() error { return m.Err }

// IsEdit reports whether the update was a text save.
func (m UpdatedMsg) IsEdit() bool { return m.Patch.Text != nil }
