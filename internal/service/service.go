// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Store defines the interface for task backend operations.
// The controller and commands never import a backend directly.
type Store interface {
	// List returns all tasks in store order.
	List(ctx context.Context) ([]Task, error)

	// Create creates an incomplete task and returns it with its assigned ID.
	Create(ctx context.Context, text string) (Task, error)

	// Update applies a partial update and returns the updated task.
	Update(ctx context.Context, id string, patch Patch) (Task, error)

	// Delete deletes a task.
	Delete(ctx context.Context, id string) error
}
