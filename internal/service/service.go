// Package service defines the backend-agnostic interface for task
// operations. Commands and the dashboard depend on this interface;
// the HTTP client implements it, and tests substitute a fake.
package service

import (
	"context"

	"minitask/internal/task"
)

// Service is the remote-call abstraction over the task server. All
// operations act on the tasks owned by the session's account.
type Service interface {
	// ListTasks returns the full owned set, newest first.
	ListTasks(ctx context.Context) ([]task.Task, error)

	// CreateTask creates a Pending task with the given title and
	// returns the stored record.
	CreateTask(ctx context.Context, title string) (task.Task, error)

	// UpdateTask applies the patch fields to the task and returns
	// the updated record. Unset fields are left untouched.
	UpdateTask(ctx context.Context, taskID string, patch task.Patch) (task.Task, error)

	// DeleteTask removes the task and returns the deleted id as
	// confirmed by the server.
	DeleteTask(ctx context.Context, taskID string) (string, error)
}
