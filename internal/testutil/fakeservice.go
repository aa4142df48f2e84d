// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"minitask/internal/task"
)

// FakeService is an in-memory implementation of service.Service for
// testing. It mirrors the server's validation and ordering semantics:
// one task set for the session's account, newest first on list.
type FakeService struct {
	mu     sync.Mutex
	tasks  []task.Task // oldest first; ListTasks reverses
	nextID int
	now    time.Time

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

// AddTask seeds a task directly, bypassing validation. Returns the
// stored record.
func (f *FakeService) AddTask(title string, status task.Status) task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(title, status)
}

func (f *FakeService) insert(title string, status task.Status) task.Task {
	f.nextID++
	f.now = f.now.Add(time.Minute)
	t := task.Task{
		ID:        fmt.Sprintf("task-%d", f.nextID),
		Title:     title,
		Status:    status,
		Owner:     "acct-fake",
		CreatedAt: f.now,
	}
	f.tasks = append(f.tasks, t)
	return t
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]task.Task, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]task.Task, 0, len(f.tasks))
	for i := len(f.tasks) - 1; i >= 0; i-- {
		result = append(result, f.tasks[i])
	}
	return result, nil
}

// CreateTask implements service.Service. Applies the same title rules
// as the server.
func (f *FakeService) CreateTask(ctx context.Context, title string) (task.Task, error) {
	if f.CreateErr != nil {
		return task.Task{}, f.CreateErr
	}
	normalized, err := task.NormalizeTitle(title)
	if err != nil {
		return task.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(normalized, task.StatusPending), nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, taskID string, patch task.Patch) (task.Task, error) {
	if f.UpdateErr != nil {
		return task.Task{}, f.UpdateErr
	}
	if patch.Title != nil {
		normalized, err := task.NormalizeTitle(*patch.Title)
		if err != nil {
			return task.Task{}, err
		}
		patch.Title = &normalized
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return task.Task{}, &task.ValidationError{Message: "Status must be either Pending or Completed"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			if patch.Title != nil {
				f.tasks[i].Title = *patch.Title
			}
			if patch.Status != nil {
				f.tasks[i].Status = *patch.Status
			}
			return f.tasks[i], nil
		}
	}
	return task.Task{}, task.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) (string, error) {
	if f.DeleteErr != nil {
		return "", f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return taskID, nil
		}
	}
	return "", task.ErrNotFound
}
