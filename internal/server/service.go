// Package server implements the task service and its HTTP surface:
// ownership-scoped CRUD over the store, fronted by bearer-credential
// verification on every operation.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"minitask/internal/auth"
	"minitask/internal/store"
	"minitask/internal/task"
)

// TaskPatch is the wire form of a partial task update. Fields are
// validated here before they become a typed task.Patch.
type TaskPatch struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

// TaskService executes task operations for verified accounts. Every
// operation verifies the credential first and aborts on failure; no
// partial execution. Persistence failures surface as
// task.ErrStoreUnavailable without retry.
type TaskService struct {
	verifier auth.Verifier
	store    *store.Store
	logger   *slog.Logger
}

// NewTaskService wires a verifier and a store into a task service.
func NewTaskService(verifier auth.Verifier, st *store.Store, logger *slog.Logger) (*TaskService, error) {
	if verifier == nil {
		return nil, fmt.Errorf("server: verifier is required")
	}
	if st == nil {
		return nil, fmt.Errorf("server: store is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TaskService{verifier: verifier, store: st, logger: logger}, nil
}

// List returns every task owned by the credential's account, newest
// first. Idempotent; no pagination.
func (s *TaskService) List(ctx context.Context, credential string) ([]task.Task, error) {
	account, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.TasksByOwner(ctx, account.ID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return tasks, nil
}

// Create validates and normalizes the title, then stores a new Pending
// task owned by the credential's account.
func (s *TaskService) Create(ctx context.Context, credential, title string) (task.Task, error) {
	account, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return task.Task{}, err
	}

	normalized, err := task.NormalizeTitle(title)
	if err != nil {
		return task.Task{}, err
	}

	created, err := s.store.CreateTask(ctx, account.ID, normalized, task.StatusPending)
	if err != nil {
		return task.Task{}, storeFailure(err)
	}

	s.logger.Info("task created", "task", created.ID, "account", account.ID)
	return created, nil
}

// Update applies the provided fields to the task. Absent fields are
// left untouched. A task owned by another account is reported exactly
// like a missing one.
func (s *TaskService) Update(ctx context.Context, credential, taskID string, patch TaskPatch) (task.Task, error) {
	account, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return task.Task{}, err
	}

	typed := task.Patch{}
	if patch.Title != nil {
		normalized, err := task.NormalizeTitle(*patch.Title)
		if err != nil {
			return task.Task{}, err
		}
		typed.Title = &normalized
	}
	if patch.Status != nil {
		status, err := task.ParseStatus(*patch.Status)
		if err != nil {
			return task.Task{}, err
		}
		typed.Status = &status
	}

	updated, err := s.store.UpdateTask(ctx, account.ID, taskID, typed)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return task.Task{}, err
		}
		return task.Task{}, storeFailure(err)
	}

	s.logger.Info("task updated", "task", updated.ID, "account", account.ID)
	return updated, nil
}

// Delete removes the task under the same ownership rule as Update.
func (s *TaskService) Delete(ctx context.Context, credential, taskID string) error {
	account, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, account.ID, taskID); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return err
		}
		return storeFailure(err)
	}

	s.logger.Info("task deleted", "task", taskID, "account", account.ID)
	return nil
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
}
