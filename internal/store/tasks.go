package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"minitask/internal/task"
)

// CreateTask inserts a new task for owner and returns it. The store
// assigns the id and the creation timestamp. The title must already be
// validated and normalized by the caller.
func (s *Store) CreateTask(ctx context.Context, owner, title string, status task.Status) (task.Task, error) {
	conn, err := s.take(ctx)
	if err != nil {
		return task.Task{}, err
	}
	defer s.pool.Put(conn)

	t := task.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    status,
		Owner:     owner,
		CreatedAt: s.clock.Now().UTC().Truncate(time.Millisecond),
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO tasks (id, owner, title, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{t.ID, t.Owner, t.Title, string(t.Status), t.CreatedAt.UnixMilli()},
		})
	if err != nil {
		return task.Task{}, fmt.Errorf("store: insert task: %w", err)
	}
	return t, nil
}

// TasksByOwner returns every task owned by owner, newest first. Ties on
// the creation timestamp break toward the later insert.
func (s *Store) TasksByOwner(ctx context.Context, owner string) ([]task.Task, error) {
	conn, err := s.take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	tasks := []task.Task{}
	err = sqlitex.Execute(conn,
		`SELECT id, owner, title, status, created_at FROM tasks
		 WHERE owner = ? ORDER BY created_at DESC, rowid DESC`,
		&sqlitex.ExecOptions{
			Args: []any{owner},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tasks = append(tasks, scanTask(stmt))
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies patch to the task with the given id owned by
// owner and returns the updated record. The lookup predicate is
// id AND owner in a single query: a task owned by another account
// yields task.ErrNotFound exactly like a missing id. The read and
// write run in one immediate transaction so concurrent updates to the
// same task serialize as last-write-wins on whole fields.
func (s *Store) UpdateTask(ctx context.Context, owner, id string, patch task.Patch) (task.Task, error) {
	conn, err := s.take(ctx)
	if err != nil {
		return task.Task{}, err
	}
	defer s.pool.Put(conn)

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return task.Task{}, fmt.Errorf("store: begin update: %w", err)
	}
	defer endFn(&err)

	var t task.Task
	found := false
	err = sqlitex.Execute(conn,
		`SELECT id, owner, title, status, created_at FROM tasks WHERE id = ? AND owner = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id, owner},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				t = scanTask(stmt)
				found = true
				return nil
			},
		})
	if err != nil {
		return task.Task{}, fmt.Errorf("store: find task: %w", err)
	}
	if !found {
		err = task.ErrNotFound
		return task.Task{}, err
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}

	err = sqlitex.Execute(conn,
		`UPDATE tasks SET title = ?, status = ? WHERE id = ? AND owner = ?`,
		&sqlitex.ExecOptions{
			Args: []any{t.Title, string(t.Status), id, owner},
		})
	if err != nil {
		return task.Task{}, fmt.Errorf("store: update task: %w", err)
	}
	return t, nil
}

// DeleteTask removes the task with the given id owned by owner. Same
// fused ownership predicate as UpdateTask: foreign and missing ids are
// both task.ErrNotFound.
func (s *Store) DeleteTask(ctx context.Context, owner, id string) error {
	conn, err := s.take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM tasks WHERE id = ? AND owner = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id, owner},
		})
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	if conn.Changes() == 0 {
		return task.ErrNotFound
	}
	return nil
}

func scanTask(stmt *sqlite.Stmt) task.Task {
	return task.Task{
		ID:        stmt.ColumnText(0),
		Owner:     stmt.ColumnText(1),
		Title:     stmt.ColumnText(2),
		Status:    task.Status(stmt.ColumnText(3)),
		CreatedAt: time.UnixMilli(stmt.ColumnInt64(4)).UTC(),
	}
}
