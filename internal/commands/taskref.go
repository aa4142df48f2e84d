package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"minitask/internal/service"
	"minitask/internal/task"
)

// ErrTaskNumberRequired indicates no task number was provided.
var ErrTaskNumberRequired = errors.New("task number required")

// refError is a bad task reference supplied by the user, as opposed to
// a backend failure while resolving it.
type refError struct {
	msg string
}

func (e *refError) Error() string { return e.msg }

// isRefError reports whether err is a user-side reference error.
func isRefError(err error) bool {
	var re *refError
	return errors.Is(err, ErrTaskNumberRequired) || errors.As(err, &re)
}

// resolveTask turns a 1-based position from list output into the task
// at that position. Positions follow list order: newest first. The
// lookup fetches the current set so the numbering matches what the
// user last saw, modulo concurrent edits.
func resolveTask(ctx context.Context, svc service.Service, args []string) (task.Task, error) {
	if len(args) == 0 {
		return task.Task{}, ErrTaskNumberRequired
	}

	num, err := strconv.Atoi(args[0])
	if err != nil || num < 1 {
		return task.Task{}, &refError{msg: fmt.Sprintf("invalid task number: %s", args[0])}
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return task.Task{}, err
	}
	if num > len(tasks) {
		return task.Task{}, &refError{msg: fmt.Sprintf("task number out of range: %d", num)}
	}
	return tasks[num-1], nil
}
