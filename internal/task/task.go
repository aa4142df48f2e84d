// Package task defines the core task domain: the Task record, its
// status enum, and the validation rules every mutation passes through.
package task

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLen is the maximum length of a task title in characters,
// applied after trimming.
const MaxTitleLen = 200

// Status is the completion state of a task. The enum is closed: exactly
// two values exist, and the filter and count logic in the cache package
// hard-codes the two-way split.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Valid reports whether s is one of the two known status values.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the other status value.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// ParseStatus validates a status string from the wire. Returns a
// ValidationError for anything outside the enum.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", &ValidationError{Message: "Status must be either Pending or Completed"}
	}
	return s, nil
}

// Task is a single to-do item. ID, Owner, and CreatedAt are assigned at
// creation and never change; Title and Status mutate only through the
// task service.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Title  *string `json:"title,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// IsZero reports whether the patch carries no fields.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Status == nil
}

// NormalizeTitle trims and validates a title. Returns the trimmed title
// or a ValidationError if the result is empty or longer than
// MaxTitleLen. The limit counts characters, not bytes, so multibyte
// titles are not penalized.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", &ValidationError{Message: "Task title is required"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return "", &ValidationError{Message: fmt.Sprintf("Title cannot exceed %d characters", MaxTitleLen)}
	}
	return title, nil
}
