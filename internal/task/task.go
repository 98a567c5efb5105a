// Package task defines the task entity and its line-oriented encoding.
//
// Each task persists as a single JSON object on its own line with a
// fixed key order:
//
//	{"id":1,"title":"Buy milk","done":false,"createdAt":"2024-01-02T10:00:00+01:00","due":null}
//
// The due field is best-effort metadata: a malformed value decodes as
// absent instead of failing the record. Every other field is required
// and decodes strictly.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTask reports malformed constructor input.
var ErrInvalidTask = errors.New("invalid task")

// ParseError reports a persisted line that cannot be decoded into a Task.
type ParseError struct {
	Field string // field that failed, empty if the whole line is malformed
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse task: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parse task: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

var errMissingField = errors.New("missing required field")

// Task is one tracked to-do item. Values are immutable: updates go
// through WithDone and WithDue, which return modified copies and leave
// the receiver untouched.
type Task struct {
	ID        int64
	Title     string
	Done      bool
	CreatedAt time.Time
	Due       *Date
}

// New constructs a task. The id is caller-assigned; the store owns
// allocation. Title and createdAt are required.
func New(id int64, title string, done bool, createdAt time.Time, due *Date) (Task, error) {
	if title == "" {
		return Task{}, fmt.Errorf("%w: empty title", ErrInvalidTask)
	}
	if createdAt.IsZero() {
		return Task{}, fmt.Errorf("%w: zero createdAt", ErrInvalidTask)
	}
	return Task{ID: id, Title: title, Done: done, CreatedAt: createdAt, Due: due}, nil
}

// WithDone returns a copy of the task with the done flag replaced.
func (t Task) WithDone(done bool) Task {
	t.Done = done
	return t
}

// WithDue returns a copy of the task with the due date replaced.
// A nil due clears the date.
func (t Task) WithDue(due *Date) Task {
	t.Due = due
	return t
}

// record is the wire shape. Field order here is the key order on disk.
type record struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Done      bool    `json:"done"`
	CreatedAt string  `json:"createdAt"`
	Due       *string `json:"due"`
}

// MarshalLine encodes the task as its single-line record. An absent due
// date is written as an explicit null.
func (t Task) MarshalLine() (string, error) {
	rec := record{
		ID:        t.ID,
		Title:     t.Title,
		Done:      t.Done,
		CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
	}
	if t.Due != nil {
		s := t.Due.String()
		rec.Due = &s
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode task %d: %w", t.ID, err)
	}
	return string(data), nil
}

// ParseLine decodes one record line back into a task.
//
// A missing required key, malformed boolean, or malformed timestamp
// fails with a *ParseError. A malformed due value is dropped, not
// propagated: due dates degrade to absent.
func ParseLine(line string) (Task, error) {
	var rec struct {
		ID        *int64          `json:"id"`
		Title     *string         `json:"title"`
		Done      *bool           `json:"done"`
		CreatedAt *string         `json:"createdAt"`
		Due       json.RawMessage `json:"due"`
	}
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return Task{}, &ParseError{Err: err}
	}
	switch {
	case rec.ID == nil:
		return Task{}, &ParseError{Field: "id", Err: errMissingField}
	case rec.Title == nil:
		return Task{}, &ParseError{Field: "title", Err: errMissingField}
	case rec.Done == nil:
		return Task{}, &ParseError{Field: "done", Err: errMissingField}
	case rec.CreatedAt == nil:
		return Task{}, &ParseError{Field: "createdAt", Err: errMissingField}
	}
	createdAt, err := time.Parse(time.RFC3339, *rec.CreatedAt)
	if err != nil {
		return Task{}, &ParseError{Field: "createdAt", Err: err}
	}
	var due *Date
	if len(rec.Due) > 0 && string(rec.Due) != "null" {
		var s string
		if err := json.Unmarshal(rec.Due, &s); err == nil {
			if d, err := ParseDate(s); err == nil {
				due = &d
			}
		}
	}
	t, err := New(*rec.ID, *rec.Title, *rec.Done, createdAt, due)
	if err != nil {
		return Task{}, &ParseError{Err: err}
	}
	return t, nil
}

// String renders the task for display, never for persistence.
func (t Task) String() string {
	marker := " "
	if t.Done {
		marker = "x"
	}
	s := fmt.Sprintf("#%d [%s] %s", t.ID, marker, t.Title)
	if t.Due != nil {
		s += fmt.Sprintf(" (due %s)", t.Due)
	}
	return s
}

// Equal reports whether two tasks have the same field values.
// Timestamps compare by instant, due dates by value.
func (t Task) Equal(o Task) bool {
	if t.ID != o.ID || t.Title != o.Title || t.Done != o.Done {
		return false
	}
	if !t.CreatedAt.Equal(o.CreatedAt) {
		return false
	}
	if (t.Due == nil) != (o.Due == nil) {
		return false
	}
	return t.Due == nil || *t.Due == *o.Due
}
