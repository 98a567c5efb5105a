// Package service exposes the domain operations shared by both
// front-ends. Every operation is a full read-modify-write cycle against
// the store; nothing is cached between calls.
package service

import (
	"github.com/rs/zerolog"

	"todo/internal/task"
)

// Store is the persistence surface the service depends on.
type Store interface {
	LoadAll() ([]task.Task, error)
	SaveAll([]task.Task) error
	Create(title string) (task.Task, error)
}

// Stats summarizes the task collection.
type Stats struct {
	Total   int
	Done    int
	Pending int
}

// Service applies domain operations on top of a Store.
type Service struct {
	store Store
	log   zerolog.Logger
}

// New creates a service over the given store.
func New(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Add creates a task and, when a due date is supplied, immediately
// reschedules the new task and returns the refreshed value.
func (s *Service) Add(title string, due *task.Date) (task.Task, error) {
	t, err := s.store.Create(title)
	if err != nil {
		return task.Task{}, err
	}
	if due == nil {
		return t, nil
	}
	if _, err := s.UpdateDue(t.ID, due); err != nil {
		return task.Task{}, err
	}
	refreshed, ok, err := s.GetByID(t.ID)
	if err != nil {
		return task.Task{}, err
	}
	if !ok {
		// The task was just created, so this should not happen; fall
		// back to the value the store returned.
		return t, nil
	}
	return refreshed, nil
}

// ListAll returns every task, ascending by id.
func (s *Service) ListAll() ([]task.Task, error) {
	return s.store.LoadAll()
}

// ListPending returns the tasks not yet done.
func (s *Service) ListPending() ([]task.Task, error) {
	return s.list(func(t task.Task) bool { return !t.Done })
}

// ListDone returns the completed tasks.
func (s *Service) ListDone() ([]task.Task, error) {
	return s.list(func(t task.Task) bool { return t.Done })
}

func (s *Service) list(keep func(task.Task) bool) ([]task.Task, error) {
	all, err := s.store.LoadAll()
	if err != nil {
		return nil, err
	}
	out := make([]task.Task, 0, len(all))
	for _, t := range all {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetByID returns the task with the given id, reporting presence via
// the second result.
func (s *Service) GetByID(id int64) (task.Task, bool, error) {
	all, err := s.store.LoadAll()
	if err != nil {
		return task.Task{}, false, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, true, nil
		}
	}
	return task.Task{}, false, nil
}

// MarkDone completes the task with the given id. It reports false for
// an unknown id and for a task that is already done; in both cases the
// file is left untouched.
func (s *Service) MarkDone(id int64) (bool, error) {
	all, err := s.store.LoadAll()
	if err != nil {
		return false, err
	}
	changed := false
	for i, t := range all {
		if t.ID == id && !t.Done {
			all[i] = t.WithDone(true)
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	if err := s.store.SaveAll(all); err != nil {
		return false, err
	}
	s.log.Debug().Int64("id", id).Msg("marked task done")
	return true, nil
}

// Remove deletes the task with the given id, reporting whether a task
// was removed.
func (s *Service) Remove(id int64) (bool, error) {
	all, err := s.store.LoadAll()
	if err != nil {
		return false, err
	}
	kept := make([]task.Task, 0, len(all))
	for _, t := range all {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(all) {
		return false, nil
	}
	if err := s.store.SaveAll(kept); err != nil {
		return false, err
	}
	s.log.Debug().Int64("id", id).Msg("removed task")
	return true, nil
}

// UpdateDue sets the due date of the task with the given id; a nil due
// clears it. Unlike MarkDone it reports true whenever the id exists,
// even if the new value equals the old one.
func (s *Service) UpdateDue(id int64, due *task.Date) (bool, error) {
	all, err := s.store.LoadAll()
	if err != nil {
		return false, err
	}
	changed := false
	for i, t := range all {
		if t.ID == id {
			all[i] = t.WithDue(due)
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	if err := s.store.SaveAll(all); err != nil {
		return false, err
	}
	s.log.Debug().Int64("id", id).Msg("updated due date")
	return true, nil
}

// ClearDone removes every completed task and returns the count removed.
func (s *Service) ClearDone() (int, error) {
	all, err := s.store.LoadAll()
	if err != nil {
		return 0, err
	}
	kept := make([]task.Task, 0, len(all))
	for _, t := range all {
		if !t.Done {
			kept = append(kept, t)
		}
	}
	removed := len(all) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.store.SaveAll(kept); err != nil {
		return 0, err
	}
	s.log.Debug().Int("removed", removed).Msg("cleared done tasks")
	return removed, nil
}

// Stats returns totals for the current collection.
func (s *Service) Stats() (Stats, error) {
	all, err := s.store.LoadAll()
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(all)}
	for _, t := range all {
		if t.Done {
			st.Done++
		}
	}
	st.Pending = st.Total - st.Done
	return st, nil
}
