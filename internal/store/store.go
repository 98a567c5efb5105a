// Package store persists the full task collection as one file with one
// task record per line.
//
// The file is the single source of truth: every read loads the whole
// set and every write truncates and rewrites it. There is no locking
// and no atomic rename, so the store is safe only for a single process
// with a single writer.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"todo/internal/task"
)

// FileStore owns the on-disk task collection.
type FileStore struct {
	path string
	log  zerolog.Logger
}

// New creates a store backed by the file at path. The file is created
// lazily on first access.
func New(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// LoadAll reads every non-blank line of the backing file and returns
// the tasks sorted ascending by id. A missing file is created empty.
// A line that fails the strict part of the parse aborts the load.
func (s *FileStore) LoadAll() ([]task.Task, error) {
	if err := s.ensureFile(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read task file %s: %w", s.path, err)
	}

	var tasks []task.Task
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		t, err := task.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("task file %s line %d: %w", s.path, i+1, err)
		}
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	s.log.Debug().Int("tasks", len(tasks)).Str("path", s.path).Msg("loaded task file")
	return tasks, nil
}

// SaveAll replaces the entire file contents with one line per task, in
// the order given. The loader re-sorts by id regardless of this order.
func (s *FileStore) SaveAll(tasks []task.Task) error {
	if err := s.ensureFile(); err != nil {
		return err
	}

	var b strings.Builder
	for _, t := range tasks {
		line, err := t.MarshalLine()
		if err != nil {
			return err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write task file %s: %w", s.path, err)
	}
	s.log.Debug().Int("tasks", len(tasks)).Str("path", s.path).Msg("saved task file")
	return nil
}

// NextID returns one greater than the maximum id present, or 1 for an
// empty store. It is recomputed from the full set on every call, which
// holds up only because all writes go through SaveAll with the full set.
func (s *FileStore) NextID() (int64, error) {
	all, err := s.LoadAll()
	if err != nil {
		return 0, err
	}
	return nextID(all), nil
}

// Create allocates the next id, builds a pending task with the current
// timestamp and no due date, and persists the grown set.
func (s *FileStore) Create(title string) (task.Task, error) {
	all, err := s.LoadAll()
	if err != nil {
		return task.Task{}, err
	}
	t, err := task.New(nextID(all), title, false, time.Now(), nil)
	if err != nil {
		return task.Task{}, err
	}
	if err := s.SaveAll(append(all, t)); err != nil {
		return task.Task{}, err
	}
	s.log.Debug().Int64("id", t.ID).Msg("created task")
	return t, nil
}

func nextID(tasks []task.Task) int64 {
	var max int64
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func (s *FileStore) ensureFile() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat task file %s: %w", s.path, err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create task file dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, nil, 0o644); err != nil {
		return fmt.Errorf("create task file %s: %w", s.path, err)
	}
	s.log.Debug().Str("path", s.path).Msg("created empty task file")
	return nil
}
