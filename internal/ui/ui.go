// Package ui provides the graphical list view front-end, built on
// bubbletea. Like the shell it is pure presentation: every action calls
// the service and re-reads the result.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/service"
	"todo/internal/task"
)

// Run starts the graphical list view and blocks until it exits.
func Run(ctx context.Context, svc *service.Service) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("graphical mode requires a terminal (try --cli)")
	}
	program := tea.NewProgram(newModel(svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// IsTTY reports whether w is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}

// filter selects which tasks the list shows.
type filter int

const (
	filterAll filter = iota
	filterPending
	filterDone
)

func (f filter) String() string {
	switch f {
	case filterPending:
		return "pending"
	case filterDone:
		return "done"
	}
	return "all"
}

// inputMode tracks whether the view is in the list or capturing text.
type inputMode int

const (
	modeList inputMode = iota
	modeAdd
	modeDue
)

type model struct {
	svc *service.Service

	tasks  []task.Task // visible slice after filtering
	stats  service.Stats
	cursor int
	filter filter

	mode     inputMode
	input    string
	dueID    int64 // task being rescheduled while in modeDue
	errMsg   string
	status   string
	showHelp bool
}

func newModel(svc *service.Service) *model {
	m := &model{svc: svc}
	m.reload()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

// reload re-reads the collection through the service and reapplies the
// current filter, clamping the cursor.
func (m *model) reload() {
	m.errMsg = ""
	all, err := m.loadFiltered()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.tasks = all

	stats, err := m.svc.Stats()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.stats = stats

	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) loadFiltered() ([]task.Task, error) {
	switch m.filter {
	case filterPending:
		return m.svc.ListPending()
	case filterDone:
		return m.svc.ListDone()
	default:
		return m.svc.ListAll()
	}
}

func (m *model) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeList {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = len(m.tasks) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	case "enter", " ":
		m.markSelectedDone()
	case "x", "delete":
		m.removeSelected()
	case "a":
		m.mode = modeAdd
		m.input = ""
		m.status = ""
	case "e":
		if t, ok := m.selected(); ok {
			m.mode = modeDue
			m.dueID = t.ID
			m.input = ""
			m.status = ""
		}
	case "c":
		m.clearDone()
	case "1":
		m.filter = filterPending
		m.reload()
	case "2":
		m.filter = filterDone
		m.reload()
	case "0":
		m.filter = filterAll
		m.reload()
	case "r", "f5":
		m.reload()
	case "?", "h":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.commitInput()
	case tea.KeyEsc:
		m.mode = modeList
		m.input = ""
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m *model) commitInput() {
	mode, text := m.mode, strings.TrimSpace(m.input)
	m.mode = modeList
	m.input = ""

	switch mode {
	case modeAdd:
		if text == "" {
			return
		}
		t, err := m.svc.Add(text, nil)
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		m.status = fmt.Sprintf("Added #%d", t.ID)
	case modeDue:
		var due *task.Date
		if text != "" {
			d, err := task.ParseDate(text)
			if err != nil {
				m.errMsg = err.Error()
				return
			}
			due = &d
		}
		ok, err := m.svc.UpdateDue(m.dueID, due)
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		switch {
		case !ok:
			m.status = fmt.Sprintf("Task #%d not found", m.dueID)
		case due == nil:
			m.status = fmt.Sprintf("Cleared due date for #%d", m.dueID)
		default:
			m.status = fmt.Sprintf("Due date for #%d set to %s", m.dueID, due)
		}
	}
	m.reload()
}

func (m *model) markSelectedDone() {
	t, ok := m.selected()
	if !ok {
		return
	}
	changed, err := m.svc.MarkDone(t.ID)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	if changed {
		m.status = fmt.Sprintf("Marked #%d done", t.ID)
	} else {
		m.status = fmt.Sprintf("#%d already done", t.ID)
	}
	m.reload()
}

func (m *model) removeSelected() {
	t, ok := m.selected()
	if !ok {
		return
	}
	removed, err := m.svc.Remove(t.ID)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	if removed {
		m.status = fmt.Sprintf("Removed #%d", t.ID)
	}
	m.reload()
}

func (m *model) clearDone() {
	removed, err := m.svc.ClearDone()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.status = fmt.Sprintf("Removed %d done tasks", removed)
	m.reload()
}
