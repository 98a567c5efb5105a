package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"todo/internal/service"
	"todo/internal/store"
)

func newTestModel(t *testing.T, titles ...string) *model {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "todo-data.json"), zerolog.Nop())
	svc := service.New(st, zerolog.Nop())
	for _, title := range titles {
		if _, err := svc.Add(title, nil); err != nil {
			t.Fatalf("Add(%q): %v", title, err)
		}
	}
	return newModel(svc)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeText(m *model, text string) {
	for _, r := range text {
		if r == ' ' {
			m.Update(key("space"))
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModelLoadsTasks(t *testing.T) {
	m := newTestModel(t, "Buy milk", "Pay rent")
	if len(m.tasks) != 2 {
		t.Fatalf("tasks: got %d, want 2", len(m.tasks))
	}
	if m.stats.Total != 2 || m.stats.Pending != 2 {
		t.Errorf("stats: got %+v, want total 2 pending 2", m.stats)
	}
}

func TestCursorMovement(t *testing.T) {
	m := newTestModel(t, "a", "b", "c")

	m.Update(key("j"))
	m.Update(key("j"))
	if m.cursor != 2 {
		t.Errorf("cursor after jj: got %d, want 2", m.cursor)
	}
	m.Update(key("j"))
	if m.cursor != 2 {
		t.Errorf("cursor clamped at end: got %d, want 2", m.cursor)
	}
	m.Update(key("g"))
	if m.cursor != 0 {
		t.Errorf("cursor after g: got %d, want 0", m.cursor)
	}
	m.Update(key("G"))
	if m.cursor != 2 {
		t.Errorf("cursor after G: got %d, want 2", m.cursor)
	}
	m.Update(key("k"))
	if m.cursor != 1 {
		t.Errorf("cursor after k: got %d, want 1", m.cursor)
	}
}

func TestMarkDoneKey(t *testing.T) {
	m := newTestModel(t, "Buy milk")

	m.Update(key("enter"))
	if m.stats.Done != 1 {
		t.Errorf("stats.Done after enter: got %d, want 1", m.stats.Done)
	}
	if len(m.tasks) != 1 || !m.tasks[0].Done {
		t.Errorf("task not done after enter: %+v", m.tasks)
	}
}

func TestRemoveKey(t *testing.T) {
	m := newTestModel(t, "a", "b")

	m.Update(key("x"))
	if len(m.tasks) != 1 {
		t.Fatalf("tasks after remove: got %d, want 1", len(m.tasks))
	}
	if m.tasks[0].Title != "b" {
		t.Errorf("remaining task: got %q, want b", m.tasks[0].Title)
	}
}

func TestAddInputFlow(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode after a: got %v, want modeAdd", m.mode)
	}
	typeText(m, "Water plants")
	m.Update(key("enter"))

	if m.mode != modeList {
		t.Errorf("mode after commit: got %v, want modeList", m.mode)
	}
	if len(m.tasks) != 1 || m.tasks[0].Title != "Water plants" {
		t.Errorf("tasks after add: got %+v", m.tasks)
	}
}

func TestAddInputEscCancels(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("a"))
	typeText(m, "nevermind")
	m.Update(key("esc"))

	if m.mode != modeList {
		t.Errorf("mode after esc: got %v, want modeList", m.mode)
	}
	if len(m.tasks) != 0 {
		t.Errorf("tasks after cancelled add: got %+v, want none", m.tasks)
	}
}

func TestDueInputFlow(t *testing.T) {
	m := newTestModel(t, "Pay rent")

	m.Update(key("e"))
	if m.mode != modeDue {
		t.Fatalf("mode after e: got %v, want modeDue", m.mode)
	}
	typeText(m, "2024-01-05")
	m.Update(key("enter"))

	if m.tasks[0].Due == nil || m.tasks[0].Due.String() != "2024-01-05" {
		t.Errorf("due after input: got %v, want 2024-01-05", m.tasks[0].Due)
	}

	// Empty input clears the date.
	m.Update(key("e"))
	m.Update(key("enter"))
	if m.tasks[0].Due != nil {
		t.Errorf("due after clear: got %v, want nil", m.tasks[0].Due)
	}
}

func TestDueInputBadDateShowsError(t *testing.T) {
	m := newTestModel(t, "Pay rent")

	m.Update(key("e"))
	typeText(m, "soonish")
	m.Update(key("enter"))

	if m.errMsg == "" {
		t.Errorf("expected error message for bad date")
	}
	if m.tasks[0].Due != nil {
		t.Errorf("due set despite bad date: %v", m.tasks[0].Due)
	}
}

func TestFilterKeys(t *testing.T) {
	m := newTestModel(t, "a", "b", "c")
	m.Update(key("enter")) // mark first task done

	m.Update(key("1"))
	if len(m.tasks) != 2 {
		t.Errorf("pending filter: got %d tasks, want 2", len(m.tasks))
	}
	m.Update(key("2"))
	if len(m.tasks) != 1 || !m.tasks[0].Done {
		t.Errorf("done filter: got %+v, want one done task", m.tasks)
	}
	m.Update(key("0"))
	if len(m.tasks) != 3 {
		t.Errorf("all filter: got %d tasks, want 3", len(m.tasks))
	}
}

func TestCursorClampsWhenFilterShrinksList(t *testing.T) {
	m := newTestModel(t, "a", "b", "c")
	m.Update(key("G"))
	m.Update(key("enter")) // last task done
	m.Update(key("1"))     // pending only

	if m.cursor >= len(m.tasks) {
		t.Errorf("cursor %d out of range for %d tasks", m.cursor, len(m.tasks))
	}
}

func TestClearDoneKey(t *testing.T) {
	m := newTestModel(t, "a", "b")
	m.Update(key("enter"))
	m.Update(key("c"))

	if len(m.tasks) != 1 {
		t.Errorf("tasks after clear-done: got %d, want 1", len(m.tasks))
	}
	if !strings.Contains(m.status, "Removed 1 done tasks") {
		t.Errorf("status: got %q", m.status)
	}
}

func TestViewRendersTasksAndFooter(t *testing.T) {
	m := newTestModel(t, "Buy milk")
	out := m.View()

	for _, want := range []string{"#1", "Buy milk", "Total 1", "Pending 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q:\n%s", want, out)
		}
	}
}

func TestViewShowsErrorWithoutDroppingRows(t *testing.T) {
	m := newTestModel(t, "Buy milk")
	m.errMsg = "disk on fire"
	out := m.View()

	if !strings.Contains(out, "disk on fire") {
		t.Errorf("View missing error:\n%s", out)
	}
	if !strings.Contains(out, "Buy milk") {
		t.Errorf("error hid the task rows:\n%s", out)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, "a")

	m.Update(key("?"))
	if !strings.Contains(m.View(), "Keys:") {
		t.Errorf("help view missing key table")
	}
	m.Update(key("?"))
	if strings.Contains(m.View(), "Keys:") {
		t.Errorf("help still visible after second toggle")
	}
}
