package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todo"))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(fmt.Sprintf("filter: %s", m.filter)))
	b.WriteString("\n\n")

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	if len(m.tasks) == 0 {
		b.WriteString(statusStyle.Render("(no tasks)"))
		b.WriteString("\n")
	}
	for i, t := range m.tasks {
		b.WriteString(renderTask(t, i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(promptStyle.Render("New task title: "))
		b.WriteString(m.input)
		b.WriteString("▌\n")
	case modeDue:
		b.WriteString(promptStyle.Render(fmt.Sprintf("Due date for #%d (yyyy-mm-dd, empty clears): ", m.dueID)))
		b.WriteString(m.input)
		b.WriteString("▌\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(fmt.Sprintf("Total %d | Done %d | Pending %d", m.stats.Total, m.stats.Done, m.stats.Pending)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter done · a add · e due · x remove · c clear-done · 1/2/0 filter · ? help · q quit"))
	b.WriteString("\n")
	return b.String()
}

func renderTask(t task.Task, selected bool) string {
	marker := "[ ]"
	if t.Done {
		marker = "[x]"
	}
	line := fmt.Sprintf("%s #%d %s", marker, t.ID, t.Title)

	switch {
	case selected:
		line = selectedStyle.Render("> " + line)
	case t.Done:
		line = "  " + doneStyle.Render(line)
	default:
		line = "  " + line
	}
	if t.Due != nil {
		line += " " + dueStyle.Render(fmt.Sprintf("(due %s)", t.Due))
	}
	return line
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keys:\n")
	for _, row := range [][2]string{
		{"up/k, down/j", "move the cursor"},
		{"g, G", "jump to first or last task"},
		{"enter, space", "mark the selected task done"},
		{"a", "add a task"},
		{"e", "set or clear the selected task's due date"},
		{"x, delete", "remove the selected task"},
		{"c", "remove all done tasks"},
		{"1 / 2 / 0", "show pending / done / all tasks"},
		{"r, f5", "reload from disk"},
		{"?", "toggle this help"},
		{"q, ctrl+c", "quit"},
	} {
		b.WriteString(fmt.Sprintf("  %-14s %s\n", row[0], row[1]))
	}
}
