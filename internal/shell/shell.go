// Package shell implements the line-oriented front-end: an interactive
// session and one-shot command execution. It holds no business logic;
// every action goes through the service.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"todo/internal/service"
	"todo/internal/task"
)

const prompt = "todo> "

// Shell runs task commands against a service and renders the results.
type Shell struct {
	svc    *service.Service
	out    io.Writer
	errOut io.Writer
}

// New creates a shell writing normal output to out and errors to errOut.
func New(svc *service.Service, out, errOut io.Writer) *Shell {
	return &Shell{svc: svc, out: out, errOut: errOut}
}

// Run reads command lines from in until exit/quit or end of input.
// Failures are printed and the session continues.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Interactive mode. Type 'help' or 'exit'.")
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			break
		}
		if !s.Process(scanner.Text()) {
			break
		}
	}
	return scanner.Err()
}

// Process runs one raw command line. It returns false when the session
// should end.
func (s *Shell) Process(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	return s.Exec(Tokenize(trimmed))
}

// IsCommand reports whether name is a known shell command.
func IsCommand(name string) bool {
	switch strings.ToLower(name) {
	case "help", "add", "list", "done", "remove", "due", "clear-done", "stats", "exit", "quit":
		return true
	}
	return false
}

// Exec runs one tokenized command. It returns false when the session
// should end.
func (s *Shell) Exec(args []string) bool {
	if len(args) == 0 {
		return true
	}
	cmd := strings.ToLower(args[0])

	var err error
	switch cmd {
	case "help":
		s.printHelp()
	case "add":
		err = s.handleAdd(args)
	case "list":
		err = s.handleList(args)
	case "done":
		err = s.handleDone(args)
	case "remove":
		err = s.handleRemove(args)
	case "due":
		err = s.handleDue(args)
	case "clear-done":
		err = s.handleClearDone()
	case "stats":
		err = s.handleStats()
	case "exit", "quit":
		fmt.Fprintln(s.out, "Bye!")
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", cmd)
		s.printHelp()
	}
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	return true
}

func (s *Shell) handleAdd(args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(s.out, `Usage: add "title" [--due yyyy-mm-dd]`)
		return nil
	}
	title := args[1]
	var due *task.Date
	if len(args) >= 4 && args[2] == "--due" {
		d, err := task.ParseDate(args[3])
		if err != nil {
			return err
		}
		due = &d
	}
	t, err := s.svc.Add(title, due)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added: %s\n", t)
	return nil
}

func (s *Shell) handleList(args []string) error {
	var all, pending, done bool
	for _, arg := range args[1:] {
		switch arg {
		case "--all":
			all = true
		case "--pending":
			pending = true
		case "--done":
			done = true
		}
	}

	var tasks []task.Task
	var err error
	switch {
	case all || (!pending && !done):
		tasks, err = s.svc.ListAll()
	case done:
		tasks, err = s.svc.ListDone()
	default:
		tasks, err = s.svc.ListPending()
	}
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(s.out, "(no tasks)")
		return nil
	}
	for _, t := range tasks {
		fmt.Fprintln(s.out, t)
	}
	return nil
}

func (s *Shell) handleDone(args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: done <id>")
		return nil
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	ok, err := s.svc.MarkDone(id)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(s.out, "Marked done: #%d\n", id)
	} else {
		fmt.Fprintf(s.out, "Task not found or already done: #%d\n", id)
	}
	return nil
}

func (s *Shell) handleRemove(args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: remove <id>")
		return nil
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	ok, err := s.svc.Remove(id)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(s.out, "Removed: #%d\n", id)
	} else {
		fmt.Fprintf(s.out, "Task not found: #%d\n", id)
	}
	return nil
}

func (s *Shell) handleDue(args []string) error {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "Usage: due <id> <yyyy-mm-dd|clear>")
		return nil
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	var due *task.Date
	if args[2] != "clear" {
		d, err := task.ParseDate(args[2])
		if err != nil {
			return err
		}
		due = &d
	}

	ok, err := s.svc.UpdateDue(id, due)
	if err != nil {
		return err
	}
	switch {
	case !ok:
		fmt.Fprintf(s.out, "Task not found: #%d\n", id)
	case due == nil:
		fmt.Fprintf(s.out, "Cleared due date for #%d\n", id)
	default:
		fmt.Fprintf(s.out, "Updated due date for #%d to %s\n", id, due)
	}
	return nil
}

func (s *Shell) handleClearDone() error {
	removed, err := s.svc.ClearDone()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Removed %d done tasks\n", removed)
	return nil
}

func (s *Shell) handleStats() error {
	st, err := s.svc.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Total: %d, Done: %d, Pending: %d\n", st.Total, st.Done, st.Pending)
	return nil
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  help
  add "<title>" [--due yyyy-mm-dd]
  list [--all] [--pending] [--done]
  done <id>
  remove <id>
  due <id> <yyyy-mm-dd|clear>
  clear-done
  stats
  exit | quit
`)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// Tokenize splits a command line into arguments. Double quotes group
// words and a backslash escapes the next character, so titles with
// spaces or quotes survive intact.
func Tokenize(line string) []string {
	var out []string
	var cur strings.Builder
	inQuotes, escape := false, false
	for _, c := range line {
		switch {
		case escape:
			cur.WriteRune(c)
			escape = false
		case c == '\\':
			escape = true
		case c == '"':
			inQuotes = !inQuotes
		case !inQuotes && (c == ' ' || c == '\t'):
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
