package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func dataFileArgs(t *testing.T) []string {
	t.Helper()
	return []string{"-file", filepath.Join(t.TempDir(), "todo-data.json")}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("Run(version): %v", err)
	}
	if !strings.Contains(out, "todo "+Version) {
		t.Errorf("version output: got %q", out)
	}
}

func TestHelp(t *testing.T) {
	out, _, err := run(t, "help")
	if err != nil {
		t.Fatalf("Run(help): %v", err)
	}
	for _, want := range []string{"Usage:", "clear-done", "-file"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	args := append(dataFileArgs(t), "frobnicate")
	_, _, err := run(t, args...)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("Run(frobnicate): got %v, want unknown command error", err)
	}
}

func TestOneShotAddAndList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "todo-data.json")

	out, _, err := run(t, "-file", file, "add", "Buy milk")
	if err != nil {
		t.Fatalf("Run(add): %v", err)
	}
	if !strings.Contains(out, "Added: #1 [ ] Buy milk") {
		t.Errorf("add output: got %q", out)
	}

	out, _, err = run(t, "-file", file, "list")
	if err != nil {
		t.Fatalf("Run(list): %v", err)
	}
	if !strings.Contains(out, "#1 [ ] Buy milk") {
		t.Errorf("list output: got %q", out)
	}
}

func TestOneShotStats(t *testing.T) {
	args := append(dataFileArgs(t), "stats")
	out, _, err := run(t, args...)
	if err != nil {
		t.Fatalf("Run(stats): %v", err)
	}
	if !strings.Contains(out, "Total: 0, Done: 0, Pending: 0") {
		t.Errorf("stats output: got %q", out)
	}
}

func TestDoctorCleanFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "todo-data.json")
	if _, _, err := run(t, "-file", file, "add", "Buy milk"); err != nil {
		t.Fatalf("Run(add): %v", err)
	}

	out, _, err := run(t, "-file", file, "doctor")
	if err != nil {
		t.Fatalf("Run(doctor): %v", err)
	}
	if !strings.Contains(out, "OK: 1 task records") {
		t.Errorf("doctor output: got %q", out)
	}
}

func TestDoctorBrokenFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "todo-data.json")
	if err := os.WriteFile(file, []byte("garbage\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out, _, err := run(t, "-file", file, "doctor")
	if err == nil {
		t.Fatalf("Run(doctor) on broken file: expected error, output %q", out)
	}
	if !strings.Contains(out, "FAIL") {
		t.Errorf("doctor output missing FAIL line: %q", out)
	}
}

func TestBadFlag(t *testing.T) {
	_, _, err := run(t, "-definitely-not-a-flag")
	if err == nil {
		t.Fatalf("Run with bad flag: expected error")
	}
}
