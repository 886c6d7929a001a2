package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, false)
	return stdout.String(), stderr.String(), code
}

func TestRunMeet(t *testing.T) {
	out, _, code := runCLI(t, "meet", "Union[int, str]", "int")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if strings.TrimSpace(out) != "builtins.int" {
		t.Errorf("output %q, want builtins.int", out)
	}
}

func TestRunJoin(t *testing.T) {
	out, _, code := runCLI(t, "join", "bool", "int")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if strings.TrimSpace(out) != "builtins.int" {
		t.Errorf("output %q, want builtins.int", out)
	}
}

func TestRunOverlap(t *testing.T) {
	out, _, code := runCLI(t, "overlap", "int", "float")
	if code != 0 || strings.TrimSpace(out) != "overlap" {
		t.Errorf("got code %d output %q", code, out)
	}

	// Disjoint operands answer on stdout but signal through the exit code.
	out, _, code = runCLI(t, "overlap", "int", "str")
	if code != 1 || strings.TrimSpace(out) != "no overlap" {
		t.Errorf("got code %d output %q", code, out)
	}

	_, _, code = runCLI(t, "--ignore-promotions", "overlap", "int", "float")
	if code != 1 {
		t.Errorf("promotion overlap should vanish with --ignore-promotions, code %d", code)
	}
}

func TestRunNarrow(t *testing.T) {
	out, _, code := runCLI(t, "narrow", "Optional[str]", "str")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if strings.TrimSpace(out) != "builtins.str" {
		t.Errorf("output %q, want builtins.str", out)
	}
}

func TestRunStrictOptionalFlag(t *testing.T) {
	out, _, _ := runCLI(t, "meet", "None", "int")
	if strings.TrimSpace(out) != "<nothing>" {
		t.Errorf("strict meet(None, int) printed %q", out)
	}

	out, _, _ = runCLI(t, "--no-strict-optional", "meet", "None", "int")
	if strings.TrimSpace(out) != "None" {
		t.Errorf("lenient meet(None, int) printed %q", out)
	}
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	if err := os.WriteFile(path, []byte("strict_optional: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, code := runCLI(t, "--config", path, "meet", "None", "int")
	if code != 0 || strings.TrimSpace(out) != "None" {
		t.Errorf("config file not applied: code %d output %q", code, out)
	}
}

func TestRunBadInput(t *testing.T) {
	_, stderr, code := runCLI(t, "meet", "frob", "int")
	if code != 2 || !strings.Contains(stderr, "frob") {
		t.Errorf("bad type: code %d stderr %q", code, stderr)
	}

	_, stderr, code = runCLI(t, "frobnicate", "int", "int")
	if code != 2 || !strings.Contains(stderr, "frobnicate") {
		t.Errorf("bad command: code %d stderr %q", code, stderr)
	}

	_, _, code = runCLI(t, "meet", "int")
	if code != 2 {
		t.Errorf("missing operand: code %d", code)
	}
}

func TestRunVerbose(t *testing.T) {
	_, stderr, code := runCLI(t, "--verbose", "meet", "int", "int")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	line := strings.TrimSpace(stderr)
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "session" {
		t.Fatalf("verbose header %q, want a session line", line)
	}
	if _, err := uuid.Parse(fields[1]); err != nil {
		t.Errorf("session id %q is not a valid uuid: %v", fields[1], err)
	}
	if !strings.Contains(line, "strict_optional=true") {
		t.Errorf("verbose header %q should report the settings", line)
	}

	_, stderr, _ = runCLI(t, "meet", "int", "int")
	if stderr != "" {
		t.Errorf("stderr %q without --verbose, want none", stderr)
	}
}

func TestRunHelp(t *testing.T) {
	out, _, code := runCLI(t, "--help")
	if code != 0 || !strings.Contains(out, "Usage") {
		t.Errorf("help: code %d output %q", code, out)
	}
}

func TestRunColor(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"meet", "int", "int"}, &stdout, &stderr, true)
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout.String(), "\033[") {
		t.Error("expected ANSI escapes when color is on")
	}
}
