// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: test relies on a POSIX shell")
	}
}

func TestExecRunner_Success(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	var stdout bytes.Buffer
	r := NewExecRunner(nil, nil)
	res := r.Run(context.Background(), Command{
		Argv:   []string{"sh", "-c", "echo hello"},
		Stdout: &stdout,
	})

	if !res.Succeeded() {
		t.Fatalf("Run() = %+v, want success", res)
	}
	if got := strings.TrimSpace(stdout.String()); got != "hello" {
		t.Errorf("stdout = %q, want %q", got, "hello")
	}
	if err := res.Err("sh"); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	res := NewExecRunner(nil, nil).Run(context.Background(), Command{
		Argv: []string{"sh", "-c", "exit 3"},
	})

	if res.Succeeded() {
		t.Fatal("Run() succeeded, want exit status 3")
	}
	if res.Error != nil {
		t.Errorf("Result.Error = %v, want nil for a normal non-zero exit", res.Error)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}

	err := res.Err("sh")
	if !errors.Is(err, ErrNonZeroExit) {
		t.Errorf("Err() = %v, want ErrNonZeroExit", err)
	}
	var statusErr *ExitStatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 3 {
		t.Errorf("Err() = %v, want ExitStatusError with code 3", err)
	}
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	dir := t.TempDir()
	var stdout bytes.Buffer
	res := NewExecRunner(nil, nil).Run(context.Background(), Command{
		Argv:   []string{"sh", "-c", "pwd -P"},
		Dir:    dir,
		Stdout: &stdout,
	})
	if !res.Succeeded() {
		t.Fatalf("Run() = %+v, want success", res)
	}
	if got := strings.TrimSpace(stdout.String()); !strings.HasSuffix(got, filepath.Base(dir)) {
		t.Errorf("pwd = %q, want it to end with %q", got, filepath.Base(dir))
	}
}

func TestExecRunner_CommandNotFound(t *testing.T) {
	t.Parallel()

	res := NewExecRunner(nil, nil).Run(context.Background(), Command{
		Argv: []string{"infinibuild-definitely-missing-binary"},
	})

	if !errors.Is(res.Error, ErrCommandNotFound) {
		t.Errorf("Result.Error = %v, want ErrCommandNotFound", res.Error)
	}
	if res.ExitCode != ExitCodeNotFound {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, ExitCodeNotFound)
	}
	if !strings.Contains(res.Error.Error(), "infinibuild-definitely-missing-binary") {
		t.Errorf("Result.Error = %v, want the program name", res.Error)
	}
}

func TestCommand_Name(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"program with args", []string{"make", "terrain"}, "make"},
		{"program only", []string{"git"}, "git"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := (Command{Argv: tt.argv}).Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	t.Parallel()

	res := NewExecRunner(nil, nil).Run(context.Background(), Command{})
	if res.Error == nil {
		t.Error("Run() with empty argv should fail")
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	if got := Quote([]string{"make", "terrain"}); got != "make terrain" {
		t.Errorf("Quote() = %q, want %q", got, "make terrain")
	}
	got := Quote([]string{"python3", "-c", "import numpy; print(numpy.get_include())"})
	if !strings.HasPrefix(got, "python3 -c ") || got == "python3 -c import numpy; print(numpy.get_include())" {
		t.Errorf("Quote() did not quote the script argument: %q", got)
	}
}

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	for _, code := range []ExitCode{0, 1, 127, 255} {
		if err := code.Validate(); err != nil {
			t.Errorf("ExitCode(%d).Validate() = %v, want nil", code, err)
		}
	}
	for _, code := range []ExitCode{-1, 256} {
		if err := code.Validate(); !errors.Is(err, ErrInvalidExitCode) {
			t.Errorf("ExitCode(%d).Validate() = %v, want ErrInvalidExitCode", code, err)
		}
	}
}
