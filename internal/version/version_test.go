package version

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestHelperProcess is not a real test. It stands in for git when
// execCommand is swapped to point at the test binary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) < 3 || args[0] != "git" || args[1] != "describe" {
		os.Exit(1)
	}

	switch args[2] {
	case "--always":
		if os.Getenv("MOCK_GIT_FAIL") == "1" {
			os.Exit(1)
		}
		os.Stdout.WriteString("abc1234\n")
	case "--tags":
		if os.Getenv("MOCK_GIT_FAIL") == "1" {
			os.Exit(1)
		}
		os.Stdout.WriteString("v0.3.0\n")
	}
}

func useMockGit(t *testing.T, fail bool) {
	t.Helper()

	origExec := execCommand
	execCommand = func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, arg...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
		if fail {
			cmd.Env = append(cmd.Env, "MOCK_GIT_FAIL=1")
		}
		return cmd
	}

	Reset()
	t.Cleanup(func() {
		execCommand = origExec
		Reset()
	})
}

func TestResolveFromGit(t *testing.T) {
	useMockGit(t, false)

	if got := GetVersion(); got != "v0.3.0" {
		t.Errorf("GetVersion() = %q, want v0.3.0", got)
	}
	if got := GetCommit(); got != "abc1234" {
		t.Errorf("GetCommit() = %q, want abc1234", got)
	}
	if GetDate() == "" {
		t.Error("GetDate() should never be empty")
	}
}

func TestResolveWithoutGit(t *testing.T) {
	useMockGit(t, true)

	if got := GetVersion(); got != "dev" {
		t.Errorf("GetVersion() = %q, want dev", got)
	}
	if got := GetCommit(); got != "unknown" {
		t.Errorf("GetCommit() = %q, want unknown", got)
	}
}

func TestLdflagsTakePrecedence(t *testing.T) {
	useMockGit(t, false)

	Version = "v9.9.9"
	Commit = "deadbeef"
	Date = "2026-01-01"

	if got := GetVersion(); got != "v9.9.9" {
		t.Errorf("GetVersion() = %q, want v9.9.9", got)
	}
	if got := GetCommit(); got != "deadbeef" {
		t.Errorf("GetCommit() = %q, want deadbeef", got)
	}
}

func TestInfo(t *testing.T) {
	useMockGit(t, false)

	info := Info()
	for _, want := range []string{"tokenscope", "v0.3.0", "abc1234"} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() = %q, missing %q", info, want)
		}
	}
}
