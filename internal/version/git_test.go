package version

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

// fakeRunner returns canned output and records the invocation.
type fakeRunner struct {
	out    string
	status int
	err    error

	dir  string
	argv []string
}

func (f *fakeRunner) Run(_ context.Context, dir string, argv []string) ([]byte, int, error) {
	f.dir = dir
	f.argv = argv
	return []byte(f.out), f.status, f.err
}

func TestFromRepository(t *testing.T) {
	runner := &fakeRunner{out: "2017-04-25-a9c368b"}
	ref := RepositoryReference{WorkingCopy: "/src/hyperkit", Branch: "master"}

	p, err := FromRepository(context.Background(), runner, ref)
	if err != nil {
		t.Fatalf("FromRepository: %v", err)
	}
	if p.Version != "20170425" || p.Commit != "a9c368b" {
		t.Errorf("got (%q, %q), want (20170425, a9c368b)", p.Version, p.Commit)
	}

	if runner.dir != "/src/hyperkit" {
		t.Errorf("dir = %q", runner.dir)
	}
	want := []string{"git", "log", "-1", "--pretty=format:%cd-%h", "--date=short", "master"}
	if !reflect.DeepEqual(runner.argv, want) {
		t.Errorf("argv = %v, want %v", runner.argv, want)
	}
}

func TestFromRepositoryTrimsTrailingNewline(t *testing.T) {
	p, err := FromRepository(context.Background(), &fakeRunner{out: "2017-05-15-fa78d94\n"}, RepositoryReference{Branch: "master"})
	if err != nil {
		t.Fatalf("FromRepository: %v", err)
	}
	if p.Version != "20170515" || p.Commit != "fa78d94" {
		t.Errorf("got %+v", p)
	}
}

func TestFromRepositoryUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{"empty output", &fakeRunner{out: ""}},
		{"whitespace output", &fakeRunner{out: " \n"}},
		{"nonzero exit", &fakeRunner{out: "2017-04-25-a9c368b", status: 128}},
		{"runner failure", &fakeRunner{err: errors.New("exec: \"git\": executable file not found")}},
		{"no hash", &fakeRunner{out: "2017-04-25"}},
		{"extra field", &fakeRunner{out: "2017-04-25-a9c368b-dirty"}},
		{"empty hash", &fakeRunner{out: "2017-04-25-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRepository(context.Background(), tt.runner, RepositoryReference{WorkingCopy: "/src", Branch: "master"})
			if !errors.Is(err, ErrResolutionUnavailable) {
				t.Fatalf("expected ErrResolutionUnavailable, got %v", err)
			}
		})
	}
}

func TestFromRepositoryRejectsOptionBranch(t *testing.T) {
	runner := &fakeRunner{out: "2017-04-25-a9c368b"}
	ref := RepositoryReference{WorkingCopy: "/src/hyperkit", Branch: "--output=/tmp/owned"}

	_, err := FromRepository(context.Background(), runner, ref)
	if !errors.Is(err, ErrResolutionUnavailable) {
		t.Fatalf("expected ErrResolutionUnavailable, got %v", err)
	}
	if runner.argv != nil {
		t.Errorf("git must not run, got %v", runner.argv)
	}
}

func TestSplitDatedHash(t *testing.T) {
	tests := []struct {
		in   string
		want Pair
		ok   bool
	}{
		{"2017-04-25-a9c368b", Pair{"20170425", "a9c368b"}, true},
		{"2016-12-01-0000000", Pair{"20161201", "0000000"}, true},
		{"20170425-a9c368b", Pair{}, false},
		{"a9c368b", Pair{}, false},
	}

	for _, tt := range tests {
		got, ok := splitDatedHash(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("splitDatedHash(%q) = (%+v, %v), want (%+v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFromRepositoryWithLocalRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	workDir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = workDir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test.com",
			"GIT_AUTHOR_DATE=2017-04-25T12:00:00+0000", "GIT_COMMITTER_DATE=2017-04-25T12:00:00+0000",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %s: %v", args, out, err)
		}
	}

	run("init", "-b", "master")
	if err := os.WriteFile(filepath.Join(workDir, "Makefile"), []byte("GIT_VERSION := x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-m", "initial")

	p, err := FromRepository(context.Background(), ExecRunner{}, RepositoryReference{WorkingCopy: workDir, Branch: "master"})
	if err != nil {
		t.Fatalf("FromRepository: %v", err)
	}
	if p.Version != "20170425" {
		t.Errorf("version = %q, want 20170425", p.Version)
	}
	if len(p.Commit) < ShortCommitLen {
		t.Errorf("commit = %q, want abbreviated hash", p.Commit)
	}

	_, err = FromRepository(context.Background(), ExecRunner{}, RepositoryReference{WorkingCopy: workDir, Branch: "no-such-branch"})
	if !errors.Is(err, ErrResolutionUnavailable) {
		t.Errorf("expected ErrResolutionUnavailable for unknown branch, got %v", err)
	}
}

func TestExecRunnerExitStatus(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, status, err := ExecRunner{}.Run(context.Background(), t.TempDir(), []string{"sh", "-c", "printf hello; exit 3"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != 3 {
		t.Errorf("status = %d, want 3", status)
	}
	if string(out) != "hello" {
		t.Errorf("stdout = %q", out)
	}

	if _, _, err := (ExecRunner{}).Run(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty argv")
	}
}
