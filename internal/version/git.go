package version

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner runs a process in dir and reports its stdout and exit status.
// err is non-nil only when the process could not be run at all.
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string) (stdout []byte, exitStatus int, err error)
}

// ExecRunner implements CommandRunner with os/exec.
type ExecRunner struct {
	// Env is appended to the current environment.
	Env []string
	// Stdout, if set, also receives the process's standard output as it runs.
	Stdout io.Writer
	// Stderr receives the process's standard error. Nil discards it.
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, dir string, argv []string) ([]byte, int, error) {
	if len(argv) == 0 {
		return nil, -1, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.Env...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if r.Stdout != nil {
		cmd.Stdout = io.MultiWriter(&stdout, r.Stdout)
	}
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), exitErr.ExitCode(), nil
		}
		return stdout.Bytes(), -1, err
	}
	return stdout.Bytes(), 0, nil
}

// RepositoryReference points at an existing working copy and the branch
// whose newest commit identifies the build.
type RepositoryReference struct {
	WorkingCopy string
	Branch      string
}

// HistoryQuery returns the git invocation that prints "<YYYY-MM-DD>-<hash>"
// for the newest commit on branch.
func HistoryQuery(branch string) []string {
	return []string{"git", "log", "-1", "--pretty=format:%cd-%h", "--date=short", branch}
}

// FromRepository resolves the identity of the newest commit on ref.Branch.
func FromRepository(ctx context.Context, runner CommandRunner, ref RepositoryReference) (Pair, error) {
	if runner == nil {
		runner = ExecRunner{Env: []string{"GIT_TERMINAL_PROMPT=0"}}
	}

	// git log would read a leading dash as an option.
	if strings.HasPrefix(ref.Branch, "-") {
		return Pair{}, unavailable(ref, fmt.Errorf("%w: branch %q looks like an option", ErrResolutionUnavailable, ref.Branch))
	}

	out, status, err := runner.Run(ctx, ref.WorkingCopy, HistoryQuery(ref.Branch))
	if err != nil {
		return Pair{}, unavailable(ref, fmt.Errorf("%w: %v", ErrResolutionUnavailable, err))
	}
	if status != 0 {
		return Pair{}, unavailable(ref, fmt.Errorf("%w: git log exited with status %d", ErrResolutionUnavailable, status))
	}

	line := strings.TrimSpace(string(out))
	if line == "" {
		return Pair{}, unavailable(ref, fmt.Errorf("%w: git log printed nothing", ErrResolutionUnavailable))
	}

	p, ok := splitDatedHash(line)
	if !ok {
		return Pair{}, unavailable(ref, fmt.Errorf("%w: unexpected git log output %q", ErrResolutionUnavailable, line))
	}
	return p, nil
}

// splitDatedHash turns "2017-04-25-a9c368b" into ("20170425", "a9c368b").
// The first split keeps at most three fields, which are joined back without
// separators and split again; released version strings depend on this exact
// behavior.
func splitDatedHash(s string) (Pair, bool) {
	merged := strings.Join(strings.SplitN(s, "-", 3), "")
	fields := strings.Split(merged, "-")
	if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
		return Pair{}, false
	}
	return Pair{Version: fields[0], Commit: fields[1]}, true
}

func unavailable(ref RepositoryReference, err error) error {
	return &ResolveError{
		Strategy:  "git",
		Operation: "history query",
		Err:       err,
		Hint:      fmt.Sprintf("check that %s is a git checkout with branch '%s'", ref.WorkingCopy, ref.Branch),
	}
}
