package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/hyperkit-recipe/internal/version"
)

// GitCheckout clones a branch for head builds.
type GitCheckout struct {
	Runner version.CommandRunner
}

// Checkout clones branch of repo into dest. dest must not exist or be empty.
// The clone keeps the branch history, which version resolution reads.
func (g *GitCheckout) Checkout(ctx context.Context, repo, branch, dest string) error {
	if repo == "" {
		return &FetchError{Source: "head", Operation: "checkout", Err: fmt.Errorf("repo is required"), Hint: "add 'repo: https://...' under head in the recipe"}
	}

	if entries, err := os.ReadDir(dest); err == nil && len(entries) > 0 {
		return &FetchError{Source: repo, Operation: "checkout", Err: fmt.Errorf("%s is not empty", dest)}
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return &FetchError{Source: repo, Operation: "checkout", Err: err}
	}

	runner := g.Runner
	if runner == nil {
		runner = version.ExecRunner{Env: []string{"GIT_TERMINAL_PROMPT=0"}}
	}

	argv := []string{"git", "clone", "--branch", branch, "--single-branch", "--", repo, dest}
	_, status, err := runner.Run(ctx, parent, argv)
	if err != nil {
		return &FetchError{Source: repo, Operation: "checkout", Err: err, Hint: "check that git is installed"}
	}
	if status != 0 {
		return &FetchError{
			Source:    repo,
			Operation: "checkout",
			Err:       fmt.Errorf("git clone exited with status %d", status),
			Hint:      fmt.Sprintf("check the repo URL, branch '%s', and authentication", branch),
		}
	}
	return nil
}
