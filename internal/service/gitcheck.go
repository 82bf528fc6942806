package service

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/openscholar/reviewd/internal/errs"
)

// RepoChecker probes whether a repository address resolves to a clonable
// repository. Submission validation fails when it does not.
type RepoChecker interface {
	Check(ctx context.Context, repositoryURL string) error
}

// GitChecker shells out to `git ls-remote`, the same probe the submission
// form runs: it exercises the full clone handshake without fetching objects.
type GitChecker struct {
	Timeout time.Duration
}

// NewGitChecker constructs a checker with a bounded probe time.
func NewGitChecker() *GitChecker { return &GitChecker{Timeout: 30 * time.Second} }

// Check runs `git ls-remote` against the address with prompts disabled, so
// repositories requiring authentication fail instead of hanging.
func (g *GitChecker) Check(ctx context.Context, repositoryURL string) error {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, "git", "ls-remote", repositoryURL)
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: invalid Git repository address. Check that the repository can be cloned and that access doesn't require authentication", errs.ErrValidation)
	}
	return nil
}
