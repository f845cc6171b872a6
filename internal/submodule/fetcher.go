// SPDX-License-Identifier: MPL-2.0

package submodule

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/bjoernbethge/infinibuild/internal/runner"
)

type (
	// Fetcher fetches every submodule of the project rooted at root, recursively.
	Fetcher interface {
		Fetch(ctx context.Context, root string) error
	}

	// CommandFetcher runs an external command, by default
	// "git submodule update --init --recursive".
	CommandFetcher struct {
		Runner  runner.Runner
		Command []string
	}

	// RepositoryFetcher initializes and updates submodules in-process.
	RepositoryFetcher struct{}
)

// DefaultFetchCommand is the command CommandFetcher runs when none is configured.
var DefaultFetchCommand = []string{"git", "submodule", "update", "--init", "--recursive"}

// NewCommandFetcher creates a fetcher running command through r.
func NewCommandFetcher(r runner.Runner, command []string) *CommandFetcher {
	if len(command) == 0 {
		command = DefaultFetchCommand
	}
	return &CommandFetcher{Runner: r, Command: command}
}

// Fetch implements Fetcher.
func (f *CommandFetcher) Fetch(ctx context.Context, root string) error {
	cmd := runner.Command{Argv: f.Command, Dir: root}
	return f.Runner.Run(ctx, cmd).Err(cmd.String())
}

// Fetch implements Fetcher.
func (RepositoryFetcher) Fetch(ctx context.Context, root string) error {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	subs, err := wt.Submodules()
	if err != nil {
		return fmt.Errorf("failed to list submodules: %w", err)
	}

	if err := subs.UpdateContext(ctx, &git.SubmoduleUpdateOptions{
		Init:              true,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	}); err != nil {
		return fmt.Errorf("failed to update submodules: %w", err)
	}
	return nil
}
